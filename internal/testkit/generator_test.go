package testkit

import (
	"testing"

	"betashrink/domain/bayes"
	"betashrink/domain/core"
)

func TestPopulationGenerator_Deterministic(t *testing.T) {
	config := DefaultPopulationConfig()
	config.Entities = 200

	first, err := NewPopulationGenerator(config)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewPopulationGenerator(config)
	if err != nil {
		t.Fatal(err)
	}

	a, b := first.Generate(), second.Generate()
	if len(a) != config.Entities || len(b) != config.Entities {
		t.Fatalf("expected %d observations, got %d and %d", config.Entities, len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed must reproduce the population; diverged at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPopulationGenerator_ObservationsAreValid(t *testing.T) {
	config := DefaultPopulationConfig()
	config.Entities = 500
	config.MinTrials = 0
	config.MaxTrials = 100

	gen, err := NewPopulationGenerator(config)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[core.EntityID]struct{})
	for _, obs := range gen.Generate() {
		if err := obs.Validate(); err != nil {
			t.Errorf("generated invalid observation %+v: %v", obs, err)
		}
		if obs.Trials < int64(config.MinTrials) || obs.Trials > int64(config.MaxTrials) {
			t.Errorf("trials %d outside [%d,%d]", obs.Trials, config.MinTrials, config.MaxTrials)
		}
		if _, dup := seen[obs.Entity]; dup {
			t.Errorf("duplicate entity ID %s", obs.Entity)
		}
		seen[obs.Entity] = struct{}{}
	}
}

func TestPopulationGenerator_OpaqueIDs(t *testing.T) {
	config := DefaultPopulationConfig()
	config.Entities = 10
	config.OpaqueIDs = true

	gen, err := NewPopulationGenerator(config)
	if err != nil {
		t.Fatal(err)
	}
	for _, obs := range gen.Generate() {
		if obs.Entity == "" {
			t.Error("opaque IDs must not be empty")
		}
		if _, err := core.ParseEntityID(obs.Entity.String()); err != nil {
			t.Errorf("opaque ID %q failed to parse: %v", obs.Entity, err)
		}
	}
}

func TestNewPopulationGenerator_RejectsInvalidConfig(t *testing.T) {
	cases := []PopulationConfig{
		{Entities: -1, Prior: bayes.Prior{Alpha: 1, Beta: 1}},
		{Entities: 10, Prior: bayes.Prior{Alpha: 0, Beta: 1}},
		{Entities: 10, Prior: bayes.Prior{Alpha: 1, Beta: 1}, MinTrials: 5, MaxTrials: 2},
		{Entities: 10, Prior: bayes.Prior{Alpha: 1, Beta: 1}, MinTrials: -1, MaxTrials: 2},
	}
	for i, config := range cases {
		if _, err := NewPopulationGenerator(config); !core.IsInvalidInput(err) {
			t.Errorf("case %d: expected invalid input error, got %v", i, err)
		}
	}
}
