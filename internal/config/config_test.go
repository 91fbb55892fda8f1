package config

import (
	"testing"

	"betashrink/domain/core"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with defaults failed: %v", err)
	}
	if cfg.Prior.Alpha != 1.0 || cfg.Prior.Beta != 1.0 {
		t.Errorf("default prior should be uniform (1,1), got (%v,%v)", cfg.Prior.Alpha, cfg.Prior.Beta)
	}
	if cfg.Decision.Direction != "below" {
		t.Errorf("default direction should be below, got %q", cfg.Decision.Direction)
	}
	if cfg.Engine.Workers < 1 {
		t.Errorf("default worker count must be >= 1, got %d", cfg.Engine.Workers)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PRIOR_ALPHA", "10")
	t.Setenv("PRIOR_BETA", "20")
	t.Setenv("DECISION_THRESHOLD", "0.3")
	t.Setenv("DECISION_DIRECTION", "above")
	t.Setenv("FDR_BUDGET", "0.1")
	t.Setenv("ENGINE_WORKERS", "8")
	t.Setenv("ENGINE_STRICT", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Prior.Alpha != 10 || cfg.Prior.Beta != 20 {
		t.Errorf("prior: got (%v,%v)", cfg.Prior.Alpha, cfg.Prior.Beta)
	}
	if cfg.Decision.Threshold != 0.3 || cfg.Decision.Direction != "above" || cfg.Decision.Budget != 0.1 {
		t.Errorf("decision: got %+v", cfg.Decision)
	}
	if cfg.Engine.Workers != 8 || !cfg.Engine.Strict {
		t.Errorf("engine: got %+v", cfg.Engine)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"non-positive prior":  {"PRIOR_ALPHA", "-1"},
		"threshold at bound":  {"DECISION_THRESHOLD", "1"},
		"unknown direction":   {"DECISION_DIRECTION", "sideways"},
		"degenerate budget":   {"FDR_BUDGET", "0"},
		"zero workers":        {"ENGINE_WORKERS", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			if _, err := Load(); !core.IsInvalidInput(err) {
				t.Errorf("expected invalid input error, got %v", err)
			}
		})
	}
}
