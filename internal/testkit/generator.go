package testkit

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"betashrink/domain/bayes"
	"betashrink/domain/core"
)

// PopulationConfig configures the synthetic population generator
type PopulationConfig struct {
	Entities  int         `json:"entities"`
	Prior     bayes.Prior `json:"prior"`      // population Beta the true rates are drawn from
	MinTrials int         `json:"min_trials"` // inclusive
	MaxTrials int         `json:"max_trials"` // inclusive
	Seed      uint64      `json:"seed"`
	OpaqueIDs bool        `json:"opaque_ids"` // UUID entity IDs instead of deterministic ones
}

// DefaultPopulationConfig returns sensible defaults for synthetic populations
func DefaultPopulationConfig() PopulationConfig {
	return PopulationConfig{
		Entities:  500,
		Prior:     bayes.Prior{Alpha: 10, Beta: 20},
		MinTrials: 5,
		MaxTrials: 2000,
		Seed:      42,
	}
}

// PopulationGenerator draws synthetic beta-binomial populations: each
// entity's true rate is sampled from the configured prior, then its
// successes from a binomial with that rate. Same seed, same population.
type PopulationGenerator struct {
	config PopulationConfig
	src    *rand.PCG
	rng    *rand.Rand
}

// NewPopulationGenerator creates a seeded population generator
func NewPopulationGenerator(config PopulationConfig) (*PopulationGenerator, error) {
	if config.Entities < 0 {
		return nil, fmt.Errorf("%w: entity count must be non-negative", core.ErrInvalidInput)
	}
	if err := config.Prior.Validate(); err != nil {
		return nil, err
	}
	if config.MinTrials < 0 || config.MaxTrials < config.MinTrials {
		return nil, fmt.Errorf("%w: trial bounds must satisfy 0 <= min <= max", core.ErrInvalidInput)
	}
	src := rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15)
	return &PopulationGenerator{
		config: config,
		src:    src,
		rng:    rand.New(src),
	}, nil
}

// Generate draws one full population of observations.
func (g *PopulationGenerator) Generate() []bayes.Observation {
	beta := distuv.Beta{Alpha: g.config.Prior.Alpha, Beta: g.config.Prior.Beta, Src: g.src}

	observations := make([]bayes.Observation, g.config.Entities)
	for i := range observations {
		rate := beta.Rand()
		trials := g.config.MinTrials
		if span := g.config.MaxTrials - g.config.MinTrials; span > 0 {
			trials += g.rng.IntN(span + 1)
		}

		var successes int64
		if trials > 0 {
			bin := distuv.Binomial{N: float64(trials), P: rate, Src: g.src}
			successes = int64(bin.Rand())
		}

		observations[i] = bayes.Observation{
			Entity:    g.entityID(i),
			Successes: successes,
			Trials:    int64(trials),
		}
	}
	return observations
}

func (g *PopulationGenerator) entityID(i int) core.EntityID {
	if g.config.OpaqueIDs {
		return core.NewEntityID()
	}
	return core.EntityID(fmt.Sprintf("entity-%05d", i))
}
