package app

import (
	"context"
	"fmt"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"betashrink/domain/bayes"
	"betashrink/domain/core"
	"betashrink/domain/fdr"
	"betashrink/internal"
	"betashrink/internal/config"
	"betashrink/ports"
)

// Engine runs the full classification pipeline: conjugate update and PEP
// evaluation per entity (parallel), then the global rank-and-aggregate pass
// producing q-values. All configuration is fixed at construction, so
// independent engines with different priors or thresholds can run
// concurrently without interference.
type Engine struct {
	prior     bayes.Prior
	threshold float64
	direction bayes.Direction
	eval      ports.IncompleteBeta
	workers   int64
	strict    bool
	logger    *internal.Logger
}

// Options holds optional engine settings
type Options struct {
	Workers int  // parallel workers for the per-entity phase; defaults to NumCPU
	Strict  bool // fail the whole batch on the first invalid record
	Logger  *internal.Logger
}

// NewEngine creates a classification engine with a fixed prior, decision
// threshold and direction, and incomplete-beta evaluator.
func NewEngine(prior bayes.Prior, threshold float64, direction bayes.Direction, eval ports.IncompleteBeta, opts Options) (*Engine, error) {
	if err := prior.Validate(); err != nil {
		return nil, err
	}
	if !(threshold > 0 && threshold < 1) {
		return nil, fmt.Errorf("%w: got %g", core.ErrInvalidThreshold, threshold)
	}
	if err := direction.Validate(); err != nil {
		return nil, err
	}
	if eval == nil {
		return nil, fmt.Errorf("%w: incomplete beta evaluator is required", core.ErrInvalidInput)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	return &Engine{
		prior:     prior,
		threshold: threshold,
		direction: direction,
		eval:      eval,
		workers:   int64(workers),
		strict:    opts.Strict,
		logger:    logger,
	}, nil
}

// NewEngineFromConfig builds an engine from environment-driven configuration.
func NewEngineFromConfig(cfg *config.Config, eval ports.IncompleteBeta) (*Engine, error) {
	return NewEngine(
		bayes.Prior{Alpha: cfg.Prior.Alpha, Beta: cfg.Prior.Beta},
		cfg.Decision.Threshold,
		bayes.Direction(cfg.Decision.Direction),
		eval,
		Options{Workers: cfg.Engine.Workers, Strict: cfg.Engine.Strict},
	)
}

// EntityOutcome is one entity's full pipeline output, in rank order.
type EntityOutcome struct {
	Entity        core.EntityID `json:"entity"`
	Successes     int64         `json:"successes"`
	Trials        int64         `json:"trials"`
	PointEstimate float64       `json:"point_estimate"` // shrunken posterior mean
	PEP           float64       `json:"pep"`
	Rank          int           `json:"rank"` // 1-based ascending-PEP rank
	QValue        float64       `json:"q_value"`
}

// EntityFailure records one entity that could not be analyzed. The rest of
// the batch proceeds; the caller decides whether to skip or flag.
type EntityFailure struct {
	Entity core.EntityID `json:"entity"`
	Reason string        `json:"reason"`
	Err    error         `json:"-"`
}

// BatchSummary holds descriptive statistics of a completed run for
// downstream reporting consumers.
type BatchSummary struct {
	Analyzed     int     `json:"analyzed"`
	Failed       int     `json:"failed"`
	MeanPEP      float64 `json:"mean_pep"`
	MedianPEP    float64 `json:"median_pep"`
	P25PEP       float64 `json:"p25_pep"`
	P75PEP       float64 `json:"p75_pep"`
	MeanEstimate float64 `json:"mean_estimate"`
}

// RunResult is the output of one pipeline invocation.
type RunResult struct {
	Outcomes []EntityOutcome `json:"outcomes"` // rank order, ascending PEP
	Failures []EntityFailure `json:"failures,omitempty"`
	Summary  BatchSummary    `json:"summary"`
}

type entitySlot struct {
	pep float64
	est float64
	err error
}

// Run executes the pipeline over a batch of observations. Invalid records
// are reported in RunResult.Failures and excluded without aborting the rest
// of the batch (strict mode fails fast instead). The per-entity phase fans
// out across a bounded worker pool; the sort-and-scan aggregation runs after
// an explicit join barrier. Output is deterministic regardless of worker
// count: results land in index-addressed slots and ties keep input order.
func (e *Engine) Run(ctx context.Context, observations []bayes.Observation) (*RunResult, error) {
	valid, failures, err := e.validate(observations)
	if err != nil {
		return nil, err
	}

	// Parallel per-entity phase. Each entity is independent; a weighted
	// semaphore bounds concurrency and its full re-acquisition is the join
	// barrier before aggregation.
	slots := make([]entitySlot, len(valid))
	sem := semaphore.NewWeighted(e.workers)
	for i := range valid {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func(i int) {
			defer sem.Release(1)
			slots[i] = e.evaluateOne(valid[i])
		}(i)
	}
	if err := sem.Acquire(ctx, e.workers); err != nil {
		return nil, err
	}
	sem.Release(e.workers)

	// Collect per-entity results, preserving input order among survivors so
	// the aggregator's tie-break stays reproducible.
	entries := make([]fdr.Entry, 0, len(valid))
	meta := make(map[core.EntityID]bayes.Observation, len(valid))
	ests := make(map[core.EntityID]float64, len(valid))
	for i, obs := range valid {
		if slots[i].err != nil {
			if e.strict {
				return nil, fmt.Errorf("entity %s: %w", obs.Entity, slots[i].err)
			}
			e.logger.Warn("entity %s excluded: %v", obs.Entity, slots[i].err)
			failures = append(failures, EntityFailure{
				Entity: obs.Entity,
				Reason: slots[i].err.Error(),
				Err:    slots[i].err,
			})
			continue
		}
		entries = append(entries, fdr.Entry{Entity: obs.Entity, PEP: slots[i].pep})
		meta[obs.Entity] = obs
		ests[obs.Entity] = slots[i].est
	}

	ranked, err := fdr.Aggregate(entries)
	if err != nil {
		return nil, err
	}

	outcomes := make([]EntityOutcome, len(ranked))
	for i, r := range ranked {
		obs := meta[r.Entity]
		outcomes[i] = EntityOutcome{
			Entity:        r.Entity,
			Successes:     obs.Successes,
			Trials:        obs.Trials,
			PointEstimate: ests[r.Entity],
			PEP:           r.PEP,
			Rank:          r.Rank,
			QValue:        r.QValue,
		}
	}

	result := &RunResult{
		Outcomes: outcomes,
		Failures: failures,
		Summary:  e.summarize(outcomes, len(failures)),
	}
	e.logger.Info("run complete: %d analyzed, %d failed", len(outcomes), len(failures))
	return result, nil
}

// SelectUnderBudget returns the maximal rank prefix of a completed run whose
// q-value stays under the FDR budget.
func (e *Engine) SelectUnderBudget(result *RunResult, budget float64) ([]EntityOutcome, error) {
	ranked := make([]fdr.Ranked, len(result.Outcomes))
	for i, o := range result.Outcomes {
		ranked[i] = fdr.Ranked{Entity: o.Entity, PEP: o.PEP, Rank: o.Rank, QValue: o.QValue}
	}
	k, err := fdr.Select(ranked, budget)
	if err != nil {
		return nil, err
	}
	return result.Outcomes[:k], nil
}

// validate splits the batch into analyzable records and validation failures.
// Duplicate entity IDs invalidate the later record; the identifier is the
// join key for downstream consumers and must stay unique.
func (e *Engine) validate(observations []bayes.Observation) ([]bayes.Observation, []EntityFailure, error) {
	valid := make([]bayes.Observation, 0, len(observations))
	var failures []EntityFailure
	seen := make(map[core.EntityID]struct{}, len(observations))

	for _, obs := range observations {
		var verr error
		if _, dup := seen[obs.Entity]; dup {
			verr = fmt.Errorf("%w: duplicate entity ID %s", core.ErrInvalidInput, obs.Entity)
		} else {
			verr = obs.Validate()
		}
		if verr != nil {
			if e.strict {
				return nil, nil, verr
			}
			e.logger.Warn("entity %s excluded: %v", obs.Entity, verr)
			failures = append(failures, EntityFailure{Entity: obs.Entity, Reason: verr.Error(), Err: verr})
			continue
		}
		seen[obs.Entity] = struct{}{}
		valid = append(valid, obs)
	}
	return valid, failures, nil
}

func (e *Engine) evaluateOne(obs bayes.Observation) entitySlot {
	post, err := bayes.UpdateOne(e.prior, obs)
	if err != nil {
		return entitySlot{err: err}
	}
	pep, err := bayes.ErrorProbability(e.eval, post, e.threshold, e.direction)
	if err != nil {
		return entitySlot{err: err}
	}
	return entitySlot{pep: pep, est: post.Mean()}
}

func (e *Engine) summarize(outcomes []EntityOutcome, failed int) BatchSummary {
	summary := BatchSummary{Analyzed: len(outcomes), Failed: failed}
	if len(outcomes) == 0 {
		return summary
	}

	peps := make([]float64, len(outcomes))
	estimates := make([]float64, len(outcomes))
	for i, o := range outcomes {
		peps[i] = o.PEP
		estimates[i] = o.PointEstimate
	}

	summary.MeanPEP, _ = stats.Mean(peps)
	summary.MedianPEP, _ = stats.Median(peps)
	summary.P25PEP, _ = stats.Percentile(peps, 25)
	summary.P75PEP, _ = stats.Percentile(peps, 75)
	summary.MeanEstimate, _ = stats.Mean(estimates)
	return summary
}
