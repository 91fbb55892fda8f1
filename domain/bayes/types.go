package bayes

import (
	"betashrink/domain/core"
)

// Prior holds the population-level Beta shape parameters. It is immutable
// for a run; engines receive it at construction rather than re-estimating it
// (hyperparameter fitting is an external collaborator).
type Prior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Validate checks the positivity constraint on both shape parameters.
func (p Prior) Validate() error {
	if !(p.Alpha > 0) || !(p.Beta > 0) {
		return core.NewInvalidPriorError(p.Alpha, p.Beta)
	}
	return nil
}

// Mean returns the prior mean success probability.
func (p Prior) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// Observation is one entity's evidence: s successes out of n binary trials.
// Zero trials is legal; such an entity contributes no evidence and its
// posterior equals the prior.
type Observation struct {
	Entity    core.EntityID `json:"entity"`
	Successes int64         `json:"successes"`
	Trials    int64         `json:"trials"`
}

// Validate checks the n >= s >= 0 invariant.
func (o Observation) Validate() error {
	if o.Successes < 0 || o.Trials < 0 || o.Successes > o.Trials {
		return core.NewInvalidCountsError(o.Entity.String(), o.Successes, o.Trials)
	}
	return nil
}

// Posterior holds one entity's updated Beta shape parameters.
type Posterior struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
}

// Mean returns the posterior mean, the shrinkage point estimate: the raw
// rate pulled toward the prior mean in proportion to how little entity
// evidence exists.
func (p Posterior) Mean() float64 {
	return p.Alpha / (p.Alpha + p.Beta)
}

// Direction selects which side of the decision threshold counts as the
// error condition for an entity.
type Direction string

const (
	// DirectionBelow treats "true rate below the threshold" as the error:
	// PEP = P(rate < t | posterior) = I_t(a1, b1).
	DirectionBelow Direction = "below"
	// DirectionAbove treats "true rate above the threshold" as the error:
	// PEP = P(rate > t | posterior) = 1 - I_t(a1, b1).
	DirectionAbove Direction = "above"
)

// Validate checks the direction is one of the known values.
func (d Direction) Validate() error {
	switch d {
	case DirectionBelow, DirectionAbove:
		return nil
	}
	return core.ErrInvalidDirection
}
