package bayes

import (
	"fmt"

	"betashrink/domain/core"
	"betashrink/ports"
)

// ErrorProbability computes the posterior error probability (PEP) of one
// entity: the posterior mass on the "does not qualify" side of the decision
// threshold. DirectionBelow evaluates the Beta CDF at t, DirectionAbove its
// complement. The CDF itself comes through the IncompleteBeta port so the
// numerically delicate evaluation can be swapped and cross-checked
// independently of this logic.
func ErrorProbability(eval ports.IncompleteBeta, post Posterior, threshold float64, direction Direction) (float64, error) {
	if !(post.Alpha > 0) || !(post.Beta > 0) {
		return 0, core.NewInvalidPriorError(post.Alpha, post.Beta)
	}
	if !(threshold > 0 && threshold < 1) {
		return 0, fmt.Errorf("%w: got %g", core.ErrInvalidThreshold, threshold)
	}
	if err := direction.Validate(); err != nil {
		return 0, err
	}

	cdf, err := eval.Evaluate(threshold, post.Alpha, post.Beta)
	if err != nil {
		return 0, err
	}

	pep := cdf
	if direction == DirectionAbove {
		pep = 1 - cdf
	}
	// Guard against sign noise from the complement.
	if pep < 0 {
		pep = 0
	}
	if pep > 1 {
		pep = 1
	}
	return pep, nil
}
