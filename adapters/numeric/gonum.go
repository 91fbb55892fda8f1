package numeric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"betashrink/domain/core"
)

// Gonum evaluates the regularized incomplete beta function through
// gonum's Beta distribution. It serves as a swap-in alternative to the
// continued-fraction evaluator and as the reference oracle the latter is
// cross-checked against in tests.
type Gonum struct{}

// NewGonum creates the gonum-backed evaluator.
func NewGonum() *Gonum {
	return &Gonum{}
}

// Evaluate returns I_x(a, b) as Beta(a, b).CDF(x).
func (g *Gonum) Evaluate(x, a, b float64) (float64, error) {
	if !(a > 0) || !(b > 0) {
		return 0, core.NewInvalidPriorError(a, b)
	}
	if math.IsNaN(x) || x < 0 || x > 1 {
		return 0, fmt.Errorf("%w: x=%v outside [0,1]", core.ErrInvalidInput, x)
	}
	dist := distuv.Beta{Alpha: a, Beta: b}
	v := dist.CDF(x)
	if math.IsNaN(v) {
		return 0, core.NewNumericInstabilityError("beta CDF returned NaN", a, b, x)
	}
	return v, nil
}
