package numeric

import (
	"fmt"
	"math"

	"betashrink/domain/core"
)

const (
	// cfMaxIter bounds the continued-fraction iteration count. The fraction
	// converges in a few dozen terms across the shape range produced by
	// realistic trial counts; hitting the bound means the precision target
	// cannot be guaranteed.
	cfMaxIter = 500
	// cfEpsilon is the relative convergence target per Lentz step.
	cfEpsilon = 1e-14
	// cfTiny replaces zero denominators in the modified Lentz recurrence.
	cfTiny = 1e-300
)

// ContinuedFraction evaluates the regularized incomplete beta function with
// the modified Lentz continued fraction and a log-space prefactor. A naive
// series sum loses precision or diverges once the shape parameters grow with
// trial counts; the continued fraction stays stable from single-digit to
// several-thousand-scale shapes.
type ContinuedFraction struct{}

// NewContinuedFraction creates the continued-fraction evaluator.
func NewContinuedFraction() *ContinuedFraction {
	return &ContinuedFraction{}
}

// Evaluate returns I_x(a, b).
//
// The fraction is only applied on the rapidly-converging side of the
// distribution, x < (a+1)/(a+b+2); the other side goes through the symmetry
// I_x(a,b) = 1 - I_{1-x}(b,a). Exact 0 and 1 are returned only for x = 0
// and x = 1. When the log-space prefactor underflows, or the fraction fails
// to converge within its iteration budget, the evaluator reports the
// instability instead of returning a plausible wrong number.
func (cf *ContinuedFraction) Evaluate(x, a, b float64) (float64, error) {
	if !(a > 0) || !(b > 0) {
		return 0, core.NewInvalidPriorError(a, b)
	}
	if math.IsNaN(x) || x < 0 || x > 1 {
		return 0, fmt.Errorf("%w: x=%v outside [0,1]", core.ErrInvalidInput, x)
	}
	if x == 0 {
		return 0, nil
	}
	if x == 1 {
		return 1, nil
	}

	// Prefactor x^a (1-x)^b / (a B(a,b)) assembled in log space; the direct
	// product overflows Gamma well before the shapes reach trial-count scale.
	lga, _ := math.Lgamma(a)
	lgb, _ := math.Lgamma(b)
	lgab, _ := math.Lgamma(a + b)
	logFront := lgab - lga - lgb + a*math.Log(x) + b*math.Log1p(-x)
	front := math.Exp(logFront)
	if front == 0 {
		// The true tail mass is below the representable range; returning 0
		// here would be an underflow artifact, not a distributional limit.
		return 0, core.NewNumericInstabilityError("prefactor underflow", a, b, x)
	}

	if x < (a+1)/(a+b+2) {
		h, err := lentz(x, a, b)
		if err != nil {
			return 0, err
		}
		return clamp01(front * h / a), nil
	}
	h, err := lentz(1-x, b, a)
	if err != nil {
		return 0, err
	}
	return clamp01(1 - front*h/b), nil
}

// lentz runs the modified Lentz evaluation of the incomplete-beta continued
// fraction (Numerical Recipes form, even/odd term pairs per iteration).
func lentz(x, a, b float64) (float64, error) {
	qab := a + b
	qap := a + 1
	qam := a - 1

	c := 1.0
	d := 1 - qab*x/qap
	if math.Abs(d) < cfTiny {
		d = cfTiny
	}
	d = 1 / d
	h := d

	for m := 1; m <= cfMaxIter; m++ {
		fm := float64(m)
		m2 := 2 * fm

		// Even term.
		aa := fm * (b - fm) * x / ((qam + m2) * (a + m2))
		d = 1 + aa*d
		if math.Abs(d) < cfTiny {
			d = cfTiny
		}
		c = 1 + aa/c
		if math.Abs(c) < cfTiny {
			c = cfTiny
		}
		d = 1 / d
		h *= d * c

		// Odd term.
		aa = -(a + fm) * (qab + fm) * x / ((a + m2) * (qap + m2))
		d = 1 + aa*d
		if math.Abs(d) < cfTiny {
			d = cfTiny
		}
		c = 1 + aa/c
		if math.Abs(c) < cfTiny {
			c = cfTiny
		}
		d = 1 / d
		del := d * c
		h *= del

		if math.Abs(del-1) < cfEpsilon {
			return h, nil
		}
	}
	return 0, core.NewNumericInstabilityError("continued fraction did not converge", a, b, x)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
