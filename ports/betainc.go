package ports

// IncompleteBeta evaluates the regularized incomplete beta function
// I_x(a, b), the CDF of a Beta(a, b) distribution at x.
//
// Implementations must stay numerically stable across the shape parameter
// range produced by realistic trial counts (single digits through several
// thousands) and must return a distinguishable error when they cannot
// guarantee their precision bound, rather than a plausible-looking wrong
// value. Results of exactly 0 or 1 are reserved for x = 0 and x = 1.
type IncompleteBeta interface {
	// Evaluate returns I_x(a, b) for x in [0, 1] and a, b > 0.
	Evaluate(x, a, b float64) (float64, error)
}
