package fdr

import (
	"fmt"
	"sort"

	"betashrink/domain/core"
)

// Select returns the maximal prefix length k of the rank-ordered sequence
// such that qvalue[k] < budget: the largest candidate set whose expected
// false-discovery proportion stays under budget. Returns 0 when even the
// single best entity exceeds the budget.
//
// A budget of exactly 0 or 1 is a degenerate policy and rejected rather
// than silently accepted.
func Select(ranked []Ranked, budget float64) (int, error) {
	if !(budget > 0 && budget < 1) {
		return 0, fmt.Errorf("%w: got %g", core.ErrInvalidBudget, budget)
	}
	// The q-value sequence is non-decreasing in rank, so the cut point is
	// the first rank at or over budget.
	return sort.Search(len(ranked), func(i int) bool {
		return ranked[i].QValue >= budget
	}), nil
}
