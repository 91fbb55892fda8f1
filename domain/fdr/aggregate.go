package fdr

import (
	"fmt"
	"math"
	"sort"

	"betashrink/domain/core"
)

// Aggregate stable-sorts entries ascending by PEP, assigns 1-based ranks and
// computes each rank's q-value as the prefix mean of the sorted PEPs.
// Because the input to the prefix mean is sorted ascending, the q-value
// sequence is non-decreasing in rank.
//
// Empty input returns an empty slice and no error; an empty batch is a
// benign boundary, not a failure. Entries with equal PEP keep their input
// order (stable sort); which tied entity lands at a rank boundary is an
// explicit don't-care, since q-values are invariant under permutation
// within a tie.
func Aggregate(entries []Entry) ([]Ranked, error) {
	for _, e := range entries {
		if math.IsNaN(e.PEP) || e.PEP < 0 || e.PEP > 1 {
			return nil, fmt.Errorf("%w: entity %s has PEP %v outside [0,1]",
				core.ErrInvalidInput, e.Entity, e.PEP)
		}
	}

	ranked := make([]Ranked, len(entries))
	for i, e := range entries {
		ranked[i] = Ranked{Entity: e.Entity, PEP: e.PEP}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PEP < ranked[j].PEP
	})

	sum := 0.0
	for i := range ranked {
		sum += ranked[i].PEP
		ranked[i].Rank = i + 1
		q := sum / float64(i+1)
		// Clamp against accumulated rounding at the top of the range.
		if q > 1 {
			q = 1
		}
		ranked[i].QValue = q
	}
	return ranked, nil
}
