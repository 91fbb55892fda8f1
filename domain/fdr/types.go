package fdr

import (
	"betashrink/domain/core"
)

// Entry is one entity's posterior error probability, as produced by the
// per-entity evaluation phase.
type Entry struct {
	Entity core.EntityID `json:"entity"`
	PEP    float64       `json:"pep"`
}

// Ranked is one entity's position in the ascending-PEP order together with
// its q-value: the mean PEP of all entities ranked at or above it. By
// linearity of expectation that mean is the expected false-discovery
// proportion of the candidate set ending at this rank.
type Ranked struct {
	Entity core.EntityID `json:"entity"`
	PEP    float64       `json:"pep"`
	Rank   int           `json:"rank"` // 1-based
	QValue float64       `json:"q_value"`
}
