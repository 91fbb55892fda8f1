package fdr

import (
	"math/rand/v2"
	"testing"

	"betashrink/domain/core"
)

func TestSelect_Maximality(t *testing.T) {
	ranked, err := Aggregate(entriesFromPEPs([]float64{0.01, 0.02, 0.10, 0.40, 0.90}))
	if err != nil {
		t.Fatal(err)
	}
	// q-values: 0.01, 0.015, 0.04333, 0.1325, 0.286

	cases := []struct {
		budget float64
		want   int
	}{
		{0.005, 0},
		{0.012, 1},
		{0.02, 2},
		{0.05, 3},
		{0.2, 4},
		{0.5, 5},
	}
	for _, tc := range cases {
		k, err := Select(ranked, tc.budget)
		if err != nil {
			t.Fatalf("budget %v: %v", tc.budget, err)
		}
		if k != tc.want {
			t.Errorf("budget %v: got k=%d, want %d", tc.budget, k, tc.want)
		}
	}
}

func TestSelect_MaximalityProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for trial := 0; trial < 50; trial++ {
		peps := make([]float64, 1+rng.IntN(100))
		for i := range peps {
			peps[i] = rng.Float64()
		}
		ranked, err := Aggregate(entriesFromPEPs(peps))
		if err != nil {
			t.Fatal(err)
		}

		budget := rng.Float64()*0.98 + 0.01
		k, err := Select(ranked, budget)
		if err != nil {
			t.Fatal(err)
		}

		// Everything selected stays under budget.
		if k > 0 && !(ranked[k-1].QValue < budget) {
			t.Errorf("trial %d: qvalue[k*]=%v not under budget %v", trial, ranked[k-1].QValue, budget)
		}
		// k* is maximal: the next entry (if any) is at or over budget.
		if k < len(ranked) && ranked[k].QValue < budget {
			t.Errorf("trial %d: k*=%d not maximal, qvalue[k*+1]=%v < budget %v", trial, k, ranked[k].QValue, budget)
		}
	}
}

func TestSelect_Boundaries(t *testing.T) {
	// Single entity with pep 0 is included at any positive budget.
	zero, err := Aggregate([]Entry{{Entity: "zero", PEP: 0}})
	if err != nil {
		t.Fatal(err)
	}
	if k, _ := Select(zero, 0.0001); k != 1 {
		t.Errorf("pep 0 entity must be included at any positive budget, got k=%d", k)
	}

	// Single entity with pep 1 is excluded at any budget under 1.
	one, err := Aggregate([]Entry{{Entity: "one", PEP: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if k, _ := Select(one, 0.999); k != 0 {
		t.Errorf("pep 1 entity must be excluded at any budget < 1, got k=%d", k)
	}

	// Empty sequence selects nothing.
	if k, err := Select(nil, 0.05); err != nil || k != 0 {
		t.Errorf("empty sequence: got k=%d err=%v, want 0, nil", k, err)
	}
}

func TestSelect_RejectsDegenerateBudgets(t *testing.T) {
	ranked, _ := Aggregate(entriesFromPEPs([]float64{0.1}))
	for _, budget := range []float64{0, 1, -0.2, 1.7} {
		if _, err := Select(ranked, budget); !core.IsInvalidInput(err) {
			t.Errorf("budget %v: expected invalid input error, got %v", budget, err)
		}
	}
}
