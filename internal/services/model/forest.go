package model

import (
	"fmt"
	"math/rand"
)

// ForestParams configures the bagged-tree ensemble.
type ForestParams struct {
	Trees       int   `json:"trees"`
	MaxDepth    int   `json:"max_depth"`
	MinLeafSize int   `json:"min_leaf_size"`
	Seed        int64 `json:"seed"`
}

// DefaultForestParams mirrors the 100-estimator configuration the pricing
// model was tuned with.
func DefaultForestParams() ForestParams {
	return ForestParams{Trees: 100, MaxDepth: 8, MinLeafSize: 2, Seed: 42}
}

// Forest is a bootstrap-aggregated ensemble of regression trees. It
// converges fast and is robust to feature scaling quirks; predictions are
// the mean over trees.
type Forest struct {
	Params ForestParams `json:"params"`
	Trees  []Tree       `json:"trees"`
}

// NewForest creates an unfitted forest.
func NewForest(p ForestParams) *Forest {
	if p.Trees <= 0 {
		p = DefaultForestParams()
	}
	return &Forest{Params: p}
}

// Fit trains the forest on standardized rows against targets.
func (f *Forest) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("forest fit: %d rows, %d targets", len(x), len(y))
	}
	rng := rand.New(rand.NewSource(f.Params.Seed))
	tp := treeParams{maxDepth: f.Params.MaxDepth, minLeafSize: f.Params.MinLeafSize, maxCandidates: 32}

	f.Trees = make([]Tree, f.Params.Trees)
	n := len(x)
	for t := range f.Trees {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees[t].fit(x, y, idx, tp)
	}
	return nil
}

// Predict returns the mean prediction across all trees.
func (f *Forest) Predict(row []float64) float64 {
	if len(f.Trees) == 0 {
		return 0
	}
	sum := 0.0
	for i := range f.Trees {
		sum += f.Trees[i].Predict(row)
	}
	return sum / float64(len(f.Trees))
}

// Score computes training-set R-squared.
func (f *Forest) Score(x [][]float64, y []float64) float64 {
	preds := make([]float64, len(x))
	for i, r := range x {
		preds[i] = f.Predict(r)
	}
	return RSquared(y, preds)
}
