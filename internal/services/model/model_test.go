package model

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
)

func syntheticRows(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := rng.Float64() * 10
		b := rng.Float64() * 5
		c := rng.Float64()
		x[i] = []float64{a, b, c}
		y[i] = 2*a - 3*b + 4*c
	}
	return x, y
}

func TestScalerFitTransform(t *testing.T) {
	s := &Scaler{}
	x := [][]float64{{1, 10}, {3, 10}, {5, 10}}
	if err := s.Fit(x); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if s.Mean[0] != 3 {
		t.Fatalf("mean[0] = %v, want 3", s.Mean[0])
	}
	// Constant column must not divide by zero.
	if s.Std[1] != 1 {
		t.Fatalf("std[1] = %v, want 1 for constant column", s.Std[1])
	}
	row := s.Transform([]float64{3, 10})
	if row[0] != 0 || row[1] != 0 {
		t.Fatalf("centered row = %v, want zeros", row)
	}
}

func TestScalerFitEmpty(t *testing.T) {
	s := &Scaler{}
	if err := s.Fit(nil); err == nil {
		t.Fatal("expected error on empty fit")
	}
}

func TestTreePredictsConstantLeaf(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {3}}
	y := []float64{5, 5, 5, 5}
	var tr Tree
	tr.fit(x, y, nil, treeParams{maxDepth: 4, minLeafSize: 1, maxCandidates: 32})
	if got := tr.Predict([]float64{1.5}); got != 5 {
		t.Fatalf("predict = %v, want 5", got)
	}
}

func TestTreeSplitsOnThreshold(t *testing.T) {
	x := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}}
	y := []float64{0, 0, 0, 100, 100, 100}
	var tr Tree
	tr.fit(x, y, nil, treeParams{maxDepth: 4, minLeafSize: 1, maxCandidates: 32})
	if got := tr.Predict([]float64{2}); got != 0 {
		t.Fatalf("low side = %v, want 0", got)
	}
	if got := tr.Predict([]float64{11}); got != 100 {
		t.Fatalf("high side = %v, want 100", got)
	}
}

func TestForestDeterministicForSeed(t *testing.T) {
	x, y := syntheticRows(200, 7)

	a := NewForest(ForestParams{Trees: 20, MaxDepth: 6, MinLeafSize: 2, Seed: 42})
	b := NewForest(ForestParams{Trees: 20, MaxDepth: 6, MinLeafSize: 2, Seed: 42})
	if err := a.Fit(x, y); err != nil {
		t.Fatalf("fit a: %v", err)
	}
	if err := b.Fit(x, y); err != nil {
		t.Fatalf("fit b: %v", err)
	}
	for i := 0; i < 20; i++ {
		probe := []float64{float64(i) / 2, float64(i) / 4, 0.5}
		if pa, pb := a.Predict(probe), b.Predict(probe); pa != pb {
			t.Fatalf("seeded forests disagree at probe %d: %v vs %v", i, pa, pb)
		}
	}
}

func TestForestFitsLinearTarget(t *testing.T) {
	x, y := syntheticRows(400, 11)
	f := NewForest(ForestParams{Trees: 40, MaxDepth: 8, MinLeafSize: 2, Seed: 42})
	if err := f.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if r2 := f.Score(x, y); r2 < 0.85 {
		t.Fatalf("forest r2 = %v, want >= 0.85", r2)
	}
}

func TestBoostedBeatsMeanBaseline(t *testing.T) {
	x, y := syntheticRows(400, 13)
	b := NewBoosted(DefaultBoostedParams())
	if err := b.Fit(x, y); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if r2 := b.Score(x, y); r2 < 0.9 {
		t.Fatalf("boosted r2 = %v, want >= 0.9", r2)
	}
}

func TestBoostedFitEmpty(t *testing.T) {
	b := NewBoosted(DefaultBoostedParams())
	if err := b.Fit(nil, nil); err == nil {
		t.Fatal("expected error on empty fit")
	}
}

func TestModelsRoundTripJSON(t *testing.T) {
	x, y := syntheticRows(100, 3)

	f := NewForest(ForestParams{Trees: 5, MaxDepth: 4, MinLeafSize: 2, Seed: 1})
	if err := f.Fit(x, y); err != nil {
		t.Fatalf("fit forest: %v", err)
	}
	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var f2 Forest
	if err := json.Unmarshal(raw, &f2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	probe := []float64{4, 2, 0.3}
	if math.Abs(f.Predict(probe)-f2.Predict(probe)) > 1e-12 {
		t.Fatalf("forest round trip changed prediction")
	}

	b := NewBoosted(BoostedParams{Rounds: 10, MaxDepth: 3, MinLeafSize: 2, LearningRate: 0.1})
	if err := b.Fit(x, y); err != nil {
		t.Fatalf("fit boosted: %v", err)
	}
	raw, err = json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var b2 Boosted
	if err := json.Unmarshal(raw, &b2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if math.Abs(b.Predict(probe)-b2.Predict(probe)) > 1e-12 {
		t.Fatalf("boosted round trip changed prediction")
	}
}
