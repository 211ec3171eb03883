package model

import (
	"math"
	"sort"
)

// Node is one node of a regression tree, stored flat so trees serialize to
// JSON without recursion. Leaf nodes carry Value; internal nodes route on
// Feature <= Threshold to Left, else Right.
type Node struct {
	Feature   int     `json:"f"`
	Threshold float64 `json:"t"`
	Left      int     `json:"l"`
	Right     int     `json:"r"`
	Value     float64 `json:"v"`
	Leaf      bool    `json:"leaf"`
}

// Tree is a CART regression tree grown by greedy variance reduction.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

type treeParams struct {
	maxDepth     int
	minLeafSize  int
	maxCandidates int
}

// fit grows the tree on the given rows. idx selects the sample (with
// repetition allowed, for bagging); nil means all rows.
func (t *Tree) fit(x [][]float64, y []float64, idx []int, p treeParams) {
	if idx == nil {
		idx = make([]int, len(x))
		for i := range x {
			idx[i] = i
		}
	}
	t.Nodes = t.Nodes[:0]
	t.grow(x, y, idx, 0, p)
}

// grow appends a subtree for idx and returns its root node index.
func (t *Tree) grow(x [][]float64, y []float64, idx []int, depth int, p treeParams) int {
	mean := meanAt(y, idx)
	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Leaf: true, Value: mean})

	if depth >= p.maxDepth || len(idx) < 2*p.minLeafSize || pureAt(y, idx) {
		return self
	}

	feat, thr, ok := bestSplit(x, y, idx, p)
	if !ok {
		return self
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < p.minLeafSize || len(right) < p.minLeafSize {
		return self
	}

	l := t.grow(x, y, left, depth+1, p)
	r := t.grow(x, y, right, depth+1, p)
	t.Nodes[self] = Node{Feature: feat, Threshold: thr, Left: l, Right: r}
	return self
}

// Predict routes one row to a leaf.
func (t *Tree) Predict(row []float64) float64 {
	if len(t.Nodes) == 0 {
		return 0
	}
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

// bestSplit scans all features for the split minimizing weighted variance.
func bestSplit(x [][]float64, y []float64, idx []int, p treeParams) (int, float64, bool) {
	bestScore := math.Inf(1)
	bestFeat, bestThr := -1, 0.0
	cols := len(x[idx[0]])

	vals := make([]float64, 0, len(idx))
	for f := 0; f < cols; f++ {
		vals = vals[:0]
		for _, i := range idx {
			vals = append(vals, x[i][f])
		}
		sort.Float64s(vals)

		for _, thr := range candidateThresholds(vals, p.maxCandidates) {
			var ln, rn int
			var lsum, rsum, lsq, rsq float64
			for _, i := range idx {
				v := y[i]
				if x[i][f] <= thr {
					ln++
					lsum += v
					lsq += v * v
				} else {
					rn++
					rsum += v
					rsq += v * v
				}
			}
			if ln < p.minLeafSize || rn < p.minLeafSize {
				continue
			}
			// sum of squared errors on both sides
			score := (lsq - lsum*lsum/float64(ln)) + (rsq - rsum*rsum/float64(rn))
			if score < bestScore {
				bestScore = score
				bestFeat = f
				bestThr = thr
			}
		}
	}
	return bestFeat, bestThr, bestFeat >= 0
}

// candidateThresholds returns midpoints between distinct sorted values,
// thinned to at most max candidates.
func candidateThresholds(sorted []float64, max int) []float64 {
	var mids []float64
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			mids = append(mids, (sorted[i]+sorted[i-1])/2)
		}
	}
	if max <= 0 || len(mids) <= max {
		return mids
	}
	step := float64(len(mids)) / float64(max)
	out := make([]float64, 0, max)
	for i := 0; i < max; i++ {
		out = append(out, mids[int(float64(i)*step)])
	}
	return out
}

func meanAt(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func pureAt(y []float64, idx []int) bool {
	for _, i := range idx[1:] {
		if y[i] != y[idx[0]] {
			return false
		}
	}
	return true
}

// RSquared is the coefficient of determination of preds against y.
func RSquared(y, preds []float64) float64 {
	if len(y) == 0 || len(y) != len(preds) {
		return 0
	}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, v := range y {
		d := v - preds[i]
		ssRes += d * d
		m := v - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
