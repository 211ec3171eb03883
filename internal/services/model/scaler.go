package model

import (
	"fmt"
	"math"
)

// Scaler standardizes features to zero mean and unit variance. It must be
// fitted and applied with the same feature ordering as the regressors.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Fit computes per-column mean and standard deviation.
func (s *Scaler) Fit(rows [][]float64) error {
	if len(rows) == 0 {
		return fmt.Errorf("scaler fit: no rows")
	}
	cols := len(rows[0])
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)

	for _, r := range rows {
		if len(r) != cols {
			return fmt.Errorf("scaler fit: ragged row, want %d cols got %d", cols, len(r))
		}
		for j, v := range r {
			s.Mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, r := range rows {
		for j, v := range r {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
		if s.Std[j] == 0 {
			// constant column: pass through unscaled
			s.Std[j] = 1
		}
	}
	return nil
}

// Transform standardizes one row in place-safe fashion.
func (s *Scaler) Transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}

// TransformAll standardizes a full matrix.
func (s *Scaler) TransformAll(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = s.Transform(r)
	}
	return out
}

// Fitted reports whether Fit has run.
func (s *Scaler) Fitted() bool { return len(s.Mean) > 0 }
