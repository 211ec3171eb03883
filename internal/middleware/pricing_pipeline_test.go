package middleware

import (
	"context"
	"fmt"
	"testing"

	"ShelfPrice/internal/domain/models"
)

type fakeProc struct {
	calls int
	fail  bool
}

func (f *fakeProc) Process(ctx context.Context, s *models.ProductSnapshot) error {
	f.calls++
	if f.fail {
		return fmt.Errorf("downstream down")
	}
	return nil
}

type nopMetrics struct {
	errors map[string]int
}

func newNopMetrics() *nopMetrics { return &nopMetrics{errors: make(map[string]int)} }

func (m *nopMetrics) RecordRecommendation(mode, category string) {}

func (m *nopMetrics) RecordError(kind string) { m.errors[kind]++ }

func (m *nopMetrics) RecordRecommendedPrice(productID string, price float64) {}

func (m *nopMetrics) RecordLatency(op string, seconds float64) {}

func snap(id string, price float64, stock int) *models.ProductSnapshot {
	return &models.ProductSnapshot{ProductID: id, CurrentPrice: price, StockLeft: stock}
}

func TestProcessForwardsValidSnapshot(t *testing.T) {
	proc := &fakeProc{}
	p := NewPricingPipeline(proc, newNopMetrics())
	if err := p.Process(context.Background(), snap("p1", 4.50, 30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if proc.calls != 1 {
		t.Fatalf("processor calls = %d, want 1", proc.calls)
	}
}

func TestProcessRejectsInvalidSnapshot(t *testing.T) {
	proc := &fakeProc{}
	m := newNopMetrics()
	p := NewPricingPipeline(proc, m)

	cases := []*models.ProductSnapshot{
		nil,
		snap("", 4.50, 30),
		snap("p1", 0, 30),
		snap("p1", 4.50, -1),
	}
	for i, s := range cases {
		if err := p.Process(context.Background(), s); err == nil {
			t.Fatalf("case %d: want validation error", i)
		}
	}
	if proc.calls != 0 {
		t.Fatalf("invalid snapshots must not reach processor, calls = %d", proc.calls)
	}
	if m.errors["pipeline_validate"] != len(cases) {
		t.Fatalf("pipeline_validate errors = %d, want %d", m.errors["pipeline_validate"], len(cases))
	}
}

func TestThrottleDropsSilently(t *testing.T) {
	proc := &fakeProc{}
	m := newNopMetrics()
	p := NewPricingPipeline(proc, m, WithMaxRPS(1))

	if err := p.Process(context.Background(), snap("p1", 4.50, 30)); err != nil {
		t.Fatalf("first snapshot: %v", err)
	}
	if err := p.Process(context.Background(), snap("p1", 4.50, 29)); err != nil {
		t.Fatalf("throttled snapshot should not error: %v", err)
	}
	if proc.calls != 1 {
		t.Fatalf("processor calls = %d, want 1 after throttle", proc.calls)
	}
	if m.errors["pipeline_throttle"] != 1 {
		t.Fatalf("pipeline_throttle errors = %d, want 1", m.errors["pipeline_throttle"])
	}
}

func TestDownstreamFailureBuffers(t *testing.T) {
	proc := &fakeProc{fail: true}
	m := newNopMetrics()
	p := NewPricingPipeline(proc, m, WithBufferSize(4))

	if err := p.Process(context.Background(), snap("p1", 4.50, 30)); err == nil {
		t.Fatalf("want downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("buffer depth = %d, want 1", len(p.bufCh))
	}
}
