package business

import (
	"math"
	"testing"

	"ShelfPrice/internal/domain/models"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestEstimateImpactMarkdownRaisesDemand(t *testing.T) {
	snap := &models.ProductSnapshot{
		ProductID:    "P1",
		CurrentPrice: 10,
		StockLeft:    100,
		Category:     "dairy",
	}
	impact := EstimateImpact(snap, 9)

	// dairy elasticity -0.8, price change -10% -> demand +8%.
	if !almostEqual(impact.DemandChangePercent, 8) {
		t.Fatalf("demand change = %v, want 8", impact.DemandChangePercent)
	}
	// base demand min(100*0.3, 50) = 30, new demand 32.4.
	if !almostEqual(impact.EstimatedSalesUnits, 32.4) {
		t.Fatalf("sales units = %v, want 32.4", impact.EstimatedSalesUnits)
	}
	if !almostEqual(impact.CurrentRevenueEstimate, 300) {
		t.Fatalf("current revenue = %v, want 300", impact.CurrentRevenueEstimate)
	}
	if !almostEqual(impact.NewRevenueEstimate, 291.6) {
		t.Fatalf("new revenue = %v, want 291.6", impact.NewRevenueEstimate)
	}
	if !almostEqual(impact.RevenueImpact, -8.4) {
		t.Fatalf("revenue impact = %v, want -8.4", impact.RevenueImpact)
	}
	if !almostEqual(impact.WasteReductionUnits, 2.4) {
		t.Fatalf("waste reduction = %v, want 2.4", impact.WasteReductionUnits)
	}
	if !almostEqual(impact.MarginImpactPercent, -10) {
		t.Fatalf("margin impact = %v, want -10", impact.MarginImpactPercent)
	}
}

func TestEstimateImpactBaseDemandCapped(t *testing.T) {
	snap := &models.ProductSnapshot{
		ProductID:    "P2",
		CurrentPrice: 5,
		StockLeft:    500,
		Category:     "pantry",
	}
	impact := EstimateImpact(snap, 5)

	// 500 * 0.3 exceeds the 50-unit cap; unchanged price keeps demand flat.
	if !almostEqual(impact.EstimatedSalesUnits, 50) {
		t.Fatalf("sales units = %v, want capped 50", impact.EstimatedSalesUnits)
	}
	if !almostEqual(impact.RevenueImpact, 0) {
		t.Fatalf("revenue impact = %v, want 0 for unchanged price", impact.RevenueImpact)
	}
	if impact.WasteReductionUnits != 0 {
		t.Fatalf("waste reduction = %v, want 0", impact.WasteReductionUnits)
	}
}

func TestEstimateImpactSalesBoundedByStock(t *testing.T) {
	snap := &models.ProductSnapshot{
		ProductID:    "P3",
		CurrentPrice: 10,
		StockLeft:    8,
		Category:     "fruits & vegetables",
	}
	impact := EstimateImpact(snap, 5)

	if impact.EstimatedSalesUnits > 8 {
		t.Fatalf("sales units = %v, cannot exceed stock of 8", impact.EstimatedSalesUnits)
	}
}

func TestReasoningDeterministic(t *testing.T) {
	snap := &models.ProductSnapshot{
		ProductID:    "P4",
		CurrentPrice: 10,
		StockLeft:    5,
		Category:     "bakery",
	}
	want := "Recommending 15.0% price reduction. due to urgent expiry in 2 days. with high urgency factors."
	for i := 0; i < 3; i++ {
		if got := Reasoning(snap, 2, 8.5); got != want {
			t.Fatalf("reasoning = %q, want %q", got, want)
		}
	}
}

func TestReasoningVariants(t *testing.T) {
	cases := []struct {
		name  string
		snap  models.ProductSnapshot
		days  int
		price float64
		want  string
	}{
		{
			name:  "increase with excess inventory",
			snap:  models.ProductSnapshot{CurrentPrice: 10, StockLeft: 150, Category: "pantry"},
			days:  10,
			price: 11,
			want:  "Recommending 10.0% price increase. to move excess inventory.",
		},
		{
			name:  "maintain with low stock",
			snap:  models.ProductSnapshot{CurrentPrice: 10, StockLeft: 10, Category: "pantry"},
			days:  10,
			price: 10.2,
			want:  "Recommending to maintain current pricing. due to low stock levels.",
		},
		{
			name:  "maintain with no dominant driver",
			snap:  models.ProductSnapshot{CurrentPrice: 10, StockLeft: 50, Category: "pantry"},
			days:  10,
			price: 10,
			want:  "Recommending to maintain current pricing.",
		},
	}
	for _, tc := range cases {
		if got := Reasoning(&tc.snap, tc.days, tc.price); got != tc.want {
			t.Fatalf("%s: reasoning = %q, want %q", tc.name, got, tc.want)
		}
	}
}
