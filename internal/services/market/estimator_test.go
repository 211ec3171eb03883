package market

import (
	"math"
	"testing"
	"time"
)

func TestElasticityByCategoryAndPrice(t *testing.T) {
	cases := []struct {
		category string
		price    float64
		want     float64
	}{
		{"dairy", 10, -0.8},
		{"Dairy", 10, -0.8},
		{"fruits & vegetables", 10, -1.2},
		{"pantry", 10, -0.4},
		{"unknown stuff", 10, -0.8},
		{"dairy", 20, -0.96}, // expensive items more elastic
		{"dairy", 2, -0.64},  // cheap items less elastic
	}
	for _, tc := range cases {
		if got := Elasticity(tc.category, tc.price); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Elasticity(%q, %v) = %v, want %v", tc.category, tc.price, got, tc.want)
		}
	}
}

func TestDemandMultiplier(t *testing.T) {
	lunchMonday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	if got := DemandMultiplier(lunchMonday); got != 1.3 {
		t.Fatalf("weekday lunch = %v, want 1.3", got)
	}
	breakfastMonday := time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	if got := DemandMultiplier(breakfastMonday); math.Abs(got-1.1) > 1e-9 {
		t.Fatalf("weekday breakfast = %v, want 1.1", got)
	}
	dinnerSaturday := time.Date(2025, 6, 7, 18, 0, 0, 0, time.UTC)
	if got := DemandMultiplier(dinnerSaturday); math.Abs(got-1.56) > 1e-9 {
		t.Fatalf("weekend dinner = %v, want 1.56", got)
	}
	quietTuesday := time.Date(2025, 6, 3, 15, 0, 0, 0, time.UTC)
	if got := DemandMultiplier(quietTuesday); got != 1.0 {
		t.Fatalf("off-peak weekday = %v, want 1.0", got)
	}
}

func TestSeasonalFactor(t *testing.T) {
	july := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	january := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	december := time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC)

	if got := SeasonalFactor("Fruits & Vegetables", july); got != 1.2 {
		t.Fatalf("produce in july = %v, want 1.2", got)
	}
	if got := SeasonalFactor("fruits & vegetables", january); got != 0.9 {
		t.Fatalf("produce in january = %v, want 0.9", got)
	}
	if got := SeasonalFactor("dairy", december); got != 1.0 {
		t.Fatalf("dairy = %v, want flat 1.0", got)
	}
	if got := SeasonalFactor("meat", december); got != 1.3 {
		t.Fatalf("meat in december = %v, want 1.3", got)
	}
	if got := SeasonalFactor("pantry", july); got != 1.0 {
		t.Fatalf("pantry = %v, want 1.0", got)
	}
}

func TestCompetitorRatio(t *testing.T) {
	if got := CompetitorRatio("Premium Cheddar"); got != 0.95 {
		t.Fatalf("premium = %v, want 0.95", got)
	}
	if got := CompetitorRatio("Organic Kale"); got != 1.05 {
		t.Fatalf("organic = %v, want 1.05", got)
	}
	if got := CompetitorRatio("Plain Milk"); got != 1.0 {
		t.Fatalf("plain = %v, want 1.0", got)
	}
}

func TestUrgencyScore(t *testing.T) {
	// Fresh stock far from expiry: no urgency.
	if got := UrgencyScore(7, 20); got != 0 {
		t.Fatalf("urgency = %v, want 0", got)
	}
	// Expiring tomorrow with nearly no stock: close to 1.
	got := UrgencyScore(1, 0)
	want := 0.7*(6.0/7.0) + 0.3
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("urgency = %v, want %v", got, want)
	}
	// Past the 7-day window the expiry term floors at 0.
	if got := UrgencyScore(30, 20); got != 0 {
		t.Fatalf("urgency for distant expiry = %v, want 0", got)
	}
}
