package features

import (
	"testing"
	"time"

	"ShelfPrice/internal/domain/models"
	"ShelfPrice/internal/services/history"
)

var testNow = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func TestExpiryHorizonDefaultsOnBadDate(t *testing.T) {
	e := NewExtractor(history.NewStore(), fixedClock)
	for _, raw := range []string{"", "tomorrow", "2025-13-45"} {
		days, hours := e.ExpiryHorizon(models.ProductSnapshot{ExpiryDate: raw}, testNow)
		if days != 7 || hours != 168 {
			t.Fatalf("expiry %q: horizon = (%v, %v), want (7, 168)", raw, days, hours)
		}
	}
}

func TestExpiryHorizonWholeDays(t *testing.T) {
	e := NewExtractor(history.NewStore(), fixedClock)
	snap := models.ProductSnapshot{ExpiryDate: testNow.Add(60 * time.Hour).Format(time.RFC3339)}
	days, hours := e.ExpiryHorizon(snap, testNow)
	if days != 2 {
		t.Fatalf("days = %v, want 2 (whole days)", days)
	}
	if hours != 60 {
		t.Fatalf("hours = %v, want 60", hours)
	}
}

func TestStockVelocityDefaultsWithThinHistory(t *testing.T) {
	hist := history.NewStore()
	e := NewExtractor(hist, fixedClock)
	if got := e.StockVelocity("P1"); got != 5.0 {
		t.Fatalf("velocity with no history = %v, want 5.0", got)
	}
	hist.Record("P1", models.PriceHistoryEntry{StockLeft: 80})
	if got := e.StockVelocity("P1"); got != 5.0 {
		t.Fatalf("velocity with one entry = %v, want 5.0", got)
	}
}

func TestStockVelocityFromDepletion(t *testing.T) {
	hist := history.NewStore()
	e := NewExtractor(hist, fixedClock)
	for _, stock := range []int{100, 90, 80, 70, 60} {
		hist.Record("P1", models.PriceHistoryEntry{StockLeft: stock})
	}
	// (100 - 60) / 5 entries
	if got := e.StockVelocity("P1"); got != 8 {
		t.Fatalf("velocity = %v, want 8", got)
	}
}

func TestStockVelocityFloorsRestocking(t *testing.T) {
	hist := history.NewStore()
	e := NewExtractor(hist, fixedClock)
	hist.Record("P1", models.PriceHistoryEntry{StockLeft: 10})
	hist.Record("P1", models.PriceHistoryEntry{StockLeft: 90})
	if got := e.StockVelocity("P1"); got != 0 {
		t.Fatalf("velocity after restock = %v, want 0", got)
	}
}

func TestExtractFeatureOrderAndCaps(t *testing.T) {
	e := NewExtractor(history.NewStore(), fixedClock)
	snap := models.ProductSnapshot{
		ProductID:    "P1",
		CurrentPrice: 10,
		StockLeft:    350,
		Category:     "dairy",
		ExpiryDate:   testNow.Add(48 * time.Hour).Format(time.RFC3339),
	}
	fv := e.Extract(snap)
	row := fv.Slice()
	if len(row) != len(models.FeatureNames) {
		t.Fatalf("feature count = %d, want %d", len(row), len(models.FeatureNames))
	}
	if row[0] != 10 || row[1] != 350 {
		t.Fatalf("leading features = %v, %v, want price then stock", row[0], row[1])
	}
	if fv.StockRatio != 2.0 {
		t.Fatalf("stock ratio = %v, want capped 2.0", fv.StockRatio)
	}
	if fv.DaysToExpiry != 2 {
		t.Fatalf("days to expiry = %v, want 2", fv.DaysToExpiry)
	}
	if fv.MarginPotential != 3 {
		t.Fatalf("margin potential = %v, want 3", fv.MarginPotential)
	}
	if fv.ExpiryStockTerm != fv.DaysToExpiry*fv.StockRatio {
		t.Fatalf("expiry/stock interaction = %v, want %v", fv.ExpiryStockTerm, fv.DaysToExpiry*fv.StockRatio)
	}
}
