package history

import (
	"fmt"
	"testing"
	"time"

	"ShelfPrice/internal/domain/models"
)

func entry(i int) models.PriceHistoryEntry {
	return models.PriceHistoryEntry{
		Timestamp:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		RecommendedPrice: float64(i),
		DiscountPercent:  float64(i % 10),
		Confidence:       0.5,
		StockLeft:        100 - i,
	}
}

func TestRecordTrimsToCap(t *testing.T) {
	s := NewStore()
	for i := 0; i < 75; i++ {
		s.Record("P1", entry(i))
	}
	if got := s.Len("P1"); got != 50 {
		t.Fatalf("len = %d, want 50", got)
	}
	last := s.Last("P1", 50)
	if last[0].RecommendedPrice != 25 {
		t.Fatalf("oldest surviving price = %v, want 25", last[0].RecommendedPrice)
	}
	if last[49].RecommendedPrice != 74 {
		t.Fatalf("newest price = %v, want 74", last[49].RecommendedPrice)
	}
}

func TestLastReturnsTailInOrder(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		s.Record("P1", entry(i))
	}
	got := s.Last("P1", 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, want := range []float64{7, 8, 9} {
		if got[i].RecommendedPrice != want {
			t.Fatalf("entry %d price = %v, want %v", i, got[i].RecommendedPrice, want)
		}
	}
	if got := s.Last("unknown", 5); len(got) != 0 {
		t.Fatalf("unknown product returned %d entries", len(got))
	}
}

func TestMeanDiscount(t *testing.T) {
	s := NewStore()
	if got := s.MeanDiscount("P1"); got != 0 {
		t.Fatalf("mean discount of empty history = %v, want 0", got)
	}
	s.Record("P1", models.PriceHistoryEntry{DiscountPercent: 10})
	s.Record("P1", models.PriceHistoryEntry{DiscountPercent: 20})
	if got := s.MeanDiscount("P1"); got != 15 {
		t.Fatalf("mean discount = %v, want 15", got)
	}
}

func TestExportRestoreIsDeep(t *testing.T) {
	s := NewStore()
	for p := 0; p < 3; p++ {
		for i := 0; i < 5; i++ {
			s.Record(fmt.Sprintf("P%d", p), entry(i))
		}
	}
	dump := s.Export()
	dump["P0"][0].RecommendedPrice = -1
	if s.Last("P0", 5)[0].RecommendedPrice == -1 {
		t.Fatal("export leaked a reference into the store")
	}

	fresh := NewStore()
	fresh.Restore(s.Export())
	if fresh.Len("P2") != 5 {
		t.Fatalf("restored len = %d, want 5", fresh.Len("P2"))
	}
}

func TestRestoreTrimsOversizedInput(t *testing.T) {
	oversized := make([]models.PriceHistoryEntry, 0, 80)
	for i := 0; i < 80; i++ {
		oversized = append(oversized, entry(i))
	}
	s := NewStore()
	s.Restore(map[string][]models.PriceHistoryEntry{"P1": oversized})
	if got := s.Len("P1"); got != 50 {
		t.Fatalf("restored len = %d, want 50", got)
	}
}

func TestProductStats(t *testing.T) {
	s := NewStore()
	s.Record("P1", models.PriceHistoryEntry{DiscountPercent: 30})
	s.Record("P1", models.PriceHistoryEntry{DiscountPercent: 10})
	st := s.ProductStats("P1")
	if st.Entries != 2 {
		t.Fatalf("entries = %d, want 2", st.Entries)
	}
	if st.MeanDiscount != 20 {
		t.Fatalf("mean discount = %v, want 20", st.MeanDiscount)
	}
}
