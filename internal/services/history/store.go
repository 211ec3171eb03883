package history

import (
	"sync"

	"ShelfPrice/internal/domain/models"
)

// maxEntries bounds each product's log; the oldest entries are dropped first.
const maxEntries = 50

// Store is a bounded per-product log of past recommendations. Velocity and
// discount-history features are derived views over it; Record is the only
// mutation path.
type Store struct {
	mu sync.Mutex
	m  map[string][]models.PriceHistoryEntry
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{m: make(map[string][]models.PriceHistoryEntry)}
}

// Record appends an entry for the product and trims to the most recent
// maxEntries.
func (s *Store) Record(productID string, e models.PriceHistoryEntry) {
	if productID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append(s.m[productID], e)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	s.m[productID] = entries
}

// Last returns up to n most recent entries in arrival order.
func (s *Store) Last(productID string, n int) []models.PriceHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.m[productID]
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]models.PriceHistoryEntry, len(entries))
	copy(out, entries)
	return out
}

// Len returns the number of stored entries for a product.
func (s *Store) Len(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m[productID])
}

// MeanDiscount returns the average applied discount percent across the
// product's history, 0 when there is none.
func (s *Store) MeanDiscount(productID string) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.m[productID]
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.DiscountPercent
	}
	return sum / float64(len(entries))
}

// Stats summarizes a product's history.
type Stats struct {
	Entries      int     `json:"entries"`
	MeanDiscount float64 `json:"mean_discount"`
}

// ProductStats returns derived statistics for one product.
func (s *Store) ProductStats(productID string) Stats {
	return Stats{
		Entries:      s.Len(productID),
		MeanDiscount: s.MeanDiscount(productID),
	}
}

// Export copies the full history map for persistence.
func (s *Store) Export() map[string][]models.PriceHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]models.PriceHistoryEntry, len(s.m))
	for k, v := range s.m {
		cp := make([]models.PriceHistoryEntry, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// Restore replaces the store contents from a persisted map.
func (s *Store) Restore(m map[string][]models.PriceHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string][]models.PriceHistoryEntry, len(m))
	for k, v := range m {
		cp := make([]models.PriceHistoryEntry, len(v))
		copy(cp, v)
		if len(cp) > maxEntries {
			cp = cp[len(cp)-maxEntries:]
		}
		s.m[k] = cp
	}
}
