package business

import (
	"fmt"
	"strings"

	"ShelfPrice/internal/domain/models"
	"ShelfPrice/internal/services/market"
)

// Reasoning assembles the human-readable justification for a recommended
// price. It is deterministic: the same snapshot, horizon, and price always
// produce the same sentence.
func Reasoning(snap *models.ProductSnapshot, daysToExpiry int, recommendedPrice float64) string {
	changePercent := (recommendedPrice - snap.CurrentPrice) / snap.CurrentPrice * 100

	var parts []string
	switch {
	case changePercent > 5:
		parts = append(parts, fmt.Sprintf("Recommending %.1f%% price increase", changePercent))
	case changePercent < -5:
		parts = append(parts, fmt.Sprintf("Recommending %.1f%% price reduction", -changePercent))
	default:
		parts = append(parts, "Recommending to maintain current pricing")
	}

	switch {
	case daysToExpiry <= 3:
		parts = append(parts, fmt.Sprintf("due to urgent expiry in %d days", daysToExpiry))
	case snap.StockLeft > 100:
		parts = append(parts, "to move excess inventory")
	case snap.StockLeft < 20:
		parts = append(parts, "due to low stock levels")
	}

	if market.UrgencyScore(float64(daysToExpiry), snap.StockLeft) > 0.7 {
		parts = append(parts, "with high urgency factors")
	}

	return strings.Join(parts, ". ") + "."
}
