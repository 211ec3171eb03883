package models

// Wire-level messages exchanged with collaborators (inventory feed, Kafka
// topics, reward queue). Defined in domain for consistency and reuse;
// validation tags are enforced at the ingest boundary before anything
// reaches the engine.

// SnapshotMessage is the inbound product record schema.
type SnapshotMessage struct {
	ProductID    string  `json:"product_id" validate:"required"`
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price" validate:"required,gt=0"`
	StockLeft    int     `json:"stock_left" validate:"gte=0"`
	Category     string  `json:"category" default:"Unknown"`
	ExpiryDate   string  `json:"expiry_date"`
	OptimalPrice float64 `json:"optimal_price,omitempty" validate:"gte=0"`
}

// Snapshot converts the wire message into the domain snapshot.
func (m SnapshotMessage) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:    m.ProductID,
		Name:         m.Name,
		CurrentPrice: m.CurrentPrice,
		StockLeft:    m.StockLeft,
		Category:     m.Category,
		ExpiryDate:   m.ExpiryDate,
	}
}

// RewardObservation is a reward signal for the discount policy, produced by
// the integration layer after the outcome of an applied recommendation is
// known.
type RewardObservation struct {
	ProductID    string  `json:"product_id" validate:"required"`
	DaysToExpiry int     `json:"days_to_expiry" validate:"gte=0"`
	StockLeft    int     `json:"stock_left" validate:"gte=0"`
	Action       Action  `json:"action" validate:"required,oneof=increase maintain decrease_small decrease_large"`
	Reward       float64 `json:"reward"`
	// Next-state attributes observed after the action took effect.
	NextDaysToExpiry int `json:"next_days_to_expiry" validate:"gte=0"`
	NextStockLeft    int `json:"next_stock_left" validate:"gte=0"`
}
