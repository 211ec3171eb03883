package models

import "time"

// ProductSnapshot is one observation of a perishable product as delivered by
// the inventory feed. It is immutable for the duration of a pricing call.
type ProductSnapshot struct {
	ProductID    string
	Name         string
	CurrentPrice float64
	StockLeft    int
	Category     string
	ExpiryDate   string // raw feed value; parsed tolerantly, may be empty
}

// TrainingRecord is a historical snapshot carrying its label. When
// OptimalPrice is zero the record labels itself with CurrentPrice.
type TrainingRecord struct {
	ProductSnapshot
	OptimalPrice float64
}

// Label returns the regression target for this record.
func (r TrainingRecord) Label() float64 {
	if r.OptimalPrice > 0 {
		return r.OptimalPrice
	}
	return r.CurrentPrice
}

// BusinessImpact holds the projected effect of applying a recommended price.
// All values are point estimates, not guarantees.
type BusinessImpact struct {
	DemandChangePercent    float64 `json:"estimated_demand_change_percent"`
	EstimatedSalesUnits    float64 `json:"estimated_sales_units"`
	CurrentRevenueEstimate float64 `json:"current_revenue_estimate"`
	NewRevenueEstimate     float64 `json:"new_revenue_estimate"`
	RevenueImpact          float64 `json:"revenue_impact"`
	WasteReductionUnits    float64 `json:"waste_reduction_units"`
	MarginImpactPercent    float64 `json:"margin_impact_percent"`
}

// PerformanceStats is the goodness-of-fit record from the last training run.
type PerformanceStats struct {
	ForestR2        float64 `json:"forest_r2"`
	BoostedR2       float64 `json:"boosted_r2"`
	TrainingSamples int     `json:"training_samples"`
	FeatureCount    int     `json:"feature_count"`
}

// Recommendation is the engine's output for one snapshot. Fallback results
// carry only the reduced field set and FallbackMode=true.
type Recommendation struct {
	ProductID             string            `json:"product_id"`
	CurrentPrice          float64           `json:"current_price"`
	PredictedOptimalPrice float64           `json:"predicted_optimal_price,omitempty"`
	PolicyAdjustment      float64           `json:"q_learning_adjustment"`
	FinalPrice            float64           `json:"final_recommended_price"`
	DiscountPercent       float64           `json:"discount_percent"`
	Confidence            float64           `json:"confidence_score"`
	Performance           *PerformanceStats `json:"model_performance,omitempty"`
	Impact                *BusinessImpact   `json:"business_metrics,omitempty"`
	Reasoning             string            `json:"reasoning"`
	FallbackMode          bool              `json:"fallback_mode,omitempty"`
	Timestamp             time.Time         `json:"timestamp"`
}

// PriceHistoryEntry is one recorded recommendation for a product. StockLeft
// is carried so stock velocity can be derived from history alone.
type PriceHistoryEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	RecommendedPrice float64   `json:"recommended_price"`
	DiscountPercent  float64   `json:"discount_applied"`
	Confidence       float64   `json:"confidence"`
	StockLeft        int       `json:"stock_left"`
}
