package models

// FeatureVector is the fixed-order numeric input to the price model. The
// field order is load-bearing: the scaler and both regressors are fitted and
// queried against the ordering defined by Slice.
type FeatureVector struct {
	CurrentPrice       float64
	StockLeft          float64
	DaysToExpiry       float64
	HoursToExpiry      float64
	StockRatio         float64
	StockVelocity      float64
	PriceElasticity    float64
	HistoricalDiscount float64
	CategoryDemand     float64
	SeasonalFactor     float64
	CompetitorRatio    float64
	UrgencyScore       float64
	MarginPotential    float64
	ExpiryStockTerm    float64
	PriceUrgencyTerm   float64
	VelocityElastTerm  float64
}

// FeatureNames lists feature names in Slice order.
var FeatureNames = []string{
	"current_price", "stock_left", "days_to_expiry", "hours_to_expiry",
	"stock_ratio", "stock_velocity", "price_elasticity", "historical_discount",
	"category_demand", "seasonal_factor", "competitor_price_ratio",
	"urgency_score", "margin_potential", "expiry_stock_interaction",
	"price_urgency_interaction", "velocity_elasticity_interaction",
}

// Slice returns the canonical ordered representation.
func (f FeatureVector) Slice() []float64 {
	return []float64{
		f.CurrentPrice,
		f.StockLeft,
		f.DaysToExpiry,
		f.HoursToExpiry,
		f.StockRatio,
		f.StockVelocity,
		f.PriceElasticity,
		f.HistoricalDiscount,
		f.CategoryDemand,
		f.SeasonalFactor,
		f.CompetitorRatio,
		f.UrgencyScore,
		f.MarginPotential,
		f.ExpiryStockTerm,
		f.PriceUrgencyTerm,
		f.VelocityElastTerm,
	}
}
