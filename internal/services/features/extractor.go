package features

import (
	"time"

	"ShelfPrice/internal/domain/models"
	"ShelfPrice/internal/services/history"
	"ShelfPrice/internal/services/market"
	"ShelfPrice/pkg/util"
)

const (
	// Horizon assumed when a snapshot has no usable expiry date.
	defaultDaysToExpiry  = 7.0
	defaultHoursToExpiry = 168.0

	// Velocity assumed until a product has enough history to derive one.
	defaultVelocity = 5.0

	velocityWindow = 5
	marginRate     = 0.3
)

// Extractor turns product snapshots into fixed-order feature vectors. It is
// a pure function of the snapshot, the history store, and the clock.
type Extractor struct {
	hist *history.Store
	now  func() time.Time
}

// NewExtractor creates an extractor. A nil clock defaults to time.Now.
func NewExtractor(hist *history.Store, now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{hist: hist, now: now}
}

// Extract builds the feature vector for a snapshot.
func (e *Extractor) Extract(p models.ProductSnapshot) models.FeatureVector {
	now := e.now()
	days, hours := e.ExpiryHorizon(p, now)

	stockRatio := float64(p.StockLeft) / 100
	if stockRatio > 2.0 {
		stockRatio = 2.0
	}

	velocity := e.StockVelocity(p.ProductID)
	elasticity := market.Elasticity(p.Category, p.CurrentPrice)
	urgency := market.UrgencyScore(days, p.StockLeft)

	return models.FeatureVector{
		CurrentPrice:       p.CurrentPrice,
		StockLeft:          float64(p.StockLeft),
		DaysToExpiry:       days,
		HoursToExpiry:      hours,
		StockRatio:         stockRatio,
		StockVelocity:      velocity,
		PriceElasticity:    elasticity,
		HistoricalDiscount: e.hist.MeanDiscount(p.ProductID),
		CategoryDemand:     market.DemandMultiplier(now),
		SeasonalFactor:     market.SeasonalFactor(p.Category, now),
		CompetitorRatio:    market.CompetitorRatio(p.Name),
		UrgencyScore:       urgency,
		MarginPotential:    p.CurrentPrice * marginRate,
		ExpiryStockTerm:    days * stockRatio,
		PriceUrgencyTerm:   p.CurrentPrice * urgency,
		VelocityElastTerm:  velocity * elasticity,
	}
}

// ExpiryHorizon returns (days, hours) until the snapshot's expiry. Missing
// or unparsable dates degrade silently to the default 7-day horizon.
func (e *Extractor) ExpiryHorizon(p models.ProductSnapshot, now time.Time) (float64, float64) {
	expiry, ok := util.ParseTime(p.ExpiryDate)
	if !ok {
		return defaultDaysToExpiry, defaultHoursToExpiry
	}
	d := expiry.Sub(now)
	// whole days, like a calendar countdown
	days := float64(int(d.Hours() / 24))
	hours := d.Hours()
	return days, hours
}

// StockVelocity derives how fast stock is depleting from the product's last
// few history entries. Only depletion counts: restocking yields 0, and with
// fewer than 2 entries the default velocity applies.
func (e *Extractor) StockVelocity(productID string) float64 {
	recent := e.hist.Last(productID, velocityWindow)
	if len(recent) < 2 {
		return defaultVelocity
	}
	v := float64(recent[0].StockLeft-recent[len(recent)-1].StockLeft) / float64(len(recent))
	if v < 0 {
		return 0
	}
	return v
}
