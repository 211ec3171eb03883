package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ShelfPrice/internal/domain/models"
	domrepo "ShelfPrice/internal/domain/repository"
	"ShelfPrice/internal/repository"
	"ShelfPrice/internal/services/business"
	"ShelfPrice/internal/services/features"
	"ShelfPrice/internal/services/history"
	"ShelfPrice/internal/services/model"
	"ShelfPrice/internal/services/policy"
	"ShelfPrice/pkg/logger"
)

// ErrEmptyTrainingData is returned when Train is called with no records.
// It is the one failure the engine surfaces explicitly.
var ErrEmptyTrainingData = errors.New("no training data provided")

const (
	ensembleForestWeight  = 0.3
	ensembleBoostedWeight = 0.7

	maxDiscountFactor = 0.5 // floor at 50% off
	maxMarkupFactor   = 1.2 // cap at 20% up

	minConfidence      = 0.3
	fallbackConfidence = 0.6
)

// Option configures a PricingEngine.
type Option func(*PricingEngine)

// WithClock injects the time source. Tests pin this.
func WithClock(now func() time.Time) Option {
	return func(e *PricingEngine) { e.now = now }
}

// WithMetrics attaches an operational metrics recorder.
func WithMetrics(m domrepo.Metrics) Option {
	return func(e *PricingEngine) { e.metrics = m }
}

// WithPolicy overrides the discount policy. Tests pass a policy with a
// seeded exploration source.
func WithPolicy(p *policy.Policy) Option {
	return func(e *PricingEngine) { e.policy = p }
}

// PricingEngine is the core decision component: it trains the ensemble on
// historical records and turns product snapshots into price recommendations.
// Inference takes the read lock; training fits shadow models and swaps them
// in under the write lock, so requests never observe a half-trained state.
type PricingEngine struct {
	mu sync.RWMutex

	forest  *model.Forest
	boosted *model.Boosted
	scaler  *model.Scaler
	perf    *models.PerformanceStats

	trained      bool
	lastTraining time.Time

	policy    *policy.Policy
	hist      *history.Store
	extractor *features.Extractor

	log     *logger.Logger
	metrics domrepo.Metrics
	now     func() time.Time
}

// NewPricingEngine builds an untrained engine. Until Train succeeds (or a
// trained bundle is restored), Predict answers from the fallback rule tier.
func NewPricingEngine(log *logger.Logger, opts ...Option) *PricingEngine {
	e := &PricingEngine{
		forest:  model.NewForest(model.DefaultForestParams()),
		boosted: model.NewBoosted(model.DefaultBoostedParams()),
		scaler:  &model.Scaler{},
		policy:  policy.New(),
		hist:    history.NewStore(),
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	e.extractor = features.NewExtractor(e.hist, e.now)
	return e
}

// History exposes the price history store for derived views (velocity,
// per-product stats).
func (e *PricingEngine) History() *history.Store { return e.hist }

// Policy exposes the discount policy for external reward feedback.
func (e *PricingEngine) Policy() *policy.Policy { return e.policy }

// IsTrained reports whether the ensemble has been fitted.
func (e *PricingEngine) IsTrained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trained
}

// Performance returns the stats from the last training run, or nil.
func (e *PricingEngine) Performance() *models.PerformanceStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.perf == nil {
		return nil
	}
	cp := *e.perf
	return &cp
}

// Train fits both regressors and the scaler on the corpus. Prior model
// state is untouched on failure: new models are fitted aside and swapped in
// only once both fits succeed.
func (e *PricingEngine) Train(ctx context.Context, records []models.TrainingRecord) error {
	if len(records) == 0 {
		return ErrEmptyTrainingData
	}
	start := e.now()

	x := make([][]float64, 0, len(records))
	y := make([]float64, 0, len(records))
	for _, rec := range records {
		x = append(x, e.extractor.Extract(rec.ProductSnapshot).Slice())
		y = append(y, rec.Label())
	}

	scaler := &model.Scaler{}
	if err := scaler.Fit(x); err != nil {
		return fmt.Errorf("fit scaler: %w", err)
	}
	scaled := scaler.TransformAll(x)

	forest := model.NewForest(model.DefaultForestParams())
	if err := forest.Fit(scaled, y); err != nil {
		return fmt.Errorf("fit forest: %w", err)
	}
	boosted := model.NewBoosted(model.DefaultBoostedParams())
	if err := boosted.Fit(scaled, y); err != nil {
		return fmt.Errorf("fit boosted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("training cancelled: %w", err)
	}

	perf := &models.PerformanceStats{
		ForestR2:        forest.Score(scaled, y),
		BoostedR2:       boosted.Score(scaled, y),
		TrainingSamples: len(records),
		FeatureCount:    len(models.FeatureNames),
	}

	e.mu.Lock()
	e.scaler = scaler
	e.forest = forest
	e.boosted = boosted
	e.perf = perf
	e.trained = true
	e.lastTraining = e.now()
	e.mu.Unlock()

	e.log.Info("pricing model trained",
		logger.Int("samples", len(records)),
		logger.Float64("forest_r2", perf.ForestR2),
		logger.Float64("boosted_r2", perf.BoostedR2))
	if e.metrics != nil {
		e.metrics.RecordLatency("train", e.now().Sub(start).Seconds())
	}
	return nil
}

// Predict produces a recommendation for one snapshot. It never returns an
// error: an untrained engine or any failure mid-inference answers with the
// rule-based fallback instead.
func (e *PricingEngine) Predict(snap models.ProductSnapshot) *models.Recommendation {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.trained {
		return e.fallback(snap)
	}
	rec, err := e.predictModel(snap)
	if err != nil {
		e.log.Error("price prediction failed, using fallback",
			logger.String("product_id", snap.ProductID),
			logger.Error(err))
		if e.metrics != nil {
			e.metrics.RecordError("prediction")
		}
		return e.fallback(snap)
	}
	return rec
}

func (e *PricingEngine) predictModel(snap models.ProductSnapshot) (*models.Recommendation, error) {
	if snap.CurrentPrice <= 0 {
		return nil, fmt.Errorf("non-positive price %.2f for product %q", snap.CurrentPrice, snap.ProductID)
	}
	start := e.now()

	scaled := e.scaler.Transform(e.extractor.Extract(snap).Slice())
	forestPred := e.forest.Predict(scaled)
	boostedPred := e.boosted.Predict(scaled)
	ensemble := forestPred*ensembleForestWeight + boostedPred*ensembleBoostedWeight

	minPrice := snap.CurrentPrice * maxDiscountFactor
	maxPrice := snap.CurrentPrice * maxMarkupFactor
	optimal := clamp(ensemble, minPrice, maxPrice)

	days, _ := e.extractor.ExpiryHorizon(snap, start)
	state := models.NewPolicyState(int(days), snap.StockLeft)
	adjustment := e.policy.Select(state).Multiplier()
	final := clamp(optimal*(1+adjustment), minPrice, maxPrice)

	rec := &models.Recommendation{
		ProductID:             snap.ProductID,
		CurrentPrice:          snap.CurrentPrice,
		PredictedOptimalPrice: optimal,
		PolicyAdjustment:      adjustment,
		FinalPrice:            final,
		DiscountPercent:       (snap.CurrentPrice - final) / snap.CurrentPrice * 100,
		Confidence:            confidence(forestPred, boostedPred),
		Performance:           e.perf,
		Impact:                business.EstimateImpact(&snap, final),
		Reasoning:             business.Reasoning(&snap, int(days), final),
		Timestamp:             start,
	}

	e.hist.Record(snap.ProductID, models.PriceHistoryEntry{
		Timestamp:        rec.Timestamp,
		RecommendedPrice: rec.FinalPrice,
		DiscountPercent:  rec.DiscountPercent,
		Confidence:       rec.Confidence,
		StockLeft:        snap.StockLeft,
	})

	if e.metrics != nil {
		e.metrics.RecordRecommendation("model", snap.Category)
		e.metrics.RecordRecommendedPrice(snap.ProductID, final)
		e.metrics.RecordLatency("predict", e.now().Sub(start).Seconds())
	}
	return rec, nil
}

// fallback is the rule tier used when the model is unavailable: a flat
// discount stepped on days-to-expiry, with an overstock tier behind it.
func (e *PricingEngine) fallback(snap models.ProductSnapshot) *models.Recommendation {
	now := e.now()
	daysF, _ := e.extractor.ExpiryHorizon(snap, now)
	days := int(daysF)

	var discount float64
	switch {
	case days <= 1:
		discount = 40
	case days <= 2:
		discount = 25
	case days <= 5:
		discount = 15
	case snap.StockLeft > 100:
		discount = 10
	}

	if e.metrics != nil {
		e.metrics.RecordRecommendation("fallback", snap.Category)
	}
	return &models.Recommendation{
		ProductID:       snap.ProductID,
		CurrentPrice:    snap.CurrentPrice,
		FinalPrice:      snap.CurrentPrice * (1 - discount/100),
		DiscountPercent: discount,
		Confidence:      fallbackConfidence,
		Reasoning: fmt.Sprintf("Rule-based pricing: %.0f%% discount based on %d days to expiry and %d units in stock",
			discount, days, snap.StockLeft),
		FallbackMode: true,
		Timestamp:    now,
	}
}

// ExportBundle deep-copies the full engine state for persistence.
func (e *PricingEngine) ExportBundle() *repository.Bundle {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var perf *models.PerformanceStats
	if e.perf != nil {
		cp := *e.perf
		perf = &cp
	}
	return &repository.Bundle{
		SchemaVersion: repository.BundleSchemaVersion,
		Forest:        e.forest,
		Boosted:       e.boosted,
		Scaler:        e.scaler,
		FeatureNames:  models.FeatureNames,
		PolicyTable:   e.policy.Export(),
		PriceHistory:  e.hist.Export(),
		Performance:   perf,
		LastTraining:  e.lastTraining,
		Trained:       e.trained,
	}
}

// RestoreBundle replaces the engine state with a persisted bundle, all
// fields together. Invalid bundles leave the engine untouched.
func (e *PricingEngine) RestoreBundle(b *repository.Bundle) error {
	if b == nil {
		return fmt.Errorf("nil bundle")
	}
	if b.Trained && (b.Forest == nil || b.Boosted == nil || b.Scaler == nil || !b.Scaler.Fitted()) {
		return fmt.Errorf("trained bundle missing model state")
	}

	e.mu.Lock()
	if b.Forest != nil {
		e.forest = b.Forest
	}
	if b.Boosted != nil {
		e.boosted = b.Boosted
	}
	if b.Scaler != nil {
		e.scaler = b.Scaler
	}
	e.perf = b.Performance
	e.trained = b.Trained
	e.lastTraining = b.LastTraining
	e.mu.Unlock()

	e.policy.Restore(b.PolicyTable)
	e.hist.Restore(b.PriceHistory)
	return nil
}

// confidence treats the regressors' disagreement as an uncertainty proxy,
// floored so the engine never reports near-zero confidence.
func confidence(forestPred, boostedPred float64) float64 {
	denom := forestPred
	if boostedPred > denom {
		denom = boostedPred
	}
	if denom < 1 {
		denom = 1
	}
	diff := forestPred - boostedPred
	if diff < 0 {
		diff = -diff
	}
	c := 1 - diff/denom
	if c < minConfidence {
		c = minConfidence
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
