package usecase

import (
	"context"
	"fmt"
	"time"

	"ShelfPrice/internal/domain/models"
	domrepo "ShelfPrice/internal/domain/repository"
	"ShelfPrice/pkg/cache"
)

// SnapshotProcessor runs snapshots through the engine and fans the resulting
// recommendation out to the publisher, the cache, and the audit table.
type SnapshotProcessor struct {
	engine   *PricingEngine
	pub      domrepo.Publisher
	store    domrepo.TrainingStore
	cache    cache.Service
	cacheTTL time.Duration
	metrics  domrepo.Metrics
}

// NewSnapshotProcessor creates a new SnapshotProcessor instance. Cache and
// store may be nil when those backends are disabled.
func NewSnapshotProcessor(
	engine *PricingEngine,
	pub domrepo.Publisher,
	store domrepo.TrainingStore,
	c cache.Service,
	cacheTTL time.Duration,
	metrics domrepo.Metrics,
) *SnapshotProcessor {
	return &SnapshotProcessor{
		engine:   engine,
		pub:      pub,
		store:    store,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

// Process prices a single snapshot and delivers the recommendation.
func (p *SnapshotProcessor) Process(ctx context.Context, s *models.ProductSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}

	// an unchanged snapshot has an unchanged recommendation already
	// published and cached; skip the model entirely
	if p.cache != nil {
		var prev models.ProductSnapshot
		if err := p.cache.Get(ctx, cache.Key("snapshot", s.ProductID), &prev); err == nil && prev == *s {
			p.metrics.RecordRecommendation("cached", s.Category)
			return nil
		}
	}

	start := time.Now()
	rec := p.engine.Predict(*s)
	p.metrics.RecordLatency("predict", time.Since(start).Seconds())

	if err := p.pub.Publish(ctx, rec); err != nil {
		p.metrics.RecordError("publish")
		return fmt.Errorf("publish recommendation: %w", err)
	}

	if p.cache != nil {
		key := cache.Key("recommendation", rec.ProductID)
		if err := p.cache.Set(ctx, key, rec, p.cacheTTL); err != nil {
			p.metrics.RecordError("cache_set")
		}
		if err := p.cache.Set(ctx, cache.Key("snapshot", s.ProductID), s, p.cacheTTL); err != nil {
			p.metrics.RecordError("cache_set")
		}
	}
	if p.store != nil {
		if err := p.store.RecordRecommendation(ctx, rec); err != nil {
			// audit write failure must not block the stream
			p.metrics.RecordError("audit_insert")
		}
	}
	return nil
}

// Latest returns the cached recommendation for a product, if present.
func (p *SnapshotProcessor) Latest(ctx context.Context, productID string) (*models.Recommendation, error) {
	if p.cache == nil {
		return nil, cache.ErrCacheMiss
	}
	var rec models.Recommendation
	if err := p.cache.Get(ctx, cache.Key("recommendation", productID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Close closes underlying resources if available.
func (p *SnapshotProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
