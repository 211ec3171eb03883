package repository

import (
	"context"

	"ShelfPrice/internal/domain/models"
)

// InventoryStream is a live feed of product snapshots (the inventory
// simulator or a store system pushing updates).
type InventoryStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.ProductSnapshot, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher delivers recommendations to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, rec *models.Recommendation) error
	PublishBatch(ctx context.Context, recs []*models.Recommendation) error
	Close() error
}

// TrainingStore provides the historical corpus the model trains on and
// records issued recommendations for audit.
type TrainingStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	LoadCorpus(ctx context.Context, limit int) ([]models.TrainingRecord, error)
	RecordRecommendation(ctx context.Context, rec *models.Recommendation) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics records operational metrics for the pricing engine.
type Metrics interface {
	RecordRecommendation(mode, category string)
	RecordError(kind string)
	RecordRecommendedPrice(productID string, price float64)
	RecordLatency(op string, seconds float64)
}
