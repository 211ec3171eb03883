package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ShelfPrice/internal/domain/models"
	domrepo "ShelfPrice/internal/domain/repository"
	pkgkafka "ShelfPrice/pkg/kafka"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// SnapshotHandler consumes inventory snapshots from Kafka, runs them through
// the pricing engine and hands the result to the publisher.
type SnapshotHandler struct {
	topic     string
	engine    *PricingEngine
	publisher domrepo.Publisher
	store     domrepo.TrainingStore
	metrics   domrepo.Metrics
	validate  *validator.Validate
}

func NewSnapshotHandler(topic string, engine *PricingEngine, publisher domrepo.Publisher, store domrepo.TrainingStore, metrics domrepo.Metrics) *SnapshotHandler {
	return &SnapshotHandler{
		topic:     topic,
		engine:    engine,
		publisher: publisher,
		store:     store,
		metrics:   metrics,
		validate:  validator.New(),
	}
}

func (h *SnapshotHandler) Topic() string { return h.topic }

func (h *SnapshotHandler) Handle(ctx context.Context, b []byte) error {
	var m models.SnapshotMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if err := defaults.Set(&m); err != nil {
		return fmt.Errorf("apply defaults: %w", err)
	}
	if err := h.validate.Struct(m); err != nil {
		h.metrics.RecordError("consumer_validate")
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	start := time.Now()
	rec := h.engine.Predict(m.Snapshot())
	h.metrics.RecordLatency("predict_seconds", time.Since(start).Seconds())

	if err := h.publisher.Publish(ctx, rec); err != nil {
		h.metrics.RecordError("publish")
		return err
	}
	if h.store != nil {
		if err := h.store.RecordRecommendation(ctx, rec); err != nil {
			// audit write failure must not block the stream
			h.metrics.RecordError("audit_insert")
		}
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*SnapshotHandler)(nil)
