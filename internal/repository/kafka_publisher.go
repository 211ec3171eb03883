package repository

import (
	"context"
	"fmt"

	"ShelfPrice/internal/domain/models"
	pkgkafka "ShelfPrice/pkg/kafka"
	applogger "ShelfPrice/pkg/logger"
)

// KafkaPublisher implements Publisher over a Kafka topic. Messages are keyed
// by product ID so consumers see recommendations for a product in order.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
	l        *applogger.Logger
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string, l *applogger.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, l: l}
}

// Publish delivers a single recommendation.
func (p *KafkaPublisher) Publish(ctx context.Context, rec *models.Recommendation) error {
	if err := p.producer.Publish(ctx, p.topic, []byte(rec.ProductID), rec); err != nil {
		if p.l != nil {
			p.l.Error("kafka publish recommendation error",
				applogger.String("product_id", rec.ProductID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish recommendation: %w", err)
	}
	return nil
}

// PublishBatch delivers a batch of recommendations in one write.
func (p *KafkaPublisher) PublishBatch(ctx context.Context, recs []*models.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(recs))
	for _, rec := range recs {
		msgs = append(msgs, pkgkafka.Message{Key: []byte(rec.ProductID), Value: rec})
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		if p.l != nil {
			p.l.Error("kafka publish batch error",
				applogger.Int("count", len(recs)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish batch: %w", err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
