package repository

import (
	"context"

	"ShelfPrice/internal/domain/models"
	applogger "ShelfPrice/pkg/logger"
)

// LogPublisher writes recommendations to the structured log. It stands in
// for Kafka in development and in deployments that only want the cached and
// audited output.
type LogPublisher struct {
	l *applogger.Logger
}

func NewLogPublisher(l *applogger.Logger) *LogPublisher {
	return &LogPublisher{l: l}
}

func (p *LogPublisher) Publish(ctx context.Context, rec *models.Recommendation) error {
	p.l.Info("recommendation",
		applogger.String("product_id", rec.ProductID),
		applogger.Float64("current_price", rec.CurrentPrice),
		applogger.Float64("final_price", rec.FinalPrice),
		applogger.Float64("discount_percent", rec.DiscountPercent),
		applogger.Float64("confidence", rec.Confidence),
		applogger.Bool("fallback", rec.FallbackMode),
	)
	return nil
}

func (p *LogPublisher) PublishBatch(ctx context.Context, recs []*models.Recommendation) error {
	for _, rec := range recs {
		if err := p.Publish(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
