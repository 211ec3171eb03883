package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ShelfPrice/internal/domain/models"
	pkgch "ShelfPrice/pkg/clickhouse"
	applogger "ShelfPrice/pkg/logger"
)

// CHTrainingStore implements TrainingStore backed by ClickHouse. The corpus
// table holds labeled product snapshots; the audit table holds every
// recommendation the engine issues.
type CHTrainingStore struct {
	ch *pkgch.Client
	db *sql.DB
	l  *applogger.Logger
}

func NewCHTrainingStore(ch *pkgch.Client) *CHTrainingStore {
	return &CHTrainingStore{ch: ch, db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHTrainingStore) SetLogger(l *applogger.Logger) { s.l = l }

var trainingSchema = []string{
	`CREATE DATABASE IF NOT EXISTS shelfprice`,
	`CREATE TABLE IF NOT EXISTS shelfprice.training_corpus (
        recorded_at   DateTime DEFAULT now(),
        product_id    String,
        name          String,
        current_price Float64,
        stock_left    Int32,
        category      String,
        expiry_date   String,
        optimal_price Float64
    ) ENGINE = MergeTree()
    ORDER BY (product_id, recorded_at)
    TTL recorded_at + INTERVAL 180 DAY`,
	`CREATE TABLE IF NOT EXISTS shelfprice.recommendations (
        issued_at        DateTime,
        product_id       String,
        current_price    Float64,
        final_price      Float64,
        discount_percent Float64,
        confidence       Float64,
        fallback_mode    UInt8,
        reasoning        String
    ) ENGINE = MergeTree()
    ORDER BY (product_id, issued_at)
    TTL issued_at + INTERVAL 90 DAY`,
}

// Init ensures the database objects exist.
func (s *CHTrainingStore) Init(ctx context.Context) error {
	if err := s.ch.InitSchema(ctx, trainingSchema); err != nil {
		return fmt.Errorf("training store init: %w", err)
	}
	return nil
}

// LoadCorpus returns the most recent labeled snapshots, newest first.
func (s *CHTrainingStore) LoadCorpus(ctx context.Context, limit int) ([]models.TrainingRecord, error) {
	start := time.Now()
	const q = `
        SELECT product_id, name, current_price, stock_left, category, expiry_date, optimal_price
        FROM shelfprice.training_corpus
        ORDER BY recorded_at DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_corpus query error",
				applogger.Int("limit", limit),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	defer rows.Close()

	out := make([]models.TrainingRecord, 0, limit)
	for rows.Next() {
		var r models.TrainingRecord
		if err := rows.Scan(&r.ProductID, &r.Name, &r.CurrentPrice, &r.StockLeft, &r.Category, &r.ExpiryDate, &r.OptimalPrice); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse load_corpus scan error", applogger.Error(err))
			}
			return nil, fmt.Errorf("scan training record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_corpus rows error", applogger.Error(err))
		}
		return nil, fmt.Errorf("rows: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse load_corpus ok",
			applogger.Int("limit", limit),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// RecordRecommendation appends one issued recommendation to the audit table.
func (s *CHTrainingStore) RecordRecommendation(ctx context.Context, rec *models.Recommendation) error {
	const q = `
        INSERT INTO shelfprice.recommendations
            (issued_at, product_id, current_price, final_price, discount_percent, confidence, fallback_mode, reasoning)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	fallback := uint8(0)
	if rec.FallbackMode {
		fallback = 1
	}
	if _, err := s.db.ExecContext(ctx, q,
		rec.Timestamp, rec.ProductID, rec.CurrentPrice, rec.FinalPrice,
		rec.DiscountPercent, rec.Confidence, fallback, rec.Reasoning,
	); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse record_recommendation error",
				applogger.String("product_id", rec.ProductID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("record recommendation: %w", err)
	}
	return nil
}

// Health performs a connectivity check.
func (s *CHTrainingStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

// Close releases the connection pool.
func (s *CHTrainingStore) Close() error {
	return s.ch.Close()
}
