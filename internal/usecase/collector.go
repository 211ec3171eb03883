package usecase

import (
	"context"
	"time"

	"ShelfPrice/internal/domain/models"
	domrepo "ShelfPrice/internal/domain/repository"
	mid "ShelfPrice/internal/middleware"
	"ShelfPrice/internal/repository"
	"ShelfPrice/pkg/logger"
)

// SnapshotCollector drives the live pricing loop. It consumes the inventory
// stream, pushes snapshots through the pipeline, and retrains the engine from
// the historical corpus on a fixed interval, persisting the model bundle
// after each successful run.
type SnapshotCollector struct {
	stream  domrepo.InventoryStream
	proc    *SnapshotProcessor
	pipe    *mid.PricingPipeline
	metrics domrepo.Metrics

	engine        *PricingEngine
	trainingStore domrepo.TrainingStore
	bundles       *repository.FileBundleStore
	retrainEvery  time.Duration
	trainingLimit int
	log           *logger.Logger
}

// NewSnapshotCollector creates a new SnapshotCollector instance.
func NewSnapshotCollector(
	stream domrepo.InventoryStream,
	proc *SnapshotProcessor,
	pipe *mid.PricingPipeline,
	metrics domrepo.Metrics,
	engine *PricingEngine,
	trainingStore domrepo.TrainingStore,
	bundles *repository.FileBundleStore,
	retrainEvery time.Duration,
	trainingLimit int,
	log *logger.Logger,
) *SnapshotCollector {
	return &SnapshotCollector{
		stream:        stream,
		proc:          proc,
		pipe:          pipe,
		metrics:       metrics,
		engine:        engine,
		trainingStore: trainingStore,
		bundles:       bundles,
		retrainEvery:  retrainEvery,
		trainingLimit: trainingLimit,
		log:           log,
	}
}

// IsConnected returns true if the inventory stream is connected.
func (c *SnapshotCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SnapshotCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	snapCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, snapCh, errCh)
	if c.trainingStore != nil && c.retrainEvery > 0 {
		go c.retrainLoop(ctx)
	}
	return nil
}

func (c *SnapshotCollector) consume(ctx context.Context, snapCh <-chan *models.ProductSnapshot, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case s := <-snapCh:
			if s == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, s)
			} else {
				_ = c.proc.Process(ctx, s)
			}
		}
	}
}

func (c *SnapshotCollector) retrainLoop(ctx context.Context) {
	// train once at startup so a fresh deployment does not sit in fallback
	// mode for a full interval
	c.Retrain(ctx)

	ticker := time.NewTicker(c.retrainEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Retrain(ctx)
		}
	}
}

// Retrain loads the corpus, retrains the engine and persists the bundle.
// Failures leave the previous model serving.
func (c *SnapshotCollector) Retrain(ctx context.Context) {
	start := time.Now()
	records, err := c.trainingStore.LoadCorpus(ctx, c.trainingLimit)
	if err != nil {
		c.metrics.RecordError("corpus_load")
		c.log.Error("corpus load failed", logger.Error(err))
		return
	}
	if err := c.engine.Train(ctx, records); err != nil {
		c.metrics.RecordError("train")
		c.log.Error("training failed",
			logger.Int("records", len(records)),
			logger.Error(err),
		)
		return
	}
	c.metrics.RecordLatency("train", time.Since(start).Seconds())
	c.log.Info("engine retrained",
		logger.Int("records", len(records)),
		logger.Duration("duration_ms", time.Since(start)),
	)

	if c.bundles != nil {
		if err := c.bundles.Save(c.engine.ExportBundle()); err != nil {
			c.metrics.RecordError("bundle_save")
			c.log.Error("bundle save failed", logger.Error(err))
		}
	}
}

func (c *SnapshotCollector) Stop() error { return c.stream.Close() }

// Processor returns the underlying SnapshotProcessor for lifecycle management.
func (c *SnapshotCollector) Processor() *SnapshotProcessor { return c.proc }

// Shutdown stops the pipeline, saves the bundle and closes the stream.
func (c *SnapshotCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	if c.bundles != nil && c.engine.IsTrained() {
		if err := c.bundles.Save(c.engine.ExportBundle()); err != nil {
			c.log.Error("bundle save on shutdown failed", logger.Error(err))
		}
	}
	return c.stream.Close()
}
