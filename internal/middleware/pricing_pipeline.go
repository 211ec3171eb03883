package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ShelfPrice/internal/domain/models"
	domrepo "ShelfPrice/internal/domain/repository"
	"ShelfPrice/internal/service/ratelimit"
)

// Proc is the minimal processor interface the pipeline needs.
type Proc interface {
	Process(ctx context.Context, s *models.ProductSnapshot) error
}

// PricingPipeline sits between the inventory feed and the pricing engine.
// It validates snapshots, throttles per product, and buffers when the
// downstream processor fails, flushing with backoff.
type PricingPipeline struct {
	proc    Proc
	metrics domrepo.Metrics
	limiter *ratelimit.Limiter
	maxRPS  float64
	bufSize int
	bufCh   chan *models.ProductSnapshot
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	// optional snapshot normalization hook
	transform func(*models.ProductSnapshot) *models.ProductSnapshot
}

type PipelineOption func(*PricingPipeline)

// WithMaxRPS sets the max snapshots per second per product.
func WithMaxRPS(n float64) PipelineOption {
	return func(p *PricingPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size for downstream failures.
func WithBufferSize(n int) PipelineOption {
	return func(p *PricingPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// WithTransform sets a normalization hook applied before validation reruns.
func WithTransform(fn func(*models.ProductSnapshot) *models.ProductSnapshot) PipelineOption {
	return func(p *PricingPipeline) { p.transform = fn }
}

// NewPricingPipeline creates a new pipeline.
func NewPricingPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *PricingPipeline {
	p := &PricingPipeline{
		proc:    proc,
		metrics: metrics,
		limiter: ratelimit.New(),
		maxRPS:  0, // unlimited unless WithMaxRPS is set
		bufSize: 1000,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.bufCh = make(chan *models.ProductSnapshot, p.bufSize)
	return p
}

// Start launches background flushing of buffered snapshots.
func (p *PricingPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case s := <-p.bufCh:
				if s == nil {
					continue
				}
				if err := p.proc.Process(ctx, s); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					select {
					case p.bufCh <- s:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *PricingPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards a snapshot to the processor,
// buffering on downstream errors.
func (p *PricingPipeline) Process(ctx context.Context, s *models.ProductSnapshot) error {
	start := time.Now()
	if err := validateSnapshot(s); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if p.transform != nil {
		s = p.transform(s)
		if err := validateSnapshot(s); err != nil {
			p.metrics.RecordError("pipeline_transform_invalid")
			return err
		}
	}
	if p.maxRPS > 0 && !p.limiter.Allow(s.ProductID, p.maxRPS, p.maxRPS) {
		// throttled; record and drop silently
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, s); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.bufCh <- s:
			p.metrics.RecordLatency("pipeline_buffer_depth", float64(len(p.bufCh)))
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateSnapshot(s *models.ProductSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot nil")
	}
	if s.ProductID == "" {
		return fmt.Errorf("product id empty")
	}
	if s.CurrentPrice <= 0 {
		return fmt.Errorf("price invalid")
	}
	if s.StockLeft < 0 {
		return fmt.Errorf("negative stock")
	}
	return nil
}
