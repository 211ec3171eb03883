package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "ShelfPrice/internal/domain/repository"
	"ShelfPrice/internal/repository"
	"ShelfPrice/internal/usecase"
	pkgch "ShelfPrice/pkg/clickhouse"
	"ShelfPrice/pkg/config"
	pkgkafka "ShelfPrice/pkg/kafka"
	applogger "ShelfPrice/pkg/logger"
	pkgqueue "ShelfPrice/pkg/queue"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	engine    *usecase.PricingEngine
	collector *usecase.SnapshotCollector
	consumer  *pkgkafka.Consumer
	kh        pkgkafka.MessageHandler
	rewards   *pkgqueue.RedisQueue
	chClient  *pkgch.Client
	store     domrepo.TrainingStore
	bundles   *repository.FileBundleStore

	metricsSrv *http.Server
}

// New creates a new App instance with all dependencies. Consumer, rewards,
// chClient and store may be nil when the corresponding backend is disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	engine *usecase.PricingEngine,
	collector *usecase.SnapshotCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	rewards *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	store domrepo.TrainingStore,
	bundles *repository.FileBundleStore,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		engine:    engine,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		rewards:   rewards,
		chClient:  chClient,
		store:     store,
		bundles:   bundles,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Restore the persisted model bundle. A missing or unreadable bundle is
	// not fatal; the engine serves rule-based fallback prices until the
	// first training run completes.
	if a.bundles != nil {
		if b, err := a.bundles.Load(); err != nil {
			a.log.Warn("bundle load failed, starting untrained", applogger.Error(err))
		} else if err := a.engine.RestoreBundle(b); err != nil {
			a.log.Warn("bundle restore failed, starting untrained", applogger.Error(err))
		} else {
			a.log.Info("model bundle restored",
				applogger.Bool("trained", a.engine.IsTrained()),
			)
		}
	}

	// Ensure ClickHouse schema before anything reads or writes.
	if a.store != nil {
		initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
		err := a.store.Init(initCtx)
		initCancel()
		if err != nil {
			return fmt.Errorf("training store init: %w", err)
		}
	}

	// Start collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("collector error", applogger.Error(err))
		}
	}()
	a.log.Info("collector started", applogger.Strings("categories", a.cfg.Inventory.Categories))

	// Start Kafka consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start reward queue workers if configured
	if a.rewards != nil {
		if err := a.rewards.Start(); err != nil {
			a.log.Error("reward queue start error", applogger.Error(err))
		} else {
			a.log.Info("reward queue started")
		}
	}

	// Expose Prometheus metrics
	if a.cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(a.cfg.Metrics.Path, promhttp.Handler())
		a.metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", a.cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			if err := a.metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.log.Error("metrics server error", applogger.Error(err))
			}
		}()
		a.log.Info("metrics server started", applogger.Int("port", a.cfg.Metrics.Port))
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	// Stop collector (pipeline + stream); saves the bundle when trained.
	if err := a.collector.Shutdown(ctx); err != nil {
		a.log.Warn("collector stop error", applogger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(shutdownCtx); err != nil {
			a.log.Warn("metrics server shutdown error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.rewards != nil {
		if err := a.rewards.Stop(shutdownCtx); err != nil {
			a.log.Warn("reward queue stop error", applogger.Error(err))
		}
	}

	// Close processor resources (publisher, audit store).
	if p := a.collector.Processor(); p != nil {
		p.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
