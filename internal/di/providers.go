package di

import (
	"fmt"

	domrepo "ShelfPrice/internal/domain/repository"
	mid "ShelfPrice/internal/middleware"
	internalrepo "ShelfPrice/internal/repository"
	"ShelfPrice/internal/service/inventory"
	"ShelfPrice/internal/services/policy"
	"ShelfPrice/internal/usecase"
	"ShelfPrice/pkg/cache"
	pkgch "ShelfPrice/pkg/clickhouse"
	"ShelfPrice/pkg/config"
	pkgkafka "ShelfPrice/pkg/kafka"
	applogger "ShelfPrice/pkg/logger"
	"ShelfPrice/pkg/metrics"
	pkgqueue "ShelfPrice/pkg/queue"
	"ShelfPrice/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideEngine creates the pricing engine with the configured exploration
// rate.
func ProvideEngine(cfg *config.Config, log *applogger.Logger, m domrepo.Metrics) *usecase.PricingEngine {
	return usecase.NewPricingEngine(log,
		usecase.WithMetrics(m),
		usecase.WithPolicy(policy.New(policy.WithEpsilon(cfg.Engine.Epsilon))),
	)
}

// ProvideBundleStore creates the file-backed model bundle store.
func ProvideBundleStore(cfg *config.Config, log *applogger.Logger) *internalrepo.FileBundleStore {
	return internalrepo.NewFileBundleStore(cfg.Engine.BundlePath, log)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideTrainingStore creates the ClickHouse training store, or nil when
// ClickHouse is disabled.
func ProvideTrainingStore(chClient *pkgch.Client, log *applogger.Logger) domrepo.TrainingStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewCHTrainingStore(chClient)
	store.SetLogger(log)
	return store
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the recommendation publisher. Kafka when enabled;
// the structured log otherwise.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config, log *applogger.Logger) domrepo.Publisher {
	if producer == nil {
		return internalrepo.NewLogPublisher(log)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.RecommendationTopic, log)
}

// ProvideRedisCache creates the Redis cache backend, or nil when disabled.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCache creates the recommendation cache. Layered over Redis when
// available, in-process otherwise.
func ProvideCache(rc *cache.RedisCache) cache.Service {
	if rc == nil {
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(rc)
}

// ProvideRewardQueue creates the reward observation consumer, or nil when
// Redis is disabled. It shares the cache's Redis connection.
func ProvideRewardQueue(cfg *config.Config, log *applogger.Logger, engine *usecase.PricingEngine, rc *cache.RedisCache) *pkgqueue.RedisQueue {
	if rc == nil {
		return nil
	}
	jobs := []pkgqueue.Job{usecase.NewRewardJob(engine, log)}
	return pkgqueue.NewRedisConsumer(log,
		&pkgqueue.Config{Workers: 2, RetryLimit: 3},
		rc.Client(),
		jobs,
		pkgqueue.WithKeyPrefix(cfg.Redis.RewardQueue),
	)
}

// ProvideInventoryStream creates the inventory WebSocket stream.
func ProvideInventoryStream(cfg *config.Config, log *applogger.Logger) domrepo.InventoryStream {
	return inventory.New(
		cfg.Inventory.APIKey,
		cfg.Inventory.WebSocketURL,
		cfg.Inventory.Categories,
		cfg.Inventory.ReconnectDelay,
		cfg.Inventory.PingInterval,
		log,
	)
}

// ProvideSnapshotProcessor creates the snapshot processor use case.
func ProvideSnapshotProcessor(
	engine *usecase.PricingEngine,
	pub domrepo.Publisher,
	store domrepo.TrainingStore,
	c cache.Service,
	m domrepo.Metrics,
	cfg *config.Config,
) *usecase.SnapshotProcessor {
	return usecase.NewSnapshotProcessor(engine, pub, store, c, cfg.Redis.CacheTTL, m)
}

// ProvideSnapshotCollector creates the collector with its pipeline.
func ProvideSnapshotCollector(
	stream domrepo.InventoryStream,
	processor *usecase.SnapshotProcessor,
	m domrepo.Metrics,
	engine *usecase.PricingEngine,
	store domrepo.TrainingStore,
	bundles *internalrepo.FileBundleStore,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.SnapshotCollector {
	opts := []mid.PipelineOption{mid.WithBufferSize(cfg.Pipeline.BufferSize)}
	if cfg.Pipeline.RateLimit.Enabled {
		opts = append(opts, mid.WithMaxRPS(cfg.Pipeline.RateLimit.Rate))
	}
	pipe := mid.NewPricingPipeline(processor, m, opts...)
	return usecase.NewSnapshotCollector(
		stream,
		processor,
		pipe,
		m,
		engine,
		store,
		bundles,
		cfg.Engine.RetrainInterval,
		cfg.Engine.TrainingLimit,
		log,
	)
}

// ProvideKafkaConsumer creates a Kafka consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideSnapshotHandler registers the handler for the snapshot topic.
func ProvideSnapshotHandler(
	engine *usecase.PricingEngine,
	pub domrepo.Publisher,
	store domrepo.TrainingStore,
	m domrepo.Metrics,
	cfg *config.Config,
) *usecase.SnapshotHandler {
	return usecase.NewSnapshotHandler(cfg.Kafka.SnapshotTopic, engine, pub, store, m)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	engine *usecase.PricingEngine,
	collector *usecase.SnapshotCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.SnapshotHandler,
	rewards *pkgqueue.RedisQueue,
	chClient *pkgch.Client,
	store domrepo.TrainingStore,
	bundles *internalrepo.FileBundleStore,
) *server.App {
	var handler pkgkafka.MessageHandler
	if consumer != nil {
		handler = kh
	}
	return server.New(cfg, log, engine, collector, consumer, handler, rewards, chClient, store, bundles)
}
