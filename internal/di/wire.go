//go:build wireinject
// +build wireinject

package di

import (
	"ShelfPrice/pkg/config"
	"ShelfPrice/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Engine and persistence
		ProvideEngine,
		ProvideBundleStore,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideRedisCache,

		// Repositories
		ProvideTrainingStore,
		ProvidePublisher,
		ProvideCache,
		ProvideInventoryStream,

		// Use cases
		ProvideSnapshotProcessor,
		ProvideSnapshotCollector,
		ProvideSnapshotHandler,
		ProvideRewardQueue,
		ProvideKafkaConsumer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
