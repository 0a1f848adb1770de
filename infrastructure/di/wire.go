//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"mnuda-backend/infrastructure/config"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideEventBridgeClient,
	ProvideCloudWatchClient,
	ProvideMetrics,
	ProvideTracer,
	ProvideSessionRepository,
	ProvideSkipEngine,
	ProvideGeocoder,
	ProvideEventPublisher,
	ProvideInMemoryCache,
	ProvideCreateSessionHandler,
	ProvideAddNodeHandler,
	ProvideBootstrapNodeHandler,
	ProvideRunSearchHandler,
	ProvideTracePersonHandler,
	ProvideTraceAddressHandler,
	ProvideImportSessionHandler,
	ProvideSessionQueryHandler,
	ProvideCommandBus,
	ProvideQueryBus,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
