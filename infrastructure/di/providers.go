package di

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/commands/bus"
	commandhandlers "mnuda-backend/application/commands/handlers"
	"mnuda-backend/application/ports"
	"mnuda-backend/application/queries"
	querybus "mnuda-backend/application/queries/bus"
	queryhandlers "mnuda-backend/application/queries/handlers"
	"mnuda-backend/infrastructure/config"
	"mnuda-backend/infrastructure/messaging/eventbridge"
	dynamopersist "mnuda-backend/infrastructure/persistence/dynamodb"
	"mnuda-backend/infrastructure/persistence/memory"
	"mnuda-backend/infrastructure/skipengine"
	"mnuda-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics instance
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config) *observability.Metrics {
	namespace := fmt.Sprintf("Mnuda/%s", cfg.Environment)
	return observability.NewMetrics(namespace, client)
}

// ProvideTracer creates the tracer instance
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("mnuda-backend")
}

// ProvideSessionRepository selects the session persistence driver
func ProvideSessionRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.SessionRepository {
	if cfg.PersistenceDriver == "dynamodb" {
		return dynamopersist.NewSessionRepository(client, cfg.DynamoDBTable, logger)
	}
	return memory.NewSessionRepository(logger)
}

// ProvideSkipEngine creates the upstream lookup client
func ProvideSkipEngine(cfg *config.Config, tracer *observability.Tracer, metrics *observability.Metrics, logger *zap.Logger) ports.SkipEngine {
	return skipengine.NewClient(
		cfg.SkipEngineBaseURL,
		cfg.SkipEngineAPIKey,
		time.Duration(cfg.RequestTimeoutSecs)*time.Second,
		tracer,
		metrics,
		logger,
	)
}

// ProvideGeocoder creates the reverse geocoder
func ProvideGeocoder(cfg *config.Config, tracer *observability.Tracer, logger *zap.Logger) ports.Geocoder {
	return skipengine.NewGeocoder(
		cfg.GeocoderBaseURL,
		time.Duration(cfg.RequestTimeoutSecs)*time.Second,
		tracer,
		logger,
	)
}

// ProvideEventPublisher creates the event publisher; without a configured bus
// events are dropped
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventPublisher {
	if cfg.EventBusName == "" {
		return eventbridge.NewNopPublisher()
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideInMemoryCache creates the query cache
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// Result-bearing command handler providers

// ProvideCreateSessionHandler creates the create session handler
func ProvideCreateSessionHandler(repo ports.SessionRepository, logger *zap.Logger) *commands.CreateSessionHandler {
	return commands.NewCreateSessionHandler(repo, logger)
}

// ProvideAddNodeHandler creates the add node handler
func ProvideAddNodeHandler(repo ports.SessionRepository, publisher ports.EventPublisher, logger *zap.Logger) *commands.AddNodeHandler {
	return commands.NewAddNodeHandler(repo, publisher, logger)
}

// ProvideBootstrapNodeHandler creates the bootstrap node handler
func ProvideBootstrapNodeHandler(repo ports.SessionRepository, geocoder ports.Geocoder, publisher ports.EventPublisher, logger *zap.Logger) *commands.BootstrapNodeHandler {
	return commands.NewBootstrapNodeHandler(repo, geocoder, publisher, logger)
}

// ProvideRunSearchHandler creates the run search handler
func ProvideRunSearchHandler(repo ports.SessionRepository, engine ports.SkipEngine, publisher ports.EventPublisher, logger *zap.Logger) *commands.RunSearchHandler {
	return commands.NewRunSearchHandler(repo, engine, publisher, logger)
}

// ProvideTracePersonHandler creates the trace person handler
func ProvideTracePersonHandler(repo ports.SessionRepository, engine ports.SkipEngine, publisher ports.EventPublisher, logger *zap.Logger) *commands.TracePersonHandler {
	return commands.NewTracePersonHandler(repo, engine, publisher, logger)
}

// ProvideTraceAddressHandler creates the trace address handler
func ProvideTraceAddressHandler(repo ports.SessionRepository, engine ports.SkipEngine, publisher ports.EventPublisher, logger *zap.Logger) *commands.TraceAddressHandler {
	return commands.NewTraceAddressHandler(repo, engine, publisher, logger)
}

// ProvideImportSessionHandler creates the import session handler
func ProvideImportSessionHandler(repo ports.SessionRepository, publisher ports.EventPublisher, logger *zap.Logger) *commandhandlers.ImportSessionHandler {
	return commandhandlers.NewImportSessionHandler(repo, publisher, logger)
}

// ProvideSessionQueryHandler creates the session query handler
func ProvideSessionQueryHandler(repo ports.SessionRepository, logger *zap.Logger) *queryhandlers.SessionQueryHandler {
	return queryhandlers.NewSessionQueryHandler(repo, logger)
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

// Handle implements bus.CommandHandler
func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	repo ports.SessionRepository,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()

	deleteHandler := commandhandlers.NewDeleteNodeHandler(repo, publisher, logger)
	commandBus.Register(commands.DeleteNodeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			deleteCmd, ok := cmd.(commands.DeleteNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return deleteHandler.Handle(ctx, deleteCmd)
		},
	})

	titleHandler := commandhandlers.NewSetTitleHandler(repo, logger)
	commandBus.Register(commands.SetNodeTitleCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			titleCmd, ok := cmd.(commands.SetNodeTitleCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return titleHandler.Handle(ctx, titleCmd)
		},
	})

	return commandBus
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

// Handle implements querybus.QueryHandler
func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	sessionQueries *queryhandlers.SessionQueryHandler,
) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()

	queryBus.Register(queries.GetNodeQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetNodeQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionQueries.GetNode(ctx, q)
		},
	})

	queryBus.Register(queries.ListNodesQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListNodesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionQueries.ListNodes(ctx, q)
		},
	})

	queryBus.Register(queries.GetLineageQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetLineageQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionQueries.GetLineage(ctx, q)
		},
	})

	queryBus.Register(queries.GetEntitiesQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetEntitiesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionQueries.GetEntities(ctx, q)
		},
	})

	queryBus.Register(queries.GetSessionQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetSessionQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionQueries.GetSession(ctx, q)
		},
	})

	queryBus.Register(queries.ExportSessionQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ExportSessionQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return sessionQueries.ExportSession(ctx, q)
		},
	})

	return queryBus
}
