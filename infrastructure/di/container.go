package di

import (
	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/commands/bus"
	commandhandlers "mnuda-backend/application/commands/handlers"
	"mnuda-backend/application/ports"
	querybus "mnuda-backend/application/queries/bus"
	queryhandlers "mnuda-backend/application/queries/handlers"
	"mnuda-backend/infrastructure/config"
	"mnuda-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	SessionRepo ports.SessionRepository
	SkipEngine  ports.SkipEngine
	Geocoder    ports.Geocoder
	EventBus    ports.EventPublisher
	Cache       ports.Cache
	Metrics     *observability.Metrics
	Tracer      *observability.Tracer

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	// Result-bearing command handlers; the buses return errors only, these
	// hand back the created aggregate or node for the HTTP response
	CreateSession *commands.CreateSessionHandler
	AddNode       *commands.AddNodeHandler
	Bootstrap     *commands.BootstrapNodeHandler
	RunSearch     *commands.RunSearchHandler
	TracePerson   *commands.TracePersonHandler
	TraceAddress  *commands.TraceAddressHandler
	ImportSession *commandhandlers.ImportSessionHandler

	SessionQueries *queryhandlers.SessionQueryHandler
}
