package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/events"
	"mnuda-backend/domain/extraction"
	pkgerrors "mnuda-backend/pkg/errors"
)

// TraceAddressCommand represents the command to drill into a traceable
// address entity: a people search seeded by the address, appended as a child
// of the node the entity came from.
type TraceAddressCommand struct {
	SessionID    string `json:"session_id" validate:"required"`
	ParentNodeID string `json:"parent_node_id" validate:"required"`
	EntityID     string `json:"entity_id" validate:"required"`
	Street       string `json:"street" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Postal       string `json:"postal,omitempty"`
}

// Validate validates the command
func (cmd TraceAddressCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.ParentNodeID == "" {
		return errors.New("parent node ID is required")
	}
	if cmd.EntityID == "" {
		return errors.New("entity ID is required")
	}
	if cmd.Street == "" || cmd.City == "" || cmd.State == "" {
		return errors.New("street, city, and state are required")
	}
	return nil
}

// TraceAddressHandler handles the TraceAddressCommand
type TraceAddressHandler struct {
	sessionRepo ports.SessionRepository
	skipEngine  ports.SkipEngine
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewTraceAddressHandler creates a new handler instance
func NewTraceAddressHandler(
	sessionRepo ports.SessionRepository,
	skipEngine ports.SkipEngine,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *TraceAddressHandler {
	return &TraceAddressHandler{
		sessionRepo: sessionRepo,
		skipEngine:  skipEngine,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the trace address command. The same failure policy as
// person traces applies: throttling adds nothing, other failures are not
// recorded for addresses because the search never started a visible step.
func (h *TraceAddressHandler) Handle(ctx context.Context, cmd TraceAddressCommand) (*entities.Node, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return nil, err
	}

	parent, ok := session.NodeByString(cmd.ParentNodeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("parent node")
	}

	entityID, err := valueobjects.ParseIdentifier(cmd.EntityID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid entity identifier: " + cmd.EntityID)
	}

	addr := valueobjects.NewAddress(cmd.Street, cmd.City, cmd.State, cmd.Postal)
	if !addr.IsSearchable() {
		return nil, pkgerrors.NewValidationError("address is not searchable")
	}

	response, err := h.skipEngine.PeopleByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}

	// Re-read: the lookup may have outlived the parent
	session, err = h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return nil, err
	}
	parent, ok = session.NodeByString(cmd.ParentNodeID)
	if !ok {
		h.logger.Info("Discarding trace response for deleted node",
			zap.String("sessionID", cmd.SessionID),
			zap.String("parentNodeID", cmd.ParentNodeID),
		)
		return nil, nil
	}

	node, err := entities.NewResultNode(entities.NodeKindAPIResult, extraction.APINameAddressSearch, response, cmd.SessionID)
	if err != nil {
		return nil, err
	}
	// The clicked entity is snapshotted as it was at trace time; it is never
	// re-derived from the parent's response later
	trigger, err := json.Marshal(addr)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to snapshot traced address").WithCause(err)
	}
	node.WithTrigger(entityID, trigger)
	node.SetAddress(addr)

	if err := session.AddNode(node, parent.ID()); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	traced := events.NewEntityTraced(entityID, string(entities.EntityKindAddress), parent.ID(), node.ID(), time.Now())
	if err := h.eventBus.Publish(ctx, traced); err != nil {
		h.logger.Warn("Failed to publish trace event", zap.Error(err))
	}
	publishAndCommit(ctx, h.eventBus, session, h.logger)

	h.logger.Info("Address traced",
		zap.String("sessionID", cmd.SessionID),
		zap.String("nodeID", node.ID().String()),
	)
	return node, nil
}
