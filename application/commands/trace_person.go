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

// TracePersonCommand represents the command to drill into a traceable person
// entity. PersonData is the entity snapshot captured at click time; it is
// recorded on the child node verbatim for audit.
type TracePersonCommand struct {
	SessionID    string          `json:"session_id" validate:"required"`
	ParentNodeID string          `json:"parent_node_id" validate:"required"`
	EntityID     string          `json:"entity_id" validate:"required"`
	APIPersonID  string          `json:"api_person_id" validate:"required"`
	PersonData   json.RawMessage `json:"person_data,omitempty"`
}

// Validate validates the command
func (cmd TracePersonCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.ParentNodeID == "" {
		return errors.New("parent node ID is required")
	}
	if cmd.EntityID == "" {
		return errors.New("entity ID is required")
	}
	if cmd.APIPersonID == "" {
		return errors.New("upstream person ID is required")
	}
	return nil
}

// TracePersonHandler handles the TracePersonCommand
type TracePersonHandler struct {
	sessionRepo ports.SessionRepository
	skipEngine  ports.SkipEngine
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewTracePersonHandler creates a new handler instance
func NewTracePersonHandler(
	sessionRepo ports.SessionRepository,
	skipEngine ports.SkipEngine,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *TracePersonHandler {
	return &TracePersonHandler{
		sessionRepo: sessionRepo,
		skipEngine:  skipEngine,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the trace person command. On success the child node carries
// the full person-detail response. A rate-limited lookup adds nothing and
// surfaces the throttle to the caller; any other failure still records a
// minimal placeholder node so the attempted trace stays visible in the tree.
// A response that lands after the parent was deleted is discarded.
func (h *TracePersonHandler) Handle(ctx context.Context, cmd TracePersonCommand) (*entities.Node, error) {
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

	response, lookupErr := h.skipEngine.PersonDetail(ctx, cmd.APIPersonID)
	if lookupErr != nil && pkgerrors.IsRateLimit(lookupErr) {
		return nil, lookupErr
	}

	// The lookup may have taken long enough for the parent to disappear
	session, err = h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return nil, err
	}
	if _, ok := session.NodeByString(cmd.ParentNodeID); !ok {
		h.logger.Info("Discarding trace response for deleted node",
			zap.String("sessionID", cmd.SessionID),
			zap.String("parentNodeID", cmd.ParentNodeID),
		)
		return nil, nil
	}

	if lookupErr != nil {
		response = nil
		h.logger.Warn("Person detail lookup failed, recording placeholder",
			zap.String("apiPersonID", cmd.APIPersonID),
			zap.Error(lookupErr),
		)
	}
	node := entities.NewPersonNode(cmd.APIPersonID, cmd.PersonData, response, extraction.APINamePersonDetail, cmd.SessionID).
		WithTrigger(entityID, cmd.PersonData)

	if err := session.AddNode(node, parent.ID()); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	traced := events.NewEntityTraced(entityID, string(entities.EntityKindPerson), parent.ID(), node.ID(), time.Now())
	if err := h.eventBus.Publish(ctx, traced); err != nil {
		h.logger.Warn("Failed to publish trace event", zap.Error(err))
	}
	publishAndCommit(ctx, h.eventBus, session, h.logger)

	h.logger.Info("Person traced",
		zap.String("sessionID", cmd.SessionID),
		zap.String("nodeID", node.ID().String()),
		zap.Bool("placeholder", lookupErr != nil),
	)
	return node, nil
}
