package handlers

import (
	"context"

	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/core/valueobjects"
	pkgerrors "mnuda-backend/pkg/errors"
)

// DeleteNodeHandler handles node deletion commands
type DeleteNodeHandler struct {
	sessionRepo ports.SessionRepository
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewDeleteNodeHandler creates a new delete node handler
func NewDeleteNodeHandler(
	sessionRepo ports.SessionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *DeleteNodeHandler {
	return &DeleteNodeHandler{
		sessionRepo: sessionRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the delete node command
func (h *DeleteNodeHandler) Handle(ctx context.Context, cmd commands.DeleteNodeCommand) error {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return err
	}

	nodeID, err := valueobjects.ParseIdentifier(cmd.NodeID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid node identifier: " + cmd.NodeID)
	}

	if err := session.DeleteNode(nodeID); err != nil {
		return err
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	evts := session.GetUncommittedEvents()
	if len(evts) > 0 {
		if err := h.eventBus.PublishBatch(ctx, evts); err != nil {
			h.logger.Warn("Failed to publish deletion events", zap.Error(err))
		}
		session.MarkEventsAsCommitted()
	}

	h.logger.Info("Node deleted",
		zap.String("sessionID", cmd.SessionID),
		zap.String("nodeID", cmd.NodeID),
	)
	return nil
}
