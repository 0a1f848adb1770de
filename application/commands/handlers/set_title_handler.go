package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	pkgerrors "mnuda-backend/pkg/errors"
)

// SetTitleHandler handles custom title commands
type SetTitleHandler struct {
	sessionRepo ports.SessionRepository
	logger      *zap.Logger
}

// NewSetTitleHandler creates a new set title handler
func NewSetTitleHandler(sessionRepo ports.SessionRepository, logger *zap.Logger) *SetTitleHandler {
	return &SetTitleHandler{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Handle executes the set title command
func (h *SetTitleHandler) Handle(ctx context.Context, cmd commands.SetNodeTitleCommand) error {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return err
	}

	node, ok := session.NodeByString(cmd.NodeID)
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	node.SetCustomTitle(strings.TrimSpace(cmd.Title))

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return err
	}

	h.logger.Info("Node title updated",
		zap.String("sessionID", cmd.SessionID),
		zap.String("nodeID", cmd.NodeID),
	)
	return nil
}
