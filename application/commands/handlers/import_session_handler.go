package handlers

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/events"
	pkgerrors "mnuda-backend/pkg/errors"
)

// ImportSessionHandler restores a session from an exported snapshot
type ImportSessionHandler struct {
	sessionRepo ports.SessionRepository
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewImportSessionHandler creates a new import session handler
func NewImportSessionHandler(
	sessionRepo ports.SessionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *ImportSessionHandler {
	return &ImportSessionHandler{
		sessionRepo: sessionRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the import session command. The snapshot is validated end
// to end: malformed JSON, bad identifiers, and broken forest invariants all
// reject the import without touching the store.
func (h *ImportSessionHandler) Handle(ctx context.Context, cmd commands.ImportSessionCommand) (*aggregates.Session, error) {
	var snap aggregates.SessionSnapshot
	if err := json.Unmarshal(cmd.Snapshot, &snap); err != nil {
		return nil, pkgerrors.NewValidationError("snapshot is not valid JSON: " + err.Error())
	}

	session, err := aggregates.ReconstructSession(snap)
	if err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	persisted := events.NewSessionPersisted(session.ID().String(), session.Len(), time.Now())
	if err := h.eventBus.Publish(ctx, persisted); err != nil {
		h.logger.Warn("Failed to publish import event", zap.Error(err))
	}

	h.logger.Info("Session imported",
		zap.String("sessionID", session.ID().String()),
		zap.Int("nodes", session.Len()),
	)
	return session, nil
}
