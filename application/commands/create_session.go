package commands

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
)

// CreateSessionCommand represents the command to open a new investigation
// session
type CreateSessionCommand struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// Validate validates the command
func (cmd CreateSessionCommand) Validate() error {
	if strings.TrimSpace(cmd.Name) == "" {
		return errors.New("session name is required")
	}
	if len(cmd.Name) > MaxSessionNameLength {
		return errors.New("session name exceeds maximum length")
	}
	return nil
}

const MaxSessionNameLength = 120

// CreateSessionHandler handles the CreateSessionCommand
type CreateSessionHandler struct {
	sessionRepo ports.SessionRepository
	logger      *zap.Logger
}

// NewCreateSessionHandler creates a new handler instance
func NewCreateSessionHandler(sessionRepo ports.SessionRepository, logger *zap.Logger) *CreateSessionHandler {
	return &CreateSessionHandler{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// Handle executes the create session command
func (h *CreateSessionHandler) Handle(ctx context.Context, cmd CreateSessionCommand) (*aggregates.Session, error) {
	session := aggregates.NewSession(strings.TrimSpace(cmd.Name))

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	h.logger.Info("Session created",
		zap.String("sessionID", session.ID().String()),
		zap.String("name", session.Name()),
	)
	return session, nil
}
