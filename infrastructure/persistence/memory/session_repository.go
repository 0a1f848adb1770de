package memory

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	pkgerrors "mnuda-backend/pkg/errors"
)

// SessionRepository keeps live session aggregates in process memory. It is
// the default driver for local development and the working set in front of
// the snapshot store.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[aggregates.SessionID]*aggregates.Session
	logger   *zap.Logger
}

// NewSessionRepository creates a new in-memory session repository
func NewSessionRepository(logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		sessions: make(map[aggregates.SessionID]*aggregates.Session),
		logger:   logger,
	}
}

var _ ports.SessionRepository = (*SessionRepository)(nil)

// Save persists a session aggregate
func (r *SessionRepository) Save(_ context.Context, session *aggregates.Session) error {
	if session == nil {
		return pkgerrors.NewValidationError("session cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
	return nil
}

// GetByID retrieves a session by its ID
func (r *SessionRepository) GetByID(_ context.Context, id aggregates.SessionID) (*aggregates.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("session")
	}
	return session, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(_ context.Context, id aggregates.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return pkgerrors.NewNotFoundError("session")
	}
	delete(r.sessions, id)
	return nil
}

// List returns the IDs of all stored sessions
func (r *SessionRepository) List(_ context.Context) ([]aggregates.SessionID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]aggregates.SessionID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}
