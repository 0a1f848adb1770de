package ports

import (
	"context"

	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/events"
)

// SessionRepository defines the interface for session persistence.
// This is a port in hexagonal architecture - the domain doesn't know about the implementation.
type SessionRepository interface {
	// Save persists a session aggregate (create or update)
	Save(ctx context.Context, session *aggregates.Session) error

	// GetByID retrieves a session by its ID
	GetByID(ctx context.Context, id aggregates.SessionID) (*aggregates.Session, error)

	// Delete removes a session and all its nodes
	Delete(ctx context.Context, id aggregates.SessionID) error

	// List returns the IDs of all stored sessions
	List(ctx context.Context) ([]aggregates.SessionID, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching query results
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error
}
