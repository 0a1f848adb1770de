package events

import (
	"time"

	"mnuda-backend/domain/core/valueobjects"
)

// SourceBackend identifies this service as the event source on the bus
const SourceBackend = "mnuda.backend"

// DomainEvent is the base interface for all domain events.
// Events represent something that has happened in the past.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Node events

// NodeCreated is raised when a new investigation node is recorded
type NodeCreated struct {
	BaseEvent
	NodeID       valueobjects.Identifier `json:"node_id"`
	NodeKind     string                  `json:"node_kind"`
	ParentNodeID string                  `json:"parent_node_id,omitempty"`
	SessionID    string                  `json:"session_id"`
}

// NewNodeCreated creates a NodeCreated event
func NewNodeCreated(nodeID valueobjects.Identifier, nodeKind, parentNodeID, sessionID string, timestamp time.Time) NodeCreated {
	return NodeCreated{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.created",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:       nodeID,
		NodeKind:     nodeKind,
		ParentNodeID: parentNodeID,
		SessionID:    sessionID,
	}
}

// NodeCompleted is raised when a node's search finishes and its result is
// attached, or when derived completion flips an input node to completed
type NodeCompleted struct {
	BaseEvent
	NodeID      valueobjects.Identifier `json:"node_id"`
	EntityCount int                     `json:"entity_count"`
}

// NewNodeCompleted creates a NodeCompleted event
func NewNodeCompleted(nodeID valueobjects.Identifier, entityCount int, timestamp time.Time) NodeCompleted {
	return NodeCompleted{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.completed",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:      nodeID,
		EntityCount: entityCount,
	}
}

// NodeDeleted is raised when a node is removed from the session
type NodeDeleted struct {
	BaseEvent
	NodeID         valueobjects.Identifier `json:"node_id"`
	ParentNodeID   string                  `json:"parent_node_id,omitempty"`
	OrphanedChilds []string                `json:"orphaned_child_ids,omitempty"`
}

// NewNodeDeleted creates a NodeDeleted event
func NewNodeDeleted(nodeID valueobjects.Identifier, parentNodeID string, orphaned []string, timestamp time.Time) NodeDeleted {
	return NodeDeleted{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.deleted",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:         nodeID,
		ParentNodeID:   parentNodeID,
		OrphanedChilds: orphaned,
	}
}

// EntityTraced is raised when a traceable entity spawns a child node
type EntityTraced struct {
	BaseEvent
	EntityID     valueobjects.Identifier `json:"entity_id"`
	EntityKind   string                  `json:"entity_kind"`
	ParentNodeID valueobjects.Identifier `json:"parent_node_id"`
	ChildNodeID  valueobjects.Identifier `json:"child_node_id"`
}

// NewEntityTraced creates an EntityTraced event
func NewEntityTraced(entityID valueobjects.Identifier, entityKind string, parentNodeID, childNodeID valueobjects.Identifier, timestamp time.Time) EntityTraced {
	return EntityTraced{
		BaseEvent: BaseEvent{
			AggregateID: childNodeID.String(),
			EventType:   "entity.traced",
			Timestamp:   timestamp,
			Version:     1,
		},
		EntityID:     entityID,
		EntityKind:   entityKind,
		ParentNodeID: parentNodeID,
		ChildNodeID:  childNodeID,
	}
}

// Session events

// SessionPersisted is raised after a session snapshot is written out
type SessionPersisted struct {
	BaseEvent
	SessionID string `json:"session_id"`
	NodeCount int    `json:"node_count"`
}

// NewSessionPersisted creates a SessionPersisted event
func NewSessionPersisted(sessionID string, nodeCount int, timestamp time.Time) SessionPersisted {
	return SessionPersisted{
		BaseEvent: BaseEvent{
			AggregateID: sessionID,
			EventType:   "session.persisted",
			Timestamp:   timestamp,
			Version:     1,
		},
		SessionID: sessionID,
		NodeCount: nodeCount,
	}
}
