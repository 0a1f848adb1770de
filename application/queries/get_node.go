package queries

import "errors"

// GetNodeQuery represents a query to get a single node with its payloads and
// derived entities
type GetNodeQuery struct {
	SessionID string
	NodeID    string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// GetEntitiesQuery represents a query for the entities derived from one
// node's response
type GetEntitiesQuery struct {
	SessionID string
	NodeID    string
}

// Validate validates the GetEntitiesQuery
func (q GetEntitiesQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// GetLineageQuery represents a query for a node's ancestor chain, nearest
// parent first
type GetLineageQuery struct {
	SessionID string
	NodeID    string
}

// Validate validates the GetLineageQuery
func (q GetLineageQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	if q.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}
