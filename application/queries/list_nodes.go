package queries

import "errors"

// ListNodesQuery represents a query for a session's nodes in display order:
// pinned bootstrap nodes first in creation order, then ordinary nodes
// newest-first
type ListNodesQuery struct {
	SessionID string
}

// Validate validates the ListNodesQuery
func (q ListNodesQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	return nil
}

// GetSessionQuery represents a query for a session header and its nodes
type GetSessionQuery struct {
	SessionID string
	// IncludeNodes controls whether the node views are materialized
	IncludeNodes bool
}

// Validate validates the GetSessionQuery
func (q GetSessionQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	return nil
}

// ExportSessionQuery represents a query for a session's portable snapshot
type ExportSessionQuery struct {
	SessionID string
}

// Validate validates the ExportSessionQuery
func (q ExportSessionQuery) Validate() error {
	if q.SessionID == "" {
		return errors.New("session ID is required")
	}
	return nil
}
