package queries

import (
	"encoding/json"
	"time"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/relationships"
	"mnuda-backend/domain/titles"
)

// NodeView is the read model for one node: identity, derived title, resolved
// linkage, lifecycle state, and the per-kind entity counts. Everything
// derived here is recomputed from the store on each read.
type NodeView struct {
	ID           string                `json:"mnNodeId"`
	Kind         string                `json:"type"`
	Title        string                `json:"title"`
	CustomTitle  string                `json:"customTitle,omitempty"`
	APIName      string                `json:"apiName,omitempty"`
	ParentNodeID string                `json:"parentNodeId,omitempty"`
	ChildIDs     []string              `json:"childMnudaIds,omitempty"`
	Orphaned     bool                  `json:"orphaned,omitempty"`
	Pinned       bool                  `json:"pinned,omitempty"`
	Status       string                `json:"status"`
	HasCompleted bool                  `json:"hasCompleted"`
	EntityCounts entities.EntityCounts `json:"entityCounts"`
	Timestamp    time.Time             `json:"timestamp"`
}

// NodeDetailView extends NodeView with the raw payloads a drill-down screen
// needs
type NodeDetailView struct {
	NodeView
	PersonID          string          `json:"personId,omitempty"`
	PersonData        json.RawMessage `json:"personData,omitempty"`
	Response          json.RawMessage `json:"response,omitempty"`
	ClickedEntityID   string          `json:"clickedEntityId,omitempty"`
	ClickedEntityData json.RawMessage `json:"clickedEntityData,omitempty"`
	Entities          []entities.Entity `json:"entities,omitempty"`
}

// SessionView is the read model for a session header
type SessionView struct {
	SessionID string     `json:"sessionId"`
	Name      string     `json:"name"`
	NodeCount int        `json:"nodeCount"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Nodes     []NodeView `json:"nodes,omitempty"`
}

// EntitiesView pairs a node's derived entity list with its counts
type EntitiesView struct {
	NodeID   string                `json:"mnNodeId"`
	Entities []entities.Entity     `json:"entities"`
	Counts   entities.EntityCounts `json:"counts"`
}

// BuildNodeView maps a resolved relationship to the read model
func BuildNodeView(rel relationships.Relationship) NodeView {
	n := rel.Node
	view := NodeView{
		ID:           n.ID().String(),
		Kind:         string(n.Kind()),
		Title:        titles.Derive(n),
		CustomTitle:  n.CustomTitle(),
		APIName:      n.APIName(),
		Orphaned:     rel.IsOrphan(),
		Pinned:       n.IsPinned(),
		Status:       string(n.Status()),
		HasCompleted: n.HasCompleted(),
		EntityCounts: rel.EntityCounts,
		Timestamp:    n.Timestamp(),
	}
	if !n.ParentNodeID().IsZero() {
		view.ParentNodeID = n.ParentNodeID().String()
	}
	for _, child := range rel.Children {
		view.ChildIDs = append(view.ChildIDs, child.ID().String())
	}
	return view
}
