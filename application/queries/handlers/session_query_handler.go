package handlers

import (
	"context"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/application/queries"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/extraction"
	"mnuda-backend/domain/relationships"
	pkgerrors "mnuda-backend/pkg/errors"
)

// SessionQueryHandler serves all session and node read models. Reads never
// mutate the store; relationships, titles, entities, and display order are
// all derived per request.
type SessionQueryHandler struct {
	sessionRepo ports.SessionRepository
	logger      *zap.Logger
}

// NewSessionQueryHandler creates a new session query handler
func NewSessionQueryHandler(sessionRepo ports.SessionRepository, logger *zap.Logger) *SessionQueryHandler {
	return &SessionQueryHandler{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// GetNode serves GetNodeQuery
func (h *SessionQueryHandler) GetNode(ctx context.Context, q queries.GetNodeQuery) (*queries.NodeDetailView, error) {
	session, node, err := h.load(ctx, q.SessionID, q.NodeID)
	if err != nil {
		return nil, err
	}

	all := session.Nodes()
	rel := relationships.Resolve(node, all)
	ents, _ := extraction.ExtractForNode(node)

	view := &queries.NodeDetailView{
		NodeView:          queries.BuildNodeView(rel),
		PersonID:          node.PersonID(),
		PersonData:        node.PersonData(),
		Response:          node.Response(),
		ClickedEntityData: node.ClickedEntityData(),
		Entities:          ents,
	}
	if !node.ClickedEntityID().IsZero() {
		view.ClickedEntityID = node.ClickedEntityID().String()
	}
	return view, nil
}

// ListNodes serves ListNodesQuery
func (h *SessionQueryHandler) ListNodes(ctx context.Context, q queries.ListNodesQuery) ([]queries.NodeView, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(q.SessionID))
	if err != nil {
		return nil, err
	}

	all := session.Nodes()
	ordered := relationships.DisplayOrder(all)

	index := make(map[string]relationships.Relationship, len(all))
	for _, rel := range relationships.ResolveAll(all) {
		index[rel.Node.ID().String()] = rel
	}

	views := make([]queries.NodeView, 0, len(ordered))
	for _, n := range ordered {
		views = append(views, queries.BuildNodeView(index[n.ID().String()]))
	}
	return views, nil
}

// GetLineage serves GetLineageQuery
func (h *SessionQueryHandler) GetLineage(ctx context.Context, q queries.GetLineageQuery) ([]queries.NodeView, error) {
	session, node, err := h.load(ctx, q.SessionID, q.NodeID)
	if err != nil {
		return nil, err
	}

	all := session.Nodes()
	chain := relationships.Lineage(node, all)

	views := make([]queries.NodeView, 0, len(chain))
	for _, ancestor := range chain {
		views = append(views, queries.BuildNodeView(relationships.Resolve(ancestor, all)))
	}
	return views, nil
}

// GetEntities serves GetEntitiesQuery
func (h *SessionQueryHandler) GetEntities(ctx context.Context, q queries.GetEntitiesQuery) (*queries.EntitiesView, error) {
	_, node, err := h.load(ctx, q.SessionID, q.NodeID)
	if err != nil {
		return nil, err
	}

	ents, counts := extraction.ExtractForNode(node)
	return &queries.EntitiesView{
		NodeID:   node.ID().String(),
		Entities: ents,
		Counts:   counts,
	}, nil
}

// GetSession serves GetSessionQuery
func (h *SessionQueryHandler) GetSession(ctx context.Context, q queries.GetSessionQuery) (*queries.SessionView, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(q.SessionID))
	if err != nil {
		return nil, err
	}

	view := &queries.SessionView{
		SessionID: session.ID().String(),
		Name:      session.Name(),
		NodeCount: session.Len(),
		CreatedAt: session.CreatedAt(),
		UpdatedAt: session.UpdatedAt(),
	}
	if q.IncludeNodes {
		nodes, err := h.ListNodes(ctx, queries.ListNodesQuery{SessionID: q.SessionID})
		if err != nil {
			return nil, err
		}
		view.Nodes = nodes
	}
	return view, nil
}

// ExportSession serves ExportSessionQuery
func (h *SessionQueryHandler) ExportSession(ctx context.Context, q queries.ExportSessionQuery) (aggregates.SessionSnapshot, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(q.SessionID))
	if err != nil {
		return aggregates.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

func (h *SessionQueryHandler) load(ctx context.Context, sessionID, nodeID string) (*aggregates.Session, *entities.Node, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(sessionID))
	if err != nil {
		return nil, nil, err
	}
	node, ok := session.NodeByString(nodeID)
	if !ok {
		return nil, nil, pkgerrors.NewNotFoundError("node")
	}
	return session, node, nil
}
