package aggregates

import (
	"time"

	"github.com/google/uuid"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/events"
	pkgerrors "mnuda-backend/pkg/errors"
)

// SessionID represents a unique investigation session identifier
type SessionID string

// NewSessionID creates a new random SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// Session is the aggregate root for one investigation. It owns the
// append-mostly node store and the forest invariants: a node's parent must
// exist in the same store and must have been created before the node, and
// parent/child links never form a cycle.
type Session struct {
	id        SessionID
	name      string
	nodes     []*entities.Node
	index     map[string]*entities.Node
	createdAt time.Time
	updatedAt time.Time
	events    []events.DomainEvent
}

// NewSession creates a new session aggregate
func NewSession(name string) *Session {
	now := time.Now()
	return &Session{
		id:        NewSessionID(),
		name:      name,
		nodes:     []*entities.Node{},
		index:     make(map[string]*entities.Node),
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the session's unique identifier
func (s *Session) ID() SessionID { return s.id }

// Name returns the session's display name
func (s *Session) Name() string { return s.name }

// CreatedAt returns when the session was created
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns when the session was last changed
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// Len returns the number of nodes in the store
func (s *Session) Len() int { return len(s.nodes) }

// AddNode appends a node to the store. If parentID is non-zero the parent
// must already exist; the new node is linked to the end of the parent's
// child list. Creation order is the canonical store order.
func (s *Session) AddNode(node *entities.Node, parentID valueobjects.Identifier) error {
	if node == nil {
		return pkgerrors.NewValidationError("node cannot be nil")
	}
	if _, exists := s.index[node.ID().String()]; exists {
		return pkgerrors.NewConflictError("node already exists in session")
	}

	if !parentID.IsZero() {
		parent, ok := s.index[parentID.String()]
		if !ok {
			return pkgerrors.NewNotFoundError("parent node")
		}
		entities.LinkParentChild(parent, node)
	}

	s.nodes = append(s.nodes, node)
	s.index[node.ID().String()] = node
	s.updatedAt = time.Now()
	return nil
}

// Node retrieves a node by identifier; the second return reports presence
func (s *Session) Node(id valueobjects.Identifier) (*entities.Node, bool) {
	n, ok := s.index[id.String()]
	return n, ok
}

// NodeByString retrieves a node by its raw identifier string
func (s *Session) NodeByString(id string) (*entities.Node, bool) {
	n, ok := s.index[id]
	return n, ok
}

// Nodes returns all nodes in insertion (creation) order. The slice is a
// copy; the nodes are shared.
func (s *Session) Nodes() []*entities.Node {
	out := make([]*entities.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Children returns the nodes recorded in parent's child list, preserving the
// recorded link order. Missing children (deleted nodes) are skipped rather
// than reported as an error.
func (s *Session) Children(parentID valueobjects.Identifier) []*entities.Node {
	parent, ok := s.index[parentID.String()]
	if !ok {
		return nil
	}
	var out []*entities.Node
	for _, cid := range parent.ChildIDs() {
		if child, ok := s.index[cid.String()]; ok {
			out = append(out, child)
		}
	}
	return out
}

// DeleteNode removes a node from the store and detaches it from its parent's
// child list. Descendants are orphaned, not cascade-deleted: they stay in
// the store pointing at a now-missing parent, and readers must treat that as
// an orphaned root.
func (s *Session) DeleteNode(id valueobjects.Identifier) error {
	node, ok := s.index[id.String()]
	if !ok {
		return pkgerrors.NewNotFoundError("node")
	}

	if pid := node.ParentNodeID(); !pid.IsZero() {
		if parent, ok := s.index[pid.String()]; ok {
			entities.DetachChild(parent, id)
		}
	}

	for i, n := range s.nodes {
		if n.ID().Equals(id) {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			break
		}
	}
	delete(s.index, id.String())
	s.updatedAt = time.Now()

	var orphaned []string
	for _, cid := range node.ChildIDs() {
		orphaned = append(orphaned, cid.String())
	}
	parentStr := ""
	if !node.ParentNodeID().IsZero() {
		parentStr = node.ParentNodeID().String()
	}
	s.addEvent(events.NewNodeDeleted(id, parentStr, orphaned, s.updatedAt))

	return nil
}

// RecomputeCompletion applies the derived lifecycle transition: an input node
// becomes completed when its immediate next sibling in store order is a
// result node whose primary collection is non-empty. hasPrimaryResults
// decides the latter from the sibling's raw response. The computation is a
// pure function of store contents, so calling it repeatedly on an unchanged
// store is a no-op.
func (s *Session) RecomputeCompletion(hasPrimaryResults func(*entities.Node) bool) {
	for i, node := range s.nodes {
		if !node.IsInputNode() || node.HasCompleted() {
			continue
		}
		if i+1 >= len(s.nodes) {
			continue
		}
		next := s.nodes[i+1]
		if next.IsInputNode() {
			continue
		}
		if hasPrimaryResults(next) {
			node.MarkCompleted()
		}
	}
}

// Validate checks the forest invariants. Dangling parent references are
// legal (orphans); cycles and forward references are not.
func (s *Session) Validate() error {
	position := make(map[string]int, len(s.nodes))
	for i, n := range s.nodes {
		position[n.ID().String()] = i
	}

	for i, n := range s.nodes {
		pid := n.ParentNodeID()
		if pid.IsZero() {
			continue
		}
		pi, ok := position[pid.String()]
		if !ok {
			continue // orphan, permitted after deletes
		}
		if pi >= i {
			return pkgerrors.NewConflictError("node precedes its parent in store order")
		}
	}

	// Walking parents must terminate within |nodes| steps for every node
	for _, n := range s.nodes {
		steps := 0
		for cur := n; !cur.ParentNodeID().IsZero(); {
			parent, ok := s.index[cur.ParentNodeID().String()]
			if !ok {
				break
			}
			cur = parent
			steps++
			if steps > len(s.nodes) {
				return pkgerrors.NewConflictError("parent chain does not terminate")
			}
		}
	}

	return nil
}

// GetUncommittedEvents returns the session's and all nodes' pending events
func (s *Session) GetUncommittedEvents() []events.DomainEvent {
	all := make([]events.DomainEvent, len(s.events))
	copy(all, s.events)
	for _, n := range s.nodes {
		all = append(all, n.GetUncommittedEvents()...)
	}
	return all
}

// MarkEventsAsCommitted clears all pending events
func (s *Session) MarkEventsAsCommitted() {
	s.events = nil
	for _, n := range s.nodes {
		n.MarkEventsAsCommitted()
	}
}

func (s *Session) addEvent(event events.DomainEvent) {
	s.events = append(s.events, event)
}

// Serialization

// SessionSnapshot is the serializable session representation
type SessionSnapshot struct {
	SessionID string                  `json:"sessionId"`
	Name      string                  `json:"name"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
	Nodes     []entities.NodeSnapshot `json:"nodes"`
}

// Snapshot captures the session's persistent state in store order
func (s *Session) Snapshot() SessionSnapshot {
	snap := SessionSnapshot{
		SessionID: s.id.String(),
		Name:      s.name,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	for _, n := range s.nodes {
		snap.Nodes = append(snap.Nodes, n.Snapshot())
	}
	return snap
}

// ReconstructSession rebuilds a session from a persisted snapshot. Node
// identity, linkage, and timestamps are preserved; the rebuilt session
// passes Validate.
func ReconstructSession(snap SessionSnapshot) (*Session, error) {
	if snap.SessionID == "" {
		return nil, pkgerrors.NewValidationError("session id required for reconstruction")
	}

	s := &Session{
		id:        SessionID(snap.SessionID),
		name:      snap.Name,
		nodes:     make([]*entities.Node, 0, len(snap.Nodes)),
		index:     make(map[string]*entities.Node, len(snap.Nodes)),
		createdAt: snap.CreatedAt,
		updatedAt: snap.UpdatedAt,
	}
	for _, ns := range snap.Nodes {
		node, err := entities.ReconstructNode(ns)
		if err != nil {
			return nil, err
		}
		if _, exists := s.index[node.ID().String()]; exists {
			return nil, pkgerrors.NewConflictError("duplicate node in snapshot")
		}
		s.nodes = append(s.nodes, node)
		s.index[node.ID().String()] = node
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
