package entities

import (
	"encoding/json"
	"time"

	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/events"
	pkgerrors "mnuda-backend/pkg/errors"
)

// NodeKind represents the kind of investigation step a node records
type NodeKind string

const (
	// NodeKindStart is an input/search step; the search modality is carried
	// in APIName
	NodeKindStart NodeKind = "start"
	// NodeKindAPIResult is a raw API response attached to the tree
	NodeKindAPIResult NodeKind = "api-result"
	// NodeKindPeopleResult is a person-detail drill-down result
	NodeKindPeopleResult NodeKind = "people-result"
	// NodeKindUserFound is a device-location bootstrap node
	NodeKindUserFound NodeKind = "userFound"
)

// NodeStatus represents the lifecycle state of a node
type NodeStatus string

const (
	StatusReady     NodeStatus = "ready"
	StatusSearching NodeStatus = "searching"
	StatusCompleted NodeStatus = "completed"
)

// HistoryAPIName marks bootstrap/history nodes; they are born completed and
// pinned first in display order.
const HistoryAPIName = "Search History"

// Node is one recorded investigation step. It is a rich domain model: graph
// linkage and lifecycle transitions go through methods so the forest
// invariants cannot be broken from outside the package.
type Node struct {
	id           valueobjects.Identifier
	kind         NodeKind
	parentNodeID valueobjects.Identifier
	childIDs     []valueobjects.Identifier

	apiName     string
	customTitle string

	address    valueobjects.Address
	personID   string
	personData json.RawMessage
	response   json.RawMessage

	clickedEntityID   valueobjects.Identifier
	clickedEntityData json.RawMessage

	status       NodeStatus
	hasCompleted bool
	timestamp    time.Time

	events []events.DomainEvent
}

// NewStartNode creates an input node awaiting user-entered parameters
func NewStartNode(apiName, sessionID string) *Node {
	n := &Node{
		id:        valueobjects.NewNodeIdentifier(),
		kind:      NodeKindStart,
		apiName:   apiName,
		status:    StatusReady,
		timestamp: time.Now(),
	}
	n.addEvent(events.NewNodeCreated(n.id, string(n.kind), "", sessionID, n.timestamp))
	return n
}

// NewResultNode creates a result node. Result nodes exist only once a
// response is available, so they are born completed.
func NewResultNode(kind NodeKind, apiName string, response json.RawMessage, sessionID string) (*Node, error) {
	if kind != NodeKindAPIResult && kind != NodeKindPeopleResult {
		return nil, pkgerrors.NewValidationError("result node kind must be api-result or people-result")
	}
	n := &Node{
		id:           valueobjects.NewNodeIdentifier(),
		kind:         kind,
		apiName:      apiName,
		response:     response,
		status:       StatusCompleted,
		hasCompleted: true,
		timestamp:    time.Now(),
	}
	n.addEvent(events.NewNodeCreated(n.id, string(n.kind), "", sessionID, n.timestamp))
	return n, nil
}

// NewBootstrapNode creates a pinned history node from a prior session or a
// device-location capture. Bootstrap nodes are read-only records and are
// born completed.
func NewBootstrapNode(address valueobjects.Address, sessionID string) *Node {
	n := &Node{
		id:           valueobjects.NewNodeIdentifier(),
		kind:         NodeKindUserFound,
		apiName:      HistoryAPIName,
		address:      address,
		status:       StatusCompleted,
		hasCompleted: true,
		timestamp:    time.Now(),
	}
	n.addEvent(events.NewNodeCreated(n.id, string(n.kind), "", sessionID, n.timestamp))
	return n
}

// NewPersonNode creates a person-detail drill-down node. The clicked entity's
// id and snapshot are captured at creation; they are required for audit and
// must never be inferred after the fact. A nil response is legal: it records
// a trace whose lookup failed, kept visible as a placeholder.
func NewPersonNode(personID string, personData, response json.RawMessage, apiName string, sessionID string) *Node {
	n := &Node{
		id:         valueobjects.NewNodeIdentifier(),
		kind:       NodeKindPeopleResult,
		apiName:    apiName,
		personID:   personID,
		personData: personData,
		response:   response,
		status:     StatusCompleted,
		hasCompleted: true,
		timestamp:  time.Now(),
	}
	n.addEvent(events.NewNodeCreated(n.id, string(n.kind), "", sessionID, n.timestamp))
	return n
}

// WithTrigger records which entity spawned this node. Returns the node for
// chaining at construction time.
func (n *Node) WithTrigger(entityID valueobjects.Identifier, entityData json.RawMessage) *Node {
	n.clickedEntityID = entityID
	n.clickedEntityData = entityData
	return n
}

// Accessors

func (n *Node) ID() valueobjects.Identifier           { return n.id }
func (n *Node) Kind() NodeKind                        { return n.kind }
func (n *Node) ParentNodeID() valueobjects.Identifier { return n.parentNodeID }
func (n *Node) APIName() string                       { return n.apiName }
func (n *Node) CustomTitle() string                   { return n.customTitle }
func (n *Node) Address() valueobjects.Address         { return n.address }
func (n *Node) PersonID() string                      { return n.personID }
func (n *Node) PersonData() json.RawMessage           { return n.personData }
func (n *Node) Response() json.RawMessage             { return n.response }
func (n *Node) ClickedEntityID() valueobjects.Identifier { return n.clickedEntityID }
func (n *Node) ClickedEntityData() json.RawMessage    { return n.clickedEntityData }
func (n *Node) Status() NodeStatus                    { return n.status }
func (n *Node) HasCompleted() bool                    { return n.hasCompleted }
func (n *Node) Timestamp() time.Time                  { return n.timestamp }

// ChildIDs returns the ordered child identifiers. The order is the recorded
// link order, not timestamp order; a copy is returned to keep encapsulation.
func (n *Node) ChildIDs() []valueobjects.Identifier {
	ids := make([]valueobjects.Identifier, len(n.childIDs))
	copy(ids, n.childIDs)
	return ids
}

// IsPinned reports whether this node renders in the pinned partition
func (n *Node) IsPinned() bool {
	return n.kind == NodeKindUserFound || n.apiName == HistoryAPIName
}

// IsInputNode reports whether this node follows the input lifecycle
// (ready -> searching -> completed) rather than being born completed
func (n *Node) IsInputNode() bool {
	return n.kind == NodeKindStart
}

// SetCustomTitle records a user-supplied title override
func (n *Node) SetCustomTitle(title string) {
	n.customTitle = title
}

// SetAddress records the address this node was searched with or resolved to
func (n *Node) SetAddress(addr valueobjects.Address) {
	n.address = addr
}

// Lifecycle transitions

// BeginSearch flips an input node from ready to searching. It is the
// per-node duplicate-submission guard: a second submission while a call is
// in flight is a conflict.
func (n *Node) BeginSearch() error {
	if !n.IsInputNode() {
		return pkgerrors.NewValidationError("only input nodes can begin a search")
	}
	switch n.status {
	case StatusSearching:
		return pkgerrors.NewConflictError("search already in flight for this node")
	case StatusCompleted:
		return pkgerrors.NewConflictError("node has already completed")
	}
	n.status = StatusSearching
	return nil
}

// AttachResult attaches a completed API response and flips the node to
// completed. Partial results are never committed; this is only called with
// a full response.
func (n *Node) AttachResult(response json.RawMessage, entityCount int) error {
	if n.status == StatusCompleted && n.hasCompleted {
		return nil // idempotent
	}
	n.response = response
	n.status = StatusCompleted
	n.hasCompleted = true
	n.addEvent(events.NewNodeCompleted(n.id, entityCount, time.Now()))
	return nil
}

// RevertToReady returns a node to ready after a failed lookup. Store state
// is left untouched; the failure stays local to this node.
func (n *Node) RevertToReady() {
	if n.status == StatusSearching {
		n.status = StatusReady
	}
}

// MarkCompleted applies the derived completion transition. It is recomputed
// from store contents whenever the store changes, so it must be idempotent.
func (n *Node) MarkCompleted() {
	if n.status == StatusCompleted && n.hasCompleted {
		return
	}
	n.status = StatusCompleted
	n.hasCompleted = true
}

// Graph linkage. Only the session aggregate uses these; it owns the forest
// invariants.

// LinkParentChild records child under parent: the child's parent id is set
// and the child id is appended to the parent's ordered child list.
func LinkParentChild(parent, child *Node) {
	child.setParent(parent.id)
	parent.linkChild(child.id)
}

// DetachChild removes childID from parent's child list; reports whether the
// link existed
func DetachChild(parent *Node, childID valueobjects.Identifier) bool {
	return parent.unlinkChild(childID)
}

func (n *Node) setParent(parentID valueobjects.Identifier) {
	n.parentNodeID = parentID
}

func (n *Node) linkChild(childID valueobjects.Identifier) {
	for _, id := range n.childIDs {
		if id.Equals(childID) {
			return
		}
	}
	n.childIDs = append(n.childIDs, childID)
}

func (n *Node) unlinkChild(childID valueobjects.Identifier) bool {
	for i, id := range n.childIDs {
		if id.Equals(childID) {
			n.childIDs = append(n.childIDs[:i], n.childIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Domain events

// GetUncommittedEvents returns all uncommitted domain events
func (n *Node) GetUncommittedEvents() []events.DomainEvent {
	return n.events
}

// MarkEventsAsCommitted clears the uncommitted events
func (n *Node) MarkEventsAsCommitted() {
	n.events = []events.DomainEvent{}
}

func (n *Node) addEvent(event events.DomainEvent) {
	n.events = append(n.events, event)
}

// Serialization

// NodeSnapshot is the serializable node representation. It round-trips
// through a text store without loss of identity, linkage, trigger snapshot,
// completion flags, or timestamp.
type NodeSnapshot struct {
	MnNodeID          string                `json:"mnNodeId"`
	Type              NodeKind              `json:"type"`
	ParentNodeID      string                `json:"parentNodeId,omitempty"`
	ChildMnudaIDs     []string              `json:"childMnudaIds,omitempty"`
	APIName           string                `json:"apiName,omitempty"`
	CustomTitle       string                `json:"customTitle,omitempty"`
	Address           *valueobjects.Address `json:"address,omitempty"`
	PersonID          string                `json:"personId,omitempty"`
	PersonData        json.RawMessage       `json:"personData,omitempty"`
	Response          json.RawMessage       `json:"response,omitempty"`
	ClickedEntityID   string                `json:"clickedEntityId,omitempty"`
	ClickedEntityData json.RawMessage       `json:"clickedEntityData,omitempty"`
	Status            NodeStatus            `json:"status"`
	HasCompleted      bool                  `json:"hasCompleted"`
	Timestamp         time.Time             `json:"timestamp"`
}

// Snapshot captures the node's persistent state
func (n *Node) Snapshot() NodeSnapshot {
	snap := NodeSnapshot{
		MnNodeID:          n.id.String(),
		Type:              n.kind,
		APIName:           n.apiName,
		CustomTitle:       n.customTitle,
		PersonID:          n.personID,
		PersonData:        n.personData,
		Response:          n.response,
		ClickedEntityData: n.clickedEntityData,
		Status:            n.status,
		HasCompleted:      n.hasCompleted,
		Timestamp:         n.timestamp,
	}
	if !n.parentNodeID.IsZero() {
		snap.ParentNodeID = n.parentNodeID.String()
	}
	if !n.clickedEntityID.IsZero() {
		snap.ClickedEntityID = n.clickedEntityID.String()
	}
	if !n.address.IsZero() {
		addr := n.address
		snap.Address = &addr
	}
	for _, id := range n.childIDs {
		snap.ChildMnudaIDs = append(snap.ChildMnudaIDs, id.String())
	}
	return snap
}

// ReconstructNode rebuilds a node from a persisted snapshot with preserved
// identity and timestamps
func ReconstructNode(snap NodeSnapshot) (*Node, error) {
	id, err := valueobjects.ParseIdentifier(snap.MnNodeID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid node identifier: " + snap.MnNodeID)
	}
	if id.Namespace() != valueobjects.NamespaceNode {
		return nil, pkgerrors.NewValidationError("identifier is not in the node namespace: " + snap.MnNodeID)
	}

	n := &Node{
		id:                id,
		kind:              snap.Type,
		apiName:           snap.APIName,
		customTitle:       snap.CustomTitle,
		personID:          snap.PersonID,
		personData:        snap.PersonData,
		response:          snap.Response,
		clickedEntityData: snap.ClickedEntityData,
		status:            snap.Status,
		hasCompleted:      snap.HasCompleted,
		timestamp:         snap.Timestamp,
	}
	if snap.Address != nil {
		n.address = *snap.Address
	}
	if snap.ParentNodeID != "" {
		pid, err := valueobjects.ParseIdentifier(snap.ParentNodeID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid parent identifier: " + snap.ParentNodeID)
		}
		n.parentNodeID = pid
	}
	if snap.ClickedEntityID != "" {
		eid, err := valueobjects.ParseIdentifier(snap.ClickedEntityID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid entity identifier: " + snap.ClickedEntityID)
		}
		n.clickedEntityID = eid
	}
	for _, raw := range snap.ChildMnudaIDs {
		cid, err := valueobjects.ParseIdentifier(raw)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid child identifier: " + raw)
		}
		n.childIDs = append(n.childIDs, cid)
	}
	return n, nil
}
