package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/extraction"
)

// AddNodeCommand represents the command to record a new input (search) node.
// APIName carries the search modality; the address fields seed address and
// property searches and are optional for the other modalities.
type AddNodeCommand struct {
	SessionID    string `json:"session_id" validate:"required"`
	APIName      string `json:"api_name" validate:"required"`
	ParentNodeID string `json:"parent_node_id,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Postal       string `json:"postal,omitempty"`
}

// Validate validates the command
func (cmd AddNodeCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.APIName == "" {
		return errors.New("api name is required")
	}
	switch cmd.APIName {
	case extraction.APINameNameSearch, extraction.APINameEmailSearch,
		extraction.APINamePhoneSearch, extraction.APINameAddressSearch,
		extraction.APINamePropertySearch:
	default:
		return errors.New("unknown search modality: " + cmd.APIName)
	}
	return nil
}

// AddNodeHandler handles the AddNodeCommand
type AddNodeHandler struct {
	sessionRepo ports.SessionRepository
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewAddNodeHandler creates a new handler instance
func NewAddNodeHandler(
	sessionRepo ports.SessionRepository,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *AddNodeHandler {
	return &AddNodeHandler{
		sessionRepo: sessionRepo,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the add node command
func (h *AddNodeHandler) Handle(ctx context.Context, cmd AddNodeCommand) (*entities.Node, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return nil, err
	}

	node := entities.NewStartNode(cmd.APIName, cmd.SessionID)
	if cmd.Street != "" || cmd.City != "" || cmd.State != "" || cmd.Postal != "" {
		node.SetAddress(valueobjects.NewAddress(cmd.Street, cmd.City, cmd.State, cmd.Postal))
	}

	parentID, err := parseOptionalNodeID(cmd.ParentNodeID)
	if err != nil {
		return nil, err
	}
	if err := session.AddNode(node, parentID); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	publishAndCommit(ctx, h.eventBus, session, h.logger)

	h.logger.Info("Input node added",
		zap.String("sessionID", cmd.SessionID),
		zap.String("nodeID", node.ID().String()),
		zap.String("apiName", cmd.APIName),
	)
	return node, nil
}

// BootstrapNodeCommand represents the command to record a pinned history node
// from device coordinates
type BootstrapNodeCommand struct {
	SessionID string  `json:"session_id" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// Validate validates the command
func (cmd BootstrapNodeCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.Latitude < -90 || cmd.Latitude > 90 {
		return errors.New("latitude out of range")
	}
	if cmd.Longitude < -180 || cmd.Longitude > 180 {
		return errors.New("longitude out of range")
	}
	return nil
}

// BootstrapNodeHandler handles the BootstrapNodeCommand
type BootstrapNodeHandler struct {
	sessionRepo ports.SessionRepository
	geocoder    ports.Geocoder
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewBootstrapNodeHandler creates a new handler instance
func NewBootstrapNodeHandler(
	sessionRepo ports.SessionRepository,
	geocoder ports.Geocoder,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *BootstrapNodeHandler {
	return &BootstrapNodeHandler{
		sessionRepo: sessionRepo,
		geocoder:    geocoder,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the bootstrap node command: the coordinates are reverse
// geocoded and the resulting address recorded as a pinned, born-completed
// node.
func (h *BootstrapNodeHandler) Handle(ctx context.Context, cmd BootstrapNodeCommand) (*entities.Node, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return nil, err
	}

	addr, err := h.geocoder.ReverseGeocode(ctx, cmd.Latitude, cmd.Longitude)
	if err != nil {
		return nil, err
	}

	node := entities.NewBootstrapNode(addr, cmd.SessionID)
	if err := session.AddNode(node, valueobjects.Identifier{}); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	publishAndCommit(ctx, h.eventBus, session, h.logger)

	h.logger.Info("Bootstrap node added",
		zap.String("sessionID", cmd.SessionID),
		zap.String("nodeID", node.ID().String()),
	)
	return node, nil
}

// parseOptionalNodeID parses a possibly-empty node identifier
func parseOptionalNodeID(raw string) (valueobjects.Identifier, error) {
	if raw == "" {
		return valueobjects.Identifier{}, nil
	}
	id, err := valueobjects.ParseIdentifier(raw)
	if err != nil {
		return valueobjects.Identifier{}, err
	}
	return id, nil
}

// publishAndCommit flushes uncommitted domain events. Publishing is best
// effort: a broker outage must not fail the command that already mutated the
// store.
func publishAndCommit(ctx context.Context, bus ports.EventPublisher, session *aggregates.Session, logger *zap.Logger) {
	evts := session.GetUncommittedEvents()
	if len(evts) == 0 {
		return
	}
	if err := bus.PublishBatch(ctx, evts); err != nil {
		logger.Warn("Failed to publish domain events", zap.Error(err), zap.Int("count", len(evts)))
	}
	session.MarkEventsAsCommitted()
}
