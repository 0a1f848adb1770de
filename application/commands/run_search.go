package commands

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"mnuda-backend/application/ports"
	"mnuda-backend/domain/core/aggregates"
	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/extraction"
	pkgerrors "mnuda-backend/pkg/errors"
)

// RunSearchCommand represents the command to execute the lookup behind an
// input node. Query carries the search term for name, email, and phone
// modalities; address and property modalities read the address recorded on
// the node (or the fields here, which override it).
type RunSearchCommand struct {
	SessionID string `json:"session_id" validate:"required"`
	NodeID    string `json:"node_id" validate:"required"`
	Query     string `json:"query,omitempty"`
	Street    string `json:"street,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postal    string `json:"postal,omitempty"`
}

// Validate validates the command
func (cmd RunSearchCommand) Validate() error {
	if cmd.SessionID == "" {
		return errors.New("session ID is required")
	}
	if cmd.NodeID == "" {
		return errors.New("node ID is required")
	}
	return nil
}

// RunSearchHandler handles the RunSearchCommand. It drives the input node
// lifecycle: ready -> searching -> completed on success, back to ready on
// failure. Completion itself is derived, not assigned: the handler appends
// the result node and recomputes, so replaying the store reaches the same
// state.
type RunSearchHandler struct {
	sessionRepo ports.SessionRepository
	skipEngine  ports.SkipEngine
	eventBus    ports.EventPublisher
	logger      *zap.Logger
}

// NewRunSearchHandler creates a new handler instance
func NewRunSearchHandler(
	sessionRepo ports.SessionRepository,
	skipEngine ports.SkipEngine,
	eventBus ports.EventPublisher,
	logger *zap.Logger,
) *RunSearchHandler {
	return &RunSearchHandler{
		sessionRepo: sessionRepo,
		skipEngine:  skipEngine,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Handle executes the run search command
func (h *RunSearchHandler) Handle(ctx context.Context, cmd RunSearchCommand) (*entities.Node, error) {
	session, err := h.sessionRepo.GetByID(ctx, aggregates.SessionID(cmd.SessionID))
	if err != nil {
		return nil, err
	}

	node, ok := session.NodeByString(cmd.NodeID)
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node")
	}
	if err := node.BeginSearch(); err != nil {
		return nil, err
	}

	addr := node.Address()
	if cmd.Street != "" || cmd.City != "" || cmd.State != "" || cmd.Postal != "" {
		addr = valueobjects.NewAddress(cmd.Street, cmd.City, cmd.State, cmd.Postal)
		node.SetAddress(addr)
	}

	response, lookupErr := h.lookup(ctx, node.APIName(), cmd.Query, addr)
	if lookupErr != nil {
		// The store is left as it was; the failure stays local to this node
		node.RevertToReady()
		h.logger.Warn("Lookup failed",
			zap.String("nodeID", cmd.NodeID),
			zap.String("apiName", node.APIName()),
			zap.Error(lookupErr),
		)
		if err := h.sessionRepo.Save(ctx, session); err != nil {
			return nil, err
		}
		return nil, lookupErr
	}

	result, err := entities.NewResultNode(entities.NodeKindAPIResult, node.APIName(), response, cmd.SessionID)
	if err != nil {
		node.RevertToReady()
		return nil, err
	}
	if err := session.AddNode(result, node.ID()); err != nil {
		node.RevertToReady()
		return nil, err
	}

	session.RecomputeCompletion(extraction.HasPrimaryRecords)
	// The call is no longer in flight. An input node that did not derive
	// completion (empty primary collection) must be retryable.
	node.RevertToReady()

	if err := h.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	publishAndCommit(ctx, h.eventBus, session, h.logger)

	h.logger.Info("Search completed",
		zap.String("sessionID", cmd.SessionID),
		zap.String("inputNodeID", cmd.NodeID),
		zap.String("resultNodeID", result.ID().String()),
	)
	return result, nil
}

func (h *RunSearchHandler) lookup(ctx context.Context, apiName, query string, addr valueobjects.Address) (json.RawMessage, error) {
	switch apiName {
	case extraction.APINameNameSearch:
		if query == "" {
			return nil, pkgerrors.NewValidationError("name query is required")
		}
		return h.skipEngine.PeopleByName(ctx, query)
	case extraction.APINameEmailSearch:
		if query == "" {
			return nil, pkgerrors.NewValidationError("email query is required")
		}
		return h.skipEngine.PeopleByEmail(ctx, query)
	case extraction.APINamePhoneSearch:
		if query == "" {
			return nil, pkgerrors.NewValidationError("phone query is required")
		}
		return h.skipEngine.PeopleByPhone(ctx, query)
	case extraction.APINameAddressSearch:
		if !addr.IsSearchable() {
			return nil, pkgerrors.NewValidationError("address requires street, city, and state")
		}
		return h.skipEngine.PeopleByAddress(ctx, addr)
	case extraction.APINamePropertySearch:
		if !addr.IsSearchable() {
			return nil, pkgerrors.NewValidationError("address requires street, city, and state")
		}
		return h.skipEngine.PropertyByAddress(ctx, addr)
	}
	return nil, pkgerrors.NewValidationError("unknown search modality: " + apiName)
}
