package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/queries"
	querybus "mnuda-backend/application/queries/bus"
	"mnuda-backend/pkg/common"
	"mnuda-backend/pkg/utils"
)

// TraceHandler handles entity drill-down HTTP requests
type TraceHandler struct {
	tracePerson  *commands.TracePersonHandler
	traceAddress *commands.TraceAddressHandler
	queryBus     *querybus.QueryBus
	logger       *zap.Logger
}

// NewTraceHandler creates a new trace handler
func NewTraceHandler(
	tracePerson *commands.TracePersonHandler,
	traceAddress *commands.TraceAddressHandler,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *TraceHandler {
	return &TraceHandler{
		tracePerson:  tracePerson,
		traceAddress: traceAddress,
		queryBus:     queryBus,
		logger:       logger,
	}
}

// TracePersonRequest represents the request body for tracing a person entity
type TracePersonRequest struct {
	ParentNodeID string          `json:"parentNodeId" validate:"required"`
	EntityID     string          `json:"entityId" validate:"required"`
	APIPersonID  string          `json:"apiPersonId" validate:"required"`
	PersonData   json.RawMessage `json:"personData,omitempty"`
}

// TracePerson handles POST /sessions/{sessionID}/trace/person
func (h *TraceHandler) TracePerson(w http.ResponseWriter, r *http.Request) {
	var req TracePersonRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	node, err := h.tracePerson.Handle(r.Context(), commands.TracePersonCommand{
		SessionID:    sessionID,
		ParentNodeID: req.ParentNodeID,
		EntityID:     req.EntityID,
		APIPersonID:  req.APIPersonID,
		PersonData:   req.PersonData,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	if node == nil {
		// Late response: the parent was deleted while the lookup ran
		common.RespondJSON(w, http.StatusAccepted, map[string]string{
			"message": "trace discarded, parent node no longer exists",
		})
		return
	}

	h.respondNodeView(w, r, sessionID, node.ID().String())
}

// TraceAddressRequest represents the request body for tracing an address
// entity
type TraceAddressRequest struct {
	ParentNodeID string `json:"parentNodeId" validate:"required"`
	EntityID     string `json:"entityId" validate:"required"`
	Street       string `json:"street" validate:"required"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	Postal       string `json:"postal,omitempty"`
}

// TraceAddress handles POST /sessions/{sessionID}/trace/address
func (h *TraceHandler) TraceAddress(w http.ResponseWriter, r *http.Request) {
	var req TraceAddressRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	node, err := h.traceAddress.Handle(r.Context(), commands.TraceAddressCommand{
		SessionID:    sessionID,
		ParentNodeID: req.ParentNodeID,
		EntityID:     req.EntityID,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		Postal:       req.Postal,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	if node == nil {
		common.RespondJSON(w, http.StatusAccepted, map[string]string{
			"message": "trace discarded, parent node no longer exists",
		})
		return
	}

	h.respondNodeView(w, r, sessionID, node.ID().String())
}

func (h *TraceHandler) respondNodeView(w http.ResponseWriter, r *http.Request, sessionID, nodeID string) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		SessionID: sessionID,
		NodeID:    nodeID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, result)
}
