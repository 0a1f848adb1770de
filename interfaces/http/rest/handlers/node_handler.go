package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	"mnuda-backend/application/commands/bus"
	"mnuda-backend/application/queries"
	querybus "mnuda-backend/application/queries/bus"
	"mnuda-backend/pkg/common"
	"mnuda-backend/pkg/utils"
)

// NodeHandler handles node-related HTTP requests
type NodeHandler struct {
	addNode    *commands.AddNodeHandler
	bootstrap  *commands.BootstrapNodeHandler
	runSearch  *commands.RunSearchHandler
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	addNode *commands.AddNodeHandler,
	bootstrap *commands.BootstrapNodeHandler,
	runSearch *commands.RunSearchHandler,
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{
		addNode:    addNode,
		bootstrap:  bootstrap,
		runSearch:  runSearch,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// CreateNodeRequest represents the request body for creating an input node
type CreateNodeRequest struct {
	APIName      string `json:"apiName" validate:"required"`
	ParentNodeID string `json:"parentNodeId,omitempty"`
	Street       string `json:"street,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Postal       string `json:"postal,omitempty"`
}

// CreateNode handles POST /sessions/{sessionID}/nodes
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var req CreateNodeRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	node, err := h.addNode.Handle(r.Context(), commands.AddNodeCommand{
		SessionID:    sessionID,
		APIName:      req.APIName,
		ParentNodeID: req.ParentNodeID,
		Street:       req.Street,
		City:         req.City,
		State:        req.State,
		Postal:       req.Postal,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.respondNodeView(w, r, sessionID, node.ID().String(), http.StatusCreated)
}

// BootstrapRequest represents the request body for a device-location
// bootstrap node
type BootstrapRequest struct {
	Latitude  float64 `json:"latitude" validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
}

// Bootstrap handles POST /sessions/{sessionID}/nodes/bootstrap
func (h *NodeHandler) Bootstrap(w http.ResponseWriter, r *http.Request) {
	var req BootstrapRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	node, err := h.bootstrap.Handle(r.Context(), commands.BootstrapNodeCommand{
		SessionID: sessionID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.respondNodeView(w, r, sessionID, node.ID().String(), http.StatusCreated)
}

// RunSearchRequest represents the request body for executing an input node's
// lookup
type RunSearchRequest struct {
	Query  string `json:"query,omitempty"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
	Postal string `json:"postal,omitempty"`
}

// RunSearch handles POST /sessions/{sessionID}/nodes/{nodeID}/search
func (h *NodeHandler) RunSearch(w http.ResponseWriter, r *http.Request) {
	var req RunSearchRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	result, err := h.runSearch.Handle(r.Context(), commands.RunSearchCommand{
		SessionID: sessionID,
		NodeID:    chi.URLParam(r, "nodeID"),
		Query:     req.Query,
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Postal:    req.Postal,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.respondNodeView(w, r, sessionID, result.ID().String(), http.StatusCreated)
}

// ListNodes handles GET /sessions/{sessionID}/nodes
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListNodesQuery{
		SessionID: chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetNode handles GET /sessions/{sessionID}/nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		SessionID: chi.URLParam(r, "sessionID"),
		NodeID:    chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteNode handles DELETE /sessions/{sessionID}/nodes/{nodeID}
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	err := h.commandBus.Send(r.Context(), commands.DeleteNodeCommand{
		SessionID: chi.URLParam(r, "sessionID"),
		NodeID:    chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "node deleted"})
}

// SetTitleRequest represents the request body for a custom title
type SetTitleRequest struct {
	Title string `json:"title" validate:"max=200"`
}

// SetTitle handles PUT /sessions/{sessionID}/nodes/{nodeID}/title
func (h *NodeHandler) SetTitle(w http.ResponseWriter, r *http.Request) {
	var req SetTitleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	nodeID := chi.URLParam(r, "nodeID")
	err := h.commandBus.Send(r.Context(), commands.SetNodeTitleCommand{
		SessionID: sessionID,
		NodeID:    nodeID,
		Title:     req.Title,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	h.respondNodeView(w, r, sessionID, nodeID, http.StatusOK)
}

// GetLineage handles GET /sessions/{sessionID}/nodes/{nodeID}/lineage
func (h *NodeHandler) GetLineage(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetLineageQuery{
		SessionID: chi.URLParam(r, "sessionID"),
		NodeID:    chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// GetEntities handles GET /sessions/{sessionID}/nodes/{nodeID}/entities
func (h *NodeHandler) GetEntities(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetEntitiesQuery{
		SessionID: chi.URLParam(r, "sessionID"),
		NodeID:    chi.URLParam(r, "nodeID"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// respondNodeView fetches the fresh read model for a node and writes it out
func (h *NodeHandler) respondNodeView(w http.ResponseWriter, r *http.Request, sessionID, nodeID string, status int) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeQuery{
		SessionID: sessionID,
		NodeID:    nodeID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, status, result)
}
