package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	commandhandlers "mnuda-backend/application/commands/handlers"
	"mnuda-backend/application/queries"
	querybus "mnuda-backend/application/queries/bus"
	"mnuda-backend/pkg/common"
	"mnuda-backend/pkg/utils"
)

// SessionHandler handles session-related HTTP requests
type SessionHandler struct {
	createSession *commands.CreateSessionHandler
	importSession *commandhandlers.ImportSessionHandler
	queryBus      *querybus.QueryBus
	logger        *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	createSession *commands.CreateSessionHandler,
	importSession *commandhandlers.ImportSessionHandler,
	queryBus *querybus.QueryBus,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		createSession: createSession,
		importSession: importSession,
		queryBus:      queryBus,
		logger:        logger,
	}
}

// CreateSessionRequest represents the request body for creating a session
type CreateSessionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "Validation error: "+err.Error())
		return
	}

	session, err := h.createSession.Handle(r.Context(), commands.CreateSessionCommand{Name: req.Name})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": session.ID().String(),
		"name":      session.Name(),
		"createdAt": session.CreatedAt(),
	})
}

// GetSession handles GET /sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetSessionQuery{
		SessionID:    chi.URLParam(r, "sessionID"),
		IncludeNodes: r.URL.Query().Get("include") == "nodes",
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ExportSession handles GET /sessions/{sessionID}/export
func (h *SessionHandler) ExportSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ExportSessionQuery{
		SessionID: chi.URLParam(r, "sessionID"),
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ImportSession handles POST /sessions/import. The body is the exported
// snapshot verbatim.
func (h *SessionHandler) ImportSession(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION", "failed to read request body")
		return
	}

	session, err := h.importSession.Handle(r.Context(), commands.ImportSessionCommand{Snapshot: body})
	if err != nil {
		respondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"sessionId": session.ID().String(),
		"name":      session.Name(),
		"nodeCount": session.Len(),
	})
}

// Exported snapshots carry raw API responses, so they run larger than
// ordinary request bodies
const maxImportBytes = 32 << 20
