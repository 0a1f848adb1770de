package handlers

import (
	"net/http"

	"mnuda-backend/pkg/common"
	pkgerrors "mnuda-backend/pkg/errors"
)

// maxBodyBytes bounds request bodies; trace payloads with entity snapshots
// stay well under this
const maxBodyBytes = 1 << 20

// respondAppError maps an application error to an HTTP response. Unknown
// errors become opaque 500s so internals never leak to clients.
func respondAppError(w http.ResponseWriter, err error) {
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if len(appErr.Details) > 0 {
			common.RespondErrorWithDetails(w, status, string(appErr.Type), appErr.Message, appErr.Details)
			return
		}
		common.RespondError(w, status, string(appErr.Type), appErr.Message)
		return
	}
	common.RespondError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
