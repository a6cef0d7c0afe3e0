package httpapi

import (
	"net/http"

	"docmesh.org/internal/audit"
	"docmesh.org/internal/auth"
)

type ingestionTriggerRequest struct {
	DocumentID string `json:"document_id" validate:"required"`
}

// handleIngestionTrigger covers POST /v1/ingestion/trigger. Only the document
// owner may trigger ingestion; there is no admin override here.
func (a *API) handleIngestionTrigger(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := a.requireOperation(w, r, auth.OpIngestionTrigger)
	if !ok {
		return
	}

	var req ingestionTriggerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.validate.Struct(req); err != nil {
		writeError(w, r, http.StatusBadRequest, "document_id is required")
		return
	}

	result, err := a.ingest.Trigger(r.Context(), identity, req.DocumentID)
	if err != nil {
		handleDocsError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "ingestion.trigger", map[string]any{
		"document_id": req.DocumentID,
		"owner_id":    identity.ID,
	})
	writeJSON(w, http.StatusOK, result)
}
