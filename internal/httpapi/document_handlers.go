package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"docmesh.org/internal/audit"
	"docmesh.org/internal/auth"
	"docmesh.org/internal/ids"
)

const maxUploadBytes = 32 << 20

// handleDocuments covers GET /v1/documents: the caller's own documents.
func (a *API) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	identity, ok := a.requireOperation(w, r, auth.OpDocumentList)
	if !ok {
		return
	}
	documents, err := a.docs.ListForOwner(r.Context(), identity)
	if err != nil {
		handleDocsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": documents})
}

// handleDocumentUpload covers POST /v1/documents/upload. The file arrives as a
// multipart "file" part; the stored name is a fresh ULID so uploads never
// collide or overwrite each other.
func (a *API) handleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	identity, ok := a.requireOperation(w, r, auth.OpDocumentUpload)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, "multipart form with a file part is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}
	description := strings.TrimSpace(r.FormValue("description"))

	storedName := fmt.Sprintf("%s%s", ids.New(), filepath.Ext(header.Filename))
	storedPath := filepath.Join(a.uploadDir, storedName)
	if err := saveUpload(file, storedPath); err != nil {
		writeError(w, r, http.StatusInternalServerError, "store uploaded file")
		return
	}

	doc, err := a.docs.Create(r.Context(), identity, title, description, storedPath)
	if err != nil {
		os.Remove(storedPath)
		handleDocsError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "documents.upload", map[string]any{
		"document_id": doc.ID,
		"owner_id":    identity.ID,
	})
	writeJSON(w, http.StatusCreated, doc)
}

// handleDocumentScoped covers /v1/documents/{id}: get and delete.
func (a *API) handleDocumentScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		identity, ok := a.requireOperation(w, r, auth.OpDocumentGet)
		if !ok {
			return
		}
		doc, err := a.docs.Get(r.Context(), identity, id)
		if err != nil {
			handleDocsError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)
	case http.MethodDelete:
		identity, ok := a.requireOperation(w, r, auth.OpDocumentDelete)
		if !ok {
			return
		}
		if err := a.docs.Delete(r.Context(), identity, id); err != nil {
			handleDocsError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "documents.delete", map[string]any{
			"document_id": id,
			"actor_id":    identity.ID,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodDelete)
	}
}

func saveUpload(src io.Reader, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return err
	}
	return dst.Close()
}
