package httpapi

import (
	"net/http"
	"strings"

	"docmesh.org/internal/audit"
	"docmesh.org/internal/auth"
)

type createUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Roles    []string `json:"roles"`
}

type updateUserRequest struct {
	Name  *string  `json:"name"`
	Roles []string `json:"roles"`
}

// handleUsers covers /v1/users: ADMIN-only create and list.
func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		identity, ok := a.requireOperation(w, r, auth.OpUserCreate)
		if !ok {
			return
		}
		var req createUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.validate.Struct(req); err != nil {
			writeError(w, r, http.StatusBadRequest, "email must be well-formed and password at least 8 characters")
			return
		}
		roles, err := auth.ParseRoles(req.Roles)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		created, err := a.auth.CreateIdentity(r.Context(), req.Name, req.Email, req.Password, roles)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "users.create", map[string]any{
			"actor_id":   identity.ID,
			"subject_id": created.ID,
		})
		writeJSON(w, http.StatusCreated, created)
	case http.MethodGet:
		if _, ok := a.requireOperation(w, r, auth.OpUserList); !ok {
			return
		}
		identities, err := a.auth.ListIdentities(r.Context())
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": identities})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleUserScoped covers /v1/users/{id}: ADMIN-only get, update, delete.
func (a *API) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if _, ok := a.requireOperation(w, r, auth.OpUserGet); !ok {
			return
		}
		identity, err := a.auth.GetIdentity(r.Context(), id)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, identity)
	case http.MethodPatch:
		actor, ok := a.requireOperation(w, r, auth.OpUserUpdate)
		if !ok {
			return
		}
		var req updateUserRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		upd := auth.IdentityUpdate{Name: req.Name}
		if req.Roles != nil {
			roles, err := auth.ParseRoles(req.Roles)
			if err != nil {
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			upd.Roles = roles
		}
		updated, err := a.auth.UpdateIdentity(r.Context(), id, upd)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "users.update", map[string]any{
			"actor_id":   actor.ID,
			"subject_id": id,
		})
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		actor, ok := a.requireOperation(w, r, auth.OpUserDelete)
		if !ok {
			return
		}
		if err := a.auth.DeleteIdentity(r.Context(), id); err != nil {
			handleAuthError(w, r, err)
			return
		}
		_ = audit.LogEvent(r.Context(), "users.delete", map[string]any{
			"actor_id":   actor.ID,
			"subject_id": id,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPatch, http.MethodDelete)
	}
}
