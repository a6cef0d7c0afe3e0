package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"docmesh.org/internal/auth"
	"docmesh.org/internal/docs"
	"docmesh.org/internal/ingest"
	"docmesh.org/internal/obs"
)

// ReadyProbe checks readiness of the backing store.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer shared by the service binaries. Every binary carries
// its own token verifier (the auth service handle) against the shared secret;
// the issuing endpoints, document endpoints and so on are registered only when
// the corresponding service is wired in.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	docs       *docs.Service
	ingest     *ingest.Service
	validate   *validator.Validate
	readyProbe ReadyProbe
	service    string
	version    string
	uploadDir  string

	issuerEnabled bool
	adminEnabled  bool
}

// Option wires an optional surface into the API.
type Option func(*API)

// WithIssuer enables the register/login endpoints.
func WithIssuer() Option {
	return func(a *API) { a.issuerEnabled = true }
}

// WithUserAdmin enables the ADMIN-only user CRUD endpoints.
func WithUserAdmin() Option {
	return func(a *API) { a.adminEnabled = true }
}

// WithDocuments enables the document endpoints.
func WithDocuments(svc *docs.Service, uploadDir string) Option {
	return func(a *API) {
		a.docs = svc
		a.uploadDir = uploadDir
	}
}

// WithIngestion enables the ingestion trigger endpoint.
func WithIngestion(svc *ingest.Service) Option {
	return func(a *API) { a.ingest = svc }
}

// New constructs the API for one service binary.
func New(authSvc *auth.Service, rp ReadyProbe, service, version string, opts ...Option) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       authSvc,
		validate:   validator.New(),
		readyProbe: rp,
		service:    service,
		version:    version,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	if a.issuerEnabled {
		a.mux.HandleFunc("/v1/auth/register", a.handleRegister)
		a.mux.HandleFunc("/v1/auth/login", a.handleLogin)
	}
	if a.adminEnabled {
		a.mux.HandleFunc("/v1/users", a.handleUsers)
		a.mux.HandleFunc("/v1/users/", a.handleUserScoped)
	}
	if a.docs != nil {
		a.mux.HandleFunc("/v1/documents", a.handleDocuments)
		a.mux.HandleFunc("/v1/documents/upload", a.handleDocumentUpload)
		a.mux.HandleFunc("/v1/documents/", a.handleDocumentScoped)
	}
	if a.ingest != nil {
		a.mux.HandleFunc("/v1/ingestion/trigger", a.handleIngestionTrigger)
	}

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RequestID(h)
	h = Logging(h)
	h = SecurityHeaders(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": a.service,
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
