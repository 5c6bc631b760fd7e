// Package api exposes scans and saved cases over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/codeGROOVE-dev/sleuth/pkg/casestore"
	"github.com/codeGROOVE-dev/sleuth/pkg/result"
	"github.com/codeGROOVE-dev/sleuth/pkg/scanner"
)

const maxRequestBody = 1 << 20

// Scanner runs an investigation.
type Scanner interface {
	Scan(ctx context.Context, query string, filter *result.Filter) ([]*result.SearchResult, error)
}

// Store persists cases.
type Store interface {
	Save(ctx context.Context, c *result.SearchCase) error
	Load(ctx context.Context, id string) (*result.SearchCase, error)
	List(ctx context.Context) ([]casestore.Summary, error)
}

// Handler serves the HTTP API.
type Handler struct {
	scanner Scanner
	store   Store
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithStore enables the case endpoints.
func WithStore(s Store) Option {
	return func(h *Handler) { h.store = s }
}

// NewHandler creates a Handler around s.
func NewHandler(s Scanner, opts ...Option) *Handler {
	h := &Handler{scanner: s, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router returns the routes with request IDs, panic recovery and CORS.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck,gosec // best effort
	})
	r.Post("/scan", h.Scan)
	r.Route("/cases", func(r chi.Router) {
		r.Post("/", h.CreateCase)
		r.Get("/", h.ListCases)
		r.Get("/{id}", h.GetCase)
	})
	return r
}

// ScanRequest is the body of POST /scan and POST /cases.
type ScanRequest struct {
	Name   string         `json:"name,omitempty"`
	Query  string         `json:"query"`
	Filter *result.Filter `json:"filter,omitempty"`
}

// ScanResponse is the body returned by POST /scan.
type ScanResponse struct {
	Results []*result.SearchResult `json:"results"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (ScanRequest, bool) {
	var req ScanRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request, req ScanRequest) ([]*result.SearchResult, bool) {
	results, err := h.scanner.Scan(r.Context(), req.Query, req.Filter)
	switch {
	case errors.Is(err, scanner.ErrEmptyQuery):
		http.Error(w, "query is required", http.StatusBadRequest)
		return nil, false
	case err != nil:
		h.logger.ErrorContext(r.Context(), "scan failed", "query", req.Query, "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "scan failed", http.StatusInternalServerError)
		return nil, false
	}
	if results == nil {
		results = []*result.SearchResult{}
	}
	return results, true
}

// Scan handles POST /scan.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	results, ok := h.scan(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ScanResponse{Results: results})
}

// CreateCase handles POST /cases: it scans and stores the outcome as a new case.
func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	results, ok := h.scan(w, r, req)
	if !ok {
		return
	}
	c := result.NewCase(req.Name, req.Query)
	c.Results = results
	if err := h.store.Save(r.Context(), c); err != nil {
		h.logger.ErrorContext(r.Context(), "save case failed", "id", c.ID, "error", err)
		http.Error(w, "could not save case", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListCases handles GET /cases.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	cases, err := h.store.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list cases failed", "error", err)
		http.Error(w, "could not list cases", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, cases)
}

// GetCase handles GET /cases/{id}.
func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	id := chi.URLParam(r, "id")
	c, err := h.store.Load(r.Context(), id)
	switch {
	case errors.Is(err, casestore.ErrNotFound):
		http.Error(w, "case not found", http.StatusNotFound)
	case err != nil:
		h.logger.ErrorContext(r.Context(), "load case failed", "id", id, "error", err)
		http.Error(w, "could not load case", http.StatusInternalServerError)
	default:
		writeJSON(w, http.StatusOK, c)
	}
}

func (h *Handler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		http.Error(w, "case storage is not configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck,gosec // client went away
}
