// Package http exposes the catalog search over HTTP.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/safequery/internal/core/query/domain"
	"github.com/satishbabariya/safequery/internal/core/query/extractor"
	"github.com/satishbabariya/safequery/internal/debug"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Searcher runs a category lookup from request parameters.
type Searcher interface {
	Param() string
	ItemsByCategory(ctx context.Context, params extractor.Params) (*domain.ResultSet, error)
}

// HealthChecker reports store reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Handler routes search and health requests.
type Handler struct {
	mux      *http.ServeMux
	searcher Searcher
	health   HealthChecker
}

// NewHandler creates a handler. health may be nil, in which case /healthz
// always reports ok.
func NewHandler(searcher Searcher, health HealthChecker) *Handler {
	if searcher == nil {
		panic("http: searcher cannot be nil")
	}

	h := &Handler{
		mux:      http.NewServeMux(),
		searcher: searcher,
		health:   health,
	}
	h.mux.HandleFunc(fmt.Sprintf("GET /search/{%s}", searcher.Param()), h.handleSearch)
	h.mux.HandleFunc("GET /search", h.handleSearch)
	h.mux.HandleFunc("GET /search/", h.handleSearchRoot)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

// ServeHTTP assigns a request id and dispatches to the route.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	start := time.Now()
	h.mux.ServeHTTP(rec, r.WithContext(withRequestID(r.Context(), id)))

	debug.Debug("http request",
		"request_id", id,
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start))
}

type searchResponse struct {
	Columns []string     `json:"columns"`
	Rows    []domain.Row `json:"rows"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := extractor.First(
		extractor.PathValues{Request: r},
		extractor.Values(r.URL.Query()),
	)

	rs, err := h.searcher.ItemsByCategory(r.Context(), params)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Columns: rs.Columns(),
		Rows:    rs.Rows(),
	})
}

// handleSearchRoot serves /search/ with the query string fallback. Deeper
// paths are not routes.
func (h *Handler) handleSearchRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/search/" {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: fmt.Sprintf("no route for %s", r.URL.Path),
			Kind:  "not_found",
		})
		return
	}
	h.handleSearch(w, r)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.health.HealthCheck(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{
				Error: err.Error(),
				Kind:  string(domain.FailureConnectivity),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := classify(err)
	debug.Warn("search failed",
		"request_id", RequestID(r.Context()),
		"status", status,
		"kind", kind,
		"error", err)
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

// classify maps an error to an HTTP status and a stable kind string.
func classify(err error) (int, string) {
	var qe *domain.QueryExecutionError
	switch {
	case domain.IsMissingParameter(err):
		return http.StatusBadRequest, "missing_parameter"
	case errors.As(err, &qe):
		return http.StatusBadGateway, string(qe.Kind)
	case domain.IsMalformedQuery(err):
		return http.StatusInternalServerError, "malformed_query"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, string(domain.FailureCanceled)
	default:
		return http.StatusInternalServerError, string(domain.FailureUnknown)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		debug.Error("failed to encode response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
