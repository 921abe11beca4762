// Package api serves computed graph layouts over HTTP.
//
// The API is stateless: each request fetches the requested neighborhood,
// runs a layout pass, and returns the frame as JSON. Interactive state
// (pan/zoom, dragging) lives entirely in clients.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orbitviz/orbit/internal/metrics"
	"github.com/orbitviz/orbit/pkg/errors"
	"github.com/orbitviz/orbit/pkg/provider"
	"github.com/orbitviz/orbit/pkg/ringmap"
	"github.com/orbitviz/orbit/pkg/session"
)

// defaultDepth is used when the depth query parameter is absent.
const defaultDepth = 2

// Server handles layout API requests.
type Server struct {
	prov    provider.Provider
	canvasW float64
	canvasH float64
	params  ringmap.Params
	logger  *log.Logger
}

// New creates a server computing layouts on a canvas of the given logical
// extent. A nil logger uses the default.
func New(prov provider.Provider, canvasW, canvasH float64, params ringmap.Params, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		prov:    prov,
		canvasW: canvasW,
		canvasH: canvasH,
		params:  params,
		logger:  logger,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(measure)

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/graphs/{resourceID}", s.handleGraph)
	})
	return r
}

// handleGraph fetches a neighborhood and returns its computed layout.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "resourceID")

	depth := defaultDepth
	if raw := r.URL.Query().Get("depth"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeInvalidDepth, "depth must be an integer, got %q", raw))
			return
		}
		depth = v
	}
	if err := errors.ValidateDepth(depth); err != nil {
		writeError(w, err)
		return
	}

	g, err := s.prov.Fetch(r.Context(), resourceID, depth)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := ringmap.Compute(g, resourceID, s.canvasW, s.canvasH, s.params)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeRootNotFound, err, "layout for %q", resourceID))
		return
	}

	writeJSON(w, http.StatusOK, session.BuildFrame(resourceID, res, g.Edges))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidResource,
		errors.ErrCodeInvalidDepth, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeResourceNotFound, errors.ErrCodeRootNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeNetwork, errors.ErrCodeTimeout:
		status = http.StatusBadGateway
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

// =============================================================================
// Middleware
// =============================================================================

// requestIDHeader carries the request ID on responses and inbound calls.
const requestIDHeader = "X-Request-ID"

// requestID assigns each request a UUID unless the caller supplied one.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// logRequests logs each request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", ww.Header().Get(requestIDHeader),
			"duration", time.Since(start))
	})
}

// measure records request latency per route pattern and status.
func measure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
