// Package server implements the HTTP chart service.
//
// The service exposes the render pipeline over three endpoint groups:
//
//	POST /v1/plan          compute a draw plan for a dataset
//	POST /v1/render        render a dataset to svg, png, or json
//	/v1/views/{name}       save, fetch, and delete named chart configs
//
// Renders are serialized: one render is in flight at a time and concurrent
// requests queue, matching the one-render-at-a-time contract of the
// drawing pipeline.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/plotforge/barchart/pkg/buildinfo"
	"github.com/plotforge/barchart/pkg/pipeline"
	"github.com/plotforge/barchart/pkg/views"
)

// Server wires the pipeline runner and the view store into an HTTP API.
type Server struct {
	runner *pipeline.Runner
	views  views.Store
	logger *log.Logger

	// renderSem serializes render execution across requests.
	renderSem chan struct{}
}

// New creates a server. The view store may be nil, which disables the
// views endpoints with 503 responses.
func New(runner *pipeline.Runner, store views.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:    runner,
		views:     store,
		logger:    logger,
		renderSem: make(chan struct{}, 1),
	}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/plan", s.handlePlan)
		r.Post("/render", s.handleRender)
		r.Route("/views", func(r chi.Router) {
			r.Get("/", s.handleListViews)
			r.Put("/{name}", s.handlePutView)
			r.Get("/{name}", s.handleGetView)
			r.Delete("/{name}", s.handleDeleteView)
		})
	})
	return r
}

type ctxKey int

const requestIDKey ctxKey = 0

// requestID tags every request with a UUID, echoed in the X-Request-ID
// response header and attached to the request context for logging.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the request's UUID, or an empty string outside a
// request context.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestLogger logs one line per request with method, path, status, and
// duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
		"built":   buildinfo.Date,
	})
}
