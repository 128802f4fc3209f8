// Package server exposes a registry over HTTP: /api lists the loaded routes
// and /api/{route} serves each document as a JSON array.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/agentic-research/fixtured/internal/loader"
	"github.com/agentic-research/fixtured/internal/registry"
)

const DefaultAddr = ":3000"

// ReloadFunc rebuilds a snapshot from the data directory. The server never
// publishes a snapshot from a failed reload.
type ReloadFunc func() (*registry.Snapshot, []loader.Problem, error)

// Options configures the HTTP server. Timeouts are conservative defaults for
// a local fixture server.
type Options struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	Logger            *log.Logger

	// Reload, when set, enables POST /_reload.
	Reload ReloadFunc
}

// Server hosts the fixture API backed by the current registry snapshot.
type Server struct {
	http   *http.Server
	table  *registry.HotSwap
	reload ReloadFunc
	logger *log.Logger
	opts   Options
}

// New constructs a server reading from table. It does not listen until
// ListenAndServe is called.
func New(table *registry.HotSwap, opts Options) *Server {
	if table == nil {
		panic("server.New: table is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{
		table:  table,
		reload: opts.Reload,
		logger: opts.Logger,
		opts:   opts,
	}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.routes(),
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		ErrorLog:          opts.Logger,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Custom handlers must be set before Route so the /api subrouter
	// inherits them.
	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleMethodNotAllowed)

	r.Get("/", s.handleRoot)
	r.Get("/_health_check", s.handleHealthCheck)
	if s.reload != nil {
		r.Post("/_reload", s.handleReload)
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/", s.handleIndex)
		r.Get("/{route}", s.handleDocument)
	})
	return r
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving HTTP until Stop is called or the listener
// fails.
func (s *Server) ListenAndServe() error {
	s.logger.Printf("listening on %s", s.http.Addr)
	return s.http.ListenAndServe()
}

// Stop gracefully shuts down the server, waiting up to ShutdownTimeout for
// in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	if t := s.opts.ShutdownTimeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<h1>fixtured</h1><p>Endpoint index at <a href="/api">/api</a>.</p>` + "\n"))
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, endpointsOf(s.table.Current()))
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	route := chi.URLParam(r, "route")
	doc, ok := s.table.Current().Get(route)
	if !ok {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, map[string]string{"error": "unknown route", "route": route})
		return
	}
	render.JSON(w, r, doc.Body)
}

// handleReload rebuilds the snapshot and publishes it. On failure the
// previous snapshot stays visible and the cause is logged, not returned.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	snap, problems, err := s.reload()
	if err != nil {
		s.logger.Printf("reload failed: %v", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, map[string]string{"error": "reload failed"})
		return
	}
	for _, p := range problems {
		s.logger.Printf("reload: skipping %s", p)
	}
	published := s.table.Publish(snap)
	render.JSON(w, r, map[string]any{
		"generation": published.Generation(),
		"routes":     published.Len(),
		"skipped":    len(problems),
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, map[string]string{"error": "not found"})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, map[string]string{"error": "method not allowed"})
}
