// Package api exposes the gift concierge over HTTP.
//
// Endpoints:
//
//	POST /api/chat         - conversational endpoint (SSE stream)
//	POST /api/search       - direct catalog search
//	POST /api/gift-context - structured gift context for the planner UI
//	GET  /health           - liveness probe
//	GET  /ready            - readiness probe
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: recovery, request ID, logging, caller keying
//   - chat.go: chat endpoint (rate limiting + SSE)
//   - search.go: catalog search endpoint
//   - context.go: gift context endpoint
//   - health.go: probes
//   - response.go: JSON helpers
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Jpduker/Edible-AI-Agent/internal/log"
	"github.com/Jpduker/Edible-AI-Agent/internal/ratelimit"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout guards against Slowloris-style clients.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is generous because chat responses stream while the
	// reasoning loop runs.
	WriteTimeout = 120 * time.Second

	// IdleTimeout applies to keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Config carries the server's dependencies.
type Config struct {
	Responder Responder
	Catalog   Searcher
	Limiter   *ratelimit.Limiter
	Logger    log.Logger

	// TrustProxy enables caller keying from X-Forwarded-For. Enable only
	// behind a reverse proxy that sets the header.
	TrustProxy bool

	// UnknownCallerKey is the shared bucket for requests whose caller
	// cannot be identified.
	UnknownCallerKey string
}

func (cfg Config) validate() error {
	if cfg.Responder == nil {
		return errors.New("responder is required")
	}
	if cfg.Catalog == nil {
		return errors.New("catalog searcher is required")
	}
	if cfg.Limiter == nil {
		return errors.New("rate limiter is required")
	}
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Server is the HTTP server for the concierge API.
type Server struct {
	mux    *http.ServeMux
	logger log.Logger

	chat    *ChatHandler
	search  *SearchHandler
	context *ContextHandler
	health  *HealthHandler
}

// NewServer creates a server with all routes registered.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	unknownKey := cfg.UnknownCallerKey
	if unknownKey == "" {
		unknownKey = "unknown"
	}

	mux := http.NewServeMux()
	s := &Server{
		mux:    mux,
		logger: cfg.Logger,
		chat: &ChatHandler{
			responder:  cfg.Responder,
			limiter:    cfg.Limiter,
			logger:     cfg.Logger,
			trustProxy: cfg.TrustProxy,
			unknownKey: unknownKey,
		},
		search:  &SearchHandler{catalog: cfg.Catalog, logger: cfg.Logger},
		context: &ContextHandler{logger: cfg.Logger},
		health:  &HealthHandler{},
	}

	s.chat.RegisterRoutes(mux)
	s.search.RegisterRoutes(mux)
	s.context.RegisterRoutes(mux)
	s.health.RegisterRoutes(mux)

	return s, nil
}

// Handler returns the mux with middleware applied.
// Order: recovery wraps requestID wraps logging wraps mux.
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		requestIDMiddleware,
		loggingMiddleware(s.logger),
	)
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
