// Package controller contains the HTTP API server for gitapp.
package controller

import (
	"context"
	"net/http"
	"time"

	"gitapp/internal/controller/handlers"
	"gitapp/internal/controller/middleware"
)

// Options tunes the server middleware.
type Options struct {
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsHandler http.Handler
}

// Server is the HTTP server for the controller API.
type Server struct {
	httpServer *http.Server
}

// New creates a new controller server with all routes registered.
func New(addr string, h *handlers.Handlers, opts Options) *Server {
	limit := middleware.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)
	apiRoute := func(handler http.HandlerFunc) http.Handler {
		return middleware.RequestID(limit(handler))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Health)
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	mux.Handle("POST /api/analyze", apiRoute(h.Analyze))
	mux.Handle("POST /api/builds", apiRoute(h.CreateBuild))
	mux.Handle("GET /api/builds", apiRoute(h.ListBuilds))
	mux.Handle("GET /api/builds/{id}", apiRoute(h.GetBuild))
	mux.Handle("DELETE /api/builds/{id}", apiRoute(h.DeleteBuild))
	mux.Handle("POST /api/builds/{id}/poll", apiRoute(h.PollBuild))
	mux.Handle("GET /api/builds/{id}/workflow", apiRoute(h.GetWorkflow))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
