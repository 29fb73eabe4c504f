package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/n0madic/go-legacyrelay/internal/config"
	"github.com/n0madic/go-legacyrelay/internal/metrics"
	"github.com/n0madic/go-legacyrelay/internal/relay"
	"github.com/n0madic/go-legacyrelay/internal/upstream"
)

// maxBodyBytes limits the size of incoming request bodies.
const maxBodyBytes = 1 * 1024 * 1024 // 1 MB

// Server is the relay's HTTP server.
type Server struct {
	Config     *config.ServerConfig
	Pipeline   *relay.Pipeline
	Metrics    *metrics.Collector
	httpServer *http.Server
}

// New creates a server with all routes registered.
func New(cfg *config.ServerConfig) *Server {
	uc := upstream.NewClient(cfg.BaseURL, upstream.StaticToken(cfg.APIKey), cfg.UpstreamTimeout)
	uc.Verbose = cfg.Verbose
	uc.Debug = cfg.Debug
	uc.DumpTo = os.Stderr

	var mc *metrics.Collector
	if cfg.Metrics {
		mc = metrics.NewCollector(nil)
	}
	return newServer(cfg, uc, mc, os.Stderr)
}

// newServer wires the routes. Debug dumps of inbound requests go to dumpTo.
func newServer(cfg *config.ServerConfig, up relay.Invoker, mc *metrics.Collector, dumpTo io.Writer) *Server {
	s := &Server{
		Config:   cfg,
		Pipeline: &relay.Pipeline{Upstream: up, Metrics: mc},
		Metrics:  mc,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /openai-proxy", s.handleProxy)
	if mc != nil {
		mux.Handle("GET /metrics", mc.Handler())
	}

	handler := requestIDMiddleware(recoverMiddleware(traceMiddleware(cfg, dumpTo, mux)))

	s.httpServer = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		// The backend call is bounded by UpstreamTimeout; leave room to write the reply.
		WriteTimeout: cfg.UpstreamTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
