// Package server assembles the MCP server and its HTTP surface.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/shaowenchen/maverick-mcp-server/cmd/version"
	"github.com/shaowenchen/maverick-mcp-server/pkg/config"
	"github.com/shaowenchen/maverick-mcp-server/pkg/docs"
	"github.com/shaowenchen/maverick-mcp-server/pkg/metrics"
	"github.com/shaowenchen/maverick-mcp-server/pkg/modules/sites"
)

const shutdownTimeout = 10 * time.Second

// Server holds the MCP server, the enabled modules and the HTTP router
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	mcp    *mcpserver.MCPServer
	sites  *sites.Module
	docs   *docs.Collector
	router *chi.Mux
}

// New builds the MCP server from cfg and registers the enabled modules' tools
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		mcp: mcpserver.NewMCPServer(version.ServiceName, version.BuildVersion,
			mcpserver.WithToolCapabilities(false),
			mcpserver.WithRecovery(),
		),
		docs: docs.NewCollector(logger.Named("docs")),
	}

	if cfg.Maverick.Enabled {
		module, err := sites.New(cfg.SitesConfig(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create sites module: %w", err)
		}
		tools := module.GetTools()
		s.mcp.AddTools(tools...)
		s.sites = module
		s.docs.Register("sites", module)
		logger.Info("Sites module enabled", zap.Int("tools", len(tools)))
	} else {
		logger.Warn("No modules enabled, server will have no tools available")
	}

	if m := metrics.Get(); m != nil {
		m.SetModuleEnabled("sites", cfg.Maverick.Enabled)
	}

	s.router = s.buildRouter()
	return s, nil
}

// MCP returns the underlying MCP server
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

// Router returns the HTTP handler used in sse mode
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.cfg.Metrics.Enabled {
		r.Use(metrics.HTTPMetricsMiddleware(s.cfg.Server.Mode))
		r.Method(http.MethodGet, s.cfg.Metrics.Path, metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	var opts []mcpserver.StreamableHTTPOption
	if s.cfg.SSE.KeepAlive > 0 {
		opts = append(opts, mcpserver.WithHeartbeatInterval(s.cfg.SSE.KeepAlive))
	}
	streamable := mcpserver.NewStreamableHTTPServer(s.mcp, opts...)
	docsHandler := docs.NewHandler(s.docs, s.logger.Named("docs"))

	r.Route(s.cfg.Server.URI, func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/docs", docsHandler.HandleDocs)
		r.Post("/call", s.handleCall)
		r.Handle("/", streamable)
	})

	return r
}

// Run serves in the configured mode until ctx is cancelled or serving fails
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Server.Mode {
	case config.ModeStdio:
		s.logger.Info("Starting server in stdio mode")
		return mcpserver.ServeStdio(s.mcp)
	case config.ModeSSE:
		return s.serveHTTP(ctx)
	}
	return fmt.Errorf("invalid server mode %q", s.cfg.Server.Mode)
}

func (s *Server) serveHTTP(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server in SSE mode",
			zap.String("address", httpServer.Addr),
			zap.String("uri", s.cfg.Server.URI))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
