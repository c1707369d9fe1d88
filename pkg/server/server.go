// Package server exposes the question-answering pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/go-graphrag/pkg/config"
	"github.com/soundprediction/go-graphrag/pkg/server/handlers"
)

// Dependencies holds the collaborators the server routes to. Ingestor and
// Store are optional; their routes degrade gracefully when nil.
type Dependencies struct {
	Pipeline  handlers.Pipeline
	Traverser handlers.Traverser
	Ingestor  handlers.Ingestor
	Store     handlers.Pinger
}

// Server wraps the gin engine and the HTTP listener.
type Server struct {
	cfg    *config.ServerConfig
	engine *gin.Engine
	http   *http.Server
	deps   Dependencies
}

// New creates a Server for the given configuration and collaborators.
func New(cfg *config.ServerConfig, deps Dependencies) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	return &Server{
		cfg:    cfg,
		engine: gin.New(),
		deps:   deps,
	}
}

// Setup registers middleware and routes.
func (s *Server) Setup() {
	s.engine.Use(gin.Recovery())

	s.engine.GET("/health", handlers.NewHealthHandler(s.deps.Store).Health)
	s.engine.POST("/answer", handlers.NewAnswerHandler(s.deps.Pipeline).Answer)
	s.engine.GET("/graph/:entity", handlers.NewGraphHandler(s.deps.Traverser).Graph)

	if s.deps.Ingestor != nil {
		s.engine.POST("/ingest", handlers.NewIngestHandler(s.deps.Ingestor).Ingest)
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler: s.engine,
	}

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
