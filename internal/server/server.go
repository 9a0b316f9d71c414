// Package server is the HTTP boundary adapter: thin handlers over the
// query client and the incident analyzer, plus a health check that
// reports which backends are configured.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ziadkadry99/incident-rag/internal/analyzer"
	"github.com/ziadkadry99/incident-rag/internal/bedrock"
	"github.com/ziadkadry99/incident-rag/internal/history"
)

// Querier is the document-augmented query surface.
// Satisfied by *bedrock.Client.
type Querier interface {
	Invoke(ctx context.Context, req bedrock.QueryRequest) (*bedrock.QueryResponse, error)
}

// IncidentAnalyzer is the analysis surface. Satisfied by *analyzer.Analyzer.
type IncidentAnalyzer interface {
	Analyze(ctx context.Context, req analyzer.IncidentAnalysisRequest) (*analyzer.IncidentAnalysisResponse, error)
}

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)

	// Health reporting: which backends are configured.
	KnowledgeBaseConfigured bool
	S3BucketConfigured      bool
	ModelID                 string
	Region                  string
}

// Server serves the query and analysis endpoints.
type Server struct {
	cfg        Config
	querier    Querier
	analyzer   IncidentAnalyzer
	history    *history.Store // may be nil
	logger     *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a Server with all dependencies. history may be nil when
// no history store is configured.
func New(cfg Config, querier Querier, incidentAnalyzer IncidentAnalyzer, historyStore *history.Store, logger *zap.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		querier:  querier,
		analyzer: incidentAnalyzer,
		history:  historyStore,
		logger:   logger,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/history", s.handleHistory)
	})

	return r
}

// Router returns the router, for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("incidentrag server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
