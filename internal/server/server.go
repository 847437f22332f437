// Package server assembles the gin engine and the application wiring behind
// it.
package server

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Igorofyeshu4/keepgoing/internal/aggregator"
	"github.com/Igorofyeshu4/keepgoing/internal/config"
	"github.com/Igorofyeshu4/keepgoing/internal/importer"
	"github.com/Igorofyeshu4/keepgoing/internal/parser"
	"github.com/Igorofyeshu4/keepgoing/internal/server/handlers"
	"github.com/Igorofyeshu4/keepgoing/internal/service"
	"github.com/Igorofyeshu4/keepgoing/internal/store"
)

// Server is the HTTP server plus the pipeline it fronts.
type Server struct {
	router *gin.Engine
	store  *store.Store
	coord  *importer.Coordinator
	svc    *service.MetricsService
}

// NewServer builds the whole pipeline from configuration: classifiers,
// aggregator, coordinator, persistence, handlers.
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	agg := aggregator.New()
	resolver := parser.NewColumnResolver(cfg.Candidates())
	normalizer := parser.NewRecordNormalizer(
		parser.NewTeamClassifier(cfg.Rosters()),
		parser.NewStatusClassifier(cfg.StatusPatterns(), cfg.ChannelPatterns()),
	)
	coord := importer.NewCoordinator(agg, resolver, normalizer, importer.Options{
		BatchSize: cfg.Processing.BatchSize,
	})
	svc := service.NewMetricsService(agg)

	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		// The API stays useful without persistence; run degraded.
		log.Printf("server: open store: %v, running without persistence", err)
		st = nil
	}

	s := &Server{
		router: gin.Default(),
		store:  st,
		coord:  coord,
		svc:    svc,
	}
	s.setupRoutes(handlers.NewHandlers(svc, coord, st, cfg))
	return s
}

func (s *Server) setupRoutes(h *handlers.Handlers) {
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		h.RegisterRoutes(api)
	}
}

// Coordinator exposes the load pipeline for startup loads.
func (s *Server) Coordinator() *importer.Coordinator {
	return s.coord
}

// Metrics exposes the query service.
func (s *Server) Metrics() *service.MetricsService {
	return s.svc
}

// Store exposes the persistence layer; nil when it failed to open.
func (s *Server) Store() *store.Store {
	return s.store
}

// Run starts the HTTP listener.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases held resources.
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
