package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/medreport-analyzer/internal/cache"
	"github.com/medreport-analyzer/internal/database"
	"github.com/medreport-analyzer/internal/domain"
	"github.com/medreport-analyzer/internal/knowledge"
	"github.com/medreport-analyzer/internal/middleware"
	"github.com/medreport-analyzer/internal/service"
	"github.com/medreport-analyzer/internal/storage"
)

// Server represents the HTTP server
type Server struct {
	config     *domain.Config
	logger     *logrus.Logger
	router     *gin.Engine
	server     *http.Server
	analyzer   *service.AnalyzerService
	simplifier *service.SimplifierService
	translator domain.Translator
	textSource domain.TextSource
	kb         *knowledge.Base
	store      storage.Store
	cache      *cache.ResultCache
	db         *database.DB
}

// Deps bundles the services the HTTP layer exposes
type Deps struct {
	Analyzer   *service.AnalyzerService
	Simplifier *service.SimplifierService
	Translator domain.Translator
	TextSource domain.TextSource
	Knowledge  *knowledge.Base
	Store      storage.Store
	Cache      *cache.ResultCache
	DB         *database.DB
}

// NewServer creates a new HTTP server instance
func NewServer(config *domain.Config, logger *logrus.Logger, deps Deps) *Server {
	if config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.AuditLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestTimeout(config.Server.RequestTimeout))

	server := &Server{
		config:     config,
		logger:     logger,
		router:     router,
		analyzer:   deps.Analyzer,
		simplifier: deps.Simplifier,
		translator: deps.Translator,
		textSource: deps.TextSource,
		kb:         deps.Knowledge,
		store:      deps.Store,
		cache:      deps.Cache,
		db:         deps.DB,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	cfg := s.config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Router exposes the gin engine for testing
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/reports/process", s.handleProcessReport)
		v1.GET("/reports/:id", s.handleGetReport)
		v1.POST("/simplify", s.handleSimplify)
		v1.POST("/translate", s.handleTranslate)
		v1.GET("/knowledge/tests", s.handleKnownTests)
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
