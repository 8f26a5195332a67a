package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"lyriq/internal/api/middleware"
	"lyriq/internal/api/v1/handlers"
	v1routes "lyriq/internal/api/v1/routes"
	"lyriq/internal/app/lyrics"
	"lyriq/internal/config"
	"lyriq/web"
)

// Server represents the HTTP server
type Server struct {
	config     config.ServerSettings
	router     *gin.Engine
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer creates a new HTTP server. The registry backs /metrics.
func NewServer(
	cfg config.ServerSettings,
	runner lyrics.Runner,
	registry *prometheus.Registry,
	logger *zap.Logger,
) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	page, err := web.Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MultipartMemoryMB << 20

	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	router.StaticFS("/static", web.Static())

	lyricsHandler := handlers.NewLyricsHandler(runner, page, logger)
	v1routes.RegisterRoutes(router, lyricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	return &Server{
		config:     cfg,
		router:     router,
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Start serves until Shutdown is called. It returns nil after a clean
// shutdown and the listener error otherwise.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.String("address", s.httpServer.Addr),
		zap.String("environment", s.config.Environment),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
