package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lumenui/lumen/internal/engine"
	"github.com/lumenui/lumen/internal/infrastructure/config"
	"github.com/lumenui/lumen/internal/infrastructure/monitoring"
	"github.com/lumenui/lumen/internal/ws"
)

// Server is the document host: it owns the HTTP listener and routes
// requests into the instance manager.
type Server struct {
	manager *engine.Manager
	http    *http.Server
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// New creates a configured document host server.
func New(cfg *config.Config, manager *engine.Manager, logger *zap.Logger, metrics *monitoring.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Content-Encoding", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	s := &Server{
		manager: manager,
		logger:  logger,
		metrics: metrics,
	}

	wsHandler := ws.NewHandler(manager, logger.Named("ws"), metrics)

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/stats", s.handleStats)

	router.POST("/documents", s.handleOpen)
	router.GET("/documents", s.handleList)
	router.GET("/documents/:id/tree", s.handleTree)
	router.POST("/documents/:id/events", s.handleEvent)
	router.DELETE("/documents/:id", s.handleClose)

	router.GET("/stream", wsHandler.HandleConnection)

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run starts the HTTP listener and blocks until it stops.
func (s *Server) Run() error {
	s.logger.Info("document host listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains the listener and closes every live instance.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.manager.Shutdown()
	return err
}

// requestLogger logs each request at debug with method, path, status, and
// latency. The WebSocket route is skipped; its lifetime is connection-long.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.FullPath() == "/stream" {
			c.Next()
			return
		}
		started := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(started)))
	}
}
