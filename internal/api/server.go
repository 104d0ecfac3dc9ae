package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stock_harvester/internal/scheduler"
)

// Controller is the part of the scheduler the API drives.
type Controller interface {
	Trigger(reason string) (scheduler.TriggerResult, error)
	LastOutcome() (scheduler.Outcome, bool)
	Running() bool
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Server exposes health and manual cycle control over HTTP.
type Server struct {
	router *gin.Engine
	srv    *http.Server
	logger *slog.Logger
}

func NewServer(addr string, ctrl Controller, health HealthChecker, logger *slog.Logger) *Server {
	logger = logger.With("component", "api")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	h := &handlers{ctrl: ctrl, health: health}
	router.GET("/health", h.healthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/cycles", h.triggerCycle)
		v1.GET("/cycles/last", h.lastCycle)
	}

	return &Server{
		router: router,
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is done and then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve api: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api: %w", err)
	}
	s.logger.Info("api stopped")
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
