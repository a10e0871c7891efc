// Package api exposes the scoring engine, digital twin, and score history
// over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/cache"
	"github.com/felixphool/healthtwin/internal/domain"
	"github.com/felixphool/healthtwin/internal/history"
	"github.com/felixphool/healthtwin/internal/middleware"
	"github.com/felixphool/healthtwin/internal/scoring"
	"github.com/felixphool/healthtwin/internal/twin"
)

// SessionStore is the slice of session persistence the handlers need.
// Satisfied by repository.SessionRepository and its in-memory sibling.
type SessionStore interface {
	Create(ctx context.Context) (*domain.PatientSession, error)
	GetByID(ctx context.Context, id string) (*domain.PatientSession, error)
	Touch(ctx context.Context, id string) error
}

// Deps carries the wired components the server serves.
type Deps struct {
	Config    *domain.Config
	Engine    *scoring.Engine
	Simulator *twin.Simulator
	History   history.Store
	Sessions  SessionStore
	Cache     *cache.ResultCache
	Logger    *logrus.Logger
}

// Server represents the HTTP server
type Server struct {
	deps   Deps
	router *gin.Engine
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(deps Deps) *Server {
	if deps.Config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.AuditLogger())
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(corsMiddleware())

	limiter := middleware.NewRateLimiter(deps.Config.Server.RateLimit, deps.Config.Server.RateBurst)
	router.Use(limiter.Middleware())

	server := &Server{
		deps:   deps,
		router: router,
	}
	server.setupRoutes()

	return server
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.deps.Config.Server
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
		s.deps.Logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/score", s.handleScore)
		v1.POST("/twin", s.handleCreateTwin)
		v1.POST("/simulate", s.handleSimulate)
		v1.GET("/simulate/stream", s.handleSimulateStream)
		v1.GET("/history/:session_id", s.handleHistory)
	}
}

// corsMiddleware adds CORS headers to responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "Content-Length, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
