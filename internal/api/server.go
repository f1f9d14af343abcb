// Package api exposes the analytics engine over HTTP.
//
// Every request reads a fresh snapshot from the store and evaluates it, so
// the server holds no derived state between requests.
package api

import (
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/store"
)

// Server wires the store and the engine to HTTP handlers.
type Server struct {
	store  *store.Store
	engine *engine.Engine
	clock  engine.Clock
	logger *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the clock used when a request does not pass "now".
func WithClock(c engine.Clock) Option {
	return func(s *Server) {
		s.clock = c
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// NewServer creates a Server. Without options it uses the system clock and
// discards logs.
func NewServer(st *store.Store, eng *engine.Engine, opts ...Option) *Server {
	s := &Server{
		store:  st,
		engine: eng,
		clock:  engine.SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", healthHandler)

	v1 := r.Group("/v1")
	{
		v1.GET("/metrics", s.metricsHandler)
		v1.POST("/evaluate", s.evaluateHandler)
		v1.GET("/heatmap", s.heatmapHandler)
		v1.POST("/events", s.addEventHandler)
		v1.GET("/milestones", s.milestonesHandler)
	}
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
