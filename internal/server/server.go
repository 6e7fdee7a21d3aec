// Package server exposes the pool over HTTP: a gin REST API for quotes and
// operations, and a separate ops listener for health and metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/keelworks/pairpool/pool"
)

// Config holds API server configuration.
type Config struct {
	Listen          string
	CORSOrigins     []string
	RateLimit       float64
	RateBurst       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// DefaultDeadline is applied to mutating requests that carry no
	// deadline of their own.
	DefaultDeadline time.Duration
}

// DefaultConfig returns a Config suitable for local use.
func DefaultConfig() Config {
	return Config{
		Listen:          "127.0.0.1:8080",
		CORSOrigins:     []string{"*"},
		RateLimit:       50,
		RateBurst:       100,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		DefaultDeadline: 2 * time.Minute,
	}
}

// Server is the public REST API over one pool.
type Server struct {
	cfg    Config
	pool   *pool.Pool
	auth   *AuthService
	logger log.Logger
	tracer trace.Tracer
	router *gin.Engine
	http   *http.Server
}

// Option configures a Server at construction.
type Option func(*Server)

// WithAuth protects the mutating routes with the given auth service.
func WithAuth(auth *AuthService) Option {
	return func(s *Server) { s.auth = auth }
}

// WithTracer instruments every request with a span.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Server) { s.tracer = tracer }
}

// New builds the API server. Routes and middleware are wired immediately;
// nothing listens until Start.
func New(cfg Config, p *pool.Pool, logger log.Logger, opts ...Option) *Server {
	if cfg.DefaultDeadline <= 0 {
		cfg.DefaultDeadline = 2 * time.Minute
	}

	s := &Server{
		cfg:    cfg,
		pool:   p,
		logger: logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()

	s.http = &http.Server{
		Addr:         cfg.Listen,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)
	s.router = gin.New()

	// Order matters: recovery first, identification and logging before
	// anything that can reject.
	s.router.Use(gin.Recovery())
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(s.LoggerMiddleware())
	if s.tracer != nil {
		s.router.Use(TracingMiddleware(s.tracer))
	}
	s.router.Use(s.CORSMiddleware())
	if s.cfg.RateLimit > 0 {
		s.router.Use(RateLimitMiddleware(s.cfg.RateLimit, s.cfg.RateBurst))
	}

	if s.auth != nil {
		s.router.POST("/auth/login", s.handleLogin)
	}

	v1 := s.router.Group("/v1")
	{
		v1.GET("/pool", s.handleGetPool)
		v1.GET("/price", s.handleGetPrice)
		v1.GET("/quote", s.handleQuote)
		v1.GET("/balances/:account", s.handleGetBalances)

		protected := v1.Group("")
		protected.Use(s.AuthMiddleware())
		{
			protected.POST("/liquidity", s.handleAddLiquidity)
			protected.POST("/liquidity/remove", s.handleRemoveLiquidity)
			protected.POST("/swaps", s.handleSwap)
		}
	}
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("api server listening", "addr", s.cfg.Listen)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}
