package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/keelworks/pairpool/pool"
)

// HealthStatus is the coarse state reported by the ops endpoints.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
}

// OpsServer is the operational side listener: liveness, readiness and
// Prometheus metrics on a port separate from the public API.
type OpsServer struct {
	pool   *pool.Pool
	logger log.Logger
	http   *http.Server
}

// NewOpsServer wires the ops routes over listen.
func NewOpsServer(listen string, p *pool.Pool, logger log.Logger) *OpsServer {
	s := &OpsServer{
		pool:   p,
		logger: logger.With("component", "ops"),
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", s.handleReady).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
	})

	s.http = &http.Server{
		Addr:              listen,
		Handler:           handlers.RecoveryHandler()(c.Handler(router)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the ops handler for tests.
func (s *OpsServer) Handler() http.Handler { return s.http.Handler }

// handleHealth checks the store and every pool invariant.
func (s *OpsServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string, 2),
	}

	if _, _, err := s.pool.Reserves(r.Context()); err != nil {
		resp.Status = StatusUnhealthy
		resp.Components["store"] = err.Error()
	} else {
		resp.Components["store"] = "ok"
	}

	if msg, broken := s.pool.AllInvariants()(); broken {
		resp.Status = StatusUnhealthy
		resp.Components["invariants"] = msg
	} else {
		resp.Components["invariants"] = "ok"
	}

	code := http.StatusOK
	if resp.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}

// handleReady is a cheap liveness probe for load balancers.
func (s *OpsServer) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// Start serves until Shutdown is called or the listener fails.
func (s *OpsServer) Start() error {
	s.logger.Info("ops server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ops server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *OpsServer) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
