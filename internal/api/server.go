// Package api exposes the profile service over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/rpc"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

// ProbeFunc checks an RPC endpoint.
type ProbeFunc func(ctx context.Context, url string, timeout time.Duration) (rpc.Endpoint, error)

// Server routes admin requests to the profile service.
type Server struct {
	profiles *profile.Service
	log      *slog.Logger
	limiter  *rate.Limiter
	probe    ProbeFunc
	router   *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit caps the request rate across all clients. A zero limit
// disables rate limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithProbe overrides the RPC health probe.
func WithProbe(p ProbeFunc) Option {
	return func(s *Server) {
		s.probe = p
	}
}

// NewServer builds the router.
func NewServer(profiles *profile.Service, log *slog.Logger, opts ...Option) *Server {
	s := &Server{
		profiles: profiles,
		log:      log,
		probe:    rpc.HealthCheck,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.Use(s.logRequests, s.rateLimit)

	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	r.HandleFunc("/profiles", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/profiles", s.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/profiles/active", s.handleActive).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{id}", s.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/profiles/{id}", s.handleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/profiles/{id}", s.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/profiles/{id}/activate", s.handleActivate).Methods(http.MethodPost)
	r.HandleFunc("/profiles/{id}/health", s.handleHealth).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", "")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on cfg.ListenAddr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg *config.Config) error {
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("admin api listening", "addr", cfg.ListenAddr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down admin api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
