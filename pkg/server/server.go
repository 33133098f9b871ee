package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/foodgram-ops/foodgate/pkg/logging"
)

// Server wraps an http.Server with the gateway middleware chain, readiness
// tracking, and graceful shutdown.
type Server struct {
	config      *Config
	httpServer  *http.Server
	rateLimiter *rate.Limiter
	handler     http.Handler
	mu          sync.RWMutex
	ready       bool

	// sdNotify enables systemd readiness notifications. Harmless when the
	// process is not running under systemd.
	sdNotify bool
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the entire configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithName sets the server identity used in logs.
func WithName(name string) Option {
	return func(s *Server) {
		s.config.Name = name
	}
}

// WithVersion sets the reported version.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.config.Version = version
	}
}

// WithAddress sets the listen address.
func WithAddress(addr string) Option {
	return func(s *Server) {
		s.config.Address = addr
	}
}

// WithHandler sets the handler wrapped by the middleware chain.
func WithHandler(h http.Handler) Option {
	return func(s *Server) {
		s.handler = h
	}
}

// WithRateLimit overrides the request rate limit. A limit <= 0 disables
// rate limiting.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(s *Server) {
		s.config.RateLimit = limit
		s.config.RateLimitBurst = burst
	}
}

// WithSystemdNotify enables readiness notification to systemd.
func WithSystemdNotify() Option {
	return func(s *Server) {
		s.sdNotify = true
	}
}

// New creates a new server instance.
func New(opts ...Option) *Server {
	s := &Server{
		config:  NewConfig(),
		handler: http.NotFoundHandler(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.config.RateLimit > 0 {
		s.rateLimiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.withMiddleware(s.handler),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn),
	}

	return s
}

// Handler returns the fully wrapped handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setReady marks the server as ready to serve traffic.
func (s *Server) setReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Ready reports whether the server is accepting traffic.
func (s *Server) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Run starts the listener and blocks until the context is canceled or the
// listener fails. Readiness flips only once the listener is bound and
// accepting. Shutdown is graceful within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}

	s.setReady(true)

	slog.Info("listener starting",
		"name", s.config.Name,
		"address", ln.Addr().String(),
	)

	if s.sdNotify {
		if sent, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
			slog.Warn("systemd notify failed", "error", err)
		} else if sent {
			slog.Debug("systemd notified ready")
		}
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.setReady(false)

	if s.sdNotify {
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	slog.Info("listener shutting down", "name", s.config.Name)
	return s.httpServer.Shutdown(shutdownCtx)
}
