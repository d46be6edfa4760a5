// ABOUTME: HTTP server lifecycle shared by the maze services and gateway
// ABOUTME: Builds the router with middleware, serves until the context ends, then shuts down gracefully

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/2389/maze-gateway/internal/auth"
	"github.com/2389/maze-gateway/internal/config"
	"github.com/2389/maze-gateway/internal/metrics"
	"github.com/2389/maze-gateway/internal/result"
)

// shutdownTimeout bounds graceful shutdown once the run context ends.
const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// Name labels metrics and log lines ("mazesvc", "gruesvc", "maze-gateway").
	Name string

	// OpenPaths stay reachable without a bearer token when auth is enabled.
	// The metrics path is always open.
	OpenPaths []string
}

// Server owns one HTTP listener and the router behind it.
type Server struct {
	name       string
	config     *config.Config
	router     *mux.Router
	httpServer *http.Server
	closers    []namedCloser
	logger     *slog.Logger
}

type namedCloser struct {
	label  string
	closer io.Closer
}

// New creates a Server with the shared middleware chain installed. Routes
// are registered on Router() before calling Run.
func New(cfg *config.Config, opts Options, logger *slog.Logger) *Server {
	logger = logger.With("component", "server", "service", opts.Name)
	legacy := cfg.Server.LegacyStatus

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = result.Write(w, result.Errorf(result.ErrNotFound, "no route for %s %s", r.Method, r.URL.Path), legacy)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = result.Write(w, result.Errorf(result.ErrValidation, "method %s not allowed on %s", r.Method, r.URL.Path), legacy)
	})

	router.Use(metrics.Middleware(opts.Name))

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler()).Methods(http.MethodGet)
	}

	if cfg.Auth.JWTSecret != "" {
		open := append([]string{cfg.Metrics.Path}, opts.OpenPaths...)
		router.Use(auth.HTTPAuthMiddleware(auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret)), auth.MiddlewareOptions{
			OpenPaths:    open,
			LegacyStatus: legacy,
			Logger:       logger,
		}))
		logger.Info("bearer authentication enabled")
	}

	s := &Server{
		name:   opts.Name,
		config: cfg,
		router: router,
		logger: logger,
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	return s
}

// Router returns the router for route registration.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler returns the complete handler: recovery and request logging
// around the router.
func (s *Server) Handler() http.Handler {
	return Recover(s.config.Server.LegacyStatus, s.logger)(RequestLogger(s.logger)(s.router))
}

// OnClose registers c to be closed after the HTTP server has shut down.
func (s *Server) OnClose(label string, c io.Closer) {
	s.closers = append(s.closers, namedCloser{label: label, closer: c})
}

// Run listens on server.http_addr and serves until ctx is canceled.
// Returns nil on graceful shutdown (context canceled), or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := s.startServer(ln)
	serverErr := s.waitForShutdownSignal(ctx, errCh)

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// startServer starts the HTTP server in a goroutine, returning its error channel.
func (s *Server) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or server error.
func (s *Server) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// The run context is already canceled at this point.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown stops the HTTP server and closes registered resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", s.httpServer.Shutdown(ctx))

	for _, c := range s.closers {
		errs = appendCloseError(errs, c.label+" close", c.closer.Close())
	}
	s.closers = nil

	return errors.Join(errs...)
}
