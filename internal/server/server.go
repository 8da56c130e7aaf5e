// Package server runs the relay's HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/venturloop/auth-relay/internal/config"
	"github.com/venturloop/auth-relay/internal/logger"
	"github.com/venturloop/auth-relay/internal/server/handler"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// defaultShutdownTimeout is the maximum time to wait for server shutdown
	defaultShutdownTimeout = 5 * time.Second
)

// Server owns the http.Server and its listener.
type Server struct {
	config *config.ServerConfig
	http   *http.Server
	addr   net.Addr
	errCh  chan error
	done   chan struct{}
	once   sync.Once
}

// NewServer creates the HTTP server for cfg with the relay's handler tree.
func NewServer(cfg *config.Config, h *handler.Handler) *Server {
	return &Server{
		config: &cfg.Server,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           h.CreateHTTPHandler(),
			ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		},
		errCh: make(chan error, 1),
		done:  make(chan struct{}),
	}
}

// Addr returns the bound address once Start has returned.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Errors delivers a serve failure after Start. It is never closed.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Done is closed when Stop is called.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.http.Addr, err)
	}
	s.addr = ln.Addr()

	go func() {
		logger.Info("Starting server", zap.String("address", s.addr.String()))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errCh <- fmt.Errorf("server error: %w", err)
		}
	}()
	return nil
}

// Stop gracefully shuts the server down, bounded by the configured timeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	logger.Info("Shutting down server", zap.Duration("timeout", timeout))
	s.once.Do(func() { close(s.done) })

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

// Run starts the server and blocks until ctx is cancelled or serving fails.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return s.Stop(context.Background())
	case err := <-s.errCh:
		return err
	}
}

func registerHooks(lc fx.Lifecycle, shutdowner fx.Shutdowner, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := s.Start(ctx); err != nil {
				return err
			}
			go func() {
				select {
				case err := <-s.Errors():
					logger.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				case <-s.Done():
				}
			}()
			return nil
		},
		OnStop: s.Stop,
	})
}

// Module provides the HTTP server and binds it to the fx lifecycle
var Module = fx.Module("server",
	fx.Provide(
		handler.NewHandler,
		NewServer,
	),
	fx.Invoke(registerHooks),
)
