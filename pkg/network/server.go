// Package network connects websocket clients to the game loop. Each session
// turns client frames into game messages and pushes snapshots back.
package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/opd-ai/go-starcruiser/pkg/config"
	"github.com/opd-ai/go-starcruiser/pkg/engine"
	"github.com/opd-ai/go-starcruiser/pkg/entity"
	"github.com/opd-ai/go-starcruiser/pkg/logging"
	"github.com/opd-ai/go-starcruiser/pkg/validation"
)

// Routes served by the game server
const (
	ClientPath  = "/ws/client"
	RestartPath = "/restart"
)

const shutdownTimeout = 5 * time.Second

// Game is the part of the game loop sessions talk to.
type Game interface {
	Send(ctx context.Context, msg engine.Message) error
	Snapshot(ctx context.Context, client entity.ObjectID) (engine.Snapshot, error)
}

// Server accepts websocket clients and serves the restart route.
type Server struct {
	game      Game
	cfg       *config.Config
	logger    *logging.Logger
	validator *validation.MessageValidator
	upgrader  websocket.Upgrader
	handler   http.Handler

	listening atomic.Bool
	sessions  atomic.Int64
	wg        sync.WaitGroup
}

// NewServer creates a server for game configured by cfg.
func NewServer(game Game, cfg *config.Config, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		game:   game,
		cfg:    cfg,
		logger: logger.With("component", "network"),
		validator: validation.NewMessageValidator(
			cfg.Network.MaxFrameSize,
			cfg.Network.MaxCommandsPerSecond,
			cfg.Network.CommandBurst,
		),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     s.checkOrigin,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+ClientPath, s.serveClient)
	mux.HandleFunc("GET "+RestartPath, s.serveRestart)
	s.handler = cors.New(cors.Options{
		AllowedOrigins: cfg.Network.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(mux)
	return s
}

// Handler returns the HTTP handler with all routes.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Listening reports whether ListenAndServe is accepting connections.
func (s *Server) Listening() bool {
	return s.listening.Load()
}

// Sessions returns the number of connected clients.
func (s *Server) Sessions() int {
	return int(s.sessions.Load())
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down and waits for sessions to finish.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.listening.Store(true)
	s.logger.Info(ctx, "game server started", "address", ln.Addr().String())

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}
	s.listening.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(shutdownCtx, "server shutdown failed", err)
	}
	s.wg.Wait()
	s.validator.Close()
	s.logger.Info(shutdownCtx, "game server stopped")

	if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", serveErr)
	}
	return nil
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(s.cfg.Network.AllowedOrigins, "*") ||
		slices.Contains(s.cfg.Network.AllowedOrigins, origin)
}

func (s *Server) serveRestart(w http.ResponseWriter, r *http.Request) {
	if err := s.game.Send(r.Context(), engine.Restart{}); err != nil {
		s.logger.Error(r.Context(), "restart failed", err)
		http.Error(w, "game unavailable", http.StatusServiceUnavailable)
		return
	}
	s.logger.Info(r.Context(), "restart requested", "remote_addr", r.RemoteAddr)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) serveClient(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	ctx := logging.WithCorrelationID(r.Context(), logging.GenerateCorrelationID())
	sess := newSession(s, conn)

	s.wg.Add(1)
	s.sessions.Add(1)
	defer func() {
		s.sessions.Add(-1)
		s.wg.Done()
	}()
	sess.run(ctx)
}
