// Package server publishes a table to read-only websocket spectators. Every
// state change of the table is broadcast as a snapshot message; nothing a
// spectator sends can affect the round.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/blackjack/internal/game"
)

// Source is the part of the table the server observes.
type Source interface {
	Snapshot() game.Snapshot
	Subscribe(fn game.Listener) (unsubscribe func())
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for message timestamps and pings.
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithPingPeriod overrides how often idle spectators are pinged.
func WithPingPeriod(d time.Duration) Option {
	return func(s *Server) { s.pingPeriod = d }
}

// Server is the spectator hub.
type Server struct {
	source     Source
	logger     zerolog.Logger
	clock      quartz.Clock
	pingPeriod time.Duration
	upgrader   websocket.Upgrader

	mu          sync.RWMutex
	spectators  map[*Spectator]bool
	latest      []byte
	unsubscribe func()
	closed      bool
}

// New creates a server attached to source. It starts listening for changes
// immediately; call Close to detach.
func New(source Source, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		source:     source,
		logger:     logger.With().Str("component", "server").Logger(),
		clock:      quartz.NewReal(),
		pingPeriod: pingPeriod,
		upgrader: websocket.Upgrader{
			// Spectators are read-only; any origin may watch.
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		spectators: make(map[*Spectator]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.latest = s.encode(source.Snapshot())
	s.unsubscribe = source.Subscribe(s.onChange)
	return s
}

// Handler returns the HTTP routes: /ws for the feed, /snapshot for the
// current state as plain JSON and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down and
// disconnects every spectator.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Spectator feed listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	return nil
}

// Close detaches from the table and disconnects every spectator.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	spectators := make([]*Spectator, 0, len(s.spectators))
	for sp := range s.spectators {
		spectators = append(spectators, sp)
	}
	s.spectators = make(map[*Spectator]bool)
	s.mu.Unlock()

	unsubscribe()
	for _, sp := range spectators {
		sp.Close()
	}
}

// Spectators returns the number of connected spectators.
func (s *Server) Spectators() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.spectators)
}

// onChange runs on the table's driver goroutine; it must not block.
func (s *Server) onChange() {
	data := s.encode(s.source.Snapshot())
	if data == nil {
		return
	}

	s.mu.Lock()
	s.latest = data
	spectators := make([]*Spectator, 0, len(s.spectators))
	for sp := range s.spectators {
		spectators = append(spectators, sp)
	}
	s.mu.Unlock()

	for _, sp := range spectators {
		if !sp.Send(data) {
			s.logger.Warn().Str("remote", sp.RemoteAddr()).Msg("Spectator too slow, disconnecting")
			s.remove(sp)
		}
	}
	s.logger.Debug().Int("recipients", len(spectators)).Msg("Broadcast snapshot")
}

func (s *Server) encode(snap game.Snapshot) []byte {
	msg, err := NewMessage(MessageTypeSnapshot, snap, s.clock.Now())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode snapshot")
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode message")
		return nil
	}
	return data
}

func (s *Server) add(sp *Spectator) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.spectators[sp] = true
	// Queue the current state first so late joiners see the table at once.
	sp.Send(s.latest)
	s.logger.Info().Str("remote", sp.RemoteAddr()).Int("total", len(s.spectators)).Msg("Spectator connected")
	return true
}

func (s *Server) remove(sp *Spectator) {
	s.mu.Lock()
	_, ok := s.spectators[sp]
	delete(s.spectators, sp)
	total := len(s.spectators)
	s.mu.Unlock()

	sp.Close()
	if ok {
		s.logger.Info().Str("remote", sp.RemoteAddr()).Int("total", total).Msg("Spectator disconnected")
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	sp := newSpectator(conn, s.clock, s.pingPeriod, s.logger)
	if !s.add(sp) {
		sp.Close()
		return
	}
	sp.Start()

	go func() {
		<-sp.Done()
		s.remove(sp)
	}()
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Snapshot()); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write snapshot")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}
