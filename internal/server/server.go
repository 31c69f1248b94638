// ABOUTME: Session server: wires catalog, state, bus, queue, and engine together
// ABOUTME: Owns the HTTP listener lifecycle and graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/2389/agora/internal/bus"
	"github.com/2389/agora/internal/catalog"
	"github.com/2389/agora/internal/config"
	"github.com/2389/agora/internal/content"
	"github.com/2389/agora/internal/engine"
	"github.com/2389/agora/internal/session"
)

// Server hosts one debate session: the engine goroutine plus the HTTP
// boundary that lets humans watch and join.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	state  *session.State
	bus    *bus.Bus
	queue  *session.Queue
	engine *engine.Engine

	httpServer *http.Server
}

// New builds a fully wired server. The content source is injected so the
// CLI can pass the live backend while tests pass a scripted one.
func New(cfg *config.Config, source content.Source, logger *slog.Logger) (*Server, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	seed := cfg.Session.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Two distinct debaters drawn from the catalog.
	i := rng.Intn(len(cat.Personas))
	j := rng.Intn(len(cat.Personas) - 1)
	if j >= i {
		j++
	}

	st := session.New(cat.Personas[i], cat.Personas[j], cfg.Session.MaxUptime)
	b := bus.New(logger)
	q := session.NewQueue()

	eng := engine.New(engine.Params{
		Config: engine.FromSession(cfg.Session),
		State:  st,
		Bus:    b,
		Queue:  q,
		Source: source,
		Topics: cat.Topics,
		Rng:    rng,
		Logger: logger,
	})

	s := &Server{
		cfg:    cfg,
		logger: logger.With("component", "server"),
		state:  st,
		bus:    b,
		queue:  q,
		engine: eng,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /join", s.handleJoin)
	mux.HandleFunc("POST /send", s.handleSend)
	mux.HandleFunc("GET /stream", s.handleStream)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the engine goroutine and the HTTP server, blocking until the
// engine finishes its uptime budget or ctx is cancelled. The HTTP server
// is then shut down gracefully so in-flight streams get their final
// events.
func (s *Server) Run(ctx context.Context) error {
	engineCtx, stopEngine := context.WithCancel(ctx)
	defer stopEngine()

	engineDone := make(chan struct{})
	go func() {
		s.engine.Run(engineCtx)
		close(engineDone)
	}()

	httpErr := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	var runErr error
	select {
	case <-engineDone:
		s.logger.Info("engine finished, closing http server")
	case <-ctx.Done():
		s.logger.Info("shutdown requested")
		stopEngine()
		<-engineDone
	case runErr = <-httpErr:
		s.logger.Error("http server failed", "error", runErr)
		stopEngine()
		<-engineDone
	}

	shutdownErr := s.gracefulShutdown()
	s.bus.Close()

	if runErr != nil {
		return runErr
	}
	return shutdownErr
}

// gracefulShutdown uses a fresh context since the run context is already
// cancelled by the time we get here.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
