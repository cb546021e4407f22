// Package web serves the apple game as a JSON API for browser front ends.
// Each session lives in a room with its own clock; rooms nobody touches for
// the configured TTL are closed by a janitor.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vovakirdan/apple-arcade/internal/config"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr         string
	RoomTTL      time.Duration // Idle time before a room is closed
	Origins      []string      // Allowed CORS origins
	TickInterval time.Duration // Length of one clock second, shortened in tests
	Game         config.ApplesConfig
	Store        *storage.Store // Optional; nil disables score saving
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:         ":8080",
		RoomTTL:      30 * time.Minute,
		Origins:      []string{"*"},
		TickInterval: time.Second,
		Game:         config.DefaultApplesConfig(),
	}
}

// Server is the HTTP front of the apple game.
type Server struct {
	config Config
	router chi.Router
	rooms  *roomTable
	logger *log.Logger
}

// NewServer builds the router and room table.
func NewServer(cfg Config) *Server {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.RoomTTL <= 0 {
		cfg.RoomTTL = defaults.RoomTTL
	}
	if len(cfg.Origins) == 0 {
		cfg.Origins = defaults.Origins
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = defaults.TickInterval
	}

	s := &Server{
		config: cfg,
		rooms:  newRoomTable(),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arcade-web",
		}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.Origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", playerHeader},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))
	r.Use(jsonContentType)

	r.Get("/health", s.handleHealth)

	r.Route("/sessions", func(rr chi.Router) {
		rr.Post("/", s.handleCreate)
		rr.Route("/{id}", func(rr chi.Router) {
			rr.Get("/", s.handleGet)
			rr.Delete("/", s.handleDelete)
			rr.Post("/pointer-down", s.handlePointerDown)
			rr.Post("/pointer-enter", s.handlePointerEnter)
			rr.Post("/pointer-up", s.handlePointerUp)
			rr.Post("/restart", s.handleRestart)
		})
	})

	r.Get("/scores/{game}", s.handleScores)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully and closes
// every room.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.janitor(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.config.Addr, "room_ttl", s.config.RoomTTL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rooms.closeAll()
		if err != nil {
			return fmt.Errorf("web: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	s.rooms.closeAll()
	if err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// janitor closes idle rooms until ctx is cancelled.
func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(max(s.config.RoomTTL/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sweep(now)
		}
	}
}

// sweep closes every room idle for longer than the TTL.
func (s *Server) sweep(now time.Time) {
	for _, id := range s.rooms.expire(now.Add(-s.config.RoomTTL)) {
		s.logger.Info("room expired", "room", id)
	}
}

// Close closes every room without stopping the listener.
func (s *Server) Close() {
	s.rooms.closeAll()
}

// jsonContentType sets a JSON Content-Type on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}
