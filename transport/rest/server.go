package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/codenames-backend/internal/codenames"
	"github.com/rocketscienceinc/codenames-backend/internal/entity"
)

const handlerTimeout = 10 * time.Second

type sessionManager interface {
	Board() codenames.Board
	CreatePlayer() *entity.Player

	View(playerID string) (codenames.View, error)
	Start(playerID string) (codenames.View, error)
	Reveal(playerID string, cardID int) (codenames.View, error)
	Stop(playerID string) (codenames.View, error)
	Close(playerID string) (codenames.View, error)

	Score(ctx context.Context, playerID string) (*entity.Score, error)
}

type Server struct {
	logger   *slog.Logger
	sessions sessionManager

	router *chi.Mux
	srv    *http.Server
}

func New(logger *slog.Logger, sessions sessionManager) *Server {
	server := &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
		router:   chi.NewRouter(),
	}

	server.router.Use(middleware.RequestID)
	server.router.Use(middleware.RealIP)
	server.router.Use(middleware.Recoverer)
	server.router.Use(middleware.Timeout(handlerTimeout))

	server.router.Get("/ping", pingHandler)
	server.router.Get("/cards", server.handleCards)
	server.router.Post("/players", server.handleCreatePlayer)

	server.router.Route("/players/{playerID}", func(r chi.Router) {
		r.Get("/score", server.handleScore)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", server.handleSession)
			r.Post("/start", server.handleStart)
			r.Post("/stop", server.handleStop)
			r.Post("/close", server.handleClose)
			r.Post("/cards/{cardID}/reveal", server.handleReveal)
		})
	})

	server.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})

	return server
}

// Router - the HTTP handler, exposed for tests.
func (that *Server) Router() http.Handler {
	return that.router
}

// Start - starts HTTP server. Returns nil after Shutdown.
func (that *Server) Start(port string) error {
	that.srv = &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := that.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) Shutdown(ctx context.Context) error {
	if that.srv == nil {
		return nil
	}

	if err := that.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
