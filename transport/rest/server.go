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
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	handlers *handlers
}

func New(logger *slog.Logger, gameManager gameManager, defaults GameDefaults) *Server {
	return &Server{
		logger: logger.With("component", "rest"),
		handlers: &handlers{
			logger:      logger.With("component", "rest"),
			gameManager: gameManager,
			defaults:    defaults,
		},
	}
}

// Router wires the routes and returns the http.Handler.
func (that *Server) Router() http.Handler {
	h := that.handlers

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ping", pingHandler)
	r.Post("/games", h.startGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", h.getGame)
		r.Delete("/", h.deleteGame)
		r.Get("/cells/{x}/{y}/{z}", h.getCell)
		r.Post("/moves", h.attemptMove)
		r.Post("/restart", h.restart)
		r.Get("/events", h.events)
	})

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	that.logger.Info("HTTP server stopped")

	return nil
}
