package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sweepbot/internal/services/minefield"
	"github.com/mcoot/sweepbot/internal/web/handler"
	"github.com/mcoot/sweepbot/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger    *slog.Logger
	Minefield *minefield.Controller
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()

	// Apply global middleware to all routes
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(flashMiddleware)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.Minefield, cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.Minefield, cfg.Logger)

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/games", homeHandler.NewGame).Methods(http.MethodPost)

	// Game routes
	r.HandleFunc("/games/{id}", gameHandler.View).Methods(http.MethodGet)
	r.HandleFunc("/games/{id}/cells/{row:[0-9]+}/{col:[0-9]+}/{action:reveal|flag|toggle}", gameHandler.Cell).
		Methods(http.MethodPost)

	return r
}
