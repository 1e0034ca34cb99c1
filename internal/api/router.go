package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sweepbot/internal/api/handler"
	"github.com/mcoot/sweepbot/internal/api/middleware"
	"github.com/mcoot/sweepbot/internal/services/minefield"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Minefield *minefield.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.Minefield)

	// Create middleware
	controlMiddleware := middleware.ControlToken(cfg.Minefield)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Game routes (reads are public)
	api.HandleFunc("/games", gameHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/status", gameHandler.Status).Methods(http.MethodGet)

	// Mutations require the game's control token
	controlled := api.PathPrefix("/games/{id}").Subrouter()
	controlled.Use(controlMiddleware)
	controlled.HandleFunc("/reveal", gameHandler.Reveal).Methods(http.MethodPost)
	controlled.HandleFunc("/flag", gameHandler.Flag).Methods(http.MethodPost)
	controlled.HandleFunc("", gameHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
