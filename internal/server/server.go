package server

import (
	"log/slog"
	"net/http"

	"github.com/alfagnish/users-api/internal/config"
	"github.com/alfagnish/users-api/internal/events"
	"github.com/alfagnish/users-api/internal/handlers"
	"github.com/alfagnish/users-api/internal/middleware"
	"github.com/alfagnish/users-api/internal/users"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// New creates a fully-configured chi router with all route groups,
// middleware, and handlers wired together.
func New(cfg *config.Config, store *users.Store, hub *events.Hub, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// ── Middleware ───────────────────────────────────────────
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recoverer(log))
	r.Use(chimw.RealIP)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// ── Handlers ────────────────────────────────────────────
	systemH := handlers.NewSystemHandler(log)
	usersH := handlers.NewUsersHandler(store, log)
	wsH := handlers.NewWSHandler(hub, log)

	// ── Route groups ────────────────────────────────────────
	systemH.Routes(r)
	r.Route("/api/users", func(r chi.Router) {
		r.Route("/ws", wsH.Routes)
		usersH.Routes(r)
	})

	return r
}
