package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/accounts-api/internal/api/middleware"
	"github.com/phrazzld/accounts-api/internal/api/shared"
	"github.com/phrazzld/accounts-api/internal/metrics"
	"github.com/phrazzld/accounts-api/internal/service"
)

// RouterConfig holds the collaborators wired into the HTTP surface.
type RouterConfig struct {
	Auth           AuthService
	Authenticator  middleware.SessionAuthenticator
	Users          service.UserService
	Health         Pinger
	Metrics        *metrics.AuthMetrics
	MetricsHandler http.Handler
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter builds the chi router for the account service.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, "not_found", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})

	r.Get("/health", NewHealthHandler(cfg.Health).Health)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	authHandler := NewAuthHandler(cfg.Auth)
	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.With(middleware.NewAuthMiddleware(cfg.Authenticator).Authenticate).
		Post("/logout", authHandler.Logout)

	users := NewUserHandler(cfg.Users)
	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.List)
		r.Post("/", users.Create)
		r.Get("/{id}", users.Get)
		r.Put("/{id}", users.Update)
		r.Delete("/{id}", users.Delete)
	})

	return r
}
