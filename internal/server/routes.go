// AngelaMos | 2026
// routes.go

package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/codeburry/api/internal/admin"
	"github.com/codeburry/api/internal/auth"
	"github.com/codeburry/api/internal/community"
	"github.com/codeburry/api/internal/config"
	"github.com/codeburry/api/internal/health"
	"github.com/codeburry/api/internal/metrics"
	"github.com/codeburry/api/internal/middleware"
	"github.com/codeburry/api/internal/progress"
)

const (
	credentialRequestsPerMinute = 10
	feedWritesPerMinute         = 30
)

// API is everything the HTTP surface is built from.
type API struct {
	Config    *config.Config
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Redis     *redis.Client
	Verifier  middleware.TokenVerifier
	Health    *health.Handler
	Auth      *auth.Handler
	Admin     *admin.Handler
	Community *community.Handler
	Progress  *progress.Handler
	Realtime  http.Handler
}

func (s *Server) Mount(api API) {
	Mount(s.router, api)
}

func Mount(r chi.Router, api API) {
	cfg := api.Config
	prefix := cfg.Redis.KeyPrefix

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(api.Logger, api.Metrics))
	r.Use(middleware.NewRateLimiter(api.Redis, middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyPrefix: prefix,
		FailOpen:  true,
	}).Handler)
	r.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORS))

	api.Health.RegisterRoutes(r)

	if cfg.Metrics.Enabled && api.Metrics != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, api.Metrics.Handler())
	}

	authenticator := middleware.Authenticator(api.Verifier, cfg.Auth.CookieName)

	credentialLimiter := middleware.NewRateLimiter(api.Redis, middleware.RateLimitConfig{
		Limit:     middleware.PerMinute(credentialRequestsPerMinute, credentialRequestsPerMinute),
		KeyPrefix: prefix + ":auth",
		FailOpen:  true,
	}).Handler

	feedLimiter := middleware.NewRateLimiter(api.Redis, middleware.RateLimitConfig{
		Limit:     middleware.PerWindow(feedWritesPerMinute, feedWritesPerMinute, time.Minute),
		KeyPrefix: prefix + ":feed",
		KeyFunc:   middleware.KeyByUserAndEndpoint,
		FailOpen:  true,
	}).Handler

	r.Route("/api", func(r chi.Router) {
		api.Auth.RegisterRoutes(r, authenticator, credentialLimiter)
		api.Community.RegisterRoutes(r, authenticator, feedLimiter)
		api.Progress.RegisterRoutes(r, authenticator)
		api.Admin.RegisterRoutes(r, authenticator, middleware.RequireAdmin)

		if api.Realtime != nil {
			r.With(middleware.OptionalAuth(api.Verifier, cfg.Auth.CookieName)).
				Method(http.MethodGet, "/realtime", api.Realtime)
		}
	})
}
