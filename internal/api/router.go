package api

import (
	"net/http"

	"arena-shooter/internal/lobby"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig contains all dependencies needed to construct the HTTP
// router. Designed for dependency injection and testability.
type RouterConfig struct {
	// Lobby is the process-wide match registry (required).
	Lobby *lobby.Lobby

	// Gateway is the WebSocket transport adapter (required).
	Gateway *Gateway

	// RateLimiter is an optional pre-configured rate limiter. If nil, a new
	// one is created from RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter. Only
	// used if RateLimiter is nil.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins. If nil, uses
	// the default local-dev origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks).
	DisableLogging bool
}

// routerHandlers holds dependencies for the route handler methods.
type routerHandlers struct {
	lobby   *lobby.Lobby
	gateway *Gateway
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// No network listener is opened, so it is safe to use in tests with
// httptest.NewServer. When cfg.RateLimiter is nil a new IPRateLimiter is
// created here, and that starts the limiter's cleanup goroutine.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{lobby: cfg.Lobby, gateway: cfg.Gateway}

	r.Route("/api", func(r chi.Router) {
		r.Post("/matches", h.handleCreateOrJoinMatch)
		r.Get("/matches", h.handleListMatches)
		r.Get("/matches/{matchId}", h.handleGetMatch)
		r.Get("/matches/{matchId}/leaderboard", h.handleGetLeaderboard)
	})

	r.Get("/game/{matchId}", cfg.Gateway.HandlePlayerConnect)
	r.Get("/spectate/{matchId}", cfg.Gateway.HandleSpectatorConnect)

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// GetRateLimiterFromRouter is a helper to extract the rate limiter that
// would be used by a given RouterConfig, for tests that need to verify
// rate limiting behavior without constructing the whole router.
func GetRateLimiterFromRouter(cfg RouterConfig) *IPRateLimiter {
	if cfg.RateLimiter != nil {
		return cfg.RateLimiter
	}
	rateLimitCfg := DefaultRateLimitConfig
	if cfg.RateLimitConfig != nil {
		rateLimitCfg = *cfg.RateLimitConfig
	}
	return NewIPRateLimiter(rateLimitCfg)
}
