package api

import (
	"log"
	"net/http"

	"arena-shooter/internal/lobby"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support: lobby REST routes
// plus the per-match WebSocket transport adapter.
type Server struct {
	lobby       *lobby.Lobby
	gateway     *Gateway
	router      *chi.Mux
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server wired to a lobby, with default
// production configuration.
//
// Construction opens no network listener, so Router() can be exercised in
// tests. It does start the rate limiter's cleanup goroutine (stopped by
// Stop); the lobby's cull loop starts only in Start.
func NewServer(l *lobby.Lobby) *Server {
	s := &Server{
		lobby:   l,
		gateway: NewGateway(l),
	}
	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)
	s.router = NewRouter(RouterConfig{
		Lobby:       l,
		Gateway:     s.gateway,
		RateLimiter: s.rateLimiter,
	})
	return s
}

// Start begins the HTTP server and the lobby's cull loop. The only method
// that opens a network listener. Call once; to stop,
// signal the process or call Stop.
func (s *Server) Start(addr string) error {
	s.lobby.Run()

	log.Printf("api server starting on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers: the rate limiter,
// the lobby's cull loop, and every live match's engine.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.lobby.Stop()
	for _, m := range s.lobby.Matches() {
		s.gateway.DropSession(m.ID)
		s.lobby.RemoveMatch(m.ID)
	}
}
