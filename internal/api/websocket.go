package api

import (
	"log"
	"net/http"
	"sync"
	"sync/atomic"

	"arena-shooter/internal/lobby"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	// MaxWSConnectionsTotal is the maximum number of WebSocket connections
	// allowed across the whole process, spanning every match.
	MaxWSConnectionsTotal = 500

	// MaxWSConnectionsPerIP is the maximum WebSocket connections per IP,
	// enforced per match session.
	MaxWSConnectionsPerIP = 10

	// broadcastDivisor is how much slower than the simulation tick the
	// outbound snapshot broadcast runs (spec §4.8: clients don't need every
	// tick, just every Nth one).
	broadcastDivisor = 2
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if IsAllowedOrigin(origin) {
			return true
		}
		log.Printf("websocket connection rejected from origin: %s", origin)
		RecordConnectionRejected("origin")
		return false
	},
}

// Gateway is the transport adapter (K): it owns the lobby and the live set
// of per-match session managers, upgrades incoming HTTP connections to
// WebSocket, and routes them to the right match's MatchSession. This
// generalizes the teacher's single global WebSocketHub to one hub per
// match plus process-wide connection accounting.
type Gateway struct {
	lobby *lobby.Lobby

	mu       sync.RWMutex
	sessions map[string]*MatchSession

	totalConns int64 // atomic
}

// NewGateway wires a transport adapter to a lobby.
func NewGateway(l *lobby.Lobby) *Gateway {
	return &Gateway{lobby: l, sessions: make(map[string]*MatchSession)}
}

// sessionFor returns (creating if needed) the MatchSession for a live
// match, or nil if the match no longer exists.
func (g *Gateway) sessionFor(matchID string) *MatchSession {
	g.mu.RLock()
	s, ok := g.sessions[matchID]
	g.mu.RUnlock()
	if ok {
		return s
	}

	m, err := g.lobby.GetMatch(matchID)
	if err != nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[matchID]; ok {
		return s
	}
	s = NewMatchSession(m, broadcastDivisor)
	s.SetOnClose(func(spectator bool) {
		atomic.AddInt64(&g.totalConns, -1)
		UpdateWSConnections(int(atomic.LoadInt64(&g.totalConns)))
		if !spectator {
			g.lobby.ReleaseGlobalSlot()
		}
	})
	g.sessions[matchID] = s
	return s
}

// DropSession stops and forgets a match's session manager, called once the
// lobby has culled the underlying match.
func (g *Gateway) DropSession(matchID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.sessions[matchID]; ok {
		s.Stop()
		delete(g.sessions, matchID)
	}
}

// HandlePlayerConnect upgrades a connection as a player endpoint on
// /game/{matchId}.
func (g *Gateway) HandlePlayerConnect(w http.ResponseWriter, r *http.Request) {
	g.handleConnect(w, r, false)
}

// HandleSpectatorConnect upgrades a connection as a spectator endpoint on
// /spectate/{matchId}.
func (g *Gateway) HandleSpectatorConnect(w http.ResponseWriter, r *http.Request) {
	g.handleConnect(w, r, true)
}

func (g *Gateway) handleConnect(w http.ResponseWriter, r *http.Request, spectator bool) {
	matchID := chi.URLParam(r, "matchId")
	session := g.sessionFor(matchID)
	if session == nil {
		http.Error(w, "match not found", http.StatusNotFound)
		return
	}

	if atomic.LoadInt64(&g.totalConns) >= MaxWSConnectionsTotal {
		log.Printf("websocket connection rejected: total limit reached")
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	ip := GetClientIP(r)
	if !spectator && !g.lobby.AcquireGlobalSlot() {
		log.Printf("websocket connection rejected from %s: global player cap reached", ip)
		RecordConnectionRejected("global_cap")
		http.Error(w, "server is full", http.StatusServiceUnavailable)
		return
	}
	if !session.Allow(ip) {
		if !spectator {
			g.lobby.ReleaseGlobalSlot()
		}
		log.Printf("websocket connection rejected from %s: per-IP limit reached", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		session.ReleaseReservation(ip)
		if !spectator {
			g.lobby.ReleaseGlobalSlot()
		}
		return
	}

	atomic.AddInt64(&g.totalConns, 1)
	UpdateWSConnections(int(atomic.LoadInt64(&g.totalConns)))
	session.Connect(conn, ip, spectator)
}
