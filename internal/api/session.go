package api

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"arena-shooter/internal/game"
	"arena-shooter/internal/game/rules"
	"arena-shooter/internal/lobby"

	"github.com/gorilla/websocket"
)

// eventQueueSize bounds the "reliable" per-event outbound queue (kill feed,
// round transitions, game over). Per spec §5, an endpoint that persistently
// overflows this queue is dropped rather than blocking the match.
const eventQueueSize = 32

// Endpoint is one connected player or spectator within a match's session
// manager. Mirrors the teacher's wsClient, generalized with a player
// identity and a separate snapshot/event delivery path.
type Endpoint struct {
	conn        *websocket.Conn
	ip          string
	isSpectator bool

	playerName string
	playerID   game.EntityID

	lastInputAt atomic.Int64 // unix nano, for idle/slow-endpoint diagnostics

	snapshot snapshotMailbox
	events   chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// snapshotMailbox holds exactly the most recent encoded snapshot frame,
// overwriting on every publish. Same "latest write wins" discipline as
// game.Mailbox, applied here to the broadcast side instead of the input
// side: the drop-oldest/preserve-newest backpressure policy falls out of
// the data structure instead of needing an explicit queue-trim.
type snapshotMailbox struct {
	slot atomic.Pointer[[]byte]
	wake chan struct{}
}

func newSnapshotMailbox() snapshotMailbox {
	return snapshotMailbox{wake: make(chan struct{}, 1)}
}

func (m *snapshotMailbox) publish(frame []byte) {
	m.slot.Store(&frame)
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *snapshotMailbox) take() ([]byte, bool) {
	p := m.slot.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// MatchSession is the session manager (I) for one match: the set of
// connected endpoints (players and spectators), their outbound queues, and
// the glue between WebSocket frames and the match engine's G.submitInput /
// G.addPlayer / G.removePlayer boundary. Generalizes the teacher's single
// global WebSocketHub to one hub per match.
type MatchSession struct {
	match *lobby.Match

	mu        sync.RWMutex
	endpoints map[*websocket.Conn]*Endpoint

	wsLimiter *WebSocketRateLimiter

	broadcastDivisor int
	stopChan         chan struct{}
	stopOnce         sync.Once

	// onClose notifies the transport adapter (K) that an endpoint has gone
	// away, so it can release process-wide connection/slot accounting that
	// this session has no visibility into.
	onClose func(spectator bool)
}

// NewMatchSession wires a session manager to a freshly created match,
// subscribing to its kill/rule-event callbacks so they fan out to every
// connected endpoint as soon as they fire.
func NewMatchSession(m *lobby.Match, broadcastDivisor int) *MatchSession {
	if broadcastDivisor <= 0 {
		broadcastDivisor = 1
	}
	s := &MatchSession{
		match:            m,
		endpoints:        make(map[*websocket.Conn]*Endpoint),
		wsLimiter:        NewWebSocketRateLimiter(MaxWSConnectionsPerIP),
		broadcastDivisor: broadcastDivisor,
		stopChan:         make(chan struct{}),
	}

	m.Engine.SetCallbacks(
		nil, // onDamage: no outbound message defined for raw damage in §6
		s.onKill,
		nil, // onJoin: initialState is sent synchronously on connect instead
		nil, // onRespawn: respawn is visible via the next gameState snapshot
	)
	m.Engine.SetRuleEventCallback(s.onRuleEvent)

	go s.broadcastLoop()
	return s
}

// SetOnClose registers a callback invoked whenever an endpoint is closed,
// for process-wide accounting the session itself doesn't track.
func (s *MatchSession) SetOnClose(fn func(spectator bool)) {
	s.onClose = fn
}

// Stop ends the broadcast loop. Endpoints are closed individually as their
// read loops exit; this does not force-close connections.
func (s *MatchSession) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *MatchSession) onKill(killer, victim *game.Player) {
	killerID, killerName := game.EntityID(0), ""
	if killer != nil {
		killerID, killerName = killer.ID, killer.Name
	}
	s.broadcastEvent("playerKilled", map[string]interface{}{
		"victimId":   victim.ID,
		"killerId":   killerID,
		"killerName": killerName,
	})
}

// onRuleEvent translates a rules.Event into the outbound message kinds
// roundStart/roundEnd/gameOver/gameEvent defined in spec §6.
func (s *MatchSession) onRuleEvent(ev rules.Event) {
	switch ev.Kind {
	case rules.EventRoundStart:
		s.broadcastEvent("roundStart", map[string]interface{}{
			"scores": s.match.Engine.GetSnapshot().Scores,
		})
	case rules.EventRoundEnd:
		s.broadcastEvent("roundEnd", map[string]interface{}{
			"scores": s.match.Engine.GetSnapshot().Scores,
		})
	case rules.EventGameOver:
		s.broadcastEvent("gameOver", map[string]interface{}{
			"message": ev.Message,
			"scores":  s.match.Engine.GetSnapshot().Scores,
		})
	case rules.EventWarning:
		s.broadcastEvent("gameEvent", map[string]interface{}{
			"category": "warning",
			"message":  ev.Message,
		})
	case rules.EventBecomeVIP:
		s.broadcastEvent("gameEvent", map[string]interface{}{
			"category": "achievement",
			"message":  "a new juggernaut has been chosen",
		})
	}
}

// broadcastLoop ticks at tickRate/broadcastDivisor and publishes the
// engine's latest snapshot to every endpoint's snapshot mailbox.
func (s *MatchSession) broadcastLoop() {
	_, _, tickRate := s.match.Engine.WorldInfo()
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate/s.broadcastDivisor)
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			snap := s.match.Engine.GetSnapshot()
			frame, err := json.Marshal(map[string]interface{}{"type": "gameState", "data": snap})
			if err != nil {
				continue
			}
			s.mu.RLock()
			for _, ep := range s.endpoints {
				ep.snapshot.publish(frame)
			}
			s.mu.RUnlock()
		}
	}
}

// broadcastEvent fans an event-kind message out to every endpoint's
// reliable queue, dropping any endpoint whose queue is already full.
func (s *MatchSession) broadcastEvent(eventType string, payload interface{}) {
	frame, err := json.Marshal(map[string]interface{}{"type": eventType, "data": payload})
	if err != nil {
		return
	}
	s.mu.RLock()
	victims := make([]*Endpoint, 0)
	for _, ep := range s.endpoints {
		select {
		case ep.events <- frame:
		default:
			victims = append(victims, ep)
		}
	}
	s.mu.RUnlock()

	for _, ep := range victims {
		log.Printf("session %s: endpoint queue overflow, dropping", s.match.ID)
		s.closeEndpoint(ep)
	}
}

// Connect registers a new WebSocket connection as a player or spectator
// endpoint, sends its one-time initialState/spectatorInit payload, and
// starts its read/write loops. Mirrors spec §4.9's connect sequence.
func (s *MatchSession) Connect(conn *websocket.Conn, ip string, spectator bool) *Endpoint {
	ep := &Endpoint{
		conn:        conn,
		ip:          ip,
		isSpectator: spectator,
		snapshot:    newSnapshotMailbox(),
		events:      make(chan []byte, eventQueueSize),
		done:        make(chan struct{}),
	}

	s.mu.Lock()
	s.endpoints[conn] = ep
	s.mu.Unlock()

	if !spectator {
		s.match.AddHumanEndpoint()
	}

	w, h, tickRate := s.match.Engine.WorldInfo()
	initMsg := map[string]interface{}{
		"worldWidth":  w,
		"worldHeight": h,
		"tickRate":    tickRate,
		"mode":        s.match.Mode,
		"ruleset":     s.match.Engine.RulesetName(),
	}
	msgType := "initialState"
	if spectator {
		msgType = "spectatorInit"
		initMsg["spectator"] = true
	}
	s.sendDirect(ep, msgType, initMsg)

	go s.writeLoop(ep)
	go s.readLoop(ep)
	return ep
}

func (s *MatchSession) sendDirect(ep *Endpoint, msgType string, payload interface{}) {
	frame, err := json.Marshal(map[string]interface{}{"type": msgType, "data": payload})
	if err != nil {
		return
	}
	select {
	case ep.events <- frame:
	default:
	}
}

// writeLoop drains both the snapshot mailbox and the reliable event queue
// and writes frames to the connection in the order events were enqueued,
// checking the snapshot mailbox between events so a slow consumer always
// sees the latest state rather than a backlog.
func (s *MatchSession) writeLoop(ep *Endpoint) {
	ticker := time.NewTicker(15 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ep.done:
			return
		case frame := <-ep.events:
			if err := ep.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.closeEndpoint(ep)
				return
			}
		case <-ep.snapshot.wake:
			frame, ok := ep.snapshot.take()
			if !ok {
				continue
			}
			if err := ep.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				s.closeEndpoint(ep)
				return
			}
		case <-ticker.C:
			// Nothing; this tick exists only so done/close are noticed
			// promptly even when neither channel is active.
		}
	}
}

// inboundFrame is the shape of both configChange and playerInput messages;
// unused fields for a given type are simply left zero.
type inboundFrame struct {
	Type string `json:"type"`

	// configChange
	WeaponConfig  string `json:"weaponConfig"`
	UtilityWeapon string `json:"utilityWeapon"`
	PlayerName    string `json:"playerName"`

	// playerInput
	MoveX            float64 `json:"moveX"`
	MoveY            float64 `json:"moveY"`
	WorldX           float64 `json:"worldX"`
	WorldY           float64 `json:"worldY"`
	Left             bool    `json:"left"`
	RightOrAltFire   bool    `json:"right"`
	Reload           bool    `json:"reload"`
}

func (s *MatchSession) readLoop(ep *Endpoint) {
	defer func() {
		s.disconnect(ep)
	}()

	for {
		_, raw, err := ep.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			log.Printf("session %s: dropping malformed frame from %s", s.match.ID, ep.ip)
			continue
		}

		switch frame.Type {
		case "configChange":
			s.handleConfigChange(ep, frame)
		case "playerInput":
			s.handlePlayerInput(ep, frame)
		default:
			log.Printf("session %s: dropping unknown frame type %q", s.match.ID, frame.Type)
		}
	}
}

// handleConfigChange registers a player on first contact (weapon choice,
// display name); per spec §4.9, a later configChange mid-match only applies
// the weapon switch, never a team swap, and is otherwise ignored.
func (s *MatchSession) handleConfigChange(ep *Endpoint, frame inboundFrame) {
	if ep.isSpectator {
		return
	}
	if ep.playerName == "" {
		name := frame.PlayerName
		if name == "" {
			name = ep.ip
		}
		player := s.match.Engine.AddPlayer(name, game.PlayerOptions{})
		if player == nil {
			s.sendDirect(ep, "gameEvent", map[string]interface{}{
				"category": "warning", "message": "match is full",
			})
			s.closeEndpoint(ep)
			return
		}
		ep.playerName = name
		ep.playerID = player.ID
		if frame.WeaponConfig != "" {
			player.Weapon = frame.WeaponConfig
		}
		return
	}
	// Mid-match: weapon switch allowed, nothing else is.
	if frame.WeaponConfig != "" {
		if p := s.match.Engine.GetPlayer(ep.playerName); p != nil {
			p.Weapon = frame.WeaponConfig
		}
	}
}

func (s *MatchSession) handlePlayerInput(ep *Endpoint, frame inboundFrame) {
	if ep.isSpectator || ep.playerName == "" {
		return
	}
	ep.lastInputAt.Store(time.Now().UnixNano())
	s.match.Engine.SubmitInput(ep.playerName, game.PlayerInput{
		MoveX: frame.MoveX, MoveY: frame.MoveY,
		AimWorldX: frame.WorldX, AimWorldY: frame.WorldY,
		Fire: frame.Left, Utility: frame.RightOrAltFire, Reload: frame.Reload,
	})
}

// disconnect is the normal (transport-error or client-close) teardown path:
// remove the player from the engine and drop the endpoint.
func (s *MatchSession) disconnect(ep *Endpoint) {
	if ep.playerName != "" {
		s.match.Engine.RemovePlayer(ep.playerName)
	}
	s.closeEndpoint(ep)
}

// closeEndpoint is the shared cleanup for both normal disconnects and
// forced drops (event queue overflow per spec §5's backpressure policy).
func (s *MatchSession) closeEndpoint(ep *Endpoint) {
	ep.closeOnce.Do(func() {
		close(ep.done)
		ep.conn.Close()

		s.mu.Lock()
		delete(s.endpoints, ep.conn)
		s.mu.Unlock()

		s.wsLimiter.Release(ep.ip)
		if !ep.isSpectator {
			s.match.RemoveHumanEndpoint()
		}
		if s.onClose != nil {
			s.onClose(ep.isSpectator)
		}
	})
}

// EndpointCount returns the number of connected endpoints (players and
// spectators combined).
func (s *MatchSession) EndpointCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.endpoints)
}

// Allow checks (and reserves, on success) a WebSocket connection slot for
// ip against this session's per-IP limit.
func (s *MatchSession) Allow(ip string) bool {
	return s.wsLimiter.Allow(ip)
}

// ReleaseReservation undoes an Allow reservation that was never turned into
// a live endpoint (e.g. the upgrade itself failed).
func (s *MatchSession) ReleaseReservation(ip string) {
	s.wsLimiter.Release(ip)
}
