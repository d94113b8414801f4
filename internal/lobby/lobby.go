// Package lobby is the process-wide supervisory registry (J): it owns one
// game.Engine per live match, creates and tears them down, and enforces the
// global concurrent-player cap. Grounded on the teacher's single-engine
// construction/shutdown lifecycle (game.NewEngine, Engine.Start/Stop)
// lifted one level up to a map, and on the cleanup-goroutine idiom the
// teacher already uses in its rate limiter and event log.
package lobby

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"arena-shooter/internal/config"
	"arena-shooter/internal/game"
	"arena-shooter/internal/game/rules"
)

// Errors returned by lobby operations, matching the teacher's plain-error
// style (no pkg/errors wrapping).
var (
	ErrMatchNotFound     = errors.New("lobby: match not found")
	ErrMatchFull         = errors.New("lobby: match is full")
	ErrGlobalCapExceeded = errors.New("lobby: global player cap exceeded")
	ErrUnknownMode       = errors.New("lobby: unknown game mode")
)

// Mode names accepted by CreateMatch/FindOrJoin, matching each Ruleset's
// Name().
const (
	ModeTeamDeathmatch = "team_deathmatch"
	ModeKingOfTheHill  = "king_of_the_hill"
	ModeCaptureTheFlag = "capture_the_flag"
	ModeOddball        = "oddball"
	ModeJuggernaut     = "juggernaut"
	ModeLoneWolf       = "lone_wolf"
	ModeZombieDefense  = "zombie_defense"
)

// Match is one live instance: its engine plus the bookkeeping the lobby
// needs to cull it (mode, creation time, last time a human endpoint was
// attached to it). The session manager (I) is the thing that actually
// updates HumanEndpoints as players connect/disconnect.
type Match struct {
	ID        string
	Mode      string
	Engine    *game.Engine
	CreatedAt time.Time

	mu              sync.Mutex
	humanEndpoints  int
	lastHumanActive time.Time
}

// AddHumanEndpoint/RemoveHumanEndpoint are called by the session manager (I)
// as players connect/disconnect, so the cull loop knows whether this match
// still has anyone watching it.
func (m *Match) AddHumanEndpoint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.humanEndpoints++
	m.lastHumanActive = time.Now()
}

func (m *Match) RemoveHumanEndpoint() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.humanEndpoints > 0 {
		m.humanEndpoints--
	}
	m.lastHumanActive = time.Now()
}

func (m *Match) humanEndpointCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.humanEndpoints
}

func (m *Match) idleSince() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHumanActive
}

// Lobby is the process-wide singleton match registry.
type Lobby struct {
	cfg    config.LobbyConfig
	match  config.MatchConfig
	limits config.ResourceLimits
	spat   config.SpatialConfig

	mu      sync.RWMutex
	matches map[string]*Match
	byMode  map[string]string // mode -> matchId, for findOrJoin's "join the open one" policy

	nextID int64 // atomic, monotonic match id source

	globalPlayers int64 // atomic, process-wide player count

	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates an empty lobby. Call Run to start the periodic cull loop.
func New(cfg config.LobbyConfig, match config.MatchConfig, limits config.ResourceLimits, spat config.SpatialConfig) *Lobby {
	return &Lobby{
		cfg:      cfg,
		match:    match,
		limits:   limits,
		spat:     spat,
		matches:  make(map[string]*Match),
		byMode:   make(map[string]string),
		stopChan: make(chan struct{}),
	}
}

// Run starts the periodic cull sweep in its own goroutine. Styled on the
// teacher's ratelimit.go/event_log.go cleanupLoop pattern.
func (l *Lobby) Run() {
	interval := time.Duration(l.cfg.CullInterval) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go l.cullLoop(interval)
}

// Stop ends the cull loop. Does not tear down in-flight matches; call
// RemoveMatch for each one first if a full shutdown is needed.
func (l *Lobby) Stop() {
	l.stopOnce.Do(func() { close(l.stopChan) })
}

func (l *Lobby) cullLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cull()
		}
	}
}

// cull tears down every match that has had zero human endpoints for at
// least MatchIdleTimeout seconds. An AI-only match (all bots, e.g. a
// zombie-defense wave with no defenders left, or a match nobody ever
// joined) is removed by the first cull after that timeout has passed.
func (l *Lobby) cull() {
	idleTimeout := time.Duration(l.cfg.MatchIdleTimeout) * time.Second
	l.mu.RLock()
	victims := make([]string, 0)
	for id, m := range l.matches {
		if m.humanEndpointCount() == 0 && time.Since(m.idleSince()) >= idleTimeout {
			victims = append(victims, id)
		}
	}
	l.mu.RUnlock()

	for _, id := range victims {
		log.Printf("lobby: culling idle match %s", id)
		l.RemoveMatch(id)
	}
}

// CreateMatch allocates a fresh monotonic id, instantiates a match engine
// for the given mode, and starts its tick loop.
func (l *Lobby) CreateMatch(mode string) (*Match, error) {
	ruleset, waveCfg, err := l.buildRuleset(mode)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("match-%d", atomic.AddInt64(&l.nextID, 1))
	engine := game.NewEngine(game.EngineConfig{
		Match:      l.match,
		Limits:     l.limits,
		Spatial:    l.spat,
		Ruleset:    ruleset,
		ZombieWave: waveCfg,
	})

	m := &Match{ID: id, Mode: mode, Engine: engine, CreatedAt: time.Now(), lastHumanActive: time.Now()}

	l.mu.Lock()
	l.matches[id] = m
	l.byMode[mode] = id
	l.mu.Unlock()

	engine.Start()
	log.Printf("lobby: created match %s (mode=%s)", id, mode)
	return m, nil
}

// buildRuleset constructs the Ruleset for a named mode with sensible
// defaults for objective placement (zone/flag positions are anchored to the
// match's configured world dimensions so they sit inside the arena
// regardless of size).
func (l *Lobby) buildRuleset(mode string) (rules.Ruleset, rules.ZombieWaveConfig, error) {
	tickRate := l.match.TickRate
	if tickRate == 0 {
		tickRate = 60
	}
	cfg := rules.DefaultRoundConfig(tickRate)
	w := float64(l.match.WorldWidth)
	h := float64(l.match.WorldHeight)
	if w == 0 {
		w = 2400
	}
	if h == 0 {
		h = 1600
	}

	switch mode {
	case ModeTeamDeathmatch:
		return rules.NewTeamDeathmatch(cfg), rules.ZombieWaveConfig{}, nil

	case ModeKingOfTheHill:
		zones := []*rules.Zone{
			rules.NewZone(1, w*0.5, h*0.5, 150, 10*tickRate),
		}
		return rules.NewKingOfTheHill(cfg, zones), rules.ZombieWaveConfig{}, nil

	case ModeCaptureTheFlag:
		flags := []*rules.Flag{
			rules.NewFlag(1, 0, w*0.1, h*0.5),
			rules.NewFlag(2, 1, w*0.9, h*0.5),
		}
		return rules.NewCaptureTheFlag(cfg, flags), rules.ZombieWaveConfig{}, nil

	case ModeOddball:
		flags := []*rules.Flag{
			rules.NewFlag(1, -1, w*0.5, h*0.5),
		}
		return rules.NewCaptureTheFlag(cfg, flags), rules.ZombieWaveConfig{}, nil

	case ModeJuggernaut:
		return rules.NewJuggernaut(cfg, map[int][]rules.EntityID{}), rules.ZombieWaveConfig{}, nil

	case ModeLoneWolf:
		return rules.NewLoneWolf(cfg, 0, 0.1), rules.ZombieWaveConfig{}, nil

	case ModeZombieDefense:
		waveCfg := rules.ZombieWaveConfig{BaseCount: 5, CountGrowth: 2, RestTicks: 5 * tickRate}
		return rules.NewZombieDefense(cfg, waveCfg), waveCfg, nil

	default:
		return nil, rules.ZombieWaveConfig{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// FindOrJoin joins the existing open match for mode if one exists and has
// room, otherwise creates a new one. matchId, if non-empty, joins that
// specific match directly.
func (l *Lobby) FindOrJoin(matchID, mode string) (*Match, error) {
	if matchID != "" {
		m, err := l.GetMatch(matchID)
		if err != nil {
			return nil, err
		}
		if m.Engine.PlayerCount() >= l.limits.MaxPlayers {
			return nil, ErrMatchFull
		}
		return m, nil
	}

	l.mu.RLock()
	existingID, ok := l.byMode[mode]
	l.mu.RUnlock()
	if ok {
		if m, err := l.GetMatch(existingID); err == nil && m.Engine.PlayerCount() < l.limits.MaxPlayers {
			return m, nil
		}
	}
	return l.CreateMatch(mode)
}

// GetMatch looks up a match by id.
func (l *Lobby) GetMatch(matchID string) (*Match, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	m, ok := l.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// RemoveMatch shuts down a match's engine and drops the lobby's reference.
func (l *Lobby) RemoveMatch(matchID string) {
	l.mu.Lock()
	m, ok := l.matches[matchID]
	if !ok {
		l.mu.Unlock()
		return
	}
	delete(l.matches, matchID)
	if l.byMode[m.Mode] == matchID {
		delete(l.byMode, m.Mode)
	}
	l.mu.Unlock()

	m.Engine.Stop()
	log.Printf("lobby: removed match %s", matchID)
}

// AcquireGlobalSlot reserves one of the process-wide player slots. Returns
// false (and reserves nothing) if the global cap is already met.
func (l *Lobby) AcquireGlobalSlot() bool {
	for {
		cur := atomic.LoadInt64(&l.globalPlayers)
		if l.cfg.MaxGlobalPlayers > 0 && cur >= int64(l.cfg.MaxGlobalPlayers) {
			return false
		}
		if atomic.CompareAndSwapInt64(&l.globalPlayers, cur, cur+1) {
			return true
		}
	}
}

// ReleaseGlobalSlot returns a previously acquired global player slot.
func (l *Lobby) ReleaseGlobalSlot() {
	atomic.AddInt64(&l.globalPlayers, -1)
}

// GlobalPlayerCount returns the current process-wide player count.
func (l *Lobby) GlobalPlayerCount() int {
	return int(atomic.LoadInt64(&l.globalPlayers))
}

// MatchCount returns the number of live matches, for the observability
// layer's active-match gauge.
func (l *Lobby) MatchCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.matches)
}

// Matches returns a snapshot slice of every live match, for lobby-listing
// REST endpoints.
func (l *Lobby) Matches() []*Match {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Match, 0, len(l.matches))
	for _, m := range l.matches {
		out = append(out, m)
	}
	return out
}
