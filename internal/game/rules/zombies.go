package rules

// WavePhase is where the current zombie wave sits in its lifecycle.
type WavePhase int

const (
	WaveSpawning WavePhase = iota
	WaveActive
	WaveCleared
	WaveResting
)

// ZombieDefense: AI zombies spawn in waves; humans share one team; a wave's
// lifecycle is spawn -> all-dead -> rest -> next-wave. Score = waves
// survived, per spec §4.5.
type ZombieDefense struct {
	round  *RoundState
	scores map[int]int // team 0 = humans

	wave      int
	phase     WavePhase
	restTicks int
	restLeft  int

	zombiesAlive   int
	zombiesToSpawn int
}

// ZombieWaveConfig controls pacing: how many zombies per wave and rest
// duration between waves. Chosen conservatively per SPEC_FULL.md's
// resolution of this mode's sparsely-described pacing.
type ZombieWaveConfig struct {
	BaseCount      int // zombies in wave 1
	CountGrowth    int // extra zombies per wave
	RestTicks      int
}

// NewZombieDefense creates a zombie-defense ruleset starting at wave 0
// (not yet spawned), in the WaveResting phase; StartWave begins wave 1.
func NewZombieDefense(cfg RoundConfig, waveCfg ZombieWaveConfig) *ZombieDefense {
	r := NewRoundState(cfg)
	r.Begin()
	return &ZombieDefense{round: r, scores: make(map[int]int), restTicks: waveCfg.RestTicks, phase: WaveResting}
}

func (m *ZombieDefense) Name() string        { return "zombie_defense" }
func (m *ZombieDefense) Phase() Phase        { return m.round.Phase() }
func (m *ZombieDefense) Scores() map[int]int { return m.scores }
func (m *ZombieDefense) WaveNumber() int     { return m.wave }
func (m *ZombieDefense) WavePhase() WavePhase { return m.phase }

// StartWave begins the next wave with the given zombie count (computed by
// the engine from ZombieWaveConfig.BaseCount + wave*CountGrowth).
func (m *ZombieDefense) StartWave(count int) {
	m.wave++
	m.zombiesToSpawn = count
	m.zombiesAlive = count
	m.restLeft = 0
	m.phase = WaveSpawning
}

// ZombieSpawned is called by the engine each time it actually spawns one
// of the wave's zombie entities.
func (m *ZombieDefense) ZombieSpawned() {
	m.zombiesToSpawn--
	if m.zombiesToSpawn <= 0 {
		m.phase = WaveActive
	}
}

// ZombieDied decrements the live count; once zero the wave is cleared.
func (m *ZombieDefense) ZombieDied() {
	m.zombiesAlive--
	if m.zombiesAlive <= 0 && m.zombiesToSpawn <= 0 {
		m.phase = WaveCleared
		m.scores[0] = m.wave
	}
}

// TickRest advances the inter-wave rest timer once the wave is cleared;
// returns true the tick the rest completes and a new wave should start.
func (m *ZombieDefense) TickRest() bool {
	if m.phase != WaveCleared {
		return false
	}
	m.restLeft++
	return m.restLeft >= m.restTicks
}

func (m *ZombieDefense) Tick(tick uint64, dt float64, players []PlayerFact) []Event {
	anyHumanAlive := false
	for _, p := range players {
		if !p.IsAI && p.Alive {
			anyHumanAlive = true
			break
		}
	}
	if !anyHumanAlive && m.wave > 0 {
		return []Event{{Kind: EventGameOver, Message: "all defenders down"}}
	}

	transitioned, ended := m.round.Advance(m.scores)
	if !transitioned {
		return nil
	}
	if ended {
		return []Event{{Kind: EventGameOver}}
	}
	return nil
}
