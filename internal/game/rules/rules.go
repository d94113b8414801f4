// Package rules implements the mode-specific objective state machines (E):
// team deathmatch, king of the hill, capture-the-flag/oddball, juggernaut,
// lone-wolf, and zombie defense, plus the shared round/rest/victory driver
// every mode plugs into. It intentionally has no dependency on package
// game — the match engine feeds it plain facts each tick and applies the
// Events a Ruleset returns back onto its own Player/entity registries,
// the same "id + lookup, never a back-pointer" discipline the rest of the
// simulation follows.
package rules

// EntityID mirrors game.EntityID's underlying representation. Kept as a
// distinct type here (not an import) so this package stays free of a
// game -> rules -> game import cycle; the engine casts at the boundary.
type EntityID uint64

// Phase is where a round currently sits in the round/rest/victory cycle.
type Phase int

const (
	PhasePre Phase = iota
	PhasePlaying
	PhaseRest
	PhaseEnded
)

// VictoryKind is how a match's winner is decided.
type VictoryKind int

const (
	VictoryScoreLimit VictoryKind = iota
	VictoryTimeLimit
	VictoryObjective
	VictoryElimination
	VictoryEndless
)

// RoundConfig bounds how many rounds a match plays and how long each phase
// runs. Zero RoundLimit means endless (single never-ending round).
type RoundConfig struct {
	RoundLimit    int
	RoundTicks    int
	RestTicks     int
	Victory       VictoryKind
	ScoreLimit    int
	TickRate      int
}

// PlayerFact is the read-only per-player view a Ruleset needs each tick.
// The engine builds one per live player; rules never mutate it.
type PlayerFact struct {
	ID     EntityID
	Team   int
	X, Y   float64
	Alive  bool
	IsAI   bool
}

// EventKind tags what a Ruleset is asking the engine to do.
type EventKind int

const (
	EventNone EventKind = iota
	EventScore
	EventRoundStart
	EventRoundEnd
	EventGameOver
	EventRespawnScheduled
	EventBecomeVIP
	EventWarning
)

// Event is one effect a Ruleset's Tick wants applied back onto match state.
// Not every field is used by every kind; the engine switches on Kind.
type Event struct {
	Kind     EventKind
	Team     int
	PlayerID EntityID
	Message  string
}

// Ruleset is implemented by every game mode. Tick is called once per match
// tick from engine step 9 (§4.7), after contacts/AoE/beams have already
// been resolved into plain facts.
type Ruleset interface {
	Name() string
	Phase() Phase
	Scores() map[int]int
	// Tick advances the mode's state machine by one tick given the current
	// player facts, returning events the engine must apply.
	Tick(tick uint64, dt float64, players []PlayerFact) []Event
}

// RoundState is the shared round/rest/victory timer every mode embeds.
// Grounded on the teacher's tick-counted timer fields (CombatState,
// RagdollTimer, ...) generalized from "per-player" to "per-match."
type RoundState struct {
	cfg RoundConfig

	phase        Phase
	round        int
	roundTicks   int
	restTicks    int
}

// NewRoundState starts a fresh round state in PhasePre.
func NewRoundState(cfg RoundConfig) *RoundState {
	return &RoundState{cfg: cfg, phase: PhasePre}
}

func (r *RoundState) Phase() Phase { return r.phase }
func (r *RoundState) Round() int   { return r.round }

// Begin transitions PhasePre -> PhasePlaying for round 1.
func (r *RoundState) Begin() {
	if r.phase != PhasePre {
		return
	}
	r.phase = PhasePlaying
	r.round = 1
	r.roundTicks = 0
}

// Advance ticks the round/rest timers, returning true exactly on the tick a
// phase transition happens (round end or next round start).
func (r *RoundState) Advance(scores map[int]int) (transitioned bool, ended bool) {
	switch r.phase {
	case PhasePlaying:
		r.roundTicks++
		if r.roundOver(scores) {
			r.phase = PhaseRest
			r.restTicks = 0
			return true, false
		}
	case PhaseRest:
		r.restTicks++
		if r.restTicks >= r.cfg.RestTicks {
			if r.cfg.RoundLimit > 0 && r.round >= r.cfg.RoundLimit {
				r.phase = PhaseEnded
				return true, true
			}
			r.round++
			r.roundTicks = 0
			r.phase = PhasePlaying
			return true, false
		}
	}
	return false, false
}

func (r *RoundState) roundOver(scores map[int]int) bool {
	if r.cfg.RoundTicks > 0 && r.roundTicks >= r.cfg.RoundTicks {
		return true
	}
	if r.cfg.Victory == VictoryScoreLimit && r.cfg.ScoreLimit > 0 {
		for _, s := range scores {
			if s >= r.cfg.ScoreLimit {
				return true
			}
		}
	}
	return false
}

// DefaultRoundConfig is a sensible default: a single round, score limit 30,
// time limit disabled, followed by a 10-second rest after which the match
// ends. Callers override per mode as needed.
func DefaultRoundConfig(tickRate int) RoundConfig {
	return RoundConfig{
		RoundLimit: 1,
		RoundTicks: 0,
		RestTicks:  10 * tickRate,
		Victory:    VictoryScoreLimit,
		ScoreLimit: 30,
		TickRate:   tickRate,
	}
}
