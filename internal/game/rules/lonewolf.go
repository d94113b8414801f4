package rules

// LoneWolf: one "wolf" player; everyone else is a hunter. Each wolf death
// raises AttributeMultiplier by a configured step; the value is only
// tracked here, and no code applies it to any player's attributes.
// Score is survival-time or kills-on-wolf, per spec §4.5.
type LoneWolf struct {
	round  *RoundState
	scores map[int]int // team 0 = hunters, team 1 = wolf, by convention

	wolfID     EntityID
	generation int     // increments each time the wolf dies and respawns
	growthStep float64 // multiplier added per generation

	wolfSurvivalTicks int
}

// NewLoneWolf creates a lone-wolf ruleset. growthStep is the per-death
// attribute multiplier increment (e.g. 0.1 = +10% per death), a sensible
// default chosen per SPEC_FULL.md's "configuration, not a fixed constant"
// resolution of this mode's sparsely-described scoring.
func NewLoneWolf(cfg RoundConfig, initialWolf EntityID, growthStep float64) *LoneWolf {
	r := NewRoundState(cfg)
	r.Begin()
	return &LoneWolf{round: r, scores: make(map[int]int), wolfID: initialWolf, growthStep: growthStep}
}

func (m *LoneWolf) Name() string        { return "lone_wolf" }
func (m *LoneWolf) Phase() Phase        { return m.round.Phase() }
func (m *LoneWolf) Scores() map[int]int { return m.scores }
func (m *LoneWolf) WolfID() EntityID    { return m.wolfID }

// AssignInitialWolf sets the wolf role the first time a candidate becomes
// available (matches are often created before anyone has joined, so the
// constructor can't be handed a real player id). No-op once a wolf exists.
func (m *LoneWolf) AssignInitialWolf(id EntityID) {
	if m.wolfID == 0 {
		m.wolfID = id
	}
}

// AttributeMultiplier returns the current wolf generation's stat multiplier.
func (m *LoneWolf) AttributeMultiplier() float64 {
	return 1.0 + float64(m.generation)*m.growthStep
}

// OnWolfKilled scores the killing hunter's team, grows the next
// generation's multiplier, and reassigns the wolf role to the killer.
func (m *LoneWolf) OnWolfKilled(killerID EntityID) {
	m.scores[0]++
	m.generation++
	m.wolfID = killerID
}

// TickWolfSurvival is called once per tick the wolf is alive, for
// survival-time scoring.
func (m *LoneWolf) TickWolfSurvival() {
	m.wolfSurvivalTicks++
	m.scores[1] = m.wolfSurvivalTicks
}

func (m *LoneWolf) Tick(tick uint64, dt float64, players []PlayerFact) []Event {
	transitioned, ended := m.round.Advance(m.scores)
	if !transitioned {
		return nil
	}
	if ended {
		return []Event{{Kind: EventGameOver}}
	}
	if m.round.Phase() == PhaseRest {
		return []Event{{Kind: EventRoundEnd}}
	}
	return []Event{{Kind: EventRoundStart}}
}
