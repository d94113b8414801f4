package rules

// TeamDeathmatch: score is team kill count. Victory at score-limit or
// highest score at time-limit, per spec §4.5.
type TeamDeathmatch struct {
	round  *RoundState
	scores map[int]int
}

// NewTeamDeathmatch creates a TDM ruleset with the given round config.
func NewTeamDeathmatch(cfg RoundConfig) *TeamDeathmatch {
	r := NewRoundState(cfg)
	r.Begin()
	return &TeamDeathmatch{round: r, scores: make(map[int]int)}
}

func (m *TeamDeathmatch) Name() string       { return "team_deathmatch" }
func (m *TeamDeathmatch) Phase() Phase       { return m.round.Phase() }
func (m *TeamDeathmatch) Scores() map[int]int { return m.scores }

// RegisterKill is called by the engine's contact-resolution step when a
// player dies with a known killer team; it is the only place scores change.
func (m *TeamDeathmatch) RegisterKill(killerTeam int) {
	m.scores[killerTeam]++
}

func (m *TeamDeathmatch) Tick(tick uint64, dt float64, players []PlayerFact) []Event {
	transitioned, ended := m.round.Advance(m.scores)
	if !transitioned {
		return nil
	}
	if ended {
		return []Event{{Kind: EventGameOver, Message: "score limit reached"}}
	}
	if m.round.Phase() == PhaseRest {
		return []Event{{Kind: EventRoundEnd}}
	}
	return []Event{{Kind: EventRoundStart}}
}
