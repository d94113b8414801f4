package rules

// Juggernaut: one designated player per team carries a boosted attribute
// set and a VIP flag; eliminating the opposing juggernaut scores. New
// juggernaut selection is deterministic: next-alive-in-team-order, chosen
// at the moment the juggernaut is killed; it does not wait for a respawn.
type Juggernaut struct {
	round  *RoundState
	scores map[int]int

	// vipByTeam maps team -> current juggernaut's player id.
	vipByTeam map[int]EntityID
	// order is each team's deterministic rotation order (join order).
	order map[int][]EntityID
}

// NewJuggernaut creates a juggernaut ruleset. order gives each team's
// deterministic player rotation (e.g. join order) used to pick the next VIP.
func NewJuggernaut(cfg RoundConfig, order map[int][]EntityID) *Juggernaut {
	r := NewRoundState(cfg)
	r.Begin()
	return &Juggernaut{
		round:     r,
		scores:    make(map[int]int),
		vipByTeam: make(map[int]EntityID),
		order:     order,
	}
}

func (m *Juggernaut) Name() string        { return "juggernaut" }
func (m *Juggernaut) Phase() Phase        { return m.round.Phase() }
func (m *Juggernaut) Scores() map[int]int { return m.scores }

// VIP returns the current juggernaut for a team, or 0 if none assigned yet.
func (m *Juggernaut) VIP(team int) EntityID { return m.vipByTeam[team] }

// AddToOrder appends a player to their team's rotation order. Matches are
// usually created before anyone has joined, so the rotation is built up
// incrementally as players arrive rather than handed to the constructor
// whole.
func (m *Juggernaut) AddToOrder(team int, id EntityID) {
	m.order[team] = append(m.order[team], id)
}

// IsVIP reports whether id is any team's current juggernaut.
func (m *Juggernaut) IsVIP(id EntityID) bool {
	for _, vip := range m.vipByTeam {
		if vip == id {
			return true
		}
	}
	return false
}

// OnJuggernautKilled scores the killer's team and selects the next
// juggernaut for the victim's team: the next alive player in that team's
// rotation order after victimID, the one just killed.
func (m *Juggernaut) OnJuggernautKilled(killerTeam, victimTeam int, victimID EntityID, alive map[EntityID]bool) []Event {
	m.scores[killerTeam]++
	next := m.selectNext(victimTeam, victimID, alive)
	m.vipByTeam[victimTeam] = next
	if next == 0 {
		return nil
	}
	return []Event{{Kind: EventBecomeVIP, Team: victimTeam, PlayerID: next}}
}

// EnsureVIP assigns an initial juggernaut for a team if it has none yet.
func (m *Juggernaut) EnsureVIP(team int, alive map[EntityID]bool) []Event {
	if m.vipByTeam[team] != 0 {
		return nil
	}
	next := m.selectNext(team, 0, alive)
	if next == 0 {
		return nil
	}
	m.vipByTeam[team] = next
	return []Event{{Kind: EventBecomeVIP, Team: team, PlayerID: next}}
}

func (m *Juggernaut) selectNext(team int, after EntityID, alive map[EntityID]bool) EntityID {
	rotation := m.order[team]
	if len(rotation) == 0 {
		return 0
	}
	startIdx := 0
	for i, id := range rotation {
		if id == after {
			startIdx = i + 1
			break
		}
	}
	for i := 0; i < len(rotation); i++ {
		candidate := rotation[(startIdx+i)%len(rotation)]
		if alive[candidate] {
			return candidate
		}
	}
	return 0
}

func (m *Juggernaut) Tick(tick uint64, dt float64, players []PlayerFact) []Event {
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
