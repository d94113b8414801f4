package rules

// ZoneState is a KOTH zone's occupancy state machine, per spec §4.5.
type ZoneState int

const (
	ZoneNeutral ZoneState = iota
	ZoneCapturing
	ZoneContested
	ZoneControlled
)

// Zone is one controllable KOTH region.
type Zone struct {
	Number       int
	X, Y, Radius float64

	state        ZoneState
	controlledBy int
	capturingBy  int
	progress     float64 // 0..1

	captureTicks int // ticks to go from 0 to 1 progress
}

// NewZone creates a zone with the given capture duration in ticks.
func NewZone(number int, x, y, radius float64, captureTicks int) *Zone {
	return &Zone{Number: number, X: x, Y: y, Radius: radius, captureTicks: captureTicks}
}

func (z *Zone) State() ZoneState    { return z.state }
func (z *Zone) Progress() float64   { return z.progress }
func (z *Zone) ControlledBy() int   { return z.controlledBy }

// advance runs one tick of the zone's occupancy state machine given a count
// of players per team currently inside its radius (computed by the engine
// from each live player's distance to the zone's centre).
func (z *Zone) advance(occupantsByTeam map[int]int) {
	teamsPresent := make([]int, 0, len(occupantsByTeam))
	for team, n := range occupantsByTeam {
		if n > 0 {
			teamsPresent = append(teamsPresent, team)
		}
	}

	switch z.state {
	case ZoneNeutral:
		if len(teamsPresent) != 1 {
			return
		}
		z.state = ZoneCapturing
		z.capturingBy = teamsPresent[0]
		z.progress = 0
		fallthrough
	case ZoneCapturing:
		if len(teamsPresent) == 0 {
			z.progress -= 1.0 / float64(z.captureTicks)
			if z.progress <= 0 {
				z.progress = 0
				z.state = ZoneNeutral
			}
			return
		}
		if len(teamsPresent) > 1 || (len(teamsPresent) == 1 && teamsPresent[0] != z.capturingBy) {
			z.state = ZoneContested
			return
		}
		z.progress += 1.0 / float64(z.captureTicks)
		if z.progress >= 1 {
			z.progress = 1
			z.state = ZoneControlled
			z.controlledBy = z.capturingBy
		}
	case ZoneControlled:
		if len(teamsPresent) > 1 {
			z.state = ZoneContested
		} else if len(teamsPresent) == 1 && teamsPresent[0] != z.controlledBy {
			z.state = ZoneContested
		}
	case ZoneContested:
		switch len(teamsPresent) {
		case 0:
			z.progress -= 1.0 / float64(z.captureTicks)
			if z.progress <= 0 {
				z.progress = 0
				z.state = ZoneNeutral
			} else {
				z.state = ZoneCapturing
			}
		case 1:
			z.state = ZoneCapturing
			z.capturingBy = teamsPresent[0]
		}
	}
}

// KingOfTheHill tracks one or more zones and accrues score per tick per
// controlled zone to the owning team.
type KingOfTheHill struct {
	round  *RoundState
	zones  []*Zone
	scores map[int]int
}

// NewKingOfTheHill creates a KOTH ruleset over the given zones.
func NewKingOfTheHill(cfg RoundConfig, zones []*Zone) *KingOfTheHill {
	r := NewRoundState(cfg)
	r.Begin()
	return &KingOfTheHill{round: r, zones: zones, scores: make(map[int]int)}
}

func (m *KingOfTheHill) Name() string        { return "king_of_the_hill" }
func (m *KingOfTheHill) Phase() Phase        { return m.round.Phase() }
func (m *KingOfTheHill) Scores() map[int]int { return m.scores }
func (m *KingOfTheHill) Zones() []*Zone      { return m.zones }

// AdvanceZones runs each zone's state machine given occupancy counts the
// engine computed this tick (one map per zone, indexed the same as Zones()).
func (m *KingOfTheHill) AdvanceZones(occupantsByZone []map[int]int) {
	for i, z := range m.zones {
		if i < len(occupantsByZone) {
			z.advance(occupantsByZone[i])
		}
		if z.state == ZoneControlled {
			m.scores[z.controlledBy]++
		}
	}
}

func (m *KingOfTheHill) Tick(tick uint64, dt float64, players []PlayerFact) []Event {
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
