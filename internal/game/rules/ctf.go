package rules

// FlagState is a CTF/oddball flag's lifecycle.
type FlagState int

const (
	FlagHome FlagState = iota
	FlagCarried
	FlagDropped
)

// Flag is one CTF flag, or the single neutral ball in oddball mode
// (OwnerTeam == -1 for oddball).
type Flag struct {
	ID            EntityID
	OwnerTeam     int // -1 for oddball's neutral ball
	HomeX, HomeY  float64
	X, Y          float64

	state     FlagState
	carrierID EntityID
	dropTicks int // ticks remaining before a dropped flag auto-returns
}

// NewFlag creates a flag at its home pedestal.
func NewFlag(id EntityID, ownerTeam int, homeX, homeY float64) *Flag {
	return &Flag{ID: id, OwnerTeam: ownerTeam, HomeX: homeX, HomeY: homeY, X: homeX, Y: homeY, state: FlagHome}
}

func (f *Flag) State() FlagState     { return f.state }
func (f *Flag) CarrierID() EntityID  { return f.carrierID }

// flagReturnTicks is how long a dropped flag waits before auto-returning.
const flagReturnTicks = 15 * 60 // 15s at 60Hz, overridden by caller if needed

// TryPickup attempts to have player (on team playerTeam) pick up the flag.
// Per spec §4.5, carry happens when a player from the opposing team
// touches the flag at home or dropped.
func (f *Flag) TryPickup(playerID EntityID, playerTeam int) bool {
	if f.state == FlagCarried {
		return false
	}
	if f.OwnerTeam >= 0 && playerTeam == f.OwnerTeam {
		return false // oddball (OwnerTeam -1) can be picked up by anyone
	}
	f.state = FlagCarried
	f.carrierID = playerID
	return true
}

// OnCarrierDeath drops the flag at the given location with a return timer.
func (f *Flag) OnCarrierDeath(x, y float64, returnTicks int) {
	if f.state != FlagCarried {
		return
	}
	f.state = FlagDropped
	f.X, f.Y = x, y
	f.carrierID = 0
	if returnTicks <= 0 {
		returnTicks = flagReturnTicks
	}
	f.dropTicks = returnTicks
}

// FollowCarrier keeps a carried flag's position in sync with its carrier.
func (f *Flag) FollowCarrier(x, y float64) {
	if f.state == FlagCarried {
		f.X, f.Y = x, y
	}
}

// TickDropped advances a dropped flag's return timer, auto-returning it
// home once it expires.
func (f *Flag) TickDropped() {
	if f.state != FlagDropped {
		return
	}
	f.dropTicks--
	if f.dropTicks <= 0 {
		f.ReturnHome()
	}
}

// ReturnHome resets the flag to its pedestal.
func (f *Flag) ReturnHome() {
	f.state = FlagHome
	f.X, f.Y = f.HomeX, f.HomeY
	f.carrierID = 0
}

// CaptureTheFlag tracks every flag and accrues score on capture. Oddball
// (a single neutral ball that scores one point for the carrier's team each
// tick it is carried) uses the same Flag/state machine with OwnerTeam -1;
// the engine calls TickOddballCarry instead of Capture for that variant.
type CaptureTheFlag struct {
	round  *RoundState
	flags  []*Flag
	scores map[int]int
}

// NewCaptureTheFlag creates a CTF ruleset over the given flags (one per
// team's home flag, or a single neutral ball for oddball).
func NewCaptureTheFlag(cfg RoundConfig, flags []*Flag) *CaptureTheFlag {
	r := NewRoundState(cfg)
	r.Begin()
	return &CaptureTheFlag{round: r, flags: flags, scores: make(map[int]int)}
}

func (m *CaptureTheFlag) Name() string        { return "capture_the_flag" }
func (m *CaptureTheFlag) Phase() Phase        { return m.round.Phase() }
func (m *CaptureTheFlag) Scores() map[int]int { return m.scores }
func (m *CaptureTheFlag) Flags() []*Flag      { return m.flags }

// Capture scores for scoringTeam when their carrier (holding an opposing
// flag) reaches their own home pedestal. Returns true if a capture occurred.
func (m *CaptureTheFlag) Capture(flag *Flag, scoringTeam int) bool {
	if flag.state != FlagCarried {
		return false
	}
	m.scores[scoringTeam]++
	flag.ReturnHome()
	return true
}

// TickOddballCarry awards one point per tick to the carrying player's team
// for the oddball variant (OwnerTeam == -1).
func (m *CaptureTheFlag) TickOddballCarry(carrierTeam int) {
	m.scores[carrierTeam]++
}

func (m *CaptureTheFlag) Tick(tick uint64, dt float64, players []PlayerFact) []Event {
	for _, f := range m.flags {
		f.TickDropped()
	}
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
