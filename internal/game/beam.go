package game

// BeamDamageKind distinguishes how a beam applies damage over its life.
type BeamDamageKind int

const (
	BeamInstantaneous BeamDamageKind = iota // applies once, on first resolve
	BeamDamageOverTime                      // applies every tick it's active
	BeamBurst                               // accumulates, applies on expiry
)

// Beam is a ray-cast weapon effect (defense lasers, sustained-fire weapons).
// Its effective end point is recomputed every tick against current obstacle
// and player positions, per spec §4.1/§4.7 step 8.
type Beam struct {
	ID      EntityID
	OwnerID EntityID

	StartX, StartY float64
	Angle          float64 // direction, radians; end point is recomputed each tick
	EndX, EndY     float64 // last resolved effective end point

	Kind          BeamDamageKind
	DamagePerTick int
	Piercing      bool

	RemainingTicks int
	accumulated    int // for BeamBurst

	applied bool // for BeamInstantaneous, so it fires exactly once
}

// Accumulate records one tick's worth of burst damage without applying it.
func (b *Beam) Accumulate(amount int) {
	b.accumulated += amount
}

// FlushBurst returns and clears the accumulated burst damage; call once,
// when the beam expires.
func (b *Beam) FlushBurst() int {
	v := b.accumulated
	b.accumulated = 0
	return v
}

// Tick advances the beam's remaining lifetime. Returns false once it should
// be removed.
func (b *Beam) Tick() bool {
	b.RemainingTicks--
	return b.RemainingTicks > 0
}

// ShouldApplyInstant reports whether an instantaneous beam's one-time
// damage is still due, marking it applied.
func (b *Beam) ShouldApplyInstant() bool {
	if b.applied {
		return false
	}
	b.applied = true
	return true
}

type BeamSnapshot struct {
	ID             EntityID
	OwnerID        EntityID
	StartX, StartY float64
	EndX, EndY     float64
}

func (b *Beam) ToSnapshot() BeamSnapshot {
	return BeamSnapshot{ID: b.ID, OwnerID: b.OwnerID, StartX: b.StartX, StartY: b.StartY, EndX: b.EndX, EndY: b.EndY}
}
