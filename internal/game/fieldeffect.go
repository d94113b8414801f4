package game

// FieldEffectKind is the per-kind contract a field effect applies each tick
// to entities found inside its radius.
type FieldEffectKind int

const (
	FieldExplosion FieldEffectKind = iota
	FieldFire
	FieldElectric
	FieldFreeze
	FieldFragmentation
	FieldPoison
	FieldHealZone
	FieldSmoke
	FieldSlow
	FieldShield
	FieldGravity
	FieldVisionReveal
	FieldSpeedBoost
	FieldProximityMine
)

// FieldEffect is a time-extended area-of-effect entity: explosions, fire
// patches, slow fields, heal zones, and armed proximity mines all share
// this one shape, distinguished by Kind.
type FieldEffect struct {
	ID      EntityID
	Kind    FieldEffectKind
	OwnerID EntityID
	Team    string

	X, Y     float64
	Radius   float64
	Strength float64

	DurationTicks int
	ElapsedTicks  int

	Armed bool // proximity mines start disarmed
}

// Tick advances elapsed time, returning false once the effect has expired.
func (f *FieldEffect) Tick() bool {
	f.ElapsedTicks++
	return f.ElapsedTicks < f.DurationTicks
}

// PerTickMagnitude returns the amount this effect's contract applies this
// tick (damage for damage kinds, heal amount for heal zones, slow factor
// for slow fields, etc.) — the caller interprets it per Kind.
func (f *FieldEffect) PerTickMagnitude() float64 {
	return f.Strength
}

type FieldEffectSnapshot struct {
	ID     EntityID
	Kind   FieldEffectKind
	X, Y   float64
	Radius float64
	Armed  bool
}

func (f *FieldEffect) ToSnapshot() FieldEffectSnapshot {
	return FieldEffectSnapshot{ID: f.ID, Kind: f.Kind, X: f.X, Y: f.Y, Radius: f.Radius, Armed: f.Armed}
}
