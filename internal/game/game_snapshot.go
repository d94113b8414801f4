package game

import (
	"sync/atomic"
	"time"

	"arena-shooter/internal/config"
)

// ResourceLimits is an alias for the canonical definition in package config,
// kept so the rest of this package doesn't need to import config directly
// for every signature that takes limits.
type ResourceLimits = config.ResourceLimits

// PlayerSnapshot is an immutable copy of player state for rendering
// Uses value types (not pointers) to ensure immutability
type PlayerSnapshot struct {
	ID              EntityID
	Name            string
	X, Y            float64
	VX, VY          float64
	HP, MaxHP       int
	Money           int
	Kills           int
	Deaths          int
	Weapon          string
	Color           string
	Avatar          string
	AttackAngle     float64
	IsDead          bool
	IsRagdoll       bool
	RagdollRotation float64
	SpawnProtection bool
	IsAttacking     bool
	ProfilePic      string

	// Advanced combat state for rendering
	IsDodging      bool
	DodgeDirection float64
	ComboCount     int
	Stamina        float64
}

// ParticleSnapshot is an immutable particle for rendering
type ParticleSnapshot struct {
	X, Y  float64
	Color string
	Alpha float64
}

// EffectSnapshot is an immutable attack effect
type EffectSnapshot struct {
	X, Y   float64
	TX, TY float64
	Color  string
	Timer  int
}

// TextSnapshot is an immutable floating text
type TextSnapshot struct {
	X, Y  float64
	Text  string
	Color string
	Alpha float64
}

// TrailSnapshot is an immutable weapon trail for rendering
type TrailSnapshot struct {
	Points   [8]TrailPointSnapshot // Fixed-size for zero-allocation
	Count    int                   // Number of valid points
	Color    string
	Alpha    float64
	PlayerID EntityID
}

// TrailPointSnapshot is a single point in a trail
type TrailPointSnapshot struct {
	X, Y  float64
	Alpha float64
}

// FlashSnapshot is an immutable impact flash
type FlashSnapshot struct {
	X, Y      float64
	Radius    float64
	Color     string
	Intensity float64
}

// ShakeSnapshot captures screen shake state
type ShakeSnapshot struct {
	OffsetX   float64
	OffsetY   float64
	Intensity float64
}

// GameSnapshot is a complete immutable game state for rendering
// All slices are pre-allocated and capped to prevent memory attacks
type GameSnapshot struct {
	Sequence   uint64    // Monotonic sequence for ordering
	Timestamp  time.Time // When snapshot was created
	TickNumber uint64    // Game tick this represents
	RNGSeed    int64     // Seed for deterministic replay

	// Pre-allocated capped slices (never grows beyond limits)
	Players   []PlayerSnapshot
	Particles []ParticleSnapshot
	Effects   []EffectSnapshot
	Texts     []TextSnapshot

	// New combat visual effects
	Trails      []TrailSnapshot
	Flashes     []FlashSnapshot
	Projectiles []ProjectileSnapshot // Bow arrows and thrown weapons
	Shake       ShakeSnapshot        // Single global shake state

	// Simulation entities beyond players/projectiles (D)
	Obstacles    []ObstacleSnapshot
	Beams        []BeamSnapshot
	FieldEffects []FieldEffectSnapshot
	Utilities    []UtilitySnapshot

	// Mode-specific objective state, populated only when the active
	// ruleset carries one (KOTH zones, CTF/oddball flags); empty otherwise.
	Zones []ZoneSnapshot
	Flags []FlagSnapshot

	// Rule-system state (E), generic across every mode.
	RulesetName string
	RoundPhase  int
	Scores      map[int]int

	// Aggregate stats
	PlayerCount int
	AliveCount  int
	TotalKills  int
}

// ZoneSnapshot is a KOTH zone's wire shape.
type ZoneSnapshot struct {
	Number       int
	X, Y, Radius float64
	State        int
	Progress     float64
	ControlledBy int
}

// FlagSnapshot is a CTF/oddball flag's wire shape.
type FlagSnapshot struct {
	ID            EntityID
	OwnerTeam     int
	X, Y          float64
	State         int
	CarrierID     EntityID
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure
// Uses triple buffering for lock-free producer/consumer
type SnapshotPool struct {
	snapshots [3]GameSnapshot // Triple buffer
	limits    ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	// Pre-allocate all slices to avoid runtime allocations
	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Players:      make([]PlayerSnapshot, 0, limits.MaxPlayers),
			Particles:    make([]ParticleSnapshot, 0, limits.MaxParticles),
			Effects:      make([]EffectSnapshot, 0, limits.MaxEffects),
			Texts:        make([]TextSnapshot, 0, limits.MaxTexts),
			Trails:       make([]TrailSnapshot, 0, limits.MaxTrails),
			Flashes:      make([]FlashSnapshot, 0, limits.MaxFlashes),
			Projectiles:  make([]ProjectileSnapshot, 0, limits.MaxProjectiles),
			FieldEffects: make([]FieldEffectSnapshot, 0, limits.MaxFieldEffects),
			Beams:        make([]BeamSnapshot, 0, limits.MaxBeams),
			Utilities:    make([]UtilitySnapshot, 0, limits.MaxUtilities),
			Scores:       make(map[int]int),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from game tick)
// Returns a snapshot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite() *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	// Reset ALL slices but keep capacity (zero allocation)
	snap.Players = snap.Players[:0]
	snap.Particles = snap.Particles[:0]
	snap.Effects = snap.Effects[:0]
	snap.Texts = snap.Texts[:0]
	snap.Trails = snap.Trails[:0]           // BUGFIX: Was missing, caused stale trails
	snap.Flashes = snap.Flashes[:0]         // BUGFIX: Was missing, caused stale flashes
	snap.Projectiles = snap.Projectiles[:0] // Reset projectiles
	snap.FieldEffects = snap.FieldEffects[:0]
	snap.Beams = snap.Beams[:0]
	snap.Utilities = snap.Utilities[:0]
	snap.Obstacles = snap.Obstacles[:0]
	snap.Zones = snap.Zones[:0]
	snap.Flags = snap.Flags[:0]
	for k := range snap.Scores {
		delete(snap.Scores, k)
	}

	// Reset shake state
	snap.Shake = ShakeSnapshot{} // Zero out shake

	// Assign new sequence number
	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = time.Now()

	return snap
}

// PublishWrite marks write complete and advances read pointer
// Called after snapshot is fully populated
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only, called from render)
// Never returns nil: before the first PublishWrite it returns the
// zero-valued first buffer
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() ResourceLimits {
	return p.limits
}
