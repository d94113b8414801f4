package game

import (
	"math"

	"arena-shooter/internal/game/physics"
)

// Projectile represents any fired ordinance in flight: bullets, rockets,
// grenades, plasma bolts, lasers, cannonballs, darts, flamethrower puffs,
// net bolts and mines all travel through this one entity, distinguished by
// Kind and Effects rather than by separate types.
type Projectile struct {
	ID      EntityID
	OwnerID EntityID
	Body    physics.Handle // sensor body in the match's physics world, for contact resolution

	Kind    OrdinanceKind
	Effects BulletEffectFlags

	X, Y     float64
	VX, VY   float64
	Speed    float64
	Rotation float64

	Damage      int
	HitRadius   float64
	PiercesLeft int // remaining targets it can pass through, for EffectPiercing

	Armed bool // mines start disarmed for ArmDelay ticks before becoming live
	ArmDelay int

	Color string

	Timer int // remaining lifetime in ticks

	TrailX, TrailY [4]float64
	TrailIdx       int
}

// ordinanceLifetimeTicks returns a sensible max flight time per kind so
// slow-moving ordinance (mines, grenades) doesn't linger forever and
// fast ordinance (lasers) doesn't outlive the tick it was fired on.
func ordinanceLifetimeTicks(kind OrdinanceKind, tickRate int) int {
	switch kind {
	case OrdinanceLaser:
		return 1
	case OrdinanceMine:
		return tickRate * 30
	case OrdinanceNet:
		return tickRate * 2
	default:
		return tickRate * 4
	}
}

// NewProjectile creates ordinance fired from owner toward (targetX, targetY).
func NewProjectile(id, ownerID EntityID, ox, oy, targetX, targetY float64, weapon Weapon, tickRate int) *Projectile {
	dx := targetX - ox
	dy := targetY - oy
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		dist = 1
	}
	dirX, dirY := dx/dist, dy/dist

	speedPerTick := weapon.ProjectileSpeed / float64(tickRate)
	if weapon.Kind0Stationary() {
		speedPerTick = 0
	}

	startX := ox + dirX*40
	startY := oy + dirY*40

	piercesLeft := 0
	if weapon.Effects.Has(EffectPiercing) {
		piercesLeft = weapon.PierceCount
	}

	armDelay := 0
	armed := true
	if weapon.Ordinance == OrdinanceMine {
		armDelay = tickRate // mines take 1s to arm after being laid
		armed = false
	}

	return &Projectile{
		ID:          id,
		OwnerID:     ownerID,
		Kind:        weapon.Ordinance,
		Effects:     weapon.Effects,
		X:           startX,
		Y:           startY,
		VX:          dirX * speedPerTick,
		VY:          dirY * speedPerTick,
		Speed:       speedPerTick,
		Rotation:    math.Atan2(dy, dx),
		Damage:      weapon.MaxDamage,
		HitRadius:   12,
		PiercesLeft: piercesLeft,
		Armed:       armed,
		ArmDelay:    armDelay,
		Color:       weapon.Color,
		Timer:       ordinanceLifetimeTicks(weapon.Ordinance, tickRate),
	}
}

// Kind0Stationary reports whether the weapon's ordinance doesn't travel
// under its own power once placed (currently only mines).
func (w Weapon) Kind0Stationary() bool {
	return w.Ordinance == OrdinanceMine
}

// Update advances the projectile one tick. steerX/steerY is a unit vector
// toward the nearest valid target, used only when Effects has EffectHoming;
// pass 0,0 when no target is in the homing cone. Returns false when the
// projectile should be removed.
func (p *Projectile) Update(homingStrength float64, steerX, steerY float64) bool {
	p.TrailX[p.TrailIdx] = p.X
	p.TrailY[p.TrailIdx] = p.Y
	p.TrailIdx = (p.TrailIdx + 1) % 4

	if p.Kind == OrdinanceMine {
		if p.ArmDelay > 0 {
			p.ArmDelay--
			if p.ArmDelay == 0 {
				p.Armed = true
			}
		}
	} else {
		if p.Effects.Has(EffectHoming) && (steerX != 0 || steerY != 0) {
			p.VX += steerX * homingStrength
			p.VY += steerY * homingStrength
			speed := math.Hypot(p.VX, p.VY)
			if speed > 0 {
				p.VX = p.VX / speed * p.Speed
				p.VY = p.VY / speed * p.Speed
			}
			p.Rotation = math.Atan2(p.VY, p.VX)
		}
		p.X += p.VX
		p.Y += p.VY
	}

	p.Timer--
	return p.Timer > 0
}

// OutOfBounds reports whether the projectile has left the arena (with a
// small margin so it can still visibly travel off-screen before removal).
func (p *Projectile) OutOfBounds(worldWidth, worldHeight float64) bool {
	const margin = 80
	return p.X < -margin || p.X > worldWidth+margin || p.Y < -margin || p.Y > worldHeight+margin
}

// CheckHit tests if this projectile collides with a player.
func (p *Projectile) CheckHit(target *Player) bool {
	if target.IsDead || target.IsRagdoll || target.SpawnProtection {
		return false
	}
	if target.ID == p.OwnerID {
		return false
	}
	if target.Combat.IsInvulnerable() {
		return false
	}
	dx := target.X - p.X
	dy := target.Y - p.Y
	dist := math.Hypot(dx, dy)
	return dist < (p.HitRadius + PlayerRadius)
}

// GetTrailPoints returns the trail positions in order (oldest to newest).
func (p *Projectile) GetTrailPoints() (xs, ys [4]float64, count int) {
	startIdx := p.TrailIdx
	for i := 0; i < 4; i++ {
		idx := (startIdx + i) % 4
		xs[i] = p.TrailX[idx]
		ys[i] = p.TrailY[idx]
	}
	return xs, ys, 4
}

// PlayerRadius is the player's collision/hit radius, shared with hitbox
// and projectile collision checks.
const PlayerRadius = 28.0

// ProjectileSnapshot is an immutable copy of projectile state for rendering.
type ProjectileSnapshot struct {
	ID         EntityID
	X, Y       float64
	Rotation   float64
	Kind       OrdinanceKind
	Color      string
	TrailX     [4]float64
	TrailY     [4]float64
	TrailCount int
}

// ToSnapshot creates an immutable snapshot for the state serializer.
func (p *Projectile) ToSnapshot() ProjectileSnapshot {
	xs, ys, count := p.GetTrailPoints()
	return ProjectileSnapshot{
		ID: p.ID, X: p.X, Y: p.Y, Rotation: p.Rotation, Kind: p.Kind, Color: p.Color,
		TrailX: xs, TrailY: ys, TrailCount: count,
	}
}
