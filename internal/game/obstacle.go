package game

import "arena-shooter/internal/game/physics"

// ObstacleShape is the collision/render shape category for an obstacle.
type ObstacleShape int

const (
	ObstacleCircular ObstacleShape = iota
	ObstacleRectangular
	ObstacleTriangular
	ObstaclePolygonal
	ObstacleCompound
)

// Obstacle is static or destructible terrain placed at match setup (or, for
// player-placed barriers, mid-match).
type Obstacle struct {
	ID    EntityID
	Shape ObstacleShape
	Body  physics.Handle

	X, Y         float64
	Radius       float64
	HalfW, HalfH float64

	Destructible bool
	Health       int
	MaxHealth    int
	Active       bool

	// OwnerID is set for player-placed barriers; zero for map terrain.
	OwnerID    EntityID
	ExpireTick uint64 // 0 = never expires on its own
}

// TakeDamage reduces a destructible obstacle's health, deactivating it at 0.
// Non-destructible obstacles ignore damage.
func (o *Obstacle) TakeDamage(amount int) {
	if !o.Destructible || !o.Active {
		return
	}
	o.Health -= amount
	if o.Health <= 0 {
		o.Health = 0
		o.Active = false
	}
}

// Expired reports whether a player-placed barrier has outlived its timer.
func (o *Obstacle) Expired(tick uint64) bool {
	return o.ExpireTick != 0 && tick >= o.ExpireTick
}

// ObstacleSnapshot is the wire shape for an obstacle. Per spec §4.8, only
// destructibles need their health re-sent each tick; statics need id+pose.
type ObstacleSnapshot struct {
	ID        EntityID
	Shape     ObstacleShape
	X, Y      float64
	Radius    float64
	HalfW     float64
	HalfH     float64
	Health    int
	MaxHealth int
	Active    bool
}

func (o *Obstacle) ToSnapshot() ObstacleSnapshot {
	return ObstacleSnapshot{
		ID: o.ID, Shape: o.Shape, X: o.X, Y: o.Y, Radius: o.Radius,
		HalfW: o.HalfW, HalfH: o.HalfH, Health: o.Health, MaxHealth: o.MaxHealth, Active: o.Active,
	}
}

// seedObstacles lays out the match's starting terrain: a deterministic,
// roughly-symmetric scatter of crates and walls sized to the arena, so no
// team spawns meaningfully closer to cover than the other. Obstacles are
// placed and registered with the physics world here, once, before the first
// tick, rather than generated on demand, per the arena-layout step every
// match goes through at creation.
func (e *Engine) seedObstacles() {
	w, h := e.worldWidth, e.worldHeight
	cx, cy := w*0.5, h*0.5

	type layout struct {
		shape        ObstacleShape
		x, y         float64
		radius       float64
		halfW, halfH float64
		destructible bool
	}

	layouts := []layout{
		// Central compound cover, equidistant from every spawn quadrant.
		{shape: ObstacleRectangular, x: cx, y: cy, halfW: 70, halfH: 70, destructible: false},
		// Four symmetric crates, one per quadrant, destructible so a
		// sustained firefight can open new sightlines.
		{shape: ObstacleCircular, x: w * 0.25, y: h * 0.25, radius: 40, destructible: true},
		{shape: ObstacleCircular, x: w * 0.75, y: h * 0.25, radius: 40, destructible: true},
		{shape: ObstacleCircular, x: w * 0.25, y: h * 0.75, radius: 40, destructible: true},
		{shape: ObstacleCircular, x: w * 0.75, y: h * 0.75, radius: 40, destructible: true},
		// Mid-lane walls breaking up the long diagonals.
		{shape: ObstacleRectangular, x: w * 0.5, y: h * 0.2, halfW: 90, halfH: 18, destructible: false},
		{shape: ObstacleRectangular, x: w * 0.5, y: h * 0.8, halfW: 90, halfH: 18, destructible: false},
	}

	for _, l := range layouts {
		id := e.ids.Next()
		o := &Obstacle{
			ID: id, Shape: l.shape, X: l.x, Y: l.y, Radius: l.radius, HalfW: l.halfW, HalfH: l.halfH,
			Destructible: l.destructible, Active: true,
		}
		if l.destructible {
			o.MaxHealth, o.Health = 150, 150
		}

		spec := physics.Spec{
			X: l.x, Y: l.y, Kinematic: false, Category: catObstacle,
			Mask: catPlayer | catProjectile,
		}
		if l.shape == ObstacleCircular {
			spec.Shape = physics.ShapeCircle
			spec.Radius = l.radius
		} else {
			spec.Shape = physics.ShapeBox
			spec.HalfW, spec.HalfH = l.halfW, l.halfH
		}
		o.Body = e.world.AddBody(spec)
		e.handleOwners[o.Body] = handleOwner{kind: kindObstacle, id: id}

		e.obstacles.Add(id, o)
	}
}
