// Package physics implements the match's rigid-body world: kinematic
// circles, static/kinematic axis-aligned rectangles, sensors, and
// category/mask collision filtering. It is deliberately narrow — this is
// a top-down arena shooter, not a general physics engine — and is built
// directly on the spatial package's broad-phase structures rather than a
// third-party physics library (none exists anywhere in the reference
// corpus to adopt instead).
package physics

import (
	"math"

	"arena-shooter/internal/game/spatial"
)

// Handle identifies a body within one World. Zero is never issued.
type Handle uint32

// ShapeKind distinguishes the two body shapes the world supports.
type ShapeKind int

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Spec describes a body at creation time.
type Spec struct {
	Shape      ShapeKind
	X, Y       float64
	Radius     float64 // circle
	HalfW, HalfH float64 // box
	Kinematic  bool // true: position advances by velocity each Step
	Sensor     bool // true: reports overlap but never resolved/pushed apart
	Category   uint32 // what this body "is"
	Mask       uint32 // what categories this body collides/interacts with
}

// body is the world's internal representation of a live Spec.
type body struct {
	spec    Spec
	vx, vy  float64
	alive   bool
}

// ContactEvent reports that two bodies overlapped during the last Step.
// Sensor is true if either body involved is a sensor (no resolution applied).
type ContactEvent struct {
	A, B   Handle
	Sensor bool
}

// RaycastHit is the result of a successful Raycast.
type RaycastHit struct {
	Body   Handle
	X, Y   float64
	Dist   float64
}

// World owns every physics body in one match.
type World struct {
	width, height float64
	bodies        []body
	freeList      []Handle

	grid *spatial.SpatialGrid
	sap  *spatial.SweepAndPrune

	contacts []ContactEvent
}

// NewWorld creates a world sized to the match's arena.
func NewWorld(width, height, gridCellSize float64, maxBodies int) *World {
	return &World{
		width:  width,
		height: height,
		// Slot 0 is a permanently dead placeholder, so no body gets handle 0.
		bodies: make([]body, 1, maxBodies+1),
		grid:   spatial.NewSpatialGrid(width, height, gridCellSize, maxBodies),
		sap:    spatial.NewSweepAndPrune(maxBodies),
	}
}

// AddBody registers a new body and returns its handle.
func (w *World) AddBody(spec Spec) Handle {
	if len(w.freeList) > 0 {
		h := w.freeList[len(w.freeList)-1]
		w.freeList = w.freeList[:len(w.freeList)-1]
		w.bodies[h] = body{spec: spec, alive: true}
		return h
	}
	w.bodies = append(w.bodies, body{spec: spec, alive: true})
	return Handle(len(w.bodies) - 1)
}

// RemoveBody retires a handle for reuse. Safe to call mid-tick; the body
// stops participating in the very next Step.
func (w *World) RemoveBody(h Handle) {
	if int(h) >= len(w.bodies) || !w.bodies[h].alive {
		return
	}
	w.bodies[h].alive = false
	w.freeList = append(w.freeList, h)
}

// SetVelocity sets a kinematic body's per-second velocity.
func (w *World) SetVelocity(h Handle, vx, vy float64) {
	if int(h) >= len(w.bodies) || !w.bodies[h].alive {
		return
	}
	w.bodies[h].vx = vx
	w.bodies[h].vy = vy
}

// SetPosition teleports a body (spawn, respawn, net pickup).
func (w *World) SetPosition(h Handle, x, y float64) {
	if int(h) >= len(w.bodies) || !w.bodies[h].alive {
		return
	}
	w.bodies[h].spec.X = x
	w.bodies[h].spec.Y = y
}

// Position returns a body's current center.
func (w *World) Position(h Handle) (x, y float64) {
	if int(h) >= len(w.bodies) || !w.bodies[h].alive {
		return 0, 0
	}
	return w.bodies[h].spec.X, w.bodies[h].spec.Y
}

func boundingRadius(s Spec) float64 {
	if s.Shape == ShapeCircle {
		return s.Radius
	}
	return math.Hypot(s.HalfW, s.HalfH)
}

// Step integrates kinematic bodies, rebuilds the broad phase, and records
// every overlapping pair as a ContactEvent. Solid (non-sensor) overlaps
// between two non-sensor bodies are resolved along the line between their
// centres: two kinematic bodies each move half the overlap, a kinematic
// body against a static one takes the whole overlap, and static bodies
// never move. No I/O and no blocking call happens in Step, per the tick's
// liveness requirement.
func (w *World) Step(dt float64) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive || !b.spec.Kinematic {
			continue
		}
		b.spec.X += b.vx * dt
		b.spec.Y += b.vy * dt
		if b.spec.X < 0 {
			b.spec.X = 0
		}
		if b.spec.Y < 0 {
			b.spec.Y = 0
		}
		if b.spec.X > w.width {
			b.spec.X = w.width
		}
		if b.spec.Y > w.height {
			b.spec.Y = w.height
		}
	}

	w.grid.Clear()
	for i := range w.bodies {
		if w.bodies[i].alive {
			w.grid.Insert(uint32(i), w.bodies[i].spec.X, w.bodies[i].spec.Y)
		}
	}

	positions := make([][2]float32, len(w.bodies))
	for i, b := range w.bodies {
		if b.alive {
			positions[i] = [2]float32{float32(b.spec.X), float32(b.spec.Y)}
		}
	}
	maxRadius := float32(0)
	for _, b := range w.bodies {
		if b.alive {
			if r := float32(boundingRadius(b.spec)); r > maxRadius {
				maxRadius = r
			}
		}
	}
	pairs := w.sap.UpdateFromSlice(positions, maxRadius)

	w.contacts = w.contacts[:0]
	for _, pair := range pairs {
		a, b := &w.bodies[pair.A], &w.bodies[pair.B]
		if !a.alive || !b.alive {
			continue
		}
		if a.spec.Category&b.spec.Mask == 0 && b.spec.Category&a.spec.Mask == 0 {
			continue
		}
		if !w.overlaps(a.spec, b.spec) {
			continue
		}

		sensor := a.spec.Sensor || b.spec.Sensor
		w.contacts = append(w.contacts, ContactEvent{A: Handle(pair.A), B: Handle(pair.B), Sensor: sensor})

		if !sensor {
			w.resolve(a, b)
		}
	}
}

func (w *World) overlaps(a, b Spec) bool {
	if a.Shape == ShapeCircle && b.Shape == ShapeCircle {
		dx, dy := a.X-b.X, a.Y-b.Y
		r := a.Radius + b.Radius
		return dx*dx+dy*dy <= r*r
	}
	// Circle-vs-box and box-vs-box both reduce to an overlap test of square
	// AABBs built from each shape's bounding radius.
	ar := boundingRadius(a)
	br := boundingRadius(b)
	ax0, ax1 := a.X-ar, a.X+ar
	ay0, ay1 := a.Y-ar, a.Y+ar
	bx0, bx1 := b.X-br, b.X+br
	by0, by1 := b.Y-br, b.Y+br
	return ax0 <= bx1 && ax1 >= bx0 && ay0 <= by1 && ay1 >= by0
}

func (w *World) resolve(a, b *body) {
	dx, dy := a.spec.X-b.spec.X, a.spec.Y-b.spec.Y
	dist := math.Hypot(dx, dy)
	minDist := boundingRadius(a.spec) + boundingRadius(b.spec)
	if dist >= minDist || dist == 0 {
		if dist == 0 {
			dx, dy, dist = 1, 0, 1
		} else {
			return
		}
	}
	overlap := minDist - dist
	nx, ny := dx/dist, dy/dist

	aMovable := a.spec.Kinematic
	bMovable := b.spec.Kinematic
	switch {
	case aMovable && bMovable:
		a.spec.X += nx * overlap * 0.5
		a.spec.Y += ny * overlap * 0.5
		b.spec.X -= nx * overlap * 0.5
		b.spec.Y -= ny * overlap * 0.5
	case aMovable:
		a.spec.X += nx * overlap
		a.spec.Y += ny * overlap
	case bMovable:
		b.spec.X -= nx * overlap
		b.spec.Y -= ny * overlap
	}
}

// ContactEvents drains and returns every contact recorded during the last
// Step. Called once per tick by the match engine, after Step.
func (w *World) ContactEvents() []ContactEvent {
	out := w.contacts
	w.contacts = nil
	return out
}

// OverlapCircle returns every live body (matching mask against category)
// whose shape overlaps the given circle. Used for explosion/field-effect
// radius queries and melee hitbox checks.
func (w *World) OverlapCircle(px, py, radius float64, mask uint32) []Handle {
	candidates := w.grid.QueryRadius(px, py, radius)
	out := make([]Handle, 0, len(candidates))
	seen := make(map[uint32]bool, len(candidates))
	for _, idx := range candidates {
		if seen[idx] {
			continue
		}
		seen[idx] = true
		b := &w.bodies[idx]
		if !b.alive || b.spec.Category&mask == 0 {
			continue
		}
		dx, dy := b.spec.X-px, b.spec.Y-py
		r := radius + boundingRadius(b.spec)
		if dx*dx+dy*dy <= r*r {
			out = append(out, Handle(idx))
		}
	}
	return out
}

// Raycast finds the closest body matching mask that the segment a->b
// intersects, treating every body as a circle of its bounding radius.
func (w *World) Raycast(ax, ay, bx, by float64, mask uint32) (RaycastHit, bool) {
	best := RaycastHit{}
	found := false
	dx, dy := bx-ax, by-ay
	length := math.Hypot(dx, dy)
	if length == 0 {
		return best, false
	}
	ux, uy := dx/length, dy/length

	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.alive || b.spec.Category&mask == 0 {
			continue
		}
		r := boundingRadius(b.spec)
		// Vector from segment start to body center, projected onto the ray.
		toX, toY := b.spec.X-ax, b.spec.Y-ay
		proj := toX*ux + toY*uy
		if proj < 0 || proj > length {
			continue
		}
		closestX, closestY := ax+ux*proj, ay+uy*proj
		ddx, ddy := b.spec.X-closestX, b.spec.Y-closestY
		if ddx*ddx+ddy*ddy > r*r {
			continue
		}
		if !found || proj < best.Dist {
			best = RaycastHit{Body: Handle(i), X: closestX, Y: closestY, Dist: proj}
			found = true
		}
	}
	return best, found
}

// Dimensions returns the world's arena size.
func (w *World) Dimensions() (width, height float64) {
	return w.width, w.height
}
