package game

import (
	"math"
	"math/rand"

	"arena-shooter/internal/game/spatial"
)

// AIController decides input for every bot-controlled player in a match.
// It never reads package-level math/rand or wall-clock time: every random
// decision draws from rng, which the match engine seeds once per match so
// a replay with the same seed and the same player inputs produces the
// same AI behavior tick for tick.
type AIController struct {
	rng *rand.Rand

	// AggressionByID holds each bot's personality roll (0.5-1.0), set once
	// at spawn and consulted every tick rather than re-rolled.
	AggressionByID map[EntityID]float64
}

// NewAIController creates a controller seeded deterministically.
func NewAIController(seed int64) *AIController {
	return &AIController{
		rng:            rand.New(rand.NewSource(seed)),
		AggressionByID: make(map[EntityID]float64),
	}
}

// Rand exposes the controller's deterministic stream for spawn-time rolls
// (color, avatar, spawn position) that happen outside the per-tick Decide
// path, e.g. in NewPlayer.
func (ai *AIController) Rand() *rand.Rand {
	return ai.rng
}

// Aggression returns (and lazily rolls) a bot's aggression personality.
func (ai *AIController) Aggression(id EntityID) float64 {
	if v, ok := ai.AggressionByID[id]; ok {
		return v
	}
	v := 0.5 + ai.rng.Float64()*0.5
	ai.AggressionByID[id] = v
	return v
}

// aiContext is the read-only view of match state an AI decision needs.
// The match engine builds one per tick and passes it to Decide for every
// bot; it intentionally exposes less than the full Engine so AI logic
// can't accidentally mutate simulation state outside of the PlayerInput
// it returns.
type aiContext struct {
	Self        *Player
	Players     []*Player
	SelfIndex   uint32
	Grid        *spatial.SpatialGrid
	FlowFields  *spatial.FlowFieldManager
	WorldWidth  float64
	WorldHeight float64
	TickRate    int
}

const (
	aiSightRadius     = 300.0
	aiFlowFieldRadius = 400.0
)

// Decide runs one bot's targeting and movement logic for the current tick
// and returns the PlayerInput the match engine should feed into its
// Mailbox, exactly as if a client had sent it.
func (ai *AIController) Decide(ctx aiContext) PlayerInput {
	self := ctx.Self
	target := ai.findTarget(ctx)

	if target == nil {
		return ai.wander(ctx)
	}
	return ai.combatInput(ctx, self, target)
}

// findTarget mirrors a human player's threat assessment: prefer the
// nearest non-teammate within sight radius, falling back to a global scan
// so bots always eventually find a fight even in a sparse match.
func (ai *AIController) findTarget(ctx aiContext) *Player {
	self := ctx.Self
	var closest *Player
	closestDist := math.MaxFloat64

	nearby := ctx.Grid.QueryRadius(self.X, self.Y, aiSightRadius)
	for _, idx := range nearby {
		if int(idx) >= len(ctx.Players) || idx == ctx.SelfIndex {
			continue
		}
		other := ctx.Players[idx]
		if other == nil || other.IsDead || other.IsRagdoll {
			continue
		}
		if self.TeamID != "" && other.TeamID == self.TeamID {
			continue
		}
		d := self.distanceTo(other.X, other.Y)
		if d < closestDist {
			closestDist = d
			closest = other
		}
	}
	if closest != nil {
		return closest
	}

	for _, other := range ctx.Players {
		if other == nil || other == self || other.IsDead || other.IsRagdoll {
			continue
		}
		if self.TeamID != "" && other.TeamID == self.TeamID {
			continue
		}
		return other
	}
	return nil
}

// combatInput produces movement/aim/fire toward an acquired target. It
// reproduces the original three-zone approach/strafe/retreat behavior:
// back off when too close, close the gap aggressively when out of range
// (optionally steered by the flow field over long distances), and
// strafe/approach in a blend once within weapon range but on cooldown.
func (ai *AIController) combatInput(ctx aiContext, self, target *Player) PlayerInput {
	weapon := GetWeapon(self.Weapon)
	dx := target.X - self.X
	dy := target.Y - self.Y
	dist := math.Hypot(dx, dy)

	in := PlayerInput{AimWorldX: target.X, AimWorldY: target.Y}

	canAttack := self.ReadyToFire(weapon) && !target.SpawnProtection && !self.SpawnProtection
	aggression := ai.Aggression(self.ID)

	switch {
	case dist <= weapon.Range*0.6:
		// Too close: back away, strafe randomly.
		var awayX, awayY float64
		if dist > 0 {
			awayX, awayY = -dx/dist, -dy/dist
		}
		sideX, sideY := awayY, -awayX
		if ai.rng.Float64() >= 0.5 {
			sideX, sideY = -awayY, awayX
		}
		in.MoveX, in.MoveY = (awayX+sideX)*0.5, (awayY+sideY)*0.5
	case dist > weapon.Range:
		// Out of range: close the gap, optionally steered by flow field.
		if dist > aiFlowFieldRadius && ctx.FlowFields != nil {
			field := ctx.FlowFields.GetOrCreate(playerGoalKey(target.ID), target.X, target.Y)
			vx, vy := field.Lookup(self.X, self.Y)
			in.MoveX, in.MoveY = float64(vx), float64(vy)
		} else if dist > 0 {
			in.MoveX, in.MoveY = dx/dist*aggression, dy/dist*aggression
		}
	default:
		// In range but on cooldown: mostly strafe, a little approach pressure.
		if dist > 0 {
			in.MoveX, in.MoveY = dx/dist*0.3, dy/dist*0.3
		}
		if ai.rng.Float64() < 0.5 {
			in.MoveX += -dy / (dist + 1) * 0.7
			in.MoveY += dx / (dist + 1) * 0.7
		} else {
			in.MoveX += dy / (dist + 1) * 0.7
			in.MoveY += -dx / (dist + 1) * 0.7
		}
	}

	if canAttack && dist <= weapon.Range {
		in.Fire = true
	}
	if self.MagazineAmmo == 0 && weapon.MagazineSize > 0 && !self.Reloading {
		in.Reload = true
	}
	return in
}

// wander drifts toward the arena center when far from it and otherwise
// takes small random impulses, so idle bots don't clump at the edges.
func (ai *AIController) wander(ctx aiContext) PlayerInput {
	self := ctx.Self
	centerX, centerY := ctx.WorldWidth/2, ctx.WorldHeight/2
	dx, dy := centerX-self.X, centerY-self.Y
	dist := math.Hypot(dx, dy)

	in := PlayerInput{AimWorldX: self.X + 1, AimWorldY: self.Y}
	if dist > 400 {
		in.MoveX, in.MoveY = dx/dist*0.4, dy/dist*0.4
		return in
	}
	if ai.rng.Float64() < 0.05 {
		angle := ai.rng.Float64() * math.Pi * 2
		in.MoveX, in.MoveY = math.Cos(angle), math.Sin(angle)
	}
	return in
}

func playerGoalKey(id EntityID) string {
	return "player-" + id.String()
}
