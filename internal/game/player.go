package game

import (
	"math"
	"math/rand"

	"arena-shooter/internal/game/physics"
)

// PlayerState is the player's lifecycle state within a match.
type PlayerState int

const (
	StateOut   PlayerState = iota // not yet spawned into the arena
	StateAlive                    // alive and able to act
	StateDead                     // dead, waiting on RespawnDeadline
)

// Player represents one human or AI-controlled combatant. Movement state
// (X/Y/VX/VY) mirrors the backing physics.Handle each tick; the physics
// world is the source of truth, these fields exist for cheap read access
// by the serializer and AI without a physics lookup per field.
type Player struct {
	ID   EntityID `json:"id"`
	Name string   `json:"name"`
	Body physics.Handle `json:"-"`

	X, Y   float64
	VX, VY float64

	HP           int `json:"hp"`
	MaxHP        int `json:"maxHp"`
	Money        int `json:"money"`
	Kills        int `json:"kills"`
	Deaths       int `json:"deaths"`
	Weapon       string `json:"weapon"`
	Color        string `json:"color"`
	Avatar       string `json:"avatar"`
	ProfilePic   string `json:"profilePic"`

	MagazineAmmo    int  `json:"magazineAmmo"`
	Reloading       bool `json:"reloading"`
	ReloadTicksLeft int  `json:"-"`

	IsAttacking    bool    `json:"isAttacking"`
	AttackCooldown int     `json:"-"` // ticks
	AttackAngle    float64 `json:"attackAngle"`

	IsDead          bool    `json:"isDead"`
	IsRagdoll       bool    `json:"isRagdoll"`
	RagdollTicks    int     `json:"-"`
	RagdollRotation float64 `json:"ragdollRotation"`

	SpawnProtection bool `json:"spawnProtection"`
	SpawnTicks      int  `json:"-"`

	IsStunned bool `json:"isStunned"`
	StunTicks int  `json:"-"`

	Combat     CombatState  `json:"-"`
	Stamina    float64      `json:"stamina"`
	MaxStamina float64      `json:"-"`
	IsDodging  bool         `json:"isDodging"`
	Attributes AttributeSet `json:"-"`

	State PlayerState `json:"-"`

	TeamID string `json:"teamId"`

	// RuleTeam is the numeric team (0..N) the active ruleset scores by,
	// assigned by the match engine at join time. Distinct from TeamID,
	// which is the social squad a player joined via team.go — a match's
	// ruleset teams and a player's social team are independent concepts.
	RuleTeam int `json:"-"`

	// IsAI marks a player whose input comes from ai.go rather than a
	// session. Both paths feed the same Mailbox, so the tick loop treats
	// them identically.
	IsAI bool `json:"-"`

	Mailbox Mailbox `json:"-"`

	// RespawnDeadline is the tick number at which a dead player becomes
	// eligible to respawn automatically. Zero means "not scheduled".
	RespawnDeadline uint64 `json:"-"`

	worldWidth, worldHeight float64
}

// PlayerOptions configures a newly created player.
type PlayerOptions struct {
	ProfilePic  string
	Color       string
	WorldWidth  float64
	WorldHeight float64
	IsAI        bool
}

var playerColors = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4",
	"#ffeaa7", "#dfe6e9", "#fd79a8", "#00b894",
	"#6c5ce7", "#fdcb6e", "#e17055", "#00cec9",
}

var avatars = []string{"fox", "cat", "owl", "wolf", "bear", "hawk", "viper", "shark", "lynx", "raven"}

// NewPlayer creates a new player at a random spawn point within the arena.
// rng is the match's deterministic per-tick RNG stream, never the global
// math/rand functions, so spawn placement replays identically given the
// same seed.
func NewPlayer(id EntityID, name string, opts PlayerOptions, rng *rand.Rand) *Player {
	color := opts.Color
	if color == "" {
		color = playerColors[rng.Intn(len(playerColors))]
	}
	worldWidth := opts.WorldWidth
	worldHeight := opts.WorldHeight
	if worldWidth == 0 {
		worldWidth = 1280
	}
	if worldHeight == 0 {
		worldHeight = 720
	}

	return &Player{
		ID:              id,
		Name:            name,
		X:               rng.Float64() * worldWidth,
		Y:               rng.Float64() * worldHeight,
		HP:              100,
		MaxHP:           100,
		Weapon:          "fists",
		Color:           color,
		Avatar:          avatars[rng.Intn(len(avatars))],
		SpawnProtection: true,
		SpawnTicks:      18, // 0.3s at 60Hz
		ProfilePic:      opts.ProfilePic,
		Stamina:         MaxStamina,
		MaxStamina:      MaxStamina,
		State:           StateAlive,
		IsAI:            opts.IsAI,
		worldWidth:      worldWidth,
		worldHeight:     worldHeight,
	}
}

// UpdateTimers decrements every tick-based timer. Called once per tick
// regardless of whether the player is dead (ragdoll/respawn timers still
// need to run).
func (p *Player) UpdateTimers(tick uint64) {
	p.Combat.UpdateTimers()
	p.IsDodging = p.Combat.IsDodging
	p.Attributes.Prune(tick)

	if p.Stamina < p.MaxStamina {
		p.Stamina += StaminaRegenRate / 60.0
		if p.Stamina > p.MaxStamina {
			p.Stamina = p.MaxStamina
		}
	}

	if p.SpawnTicks > 0 {
		p.SpawnTicks--
		if p.SpawnTicks == 0 {
			p.SpawnProtection = false
		}
	}
	if p.StunTicks > 0 {
		p.StunTicks--
		if p.StunTicks == 0 {
			p.IsStunned = false
		}
	}
	if p.AttackCooldown > 0 {
		p.AttackCooldown--
	}
	if p.Reloading {
		p.ReloadTicksLeft--
		if p.ReloadTicksLeft <= 0 {
			p.Reloading = false
			weapon := GetWeapon(p.Weapon)
			p.MagazineAmmo = weapon.MagazineSize
		}
	}
}

// CanAct reports whether attribute-driven status (root/freeze/stun) permits
// this player to move or attack this tick. Re-evaluated every tick rather
// than cached, per the composition invariant.
func (p *Player) CanAct() bool {
	if p.IsStunned {
		return false
	}
	return p.Attributes.Resolve(AttrCanAct, 1) > 0.5
}

// EffectiveSpeed applies the composed move-speed multiplier to a base speed.
func (p *Player) EffectiveSpeed(base float64) float64 {
	return p.Attributes.Resolve(AttrMoveSpeed, base)
}

// ApplyInput turns a PlayerInput into a desired velocity and aim angle.
// The actual integration happens in the physics world; this just sets the
// kinematic body's velocity for the next Step.
func (p *Player) ApplyInput(in PlayerInput, maxSpeed float64) {
	if !p.CanAct() {
		p.AttackAngle = math.Atan2(in.AimWorldY-p.Y, in.AimWorldX-p.X)
		return
	}

	mx, my := in.MoveX, in.MoveY
	mag := math.Hypot(mx, my)
	if mag > 1 {
		mx, my = mx/mag, my/mag
	}
	speed := p.EffectiveSpeed(maxSpeed)
	p.VX = mx * speed
	p.VY = my * speed

	p.AttackAngle = math.Atan2(in.AimWorldY-p.Y, in.AimWorldX-p.X)
}

// SyncFromBody copies the physics body's position into the cheap read
// fields used by AI and the serializer.
func (p *Player) SyncFromBody(x, y float64) {
	p.X, p.Y = x, y
}

// ReadyToFire reports whether the weapon's cooldown has elapsed and the
// magazine (if any) has rounds remaining.
func (p *Player) ReadyToFire(weapon Weapon) bool {
	if p.AttackCooldown > 0 || p.Reloading {
		return false
	}
	if weapon.MagazineSize > 0 && p.MagazineAmmo <= 0 {
		return false
	}
	return true
}

// StartReload begins a reload if the weapon uses a magazine and isn't full.
func (p *Player) StartReload(weapon Weapon, baseReloadTicks int) {
	if weapon.MagazineSize == 0 || p.Reloading || p.MagazineAmmo >= weapon.MagazineSize {
		return
	}
	p.Reloading = true
	ticks := weapon.ReloadTicks
	if ticks <= 0 {
		ticks = baseReloadTicks
	}
	p.ReloadTicksLeft = ticks
}

// ConsumeShot applies one shot's cooldown/ammo cost.
func (p *Player) ConsumeShot(weapon Weapon, tickRate int) {
	p.AttackCooldown = int(weapon.Cooldown * float64(tickRate))
	if weapon.MagazineSize > 0 {
		p.MagazineAmmo--
	}
}

// TakeDamage applies damage from an attacker (nil for environmental damage
// such as field effects).
func (p *Player) TakeDamage(amount int, attacker *Player) {
	if p.SpawnProtection || p.IsDead || p.Combat.IsInvulnerable() {
		return
	}
	amount = int(p.Attributes.Resolve(AttrDamageTake, float64(amount)))
	p.HP -= amount

	if attacker != nil {
		anim := GetWeaponAnimation(attacker.Weapon)
		dx, dy := p.X-attacker.X, p.Y-attacker.Y
		dist := math.Hypot(dx, dy)
		if dist > 0 {
			p.VX += (dx / dist) * anim.KnockbackForce
			p.VY += (dy / dist) * anim.KnockbackForce
			if anim.AttackerPushback > 0 {
				attacker.VX -= (dx / dist) * anim.AttackerPushback
				attacker.VY -= (dy / dist) * anim.AttackerPushback
			}
		}
		if anim.StunDuration > 0 {
			p.IsStunned = true
			p.StunTicks = int(anim.StunDuration * 60)
		}
	}

	if p.HP <= 0 {
		p.die()
	}
}

// Heal restores HP up to MaxHP.
func (p *Player) Heal(amount int) {
	p.HP = int(math.Min(float64(p.HP+amount), float64(p.MaxHP)))
}

// die transitions the player to dead/ragdoll. It does not schedule the
// respawn; the engine does that through ScheduleRespawn.
func (p *Player) die() {
	p.IsDead = true
	p.IsRagdoll = true
	p.State = StateDead
	p.RagdollTicks = 240 // 4s at 60Hz
	p.Deaths++
	p.Combat.Reset()
}

// ScheduleRespawn sets RespawnDeadline relative to the current tick. Called
// by the match engine once death is processed, using the configured delay.
func (p *Player) ScheduleRespawn(currentTick uint64, delayTicks int) {
	p.RespawnDeadline = currentTick + uint64(delayTicks)
}

// UpdateRagdoll advances ragdoll physics; ragdoll motion still rides the
// physics body so it respects world bounds and obstacles.
func (p *Player) UpdateRagdoll() {
	if !p.IsRagdoll {
		return
	}
	p.RagdollRotation += 0.15
	p.VX *= 0.92
	p.VY *= 0.92
	p.RagdollTicks--
	if p.RagdollTicks <= 0 {
		p.IsRagdoll = false
	}
}

// Respawn resets the player to full health at a fresh random position.
func (p *Player) Respawn(rng *rand.Rand) {
	p.IsDead = false
	p.IsRagdoll = false
	p.State = StateAlive
	p.HP = p.MaxHP
	p.X = rng.Float64()*p.worldWidth*0.8 + p.worldWidth*0.1
	p.Y = rng.Float64()*p.worldHeight*0.8 + p.worldHeight*0.1
	p.VX, p.VY = 0, 0
	p.SpawnProtection = true
	p.SpawnTicks = 30 // 0.5s at 60Hz
	p.RagdollRotation = 0
	p.AttackCooldown = 0
	p.Stamina = p.MaxStamina
	p.Combat.Reset()
	p.Attributes.Clear()
	p.IsDodging = false
	p.RespawnDeadline = 0
	weapon := GetWeapon(p.Weapon)
	p.MagazineAmmo = weapon.MagazineSize
	p.Reloading = false
}

func (p *Player) distanceTo(x, y float64) float64 {
	dx, dy := x-p.X, y-p.Y
	return math.Hypot(dx, dy)
}

// ToJSON returns a map representation for JSON/HTTP responses.
func (p *Player) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"id":              p.ID,
		"name":            p.Name,
		"x":               p.X,
		"y":               p.Y,
		"vx":              p.VX,
		"vy":              p.VY,
		"hp":              p.HP,
		"maxHp":           p.MaxHP,
		"money":           p.Money,
		"kills":           p.Kills,
		"deaths":          p.Deaths,
		"weapon":          p.Weapon,
		"color":           p.Color,
		"avatar":          p.Avatar,
		"isAttacking":     p.IsAttacking,
		"attackAngle":     p.AttackAngle,
		"isDead":          p.IsDead,
		"isRagdoll":       p.IsRagdoll,
		"ragdollRotation": p.RagdollRotation,
		"spawnProtection": p.SpawnProtection,
		"isStunned":       p.IsStunned,
		"profilePic":      p.ProfilePic,
		"stamina":         p.Stamina,
		"isDodging":       p.IsDodging,
		"comboCount":      p.Combat.ComboCount,
		"teamId":          p.TeamID,
	}
}
