package game

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"arena-shooter/internal/config"
	"arena-shooter/internal/game/physics"
	"arena-shooter/internal/game/rules"
	"arena-shooter/internal/game/spatial"
)

// Collision categories, used as physics.Spec.Category/Mask so contact
// resolution can tell what kind of body it's looking at without a type
// switch over every possible entity.
const (
	catPlayer uint32 = 1 << iota
	catProjectile
	catObstacle
	catBeam
	catUtility
	catZoneSensor
	catFlagSensor
)

// entityKind tags what a physics.Handle backs, for the handleOwners lookup
// ContactEvents resolution needs (the physics world itself is entity-agnostic).
type entityKind int

const (
	kindPlayer entityKind = iota
	kindProjectile
	kindObstacle
	kindUtility
	kindZoneSensor
	kindFlagSensor
)

type handleOwner struct {
	kind entityKind
	id   EntityID
}

// EngineConfig configures one match instance. The lobby (J) builds one per
// match from config.AppConfig plus the mode the caller requested; the
// Ruleset itself is constructed by the lobby's mode factory (zone/flag
// placement is a map-layout concern, not the engine's).
type EngineConfig struct {
	Match   config.MatchConfig
	Limits  config.ResourceLimits
	Spatial config.SpatialConfig
	Ruleset    rules.Ruleset
	ZombieWave rules.ZombieWaveConfig // only consulted when Ruleset is *rules.ZombieDefense
	Seed       int64                  // 0 derives a seed from time.Now()
}

// Engine drives one match's fixed-tick simulation: one physics world, one
// set of entity registries, one ruleset. The lobby (J) owns a map of these,
// one per live match, each ticking on its own goroutine. Generalized from
// the teacher's single process-wide Engine singleton.
type Engine struct {
	mu sync.RWMutex

	ids *idAllocator

	players     map[EntityID]*Player
	byName      map[string]EntityID // lookup for name-keyed join/respawn/admin APIs
	playerSlice []*Player           // rebuilt each tick; index is this tick's AI/spatial index only

	world        *physics.World
	handleOwners map[physics.Handle]handleOwner

	projectiles  *Registry[Projectile]
	obstacles    *Registry[Obstacle]
	beams        *Registry[Beam]
	fieldEffects *Registry[FieldEffect]
	utilities    *Registry[Utility]

	particles     []*Particle
	effects       []*AttackEffect
	texts         []*FloatingText
	trails        []*WeaponTrail
	flashes       []*ImpactFlash
	shake         *ScreenShake
	shakeThisTick int

	spatialGrid      *spatial.SpatialGrid
	sap              *spatial.SweepAndPrune
	flowFieldManager *spatial.FlowFieldManager

	ai *AIController

	ruleset          rules.Ruleset
	zombieWaveConfig rules.ZombieWaveConfig
	comboDefinitions map[string]ComboDefinition

	tickRate    int
	worldWidth  float64
	worldHeight float64

	running  bool
	ticker   *time.Timer
	stopChan chan struct{}

	totalKills int
	tickCount  uint64
	nextTeam   int // round-robins RuleTeam assignment for team-based modes

	onDamage    func(attacker, victim *Player, damage int)
	OnKill      func(killer, victim *Player)
	onJoin      func(player *Player)
	onRespawn   func(player *Player)
	onRuleEvent func(ev rules.Event)

	limits       config.ResourceLimits
	respawnDelay int
	reloadBase   int

	snapshotPool *SnapshotPool
	eventLog     *EventLog
	rng          *rand.Rand
	rngSeed      int64
	teamManager  *TeamManager
}

// NewEngine creates a match engine for one instance of play. cfg.Ruleset
// must be non-nil; the lobby is responsible for constructing the mode the
// player asked for (NewTeamDeathmatch, NewKingOfTheHill, ...) before handing
// it here.
func NewEngine(cfg EngineConfig) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	worldWidth := float64(cfg.Match.WorldWidth)
	worldHeight := float64(cfg.Match.WorldHeight)
	if worldWidth == 0 {
		worldWidth = 2400
	}
	if worldHeight == 0 {
		worldHeight = 1600
	}
	gridCell := float64(cfg.Spatial.GridCellSize)
	if gridCell == 0 {
		gridCell = 100
	}
	flowCell := float64(cfg.Spatial.FlowFieldCellSize)
	if flowCell == 0 {
		flowCell = 50
	}
	maxPlayers := cfg.Match.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = 16
	}
	maxBodies := maxPlayers + cfg.Limits.MaxProjectiles + cfg.Limits.MaxUtilities + 64

	zombieWave := cfg.ZombieWave
	if zombieWave.BaseCount == 0 {
		zombieWave.BaseCount = 5
	}
	if zombieWave.CountGrowth == 0 {
		zombieWave.CountGrowth = 2
	}
	if zombieWave.RestTicks == 0 {
		zombieWave.RestTicks = 5 * 60
	}

	e := &Engine{
		ids:              newIDAllocator(),
		players:          make(map[EntityID]*Player),
		byName:           make(map[string]EntityID),
		world:            physics.NewWorld(worldWidth, worldHeight, gridCell, maxBodies),
		handleOwners:     make(map[physics.Handle]handleOwner),
		projectiles:      NewRegistry[Projectile](),
		obstacles:        NewRegistry[Obstacle](),
		beams:            NewRegistry[Beam](),
		fieldEffects:     NewRegistry[FieldEffect](),
		utilities:        NewRegistry[Utility](),
		spatialGrid:      spatial.NewSpatialGrid(worldWidth, worldHeight, gridCell, maxPlayers),
		sap:              spatial.NewSweepAndPrune(maxPlayers),
		flowFieldManager: spatial.NewFlowFieldManager(worldWidth, worldHeight, flowCell),
		ai:               NewAIController(seed ^ 0x5a17),
		ruleset:          cfg.Ruleset,
		zombieWaveConfig: zombieWave,
		comboDefinitions: DefaultComboDefinitions(),
		tickRate:         cfg.Match.TickRate,
		worldWidth:       worldWidth,
		worldHeight:      worldHeight,
		stopChan:         make(chan struct{}),
		limits:           cfg.Limits,
		respawnDelay:     cfg.Match.RespawnDelay,
		reloadBase:       cfg.Match.ReloadBaseTicks,
		snapshotPool:     NewSnapshotPool(cfg.Limits),
		eventLog:         NewEventLog(),
		rng:              rand.New(rand.NewSource(seed)),
		rngSeed:          seed,
		teamManager:      NewTeamManager(),
	}
	if e.tickRate == 0 {
		e.tickRate = 60
	}
	e.seedObstacles()
	return e
}

// maxCatchUpTicks bounds how many extra ticks a single wakeup runs to absorb
// scheduling lag, per spec's drift-and-catch-up requirement: bounded CPU use
// under sustained overrun, at the cost of dropping time beyond the cap.
const maxCatchUpTicks = 3

// Start begins the fixed-tick simulation loop on its own goroutine. Unlike a
// bare time.Ticker (which silently drops ticks it can't deliver), the loop
// tracks the ideal next-tick wall-clock time itself and runs bounded
// catch-up ticks when a wakeup lands late.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	interval := time.Second / time.Duration(e.tickRate)
	e.ticker = time.NewTimer(interval)
	e.mu.Unlock()

	go func() {
		nextTick := time.Now().Add(interval)
		for {
			select {
			case <-e.ticker.C:
				e.tick()
				nextTick = nextTick.Add(interval)

				lag := time.Since(nextTick)
				caughtUp := 0
				for lag >= interval && caughtUp < maxCatchUpTicks {
					e.tick()
					nextTick = nextTick.Add(interval)
					lag -= interval
					caughtUp++
				}
				if caughtUp > 0 {
					log.Printf("engine: ran %d catch-up tick(s) to absorb scheduling lag", caughtUp)
				}
				if lag >= interval {
					log.Printf("engine: dropping %v of accumulated tick lag beyond the %d-tick catch-up cap", lag, maxCatchUpTicks)
					nextTick = time.Now().Add(interval)
				}

				e.ticker.Reset(time.Until(nextTick))
			case <-e.stopChan:
				return
			}
		}
	}()
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
}

// tick advances the match by exactly one frame, in the fixed eleven-step
// sequence every mode shares: clocks, attribute expiry, input ingest,
// pre-physics actions, the physics step itself, contact resolution, AoE
// fields, beams, the rule system, deferred-removal flush, and finally the
// serialized snapshot handed to the session manager.
func (e *Engine) tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	dt := 1.0 / float64(e.tickRate)

	// 1. advance clocks
	e.tickCount++
	e.rngSeed = e.rngSeed*1103515245 + 12345
	e.eventLog.EmitSimple(EventTypeTick, e.tickCount, "", TickPayload{
		RNGSeed:     e.rngSeed,
		PlayerCount: len(e.players),
		DeltaTimeNs: int64(dt * 1e9),
	})

	e.rebuildPlayerSlice()

	// 2. expire attribute modifications / tick timers
	for _, p := range e.playerSlice {
		p.UpdateTimers(e.tickCount)
		if p.IsRagdoll {
			p.UpdateRagdoll()
		}
		if p.State == StateDead && p.RespawnDeadline != 0 && e.tickCount >= p.RespawnDeadline {
			e.respawnPlayer(p)
		}
	}

	// 3. ingest inputs (session-fed mailbox, or the AI controller)
	inputs := make(map[EntityID]PlayerInput, len(e.playerSlice))
	for i, p := range e.playerSlice {
		var in PlayerInput
		if p.IsAI {
			in = e.ai.Decide(aiContext{
				Self: p, Players: e.playerSlice, SelfIndex: uint32(i),
				Grid: e.spatialGrid, FlowFields: e.flowFieldManager,
				WorldWidth: e.worldWidth, WorldHeight: e.worldHeight, TickRate: e.tickRate,
			})
		} else if got, ok := p.Mailbox.Take(); ok {
			in = got
		}
		inputs[p.ID] = in
		if p.State == StateAlive {
			p.ApplyInput(in, e.baseSpeed())
			e.world.SetVelocity(p.Body, p.VX, p.VY)
		} else {
			e.world.SetVelocity(p.Body, 0, 0)
		}
	}

	// 4. pre-physics actions: weapon firing/reload, utility cadences
	for _, p := range e.playerSlice {
		if p.State != StateAlive {
			continue
		}
		in := inputs[p.ID]
		if in.Reload {
			e.startReload(p)
		}
		if in.Fire && p.CanAct() {
			e.resolveFire(p, in)
		}
	}
	e.utilities.ForEach(func(id EntityID, u *Utility) bool {
		u.TickCooldown()
		if u.Kind == UtilityTurret || u.Kind == UtilityDefenseLaser {
			e.fireUtility(u)
		}
		return true
	})

	// 5. physics step. Projectiles advance their own position (homing steer
	// needs the player list, which the physics world doesn't know about) and
	// push the result into their sensor body before the world steps, so this
	// tick's Step sees this tick's position rather than lagging one tick
	// behind the contacts it reports.
	e.projectiles.ForEach(func(id EntityID, proj *Projectile) bool {
		hx, hy := 0.0, 0.0
		if proj.Effects.Has(EffectHoming) {
			hx, hy = e.homingSteer(proj)
		}
		if !proj.Update(0.08, hx, hy) || proj.OutOfBounds(e.worldWidth, e.worldHeight) {
			e.removeProjectile(id)
			return true
		}
		e.world.SetPosition(proj.Body, proj.X, proj.Y)
		return true
	})
	e.world.Step(dt)
	for _, p := range e.playerSlice {
		x, y := e.world.Position(p.Body)
		p.SyncFromBody(x, y)
	}

	// 6. resolve contacts
	e.resolveContacts()
	e.resolveUtilityPickups()

	// 7. AoE / continuous field effects
	e.updateFieldEffects()

	// 8. beams
	e.updateBeams()

	// 9. rule system step
	e.tickRuleset(dt)

	// cosmetic effect bookkeeping, unchanged from the teacher
	e.updateParticles()
	e.updateFloatingTexts()
	e.updateAttackEffects()
	e.updateTrails()
	e.updateFlashes()
	e.updateShake()
	e.shakeThisTick = 0

	// 10. deferred removal flush
	e.projectiles.Flush()
	e.obstacles.Flush()
	e.beams.Flush()
	e.fieldEffects.Flush()
	e.utilities.Flush()

	// 11. serialize snapshot
	e.ProduceSnapshot()
}

func (e *Engine) baseSpeed() float64 { return 220.0 }

func (e *Engine) rebuildPlayerSlice() {
	e.playerSlice = e.playerSlice[:0]
	for _, p := range e.players {
		e.playerSlice = append(e.playerSlice, p)
	}
	e.spatialGrid.Clear()
	for i, p := range e.playerSlice {
		e.spatialGrid.Insert(uint32(i), p.X, p.Y)
	}
}

// AddPlayer joins a new player (or reconnects/respawns an existing dead
// one) and allocates its physics body and entity id.
func (e *Engine) AddPlayer(name string, opts PlayerOptions) *Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addPlayerLocked(name, opts)
}

// addPlayerLocked is AddPlayer's body, callable from within tick() where
// e.mu is already held (zombie-defense wave spawning).
func (e *Engine) addPlayerLocked(name string, opts PlayerOptions) *Player {
	if id, ok := e.byName[name]; ok {
		existing := e.players[id]
		if existing.IsDead {
			e.respawnPlayer(existing)
		}
		return existing
	}

	if len(e.players) >= e.limits.MaxPlayers {
		log.Printf("match full: rejected join for %s", name)
		return nil
	}

	opts.WorldWidth = e.worldWidth
	opts.WorldHeight = e.worldHeight
	id := e.ids.Next()
	p := NewPlayer(id, name, opts, e.rng)
	p.Body = e.world.AddBody(physics.Spec{
		Shape: physics.ShapeCircle, X: p.X, Y: p.Y, Radius: PlayerRadius,
		Kinematic: true, Category: catPlayer, Mask: catProjectile | catObstacle | catUtility | catZoneSensor | catFlagSensor,
	})
	e.handleOwners[p.Body] = handleOwner{kind: kindPlayer, id: id}
	weapon := GetWeapon(p.Weapon)
	p.MagazineAmmo = weapon.MagazineSize

	if e.ruleset != nil {
		p.RuleTeam = e.nextTeam % 2
		e.nextTeam++
		if lw, ok := e.ruleset.(*rules.LoneWolf); ok {
			lw.AssignInitialWolf(rules.EntityID(id))
		}
		if jug, ok := e.ruleset.(*rules.Juggernaut); ok {
			jug.AddToOrder(p.RuleTeam, rules.EntityID(id))
		}
	}

	e.players[id] = p
	e.byName[name] = id

	e.eventLog.EmitSimple(EventTypePlayerJoin, e.tickCount, id.String(), PlayerJoinPayload{
		PlayerID: id.String(), PlayerName: name, SpawnX: p.X, SpawnY: p.Y, Color: p.Color,
	})
	if e.onJoin != nil {
		go e.onJoin(p)
	}
	return p
}

// RemovePlayer disconnects a player and retires their physics body.
func (e *Engine) RemovePlayer(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, ok := e.byName[name]
	if !ok {
		return
	}
	p := e.players[id]
	e.world.RemoveBody(p.Body)
	delete(e.handleOwners, p.Body)
	delete(e.players, id)
	delete(e.byName, name)
	e.eventLog.EmitSimple(EventTypePlayerLeave, e.tickCount, id.String(), nil)
}

// GetPlayer returns a player by name, or nil.
func (e *Engine) GetPlayer(name string) *Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if id, ok := e.byName[name]; ok {
		return e.players[id]
	}
	return nil
}

// HealPlayer applies a heal to a named player.
func (e *Engine) HealPlayer(name string, amount int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id, ok := e.byName[name]
	if !ok {
		return
	}
	p := e.players[id]
	p.Heal(amount)
	e.eventLog.EmitSimple(EventTypeHeal, e.tickCount, id.String(), HealPayload{
		PlayerID: id.String(), Amount: amount, CurrentHP: p.HP,
	})
}

// SubmitInput feeds a session-decoded input into a player's mailbox. Both
// human sessions (I) and nothing else call this — AI input never goes
// through a mailbox write, it's computed fresh every tick in step 3.
func (e *Engine) SubmitInput(name string, in PlayerInput) {
	e.mu.RLock()
	id, ok := e.byName[name]
	e.mu.RUnlock()
	if !ok {
		return
	}
	e.mu.RLock()
	p := e.players[id]
	e.mu.RUnlock()
	if p != nil {
		p.Mailbox.Put(in)
	}
}

func (e *Engine) respawnPlayer(p *Player) {
	p.Respawn(e.rng)
	e.world.SetPosition(p.Body, p.X, p.Y)
	e.eventLog.EmitSimple(EventTypeRespawn, e.tickCount, p.ID.String(), RespawnPayload{
		PlayerID: p.ID.String(), SpawnX: p.X, SpawnY: p.Y,
	})
	if e.onRespawn != nil {
		go e.onRespawn(p)
	}
}

func (e *Engine) startReload(p *Player) {
	weapon := GetWeapon(p.Weapon)
	p.StartReload(weapon, e.reloadBase)
}

// resolveFire resolves one player's trigger pull: melee weapons check their
// Hitbox immediately, ranged weapons spawn a Projectile for the physics
// step to carry forward.
func (e *Engine) resolveFire(p *Player, in PlayerInput) {
	weapon := GetWeapon(p.Weapon)
	if !p.ReadyToFire(weapon) {
		return
	}
	p.ConsumeShot(weapon, e.tickRate)
	p.IsAttacking = true

	if weapon.IsMelee() {
		e.resolveMeleeHit(p, weapon)
		return
	}

	id := e.ids.Next()
	proj := NewProjectile(id, p.ID, p.X, p.Y, in.AimWorldX, in.AimWorldY, weapon, e.tickRate)
	e.registerProjectile(id, proj)
}

// registerProjectile admits a newly fired projectile into both the entity
// registry and the physics world, so resolveContacts can see it. Projectile
// bodies are sensors: they report overlap for damage resolution but the
// world never pushes them (or the thing they hit) apart the way it does two
// solid obstacles, since a bullet colliding with a player isn't a collision
// to resolve kinematically.
func (e *Engine) registerProjectile(id EntityID, proj *Projectile) {
	proj.Body = e.world.AddBody(physics.Spec{
		Shape: physics.ShapeCircle, X: proj.X, Y: proj.Y, Radius: proj.HitRadius,
		Kinematic: true, Sensor: true, Category: catProjectile, Mask: catPlayer | catObstacle,
	})
	e.handleOwners[proj.Body] = handleOwner{kind: kindProjectile, id: id}
	e.projectiles.Add(id, proj)
}

// removeProjectile retires a projectile's physics body alongside its
// registry entry, mirroring RemovePlayer.
func (e *Engine) removeProjectile(id EntityID) {
	if proj := e.projectiles.Get(id); proj != nil {
		e.world.RemoveBody(proj.Body)
		delete(e.handleOwners, proj.Body)
	}
	e.projectiles.Remove(id)
}

func (e *Engine) resolveMeleeHit(attacker *Player, weapon Weapon) {
	hitbox := GetHitbox(weapon.ID)
	combo := e.comboDefinitions[weapon.ID]
	for _, victim := range e.playerSlice {
		if victim.ID == attacker.ID || victim.State != StateAlive {
			continue
		}
		if attacker.TeamID != "" && attacker.TeamID == victim.TeamID {
			continue
		}
		if !hitbox.CheckHit(attacker.X, attacker.Y, victim.X, victim.Y, attacker.AttackAngle) {
			continue
		}
		multiplier := attacker.Combat.RegisterHit(e.tickCount, combo)
		damage := int(float64(weapon.MinDamage+e.rng.Intn(weapon.MaxDamage-weapon.MinDamage+1)) * multiplier)
		damage = int(attacker.Attributes.Resolve(AttrDamageDeal, float64(damage)))
		e.applyDamage(attacker, victim, damage)
		break // single-target melee: first hit found lands, matching hitbox invariant
	}
}

func (e *Engine) homingSteer(proj *Projectile) (float64, float64) {
	var closest *Player
	best := math.MaxFloat64
	for _, p := range e.playerSlice {
		if p.ID == proj.OwnerID || p.State != StateAlive {
			continue
		}
		d := math.Hypot(p.X-proj.X, p.Y-proj.Y)
		if d < best {
			best, closest = d, p
		}
	}
	if closest == nil || best == 0 {
		return 0, 0
	}
	return (closest.X - proj.X) / best, (closest.Y - proj.Y) / best
}

func (e *Engine) fireUtility(u *Utility) {
	if !u.ReadyToFire() {
		return
	}
	var nearest *Player
	best := 500.0
	for _, p := range e.playerSlice {
		if p.State != StateAlive {
			continue
		}
		d := math.Hypot(p.X-u.X, p.Y-u.Y)
		if d < best {
			best, nearest = d, p
		}
	}
	if nearest == nil {
		return
	}
	u.ConsumeFire()
	u.Aim = math.Atan2(nearest.Y-u.Y, nearest.X-u.X)

	if u.Kind == UtilityDefenseLaser {
		// One persistent beam per laser, refreshed every cadence rather than
		// reallocated, so contact resolution can key off the same entity id.
		e.beams.Add(u.ID, &Beam{
			ID: u.ID, OwnerID: u.OwnerID, StartX: u.X, StartY: u.Y, Angle: u.Aim,
			Kind: BeamDamageOverTime, DamagePerTick: 4, RemainingTicks: u.FireCadenceTicks,
		})
		return
	}

	id := e.ids.Next()
	weapon := GetWeapon("bow")
	proj := NewProjectile(id, u.OwnerID, u.X, u.Y, nearest.X, nearest.Y, weapon, e.tickRate)
	e.registerProjectile(id, proj)
}

// utilityPickupRadius is the distance at which a player's body overlaps a
// power-up or teleport pad closely enough to trigger it; power-ups and pads
// aren't physics bodies (nothing needs to push against them), so proximity
// is a direct distance check against the player list each tick, the same
// idiom the zone/flag objective bookkeeping in tickModeObjectives already
// uses for KOTH/CTF occupancy.
const utilityPickupRadius = 36.0

// resolveUtilityPickups drives the two utility kinds that trigger on player
// proximity rather than on a fire cadence: power-ups are consumed by the
// first player to reach them, and teleport pads charge up while occupied
// and then relay the occupant to their linked pad.
func (e *Engine) resolveUtilityPickups() {
	e.utilities.ForEach(func(id EntityID, u *Utility) bool {
		switch u.Kind {
		case UtilityPowerUp:
			for _, p := range e.playerSlice {
				if p.State != StateAlive {
					continue
				}
				if math.Hypot(p.X-u.X, p.Y-u.Y) > utilityPickupRadius {
					continue
				}
				e.applyPowerUp(p, u.PowerUp)
				e.utilities.Remove(id)
				break
			}

		case UtilityTeleportPad:
			var occupant *Player
			for _, p := range e.playerSlice {
				if p.State == StateAlive && math.Hypot(p.X-u.X, p.Y-u.Y) <= utilityPickupRadius {
					occupant = p
					break
				}
			}
			if occupant == nil {
				u.ResetCharge()
				return true
			}
			if u.TickCharge() {
				if dest := e.utilities.Get(u.LinkedID); dest != nil {
					e.world.SetPosition(occupant.Body, dest.X, dest.Y)
					occupant.SyncFromBody(dest.X, dest.Y)
				}
				u.ResetCharge()
			}
		}
		return true
	})
}

// applyPowerUp grants a power-up's effect to the player who reached it.
func (e *Engine) applyPowerUp(p *Player, kind PowerUpKind) {
	switch kind {
	case PowerUpHeal:
		p.Heal(50)
	case PowerUpSpeedBoost:
		p.Attributes.Add(AttributeModification{Key: AttrMoveSpeed, Op: OpMultiply, Magnitude: 1.5, ExpiresAt: e.tickCount + uint64(e.tickRate*8), Source: "power-up"})
	case PowerUpDamageBoost:
		p.Attributes.Add(AttributeModification{Key: AttrDamageDeal, Op: OpMultiply, Magnitude: 1.5, ExpiresAt: e.tickCount + uint64(e.tickRate*8), Source: "power-up"})
	case PowerUpAmmo:
		weapon := GetWeapon(p.Weapon)
		p.MagazineAmmo = weapon.MagazineSize
	}
}

// resolveContacts dispatches every contact the physics step recorded this
// tick that involves a projectile: player-vs-projectile and
// obstacle-vs-projectile are damage. Zone/flag occupancy and power-up
// pickups are distance checks elsewhere in the tick, not contacts.
func (e *Engine) resolveContacts() {
	for _, c := range e.world.ContactEvents() {
		oa, oka := e.handleOwners[c.A]
		ob, okb := e.handleOwners[c.B]
		if !oka || !okb {
			continue
		}
		e.resolvePair(oa, ob)
		e.resolvePair(ob, oa)
	}
}

func (e *Engine) resolvePair(a, b handleOwner) {
	switch {
	case a.kind == kindPlayer && b.kind == kindProjectile:
		victim := e.players[a.id]
		proj := e.projectiles.Get(b.id)
		if victim == nil || proj == nil || !proj.Armed || !proj.CheckHit(victim) {
			return
		}
		attacker := e.players[proj.OwnerID]
		if attacker == nil {
			e.removeProjectile(b.id)
			return
		}
		if attacker.TeamID != "" && attacker.TeamID == victim.TeamID {
			return
		}
		damage := int(attacker.Attributes.Resolve(AttrDamageDeal, float64(proj.Damage)))
		e.applyDamage(attacker, victim, damage)
		e.spawnTerminalEffect(proj)
		if proj.PiercesLeft > 0 {
			proj.PiercesLeft--
		} else {
			e.removeProjectile(b.id)
		}

	case a.kind == kindObstacle && b.kind == kindProjectile:
		obstacle := e.obstacles.Get(a.id)
		proj := e.projectiles.Get(b.id)
		if obstacle == nil || proj == nil || !obstacle.Active || !proj.Armed {
			return
		}
		obstacle.TakeDamage(proj.Damage)
		if !obstacle.Active {
			e.world.RemoveBody(obstacle.Body)
			delete(e.handleOwners, obstacle.Body)
		}
		e.spawnTerminalEffect(proj)
		e.removeProjectile(b.id)
	}
}

// spawnTerminalEffect spawns the AoE field effect an exploding/incendiary/
// fragmenting piece of ordinance leaves behind on contact.
func (e *Engine) spawnTerminalEffect(proj *Projectile) {
	kind, ok := ordinanceFieldEffectKind(proj.Kind, proj.Effects)
	if !ok {
		return
	}
	if e.fieldEffects.Len() >= e.limits.MaxFieldEffects {
		return
	}
	radius := ordinanceBlastRadius(proj.Kind)
	if radius == 0 {
		radius = 60
	}
	id := e.ids.Next()
	e.fieldEffects.Add(id, &FieldEffect{
		ID: id, Kind: kind, OwnerID: proj.OwnerID, X: proj.X, Y: proj.Y,
		Radius: radius, Strength: float64(proj.Damage) / 2, DurationTicks: e.tickRate * 2, Armed: true,
	})
	if proj.Effects.Has(EffectFragmenting) {
		for _, dir := range fragmentDirections() {
			fid := e.ids.Next()
			e.registerProjectile(fid, &Projectile{
				ID: fid, OwnerID: proj.OwnerID, Kind: OrdinanceBullet,
				X: proj.X, Y: proj.Y, VX: dir[0] * 8, VY: dir[1] * 8, Speed: 8,
				Damage: proj.Damage / 2, HitRadius: 8, Timer: e.tickRate,
			})
		}
	}
}

// applyDamage is the shared damage/kill pipeline for both melee hits and
// projectile impacts: apply HP loss, log and broadcast the event, spawn
// hit-reaction cosmetics, and hand off a kill to the active ruleset.
func (e *Engine) applyDamage(attacker, victim *Player, damage int) {
	victim.TakeDamage(damage, attacker)

	anim := GetWeaponAnimation(attacker.Weapon)
	flashColor := anim.TrailColor
	if flashColor == "" {
		flashColor = attacker.Color
	}
	e.CreateFlash(victim.X, victim.Y, flashColor, 1.5)
	e.AddShake(anim.ShakeIntensity)
	for i := 0; i < anim.ParticleCount; i++ {
		e.createParticle(victim.X, victim.Y, attacker.Color)
	}
	if len(e.texts) < e.limits.MaxTexts {
		e.texts = append(e.texts, &FloatingText{X: victim.X, Y: victim.Y - 30, Text: fmt.Sprintf("-%d", damage), Color: "#ff3e3e", Alpha: 1.0, VY: -2})
	}

	e.eventLog.EmitSimple(EventTypeDamage, e.tickCount, attacker.ID.String(), DamagePayload{
		AttackerID: attacker.ID.String(), VictimID: victim.ID.String(), Damage: damage, VictimHP: victim.HP, WeaponID: attacker.Weapon,
	})
	if e.onDamage != nil {
		go e.onDamage(attacker, victim, damage)
	}

	if !victim.IsDead {
		return
	}

	e.totalKills++
	attacker.Kills++
	attacker.Money += 50
	if attacker.TeamID != "" {
		e.teamManager.AddKill(attacker.TeamID)
	}
	victim.ScheduleRespawn(e.tickCount, e.respawnDelay)

	log.Printf("%s killed by %s (kills: %d)", victim.Name, attacker.Name, attacker.Kills)
	e.eventLog.EmitSimple(EventTypeKill, e.tickCount, attacker.ID.String(), KillPayload{
		KillerID: attacker.ID.String(), VictimID: victim.ID.String(), KillerKills: attacker.Kills, VictimDeaths: victim.Deaths,
	})
	if e.OnKill != nil {
		go e.OnKill(attacker, victim)
	}
	for i := 0; i < 20; i++ {
		e.createParticle(victim.X, victim.Y, victim.Color)
	}
	e.AddShake(6.0)

	switch rs := e.ruleset.(type) {
	case *rules.TeamDeathmatch:
		rs.RegisterKill(attacker.RuleTeam)
	case *rules.Juggernaut:
		alive := make(map[rules.EntityID]bool, len(e.playerSlice))
		for _, pl := range e.playerSlice {
			alive[rules.EntityID(pl.ID)] = pl.State == StateAlive && pl.ID != victim.ID
		}
		e.applyRuleEvents(rs.OnJuggernautKilled(attacker.RuleTeam, victim.RuleTeam, rules.EntityID(victim.ID), alive))
	case *rules.LoneWolf:
		if rules.EntityID(victim.ID) == rs.WolfID() {
			rs.OnWolfKilled(rules.EntityID(attacker.ID))
		}
	case *rules.ZombieDefense:
		if victim.IsAI {
			rs.ZombieDied()
		}
	}
}

// updateFieldEffects advances every active AoE/ongoing field effect and
// applies its per-tick contract to players inside its radius.
func (e *Engine) updateFieldEffects() {
	e.fieldEffects.ForEach(func(id EntityID, f *FieldEffect) bool {
		if !f.Tick() {
			e.fieldEffects.Remove(id)
			return true
		}
		e.applyFieldEffect(f)
		return true
	})
}

func (e *Engine) applyFieldEffect(f *FieldEffect) {
	for _, p := range e.playerSlice {
		if p.State != StateAlive {
			continue
		}
		d := math.Hypot(p.X-f.X, p.Y-f.Y)
		if d > f.Radius {
			continue
		}
		switch f.Kind {
		case FieldExplosion, FieldFragmentation:
			if f.ElapsedTicks != 1 {
				continue // one-shot blast, applied on the tick it's created
			}
			frac := ExplosionDamageFalloff(d, f.Radius)
			if frac <= 0 {
				continue
			}
			owner := e.players[f.OwnerID]
			p.TakeDamage(int(f.PerTickMagnitude()*frac), owner)
		case FieldFire, FieldPoison, FieldElectric:
			owner := e.players[f.OwnerID]
			p.TakeDamage(int(f.PerTickMagnitude()/float64(e.tickRate)+0.999), owner)
		case FieldHealZone:
			p.Heal(int(f.PerTickMagnitude() / float64(e.tickRate)))
		case FieldFreeze, FieldSlow:
			p.Attributes.Add(AttributeModification{Key: AttrMoveSpeed, Op: OpMultiply, Magnitude: 0.4, ExpiresAt: e.tickCount + 2, Source: "field-effect"})
		}
	}
}

// updateBeams recomputes each beam's effective end point via raycast and
// applies its damage contract.
func (e *Engine) updateBeams() {
	e.beams.ForEach(func(id EntityID, b *Beam) bool {
		ex := b.StartX + math.Cos(b.Angle)*2000
		ey := b.StartY + math.Sin(b.Angle)*2000
		var hitPlayer EntityID
		if hit, ok := e.world.Raycast(b.StartX, b.StartY, ex, ey, catPlayer|catObstacle); ok {
			b.EndX, b.EndY = hit.X, hit.Y
			if owner, ok := e.handleOwners[hit.Body]; ok && owner.kind == kindPlayer {
				e.applyBeamDamage(b, owner.id)
				hitPlayer = owner.id
			}
		} else {
			b.EndX, b.EndY = ex, ey
		}
		if !b.Tick() {
			// Burst damage accumulated over the beam's life lands on the
			// player it hits on its final tick.
			if amount := b.FlushBurst(); amount > 0 {
				victim := e.players[hitPlayer]
				if victim != nil && victim.State == StateAlive && hitPlayer != b.OwnerID {
					victim.TakeDamage(amount, e.players[b.OwnerID])
				}
			}
			e.beams.Remove(id)
		}
		return true
	})
}

func (e *Engine) applyBeamDamage(b *Beam, victimID EntityID) {
	victim := e.players[victimID]
	if victim == nil || victim.State != StateAlive || victimID == b.OwnerID {
		return
	}
	owner := e.players[b.OwnerID]
	switch b.Kind {
	case BeamInstantaneous:
		if b.ShouldApplyInstant() {
			victim.TakeDamage(b.DamagePerTick, owner)
		}
	case BeamDamageOverTime:
		victim.TakeDamage(b.DamagePerTick, owner)
	case BeamBurst:
		b.Accumulate(b.DamagePerTick)
	}
}

// tickRuleset advances the mode's state machine and applies the events it
// returns back onto match state.
func (e *Engine) tickRuleset(dt float64) {
	if e.ruleset == nil {
		return
	}
	facts := make([]rules.PlayerFact, 0, len(e.playerSlice))
	for _, p := range e.playerSlice {
		facts = append(facts, rules.PlayerFact{
			ID: rules.EntityID(p.ID), Team: p.RuleTeam, X: p.X, Y: p.Y,
			Alive: p.State == StateAlive, IsAI: p.IsAI,
		})
	}
	e.tickModeObjectives(facts)

	events := e.ruleset.Tick(e.tickCount, dt, facts)
	e.applyRuleEvents(events)
}

// applyRuleEvents translates rule-system events into engine-side effects.
// Shared by tickRuleset's generic Tick() call and the per-kill hooks in
// applyDamage, since both paths can produce EventBecomeVIP etc.
func (e *Engine) applyRuleEvents(events []rules.Event) {
	for _, ev := range events {
		switch ev.Kind {
		case rules.EventRoundEnd, rules.EventGameOver, rules.EventRoundStart, rules.EventWarning:
			log.Printf("match %s: %v (%s)", e.ruleset.Name(), ev.Kind, ev.Message)
		case rules.EventBecomeVIP:
			if p := e.players[EntityID(ev.PlayerID)]; p != nil {
				p.Attributes.Add(AttributeModification{Key: AttrDamageTake, Op: OpMultiply, Magnitude: 0.8, ExpiresAt: 0, Source: "juggernaut-vip"})
			}
		}
		if e.onRuleEvent != nil {
			go e.onRuleEvent(ev)
		}
	}
}

// tickModeObjectives runs the per-mode bookkeeping a generic Ruleset.Tick
// can't express: zone occupancy, flag pickup/capture, VIP upkeep, wolf
// survival scoring, and zombie wave spawning. Each mode only touches the
// registries/state it owns.
func (e *Engine) tickModeObjectives(facts []rules.PlayerFact) {
	switch rs := e.ruleset.(type) {
	case *rules.KingOfTheHill:
		zones := rs.Zones()
		occ := make([]map[int]int, len(zones))
		for i, z := range zones {
			counts := make(map[int]int)
			for _, f := range facts {
				if !f.Alive {
					continue
				}
				if dx, dy := f.X-z.X, f.Y-z.Y; math.Hypot(dx, dy) <= z.Radius {
					counts[f.Team]++
				}
			}
			occ[i] = counts
		}
		rs.AdvanceZones(occ)

	case *rules.CaptureTheFlag:
		flags := rs.Flags()
		for _, flag := range flags {
			switch flag.State() {
			case rules.FlagHome, rules.FlagDropped:
				for _, f := range facts {
					if !f.Alive || f.Team == flag.OwnerTeam {
						continue
					}
					if math.Hypot(f.X-flag.X, f.Y-flag.Y) <= flagPickupRadius {
						flag.TryPickup(f.ID, f.Team)
						break
					}
				}
			case rules.FlagCarried:
				carrier := e.players[EntityID(flag.CarrierID())]
				if carrier == nil || carrier.State != StateAlive {
					flag.OnCarrierDeath(flag.X, flag.Y, e.respawnDelay)
					break
				}
				flag.FollowCarrier(carrier.X, carrier.Y)
				if flag.OwnerTeam < 0 {
					rs.TickOddballCarry(carrier.RuleTeam)
					continue
				}
				home := teamHomeFlag(flags, carrier.RuleTeam)
				if home != nil && math.Hypot(carrier.X-home.HomeX, carrier.Y-home.HomeY) <= flagPickupRadius {
					rs.Capture(flag, carrier.RuleTeam)
				}
			}
		}

	case *rules.Juggernaut:
		seen := make(map[int]bool)
		alive := make(map[rules.EntityID]bool, len(facts))
		for _, f := range facts {
			alive[f.ID] = f.Alive
		}
		for _, f := range facts {
			if seen[f.Team] {
				continue
			}
			seen[f.Team] = true
			e.applyRuleEvents(rs.EnsureVIP(f.Team, alive))
		}

	case *rules.LoneWolf:
		if wolf := e.players[EntityID(rs.WolfID())]; wolf != nil && wolf.State == StateAlive {
			rs.TickWolfSurvival()
		}

	case *rules.ZombieDefense:
		e.tickZombieWaves(rs)
	}
}

// teamHomeFlag finds the flag belonging to team (its capture pedestal),
// used to check whether a carrier has brought an enemy flag home.
func teamHomeFlag(flags []*rules.Flag, team int) *rules.Flag {
	for _, f := range flags {
		if f.OwnerTeam == team {
			return f
		}
	}
	return nil
}

// flagPickupRadius is how close a player must stand to a flag to pick it
// up or capture it; matches PlayerRadius-scale proximity used elsewhere.
const flagPickupRadius = 40.0

// tickZombieWaves drives ZombieDefense's spawn/rest cycle. The mode starts
// in WaveResting with wave 0, so wave 1 is kicked off directly rather than
// through TickRest (which only fires from WaveCleared).
func (e *Engine) tickZombieWaves(rs *rules.ZombieDefense) {
	switch rs.WavePhase() {
	case rules.WaveResting:
		if rs.WaveNumber() == 0 {
			rs.StartWave(e.zombieWaveConfig.BaseCount)
		} else if rs.TickRest() {
			rs.StartWave(e.zombieWaveConfig.BaseCount + rs.WaveNumber()*e.zombieWaveConfig.CountGrowth)
		}
	case rules.WaveCleared:
		if rs.TickRest() {
			rs.StartWave(e.zombieWaveConfig.BaseCount + rs.WaveNumber()*e.zombieWaveConfig.CountGrowth)
		}
	case rules.WaveSpawning:
		e.spawnZombie()
		rs.ZombieSpawned()
	}
}

// spawnZombie adds one AI-controlled player on team 1 (zombies; humans share
// team 0) directly into the already-locked player map, since this only ever
// runs from inside tick().
func (e *Engine) spawnZombie() {
	name := fmt.Sprintf("zombie-%d", e.tickCount)
	z := e.addPlayerLocked(name, PlayerOptions{IsAI: true})
	if z != nil {
		z.RuleTeam = 1
	}
}

func (e *Engine) createParticle(x, y float64, color string) {
	if len(e.particles) >= e.limits.MaxParticles {
		return
	}
	angle := e.rng.Float64() * math.Pi * 2
	speed := 2 + e.rng.Float64()*4
	e.particles = append(e.particles, &Particle{
		X: x, Y: y, VX: math.Cos(angle) * speed, VY: math.Sin(angle) * speed,
		Color: color, Alpha: 1.0, Life: 1.0,
	})
}

func (e *Engine) updateParticles() {
	n := 0
	for _, p := range e.particles {
		p.X += p.VX
		p.Y += p.VY
		p.VX *= 0.95
		p.VY *= 0.95
		p.Life -= 0.03
		p.Alpha = p.Life
		if p.Life > 0 {
			e.particles[n] = p
			n++
		}
	}
	e.particles = e.particles[:n]
}

func (e *Engine) updateFloatingTexts() {
	n := 0
	for _, t := range e.texts {
		t.Y += t.VY
		t.Alpha -= 0.02
		if t.Alpha > 0 {
			e.texts[n] = t
			n++
		}
	}
	e.texts = e.texts[:n]
}

func (e *Engine) updateAttackEffects() {
	n := 0
	for _, ef := range e.effects {
		ef.Timer--
		if ef.Timer > 0 {
			e.effects[n] = ef
			n++
		}
	}
	e.effects = e.effects[:n]
}

func (e *Engine) updateTrails() {
	n := 0
	for _, tr := range e.trails {
		if tr.Update() {
			e.trails[n] = tr
			n++
		}
	}
	e.trails = e.trails[:n]
}

func (e *Engine) updateFlashes() {
	n := 0
	for _, fl := range e.flashes {
		if fl.Update() {
			e.flashes[n] = fl
			n++
		}
	}
	e.flashes = e.flashes[:n]
}

func (e *Engine) updateShake() {
	if e.shake != nil {
		if !e.shake.Update(e.rngSeed) {
			e.shake = nil
		}
	}
}

// CreateTrail creates a new weapon trail effect with rate limiting.
func (e *Engine) CreateTrail(startX, startY float64, color string, playerID EntityID) {
	if len(e.trails) >= e.limits.MaxTrails {
		return
	}
	e.trails = append(e.trails, NewWeaponTrail(startX, startY, color, playerID))
}

// CreateFlash creates an impact flash effect with rate limiting.
func (e *Engine) CreateFlash(x, y float64, color string, intensity float64) {
	if len(e.flashes) >= e.limits.MaxFlashes {
		return
	}
	if color == "" {
		color = "#ffffff"
	}
	e.flashes = append(e.flashes, NewImpactFlash(x, y, color, intensity))
}

// AddShake adds screen shake with rate limiting.
func (e *Engine) AddShake(intensity float64) {
	if e.shakeThisTick >= MaxShakePerTick {
		return
	}
	e.shakeThisTick++
	if e.shake == nil {
		e.shake = NewScreenShake(intensity)
		return
	}
	e.shake.Intensity += intensity * 0.5
	if e.shake.Intensity > MaxShakeIntensity {
		e.shake.Intensity = MaxShakeIntensity
	}
	e.shake.Duration = 8
}

// SetCallbacks wires the lobby/session layer's notification hooks.
func (e *Engine) SetCallbacks(onDamage func(*Player, *Player, int), onKill func(*Player, *Player), onJoin, onRespawn func(*Player)) {
	e.onDamage = onDamage
	e.OnKill = onKill
	e.onJoin = onJoin
	e.onRespawn = onRespawn
}

// SetRuleEventCallback wires the session manager's roundStart/roundEnd/
// gameOver/gameEvent fan-out to the ruleset's per-tick events.
func (e *Engine) SetRuleEventCallback(onRuleEvent func(ev rules.Event)) {
	e.onRuleEvent = onRuleEvent
}

// GameState represents the current state for direct (non-snapshot) reads,
// e.g. REST endpoints that don't need the lock-free triple buffer.
type GameState struct {
	Players     []*Player
	Particles   []*Particle
	Effects     []*AttackEffect
	Texts       []*FloatingText
	PlayerCount int
	AliveCount  int
	TotalKills  int
}

// Particle represents a visual particle.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Color  string
	Alpha  float64
	Life   float64
}

// AttackEffect represents an attack visual effect.
type AttackEffect struct {
	X, Y   float64
	TX, TY float64
	Color  string
	Timer  int
}

// FloatingText represents floating damage numbers.
type FloatingText struct {
	X, Y  float64
	VY    float64
	Text  string
	Color string
	Alpha float64
}

// GetState returns the current game state, sorted by priority for display.
func (e *Engine) GetState() GameState {
	e.mu.RLock()
	defer e.mu.RUnlock()

	players := make([]*Player, 0, len(e.players))
	aliveCount := 0
	for _, p := range e.players {
		players = append(players, p)
		if p.State == StateAlive {
			aliveCount++
		}
	}
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Kills != players[j].Kills {
			return players[i].Kills > players[j].Kills
		}
		return players[i].Name < players[j].Name
	})

	return GameState{
		Players: players, Particles: e.particles, Effects: e.effects, Texts: e.texts,
		PlayerCount: len(players), AliveCount: aliveCount, TotalKills: e.totalKills,
	}
}

// GetSnapshot returns the latest immutable snapshot for lock-free reads.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshotPool.AcquireRead()
}

// ProduceSnapshot builds an immutable copy of the tick's final state.
// Called once, at the end of every tick.
func (e *Engine) ProduceSnapshot() {
	snap := e.snapshotPool.AcquireWrite()
	snap.TickNumber = e.tickCount
	snap.RNGSeed = e.rngSeed
	snap.TotalKills = e.totalKills

	playerPtrs := make([]*Player, 0, len(e.players))
	for _, p := range e.players {
		playerPtrs = append(playerPtrs, p)
	}
	sort.Slice(playerPtrs, func(i, j int) bool {
		iAlive, jAlive := playerPtrs[i].State == StateAlive, playerPtrs[j].State == StateAlive
		if iAlive != jAlive {
			return iAlive
		}
		if playerPtrs[i].Kills != playerPtrs[j].Kills {
			return playerPtrs[i].Kills > playerPtrs[j].Kills
		}
		return playerPtrs[i].Name < playerPtrs[j].Name
	})

	aliveCount := 0
	for _, p := range playerPtrs {
		if p.State == StateAlive {
			aliveCount++
		}
		if len(snap.Players) >= e.limits.MaxPlayers {
			continue
		}
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID: p.ID, Name: p.Name, X: p.X, Y: p.Y, VX: p.VX, VY: p.VY,
			HP: p.HP, MaxHP: p.MaxHP, Money: p.Money, Kills: p.Kills, Deaths: p.Deaths,
			Weapon: p.Weapon, Color: p.Color, Avatar: p.Avatar, AttackAngle: p.AttackAngle,
			IsDead: p.IsDead, IsRagdoll: p.IsRagdoll, RagdollRotation: p.RagdollRotation,
			SpawnProtection: p.SpawnProtection, IsAttacking: p.IsAttacking, ProfilePic: p.ProfilePic,
			IsDodging: p.IsDodging, DodgeDirection: p.Combat.DodgeDirection, ComboCount: p.Combat.ComboCount,
			Stamina: p.Stamina,
		})
	}

	for _, p := range e.particles {
		if len(snap.Particles) >= e.limits.MaxParticles {
			break
		}
		snap.Particles = append(snap.Particles, ParticleSnapshot{X: p.X, Y: p.Y, Color: p.Color, Alpha: p.Alpha})
	}
	for _, ef := range e.effects {
		if len(snap.Effects) >= e.limits.MaxEffects {
			break
		}
		snap.Effects = append(snap.Effects, EffectSnapshot{X: ef.X, Y: ef.Y, TX: ef.TX, TY: ef.TY, Color: ef.Color, Timer: ef.Timer})
	}
	for _, t := range e.texts {
		if len(snap.Texts) >= e.limits.MaxTexts {
			break
		}
		snap.Texts = append(snap.Texts, TextSnapshot{X: t.X, Y: t.Y, Text: t.Text, Color: t.Color, Alpha: t.Alpha})
	}
	for _, tr := range e.trails {
		if len(snap.Trails) >= e.limits.MaxTrails {
			break
		}
		trailSnap := TrailSnapshot{Count: tr.PointCount, Color: tr.Color, Alpha: float64(tr.Timer) / 15.0, PlayerID: tr.PlayerID}
		for i, pt := range tr.GetPoints() {
			if i >= 8 {
				break
			}
			trailSnap.Points[i] = TrailPointSnapshot{X: pt.X, Y: pt.Y, Alpha: pt.Alpha}
		}
		snap.Trails = append(snap.Trails, trailSnap)
	}
	for _, fl := range e.flashes {
		if len(snap.Flashes) >= e.limits.MaxFlashes {
			break
		}
		snap.Flashes = append(snap.Flashes, FlashSnapshot{X: fl.X, Y: fl.Y, Radius: fl.Radius, Color: fl.Color, Intensity: fl.GetAlpha()})
	}
	e.projectiles.ForEach(func(_ EntityID, proj *Projectile) bool {
		if len(snap.Projectiles) >= e.limits.MaxProjectiles {
			return false
		}
		snap.Projectiles = append(snap.Projectiles, proj.ToSnapshot())
		return true
	})
	e.obstacles.ForEach(func(_ EntityID, o *Obstacle) bool {
		snap.Obstacles = append(snap.Obstacles, o.ToSnapshot())
		return true
	})
	e.beams.ForEach(func(_ EntityID, b *Beam) bool {
		if len(snap.Beams) >= e.limits.MaxBeams {
			return false
		}
		snap.Beams = append(snap.Beams, b.ToSnapshot())
		return true
	})
	e.fieldEffects.ForEach(func(_ EntityID, f *FieldEffect) bool {
		if len(snap.FieldEffects) >= e.limits.MaxFieldEffects {
			return false
		}
		snap.FieldEffects = append(snap.FieldEffects, f.ToSnapshot())
		return true
	})
	e.utilities.ForEach(func(_ EntityID, u *Utility) bool {
		if len(snap.Utilities) >= e.limits.MaxUtilities {
			return false
		}
		snap.Utilities = append(snap.Utilities, u.ToSnapshot())
		return true
	})

	if e.shake != nil && e.shake.Intensity > 0.5 {
		snap.Shake = ShakeSnapshot{OffsetX: e.shake.OffsetX, OffsetY: e.shake.OffsetY, Intensity: e.shake.Intensity}
	}

	if e.ruleset != nil {
		snap.RulesetName = e.ruleset.Name()
		snap.RoundPhase = int(e.ruleset.Phase())
		for team, score := range e.ruleset.Scores() {
			snap.Scores[team] = score
		}
		if koth, ok := e.ruleset.(*rules.KingOfTheHill); ok {
			for _, z := range koth.Zones() {
				snap.Zones = append(snap.Zones, ZoneSnapshot{
					Number: z.Number, X: z.X, Y: z.Y, Radius: z.Radius,
					State: int(z.State()), Progress: z.Progress(), ControlledBy: z.ControlledBy(),
				})
			}
		}
		if ctf, ok := e.ruleset.(*rules.CaptureTheFlag); ok {
			for _, f := range ctf.Flags() {
				snap.Flags = append(snap.Flags, FlagSnapshot{
					ID: EntityID(f.ID), OwnerTeam: f.OwnerTeam, X: f.X, Y: f.Y,
					State: int(f.State()), CarrierID: EntityID(f.CarrierID()),
				})
			}
		}
	}

	snap.PlayerCount = len(snap.Players)
	snap.AliveCount = aliveCount

	e.snapshotPool.PublishWrite()
}

// StartEventLog initializes the event logging system.
func (e *Engine) StartEventLog(filePath string) error { return e.eventLog.Start(filePath) }

// StopEventLog gracefully stops the event logging system.
func (e *Engine) StopEventLog() { e.eventLog.Stop() }

// GetEventLogStats returns event log statistics for monitoring.
func (e *Engine) GetEventLogStats() map[string]interface{} { return e.eventLog.GetStats() }

// GetLimits returns the current resource limits.
func (e *Engine) GetLimits() config.ResourceLimits { return e.limits }

// GetSpatialGrid returns the spatial grid for testing and external queries.
func (e *Engine) GetSpatialGrid() *spatial.SpatialGrid { return e.spatialGrid }

// GetTeamManager returns the social team manager for team operations.
func (e *Engine) GetTeamManager() *TeamManager { return e.teamManager }

// GetFlowFieldManager returns the flow field manager for AI navigation.
func (e *Engine) GetFlowFieldManager() *spatial.FlowFieldManager { return e.flowFieldManager }

// PlayerCount returns the number of connected players, for the lobby's
// culling sweep and global player cap.
func (e *Engine) PlayerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.players)
}

// SetPlayerTeam updates a player's social team id.
func (e *Engine) SetPlayerTeam(playerName, teamID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, ok := e.byName[playerName]; ok {
		e.players[id].TeamID = teamID
	}
}

// WorldInfo reports the match's static dimensions and tick rate, used by
// the session manager to build each endpoint's one-time initialState
// payload (§4.8). These never change for the lifetime of a match.
func (e *Engine) WorldInfo() (width, height float64, tickRate int) {
	return e.worldWidth, e.worldHeight, e.tickRate
}

// RulesetName reports the active mode's name, or "" if none is set.
func (e *Engine) RulesetName() string {
	if e.ruleset == nil {
		return ""
	}
	return e.ruleset.Name()
}
