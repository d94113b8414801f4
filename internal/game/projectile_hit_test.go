package game

import "testing"

// TestSeedObstaclesPopulatesRegistry exercises the pre-match terrain-seeding
// step: every new engine should start with a non-empty, physics-registered
// obstacle set rather than an empty registry.
func TestSeedObstaclesPopulatesRegistry(t *testing.T) {
	engine := NewEngine(testEngineConfig(30, 1280, 720))

	obstacles := engine.obstacles.Snapshot()
	if len(obstacles) == 0 {
		t.Fatal("expected seedObstacles to populate the obstacle registry")
	}
	for _, o := range obstacles {
		if o.Body == 0 {
			t.Errorf("obstacle %v has no physics body registered", o.ID)
		}
		if _, ok := engine.handleOwners[o.Body]; !ok {
			t.Errorf("obstacle %v's body is missing from handleOwners", o.ID)
		}
	}
}

// TestRangedWeaponHitsStationaryTarget exercises the "shoot and hit" loop a
// fired projectile now drives end to end: fire, let a few ticks of flight
// resolve contacts, and expect the target to take damage once the bullet
// reaches it, the way the teacher's melee path already worked.
func TestRangedWeaponHitsStationaryTarget(t *testing.T) {
	engine := NewEngine(testEngineConfig(30, 1280, 720))

	attacker := engine.AddPlayer("Attacker", PlayerOptions{})
	victim := engine.AddPlayer("Victim", PlayerOptions{})
	attacker.SpawnProtection = false
	victim.SpawnProtection = false

	attacker.X, attacker.Y = 100, 100
	victim.X, victim.Y = 300, 100
	engine.world.SetPosition(attacker.Body, attacker.X, attacker.Y)
	engine.world.SetPosition(victim.Body, victim.X, victim.Y)
	attacker.Weapon = "rifle"

	initialHP := victim.HP
	engine.resolveFire(attacker, PlayerInput{Fire: true, AimWorldX: victim.X, AimWorldY: victim.Y})

	if engine.projectiles.Len() == 0 {
		t.Fatal("firing a ranged weapon should spawn a projectile")
	}

	hit := false
	for i := 0; i < 20 && !hit; i++ {
		engine.tick()
		if victim.HP < initialHP {
			hit = true
		}
	}

	if !hit {
		t.Error("projectile should have dealt damage to the stationary victim within 20 ticks")
	}
}

// TestRangedWeaponRespectsTeams verifies a projectile fired at a teammate
// never resolves into damage, mirroring the melee team-check in
// resolveMeleeHit.
func TestRangedWeaponRespectsTeams(t *testing.T) {
	engine := NewEngine(testEngineConfig(30, 1280, 720))

	attacker := engine.AddPlayer("Attacker", PlayerOptions{})
	teammate := engine.AddPlayer("Teammate", PlayerOptions{})
	attacker.SpawnProtection = false
	teammate.SpawnProtection = false
	attacker.TeamID = "red"
	teammate.TeamID = "red"

	attacker.X, attacker.Y = 100, 100
	teammate.X, teammate.Y = 300, 100
	engine.world.SetPosition(attacker.Body, attacker.X, attacker.Y)
	engine.world.SetPosition(teammate.Body, teammate.X, teammate.Y)
	attacker.Weapon = "rifle"

	initialHP := teammate.HP
	engine.resolveFire(attacker, PlayerInput{Fire: true, AimWorldX: teammate.X, AimWorldY: teammate.Y})

	for i := 0; i < 20; i++ {
		engine.tick()
	}

	if teammate.HP != initialHP {
		t.Error("a projectile fired at a teammate should never deal damage")
	}
}

// TestPowerUpPickupHeals exercises the proximity-triggered power-up path:
// a player standing within pickup range of a heal power-up should be healed
// and the utility consumed.
func TestPowerUpPickupHeals(t *testing.T) {
	engine := NewEngine(testEngineConfig(30, 1280, 720))

	player := engine.AddPlayer("Player", PlayerOptions{})
	player.HP = 50
	player.X, player.Y = 200, 200

	id := engine.ids.Next()
	engine.utilities.Add(id, &Utility{ID: id, Kind: UtilityPowerUp, PowerUp: PowerUpHeal, X: 200, Y: 200})

	engine.rebuildPlayerSlice()
	engine.resolveUtilityPickups()
	engine.utilities.Flush()

	if player.HP <= 50 {
		t.Errorf("expected player to be healed by the power-up, HP still %d", player.HP)
	}
	if engine.utilities.Get(id) != nil {
		t.Error("power-up should be consumed after pickup")
	}
}
