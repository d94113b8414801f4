package game

import (
	"math/rand"
	"testing"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestNewPlayer(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())

	if player == nil {
		t.Fatal("NewPlayer returned nil")
	}
	if player.Name != "TestPlayer" {
		t.Errorf("Expected name 'TestPlayer', got '%s'", player.Name)
	}
	if player.HP != 100 {
		t.Errorf("Expected HP 100, got %d", player.HP)
	}
	if player.MaxHP != 100 {
		t.Errorf("Expected MaxHP 100, got %d", player.MaxHP)
	}
	if player.Weapon != "fists" {
		t.Errorf("Expected weapon 'fists', got '%s'", player.Weapon)
	}
	if player.Money != 0 {
		t.Errorf("Expected money 0, got %d", player.Money)
	}
	if !player.SpawnProtection {
		t.Error("New player should have spawn protection")
	}
}

func TestNewPlayerWithOptions(t *testing.T) {
	opts := PlayerOptions{
		ProfilePic: "http://example.com/pic.png",
		Color:      "#ff0000",
	}
	player := NewPlayer(1, "CustomPlayer", opts, testRNG())

	if player.Color != "#ff0000" {
		t.Errorf("Expected color '#ff0000', got '%s'", player.Color)
	}
	if player.ProfilePic != "http://example.com/pic.png" {
		t.Errorf("Expected profilePic to be set")
	}
}

func TestPlayerTakeDamage(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.SpawnProtection = false

	attacker := NewPlayer(2, "Attacker", PlayerOptions{}, testRNG())

	initialHP := player.HP
	player.TakeDamage(30, attacker)

	if player.HP != initialHP-30 {
		t.Errorf("Expected HP %d, got %d", initialHP-30, player.HP)
	}
}

func TestPlayerTakeDamageWithProtection(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.SpawnProtection = true

	initialHP := player.HP
	player.TakeDamage(50, nil)

	if player.HP != initialHP {
		t.Error("Player with spawn protection should not take damage")
	}
}

func TestPlayerDeath(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.SpawnProtection = false
	player.HP = 10

	attacker := NewPlayer(2, "Attacker", PlayerOptions{}, testRNG())
	attacker.SpawnProtection = false

	player.TakeDamage(20, attacker)

	if !player.IsDead {
		t.Error("Player should be dead after taking fatal damage")
	}
	if !player.IsRagdoll {
		t.Error("Dead player should be in ragdoll state")
	}
	if player.Deaths != 1 {
		t.Errorf("Expected 1 death, got %d", player.Deaths)
	}
}

func TestPlayerHeal(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.HP = 50

	player.Heal(30)

	if player.HP != 80 {
		t.Errorf("Expected HP 80, got %d", player.HP)
	}
}

func TestPlayerHealCap(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.HP = 90

	player.Heal(50)

	if player.HP > player.MaxHP {
		t.Errorf("HP should not exceed MaxHP, got %d", player.HP)
	}
}

func TestPlayerRespawn(t *testing.T) {
	rng := testRNG()
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, rng)
	player.SpawnProtection = false
	player.HP = 1
	player.TakeDamage(10, nil)

	if !player.IsDead {
		t.Fatal("Player should be dead")
	}

	player.Respawn(rng)

	if player.IsDead {
		t.Error("Player should not be dead after respawn")
	}
	if player.IsRagdoll {
		t.Error("Player should not be ragdoll after respawn")
	}
	if player.HP != player.MaxHP {
		t.Error("Player should have full HP after respawn")
	}
	if !player.SpawnProtection {
		t.Error("Player should have spawn protection after respawn")
	}
}

func TestPlayerToJSON(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.Kills = 5
	player.Deaths = 2
	player.Money = 150

	data := player.ToJSON()

	if data["name"] != "TestPlayer" {
		t.Error("JSON should contain correct name")
	}
	if data["kills"] != 5 {
		t.Error("JSON should contain correct kills")
	}
	if data["deaths"] != 2 {
		t.Error("JSON should contain correct deaths")
	}
	if data["money"] != 150 {
		t.Error("JSON should contain correct money")
	}
}

func TestPlayerUpdateRagdoll(t *testing.T) {
	player := NewPlayer(1, "TestPlayer", PlayerOptions{}, testRNG())
	player.SpawnProtection = false
	player.HP = 1
	player.TakeDamage(10, nil)

	if !player.IsRagdoll {
		t.Fatal("Player should be ragdoll")
	}

	player.VX = 5
	initialRotation := player.RagdollRotation

	player.UpdateRagdoll()

	if player.VX >= 5 {
		t.Error("Ragdoll velocity should decay")
	}
	if player.RagdollRotation == initialRotation {
		t.Error("Ragdoll rotation should advance")
	}
}
