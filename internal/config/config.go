// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all match and lobby settings.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// MATCH CONFIGURATION
// =============================================================================

// MatchConfig holds the tunables that shape a single match instance: tick
// rate, arena dimensions, and the pacing knobs the rule system consults.
type MatchConfig struct {
	TickRate         int // Simulation ticks per second
	BroadcastDivisor int // Snapshot cadence (1 = every tick); not read by the gateway, which emits every 2nd tick
	WorldWidth       int
	WorldHeight      int
	MaxPlayers       int // Sizes a match's physics and spatial-grid capacity; joins are capped by ResourceLimits.MaxPlayers
	RespawnDelay     int // Ticks a dead player waits before respawn
	ReloadBaseTicks  int // Fallback reload duration when a weapon doesn't set one
}

// DefaultMatch returns the default match configuration.
func DefaultMatch() MatchConfig {
	return MatchConfig{
		TickRate:         60,
		BroadcastDivisor: 1,
		WorldWidth:       2400,
		WorldHeight:      1600,
		MaxPlayers:       16,
		RespawnDelay:     180, // 3s at 60Hz
		ReloadBaseTicks:  90,
	}
}

// MatchFromEnv returns match configuration with environment variable overrides.
func MatchFromEnv() MatchConfig {
	cfg := DefaultMatch()

	if v := getEnvInt("TICK_RATE", 0); v > 0 {
		cfg.TickRate = v
	}
	if v := getEnvInt("BROADCAST_DIVISOR", 0); v > 0 {
		cfg.BroadcastDivisor = v
	}
	if v := getEnvInt("WORLD_WIDTH", 0); v > 0 {
		cfg.WorldWidth = v
	}
	if v := getEnvInt("WORLD_HEIGHT", 0); v > 0 {
		cfg.WorldHeight = v
	}
	if v := getEnvInt("MAX_PLAYERS_PER_MATCH", 0); v > 0 {
		cfg.MaxPlayers = v
	}
	if v := getEnvInt("RESPAWN_DELAY", -1); v >= 0 {
		cfg.RespawnDelay = v
	}
	if v := getEnvInt("RELOAD_BASE_TICKS", 0); v > 0 {
		cfg.ReloadBaseTicks = v
	}

	return cfg
}

// =============================================================================
// LOBBY CONFIGURATION
// =============================================================================

// LobbyConfig holds the settings for the supervisory multi-match registry.
type LobbyConfig struct {
	MaxGlobalPlayers  int // Hard cap across every match in the process
	CullInterval      int // Seconds between sweeps for empty/expired matches
	MatchIdleTimeout  int // Seconds an empty match is kept alive before culling
}

// DefaultLobby returns the default lobby configuration.
func DefaultLobby() LobbyConfig {
	return LobbyConfig{
		MaxGlobalPlayers: 1000,
		CullInterval:     30,
		MatchIdleTimeout: 60,
	}
}

// LobbyFromEnv returns lobby configuration with environment variable overrides.
func LobbyFromEnv() LobbyConfig {
	cfg := DefaultLobby()

	if v := getEnvInt("MAX_GLOBAL_PLAYERS", 0); v > 0 {
		cfg.MaxGlobalPlayers = v
	}
	if v := getEnvInt("MATCH_CULL_INTERVAL", 0); v > 0 {
		cfg.CullInterval = v
	}
	if v := getEnvInt("MATCH_IDLE_TIMEOUT", 0); v > 0 {
		cfg.MatchIdleTimeout = v
	}

	return cfg
}

// =============================================================================
// RESOURCE LIMITS
// =============================================================================

// ResourceLimits controls DoS protection and per-match performance limits.
// This is the canonical definition; nothing else in the module redefines it.
type ResourceLimits struct {
	MaxPlayers      int // Hard cap on players per match (checked on join) and per snapshot
	MaxParticles    int // Per-tick particle limit
	MaxEffects      int // Per-tick attack-effect limit
	MaxTexts        int // Per-tick floating text limit
	MaxTrails       int // Per-tick weapon trail limit
	MaxFlashes      int // Per-tick impact flash limit
	MaxProjectiles  int // Maximum active projectiles
	MaxFieldEffects int // Maximum active field effects
	MaxBeams        int // Maximum active beams
	MaxUtilities    int // Maximum active utility entities
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{
		MaxPlayers:      16,
		MaxParticles:    200,
		MaxEffects:      20,
		MaxTexts:        30,
		MaxTrails:       20,
		MaxFlashes:      10,
		MaxProjectiles:  64,
		MaxFieldEffects: 32,
		MaxBeams:        16,
		MaxUtilities:    24,
	}
}

// =============================================================================
// SPATIAL CONFIGURATION
// =============================================================================

// SpatialConfig holds spatial indexing settings.
type SpatialConfig struct {
	GridCellSize      int // Spatial grid cell size for collision detection
	FlowFieldCellSize int // Flow field cell size for AI pathfinding
}

// DefaultSpatial returns the default spatial configuration.
func DefaultSpatial() SpatialConfig {
	return SpatialConfig{
		GridCellSize:      100,
		FlowFieldCellSize: 50,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{Port: 3000}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()
	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Match   MatchConfig
	Lobby   LobbyConfig
	Server  ServerConfig
	Limits  ResourceLimits
	Spatial SpatialConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Match:   MatchFromEnv(),
		Lobby:   LobbyFromEnv(),
		Server:  ServerFromEnv(),
		Limits:  DefaultLimits(),
		Spatial: DefaultSpatial(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
