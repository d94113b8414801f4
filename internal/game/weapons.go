package game

// OrdinanceKind distinguishes what a ranged weapon actually launches.
// Melee weapons don't use this — they resolve instantly via Hitbox.
type OrdinanceKind int

const (
	OrdinanceNone OrdinanceKind = iota
	OrdinanceBullet
	OrdinanceRocket
	OrdinanceGrenade
	OrdinancePlasma
	OrdinanceLaser
	OrdinanceCannonball
	OrdinanceDart
	OrdinanceFlamethrower
	OrdinanceNet
	OrdinanceMine
)

// BulletEffectFlags is a bitmask of terminal/in-flight behaviors a piece of
// ordinance carries, composable per weapon (e.g. a fragmenting, incendiary
// rocket).
type BulletEffectFlags uint16

const (
	EffectPiercing BulletEffectFlags = 1 << iota
	EffectHoming
	EffectElectric
	EffectIncendiary
	EffectFreezing
	EffectExplosive
	EffectFragmenting
)

func (f BulletEffectFlags) Has(flag BulletEffectFlags) bool {
	return f&flag != 0
}

// Weapon represents a weapon configuration: balance stats plus, for ranged
// weapons, the ordinance it fires. Melee weapons (Ordinance == OrdinanceNone)
// resolve via Hitbox instead of spawning a Projectile.
type Weapon struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	MinDamage int     `json:"minDamage"`
	MaxDamage int     `json:"maxDamage"`
	Range     float64 `json:"range"`
	Cooldown  float64 `json:"cooldown"` // seconds between firing attempts
	Price     int     `json:"price"`
	Color     string  `json:"color"`
	Emoji     string  `json:"emoji"`

	// Ranged/ordinance fields. Zero values are harmless for melee weapons.
	Ordinance      OrdinanceKind     `json:"ordinance"`
	Effects        BulletEffectFlags `json:"effects"`
	Accuracy       float64           `json:"accuracy"`     // 0..1, 1 = perfect
	MagazineSize   int               `json:"magazineSize"` // 0 = unlimited (melee)
	ReloadTicks    int               `json:"reloadTicks"`
	ProjectileSpeed float64          `json:"projectileSpeed"` // px/sec
	BurstCount     int               `json:"burstCount"`      // shots per firing attempt, 1 = single
	BurstSpreadRad float64           `json:"burstSpreadRad"`  // angular spread across a burst
	PierceCount    int               `json:"pierceCount"`     // extra targets pierced, if EffectPiercing
}

// Weapons is the map of all available weapons.
// NOTE: melee Range must be > 60 (two player radii = 30 + 30) to hit.
var Weapons = map[string]Weapon{
	"fists": {
		ID: "fists", Name: "Fists", MinDamage: 8, MaxDamage: 15,
		Range: 80, Cooldown: 0.4, Price: 0, Color: "#ffeb3b", Emoji: "fist",
	},
	"knife": {
		ID: "knife", Name: "Knife", MinDamage: 12, MaxDamage: 22,
		Range: 90, Cooldown: 0.35, Price: 50, Color: "#9e9e9e", Emoji: "knife",
	},
	"sword": {
		ID: "sword", Name: "Sword", MinDamage: 18, MaxDamage: 35,
		Range: 100, Cooldown: 0.5, Price: 100, Color: "#2196f3", Emoji: "sword",
	},
	"spear": {
		ID: "spear", Name: "Spear", MinDamage: 15, MaxDamage: 30,
		Range: 150, Cooldown: 0.6, Price: 200, Color: "#607d8b", Emoji: "trident",
	},
	"axe": {
		ID: "axe", Name: "Battle Axe", MinDamage: 30, MaxDamage: 50,
		Range: 95, Cooldown: 0.8, Price: 300, Color: "#795548", Emoji: "axe",
	},
	"scythe": {
		ID: "scythe", Name: "Scythe", MinDamage: 40, MaxDamage: 65,
		Range: 140, Cooldown: 0.7, Price: 500, Color: "#9c27b0", Emoji: "moon",
	},
	"katana": {
		ID: "katana", Name: "Katana", MinDamage: 25, MaxDamage: 40,
		Range: 120, Cooldown: 0.45, Price: 350, Color: "#e91e63", Emoji: "dagger",
	},
	"hammer": {
		ID: "hammer", Name: "War Hammer", MinDamage: 45, MaxDamage: 75,
		Range: 90, Cooldown: 1.2, Price: 600, Color: "#ff5722", Emoji: "hammer",
	},

	"bow": {
		ID: "bow", Name: "Bow", MinDamage: 20, MaxDamage: 40,
		Range: 600, Cooldown: 1.0, Price: 400, Color: "#8bc34a", Emoji: "bow",
		Ordinance: OrdinanceDart, Accuracy: 0.95, MagazineSize: 1, ReloadTicks: 50,
		ProjectileSpeed: 900,
	},
	"rifle": {
		ID: "rifle", Name: "Assault Rifle", MinDamage: 6, MaxDamage: 12,
		Range: 900, Cooldown: 0.1, Price: 450, Color: "#455a64", Emoji: "gun",
		Ordinance: OrdinanceBullet, Accuracy: 0.85, MagazineSize: 30, ReloadTicks: 120,
		ProjectileSpeed: 1400,
	},
	"shotgun": {
		ID: "shotgun", Name: "Shotgun", MinDamage: 5, MaxDamage: 9,
		Range: 350, Cooldown: 0.8, Price: 400, Color: "#3e2723", Emoji: "gun",
		Ordinance: OrdinanceBullet, Accuracy: 0.7, MagazineSize: 6, ReloadTicks: 150,
		ProjectileSpeed: 1100, BurstCount: 8, BurstSpreadRad: 0.35,
	},
	"rocket": {
		ID: "rocket", Name: "Rocket Launcher", MinDamage: 60, MaxDamage: 90,
		Range: 1000, Cooldown: 1.8, Price: 900, Color: "#d32f2f", Emoji: "rocket",
		Ordinance: OrdinanceRocket, Accuracy: 0.97, MagazineSize: 1, ReloadTicks: 180,
		ProjectileSpeed: 650, Effects: EffectExplosive,
	},
	"grenade": {
		ID: "grenade", Name: "Grenade Launcher", MinDamage: 45, MaxDamage: 70,
		Range: 700, Cooldown: 1.5, Price: 700, Color: "#558b2f", Emoji: "bomb",
		Ordinance: OrdinanceGrenade, Accuracy: 0.9, MagazineSize: 4, ReloadTicks: 140,
		ProjectileSpeed: 500, Effects: EffectExplosive | EffectFragmenting,
	},
	"plasma": {
		ID: "plasma", Name: "Plasma Rifle", MinDamage: 18, MaxDamage: 28,
		Range: 800, Cooldown: 0.3, Price: 650, Color: "#00e5ff", Emoji: "sparkle",
		Ordinance: OrdinancePlasma, Accuracy: 0.9, MagazineSize: 20, ReloadTicks: 110,
		ProjectileSpeed: 1000, Effects: EffectElectric | EffectHoming,
	},
	"laser": {
		ID: "laser", Name: "Laser Rifle", MinDamage: 10, MaxDamage: 15,
		Range: 1100, Cooldown: 0.15, Price: 800, Color: "#ff1744", Emoji: "zap",
		Ordinance: OrdinanceLaser, Accuracy: 1.0, MagazineSize: 40, ReloadTicks: 100,
		ProjectileSpeed: 3000, Effects: EffectPiercing, PierceCount: 3,
	},
	"cannon": {
		ID: "cannon", Name: "Cannon", MinDamage: 70, MaxDamage: 100,
		Range: 900, Cooldown: 2.2, Price: 950, Color: "#212121", Emoji: "boom",
		Ordinance: OrdinanceCannonball, Accuracy: 0.92, MagazineSize: 1, ReloadTicks: 200,
		ProjectileSpeed: 700, Effects: EffectExplosive,
	},
	"flamethrower": {
		ID: "flamethrower", Name: "Flamethrower", MinDamage: 4, MaxDamage: 7,
		Range: 260, Cooldown: 0.05, Price: 550, Color: "#ff6f00", Emoji: "fire",
		Ordinance: OrdinanceFlamethrower, Accuracy: 0.75, MagazineSize: 100, ReloadTicks: 160,
		ProjectileSpeed: 500, Effects: EffectIncendiary,
	},
	"net-gun": {
		ID: "net-gun", Name: "Net Launcher", MinDamage: 1, MaxDamage: 1,
		Range: 500, Cooldown: 2.0, Price: 300, Color: "#8d6e63", Emoji: "spiderweb",
		Ordinance: OrdinanceNet, Accuracy: 0.85, MagazineSize: 2, ReloadTicks: 160,
		ProjectileSpeed: 700,
	},
	"mine-layer": {
		ID: "mine-layer", Name: "Mine Layer", MinDamage: 50, MaxDamage: 80,
		Range: 80, Cooldown: 1.0, Price: 500, Color: "#6d4c41", Emoji: "warning",
		Ordinance: OrdinanceMine, Accuracy: 1.0, MagazineSize: 3, ReloadTicks: 180,
		ProjectileSpeed: 0, Effects: EffectExplosive,
	},
}

// GetWeapon returns a weapon by ID, defaults to fists.
func GetWeapon(id string) Weapon {
	if w, ok := Weapons[id]; ok {
		return w
	}
	return Weapons["fists"]
}

// GetAllWeapons returns all weapons as a slice.
func GetAllWeapons() []Weapon {
	weapons := make([]Weapon, 0, len(Weapons))
	for _, w := range Weapons {
		weapons = append(weapons, w)
	}
	return weapons
}

// IsMelee reports whether a weapon resolves via Hitbox rather than Ordinance.
func (w Weapon) IsMelee() bool {
	return w.Ordinance == OrdinanceNone
}
