package game

import "math"

// ordinanceBlastRadius returns the AoE radius a given ordinance spawns on
// terminal contact, for kinds carrying EffectExplosive/EffectFragmenting.
func ordinanceBlastRadius(kind OrdinanceKind) float64 {
	switch kind {
	case OrdinanceRocket:
		return 90
	case OrdinanceGrenade:
		return 110
	case OrdinanceCannonball:
		return 130
	case OrdinanceMine:
		return 100
	default:
		return 0
	}
}

// ExplosionDamageFalloff returns the fraction of full damage dealt at
// distance d from an explosion of the given radius: full damage at the
// center, linearly down to zero at the edge.
func ExplosionDamageFalloff(d, radius float64) float64 {
	if radius <= 0 {
		return 0
	}
	if d >= radius {
		return 0
	}
	frac := 1 - d/radius
	if frac < 0 {
		return 0
	}
	return frac
}

// ordinanceFieldEffectKind maps an ordinance's explosive/incendiary/
// fragmenting terminal behavior to the FieldEffect it spawns, or -1 if the
// ordinance has no terminal field-effect contract.
func ordinanceFieldEffectKind(kind OrdinanceKind, effects BulletEffectFlags) (FieldEffectKind, bool) {
	switch {
	case effects.Has(EffectFragmenting):
		return FieldFragmentation, true
	case effects.Has(EffectExplosive):
		return FieldExplosion, true
	case effects.Has(EffectIncendiary):
		return FieldFire, true
	case kind == OrdinanceFlamethrower:
		return FieldFire, true
	case kind == OrdinanceNet:
		return FieldSlow, true
	default:
		return 0, false
	}
}

// fragmentCount is how many sub-projectiles a fragmenting ordinance spawns
// on terminal contact.
const fragmentCount = 5

// fragmentDirections returns unit vectors spread evenly around a full
// circle, used to spawn sub-projectiles from a fragmenting hit.
func fragmentDirections() [fragmentCount][2]float64 {
	var out [fragmentCount][2]float64
	for i := 0; i < fragmentCount; i++ {
		angle := float64(i) / float64(fragmentCount) * 2 * math.Pi
		out[i] = [2]float64{math.Cos(angle), math.Sin(angle)}
	}
	return out
}
