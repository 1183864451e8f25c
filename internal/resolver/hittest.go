package resolver

import "github.com/leighmacdonald/tf2stats/internal/entity"

// playerHalfExtents is the 49x49x83 player hitbox names for the
// non-blast hit test.
var playerHalfExtents = entity.Vec3{X: 24.5, Y: 24.5, Z: 41.5}

// sweptBoxHalfExtents gives the kind-specific AABB half-size used for the
// three sample points along a projectile's swept path.
func sweptBoxHalfExtents(kind entity.ProjectileKind) entity.Vec3 {
	switch kind {
	case entity.ProjectileShortCircuitOrb, entity.ProjectileEnergyRing:
		return entity.Vec3{X: 50, Y: 50, Z: 50}
	default:
		return entity.Vec3{X: 1, Y: 1, Z: 1} // arrows and everything else default to 2x2x2
	}
}

func aabbAt(center, half entity.Vec3) (min, max entity.Vec3) {
	return entity.Vec3{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		entity.Vec3{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z + half.Z}
}

func overlaps(aMin, aMax, bMin, bMax entity.Vec3) bool {
	return aMin.X <= bMax.X && aMax.X >= bMin.X &&
		aMin.Y <= bMax.Y && aMax.Y >= bMin.Y &&
		aMin.Z <= bMax.Z && aMax.Z >= bMin.Z
}

// HitsPlayer approximates a continuously-hurting projectile's swept volume
// between its previous origin and origin+velocity with three sample AABBs
// (at origin, midpoint, and the endpoint) and checks overlap against the
// victim's player-sized AABB.
func HitsPlayer(proj entity.Projectile, victimOrigin entity.Vec3) bool {
	half := sweptBoxHalfExtents(proj.KindTag)
	victimMin, victimMax := aabbAt(victimOrigin, playerHalfExtents)

	endpoint := proj.Pos.Add(proj.Velocity)
	midpoint := proj.Pos.Add(proj.Velocity.Scale(0.5))
	for _, sample := range [3]entity.Vec3{proj.Pos, midpoint, endpoint} {
		sampleMin, sampleMax := aabbAt(sample, half)
		if overlaps(sampleMin, sampleMax, victimMin, victimMax) {
			return true
		}
	}
	return false
}
