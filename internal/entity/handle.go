package entity

// Handle is the 32-bit cross-reference id carried on the wire, distinct from
// the entity slot index. It carries serial bits
// the upstream protocol uses to disambiguate re-used slots; this package
// treats it as an opaque comparable value.
type Handle uint32

// InvalidHandle is the sentinel "no entity" value. A player's
// last-active-weapon handle is guaranteed to never take this value once it
// has observed a real one.
const InvalidHandle Handle = 0xFFFFFFFF

// Vec3 is a 3D point or vector in world units.
type Vec3 struct {
	X, Y, Z float64
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}
