package entity

import "github.com/leighmacdonald/tf2stats/internal/sendprops"

// building holds the fields shared by Sentry, Dispenser, and Teleporter.
// Each kind embeds it and adds its own Kind()/handle.
type building struct {
	handle        Handle
	Pos           Vec3
	Builder       Handle
	BuilderEntID  int
	UpgradeLevel  int
	MaxHealth     int
	IsMini        bool
}

// buildingPatch is "all fields optional", shared across the
// three building kinds.
type buildingPatch struct {
	Origin       *Vec3
	Builder      *Handle
	UpgradeLevel *int
	MaxHealth    *int
}

func decodeBuildingPatch(props Props) buildingPatch {
	var patch buildingPatch
	if v, ok := props.Vec3(sendprops.Origin); ok {
		patch.Origin = &v
	}
	if h, ok := props.Handle(sendprops.ObjectBuilder); ok {
		patch.Builder = &h
	}
	if v, ok := props.Int(sendprops.ObjectUpgradeLevel); ok {
		patch.UpgradeLevel = &v
	}
	if v, ok := props.Int(sendprops.ObjectMaxHealth); ok {
		patch.MaxHealth = &v
	}
	return patch
}

// miniSentryMaxHealth identifies a mini-sentry.
const miniSentryMaxHealth = 100

func (b *building) apply(patch buildingPatch) {
	if patch.Origin != nil {
		b.Pos = *patch.Origin
	}
	if patch.Builder != nil {
		b.Builder = *patch.Builder
	}
	if patch.UpgradeLevel != nil {
		b.UpgradeLevel = *patch.UpgradeLevel
	}
	if patch.MaxHealth != nil {
		b.MaxHealth = *patch.MaxHealth
		b.IsMini = b.MaxHealth == miniSentryMaxHealth
	}
}

// buildingShape is the 49x49x83 cuboid shared by all three building kinds.
func buildingShape() Shape {
	return Shape{HalfX: 24.5, HalfY: 24.5, HalfZ: 41.5}
}
