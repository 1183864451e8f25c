package entity

import (
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/sendprops"
)

func TestPlayerPatchMergesOriginCoordinatewise(t *testing.T) {
	p := DecodePlayerInitial(1, Props{
		sendprops.OriginXY: Vec3{X: 10, Y: 20},
		sendprops.OriginZ:  64.0,
	})
	if p.Pos != (Vec3{X: 10, Y: 20, Z: 64}) {
		t.Fatalf("initial origin = %+v", p.Pos)
	}

	// Only XY arrives this frame; Z must be retained.
	p.Apply(DecodePlayerPatch(Props{sendprops.OriginXY: Vec3{X: 11, Y: 22}}))
	if p.Pos != (Vec3{X: 11, Y: 22, Z: 64}) {
		t.Fatalf("after XY-only patch, origin = %+v", p.Pos)
	}

	// Only Z arrives; XY retained.
	p.Apply(DecodePlayerPatch(Props{sendprops.OriginZ: 70.0}))
	if p.Pos != (Vec3{X: 11, Y: 22, Z: 70}) {
		t.Fatalf("after Z-only patch, origin = %+v", p.Pos)
	}
}

func TestPlayerConditionBitsetMergePerWord(t *testing.T) {
	p := DecodePlayerInitial(1, Props{sendprops.PlayerCond: uint32(0b101)})
	if !p.Conditions.Has(0) || !p.Conditions.Has(2) || p.Conditions.Has(1) {
		t.Fatalf("conditions after word 0 = %032b", p.Conditions[0])
	}

	p.Apply(DecodePlayerPatch(Props{sendprops.PlayerCondEx: uint32(1 << 5)}))
	if !p.Conditions.Has(32 + 5) {
		t.Fatalf("bit 37 (word 1 bit 5) not set: %+v", p.Conditions)
	}
	if !p.Conditions.Has(0) {
		t.Fatalf("word 0 lost on word-1-only patch")
	}
}

func TestPlayerLastActiveWeaponStickyAcrossSentinel(t *testing.T) {
	p := DecodePlayerInitial(1, Props{sendprops.ActiveWeapon: Handle(42)})
	if p.LastActive != 42 {
		t.Fatalf("LastActive = %v, want 42", p.LastActive)
	}

	p.Apply(DecodePlayerPatch(Props{sendprops.ActiveWeapon: InvalidHandle}))
	if p.ActiveWeapon != InvalidHandle {
		t.Fatalf("ActiveWeapon = %v, want InvalidHandle", p.ActiveWeapon)
	}
	if p.LastActive != 42 {
		t.Fatalf("LastActive should be retained across sentinel, got %v", p.LastActive)
	}
}

func TestPlayerStartedFlyingOnAirborneTransition(t *testing.T) {
	p := DecodePlayerInitial(1, Props{sendprops.PlayerFlags: 1}) // on ground
	if p.StartedFlying != 0 {
		t.Fatalf("StartedFlying should start at 0")
	}

	p.ApplyAt(DecodePlayerPatch(Props{sendprops.PlayerFlags: 0}), 500)
	if p.StartedFlying != 500 {
		t.Fatalf("StartedFlying = %d, want 500", p.StartedFlying)
	}
	if p.FlyingTicks(516) != 16 {
		t.Fatalf("FlyingTicks(516) = %d, want 16", p.FlyingTicks(516))
	}
}
