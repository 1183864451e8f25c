package entity

import "github.com/leighmacdonald/tf2stats/internal/sendprops"

// Weapon is the entity kind for a carried weapon, including medi-guns.
type Weapon struct {
	handle Handle

	ClassName     string
	ItemDefIndex  int
	ModelIndex    int
	Owner_        Handle
	ChargeLevel   float64
	ChargeRelease bool
	ResetParity   int
	// LastHighCharge retains the charge value across the one-tick zeroing
	// that accompanies a medic's death. Cleared only when ResetParity changes.
	LastHighCharge float64
}

// WeaponPatch is "all fields optional".
type WeaponPatch struct {
	ModelIndex    *int
	Owner         *Handle
	ItemDefIndex  *int
	ChargeLevel   *float64
	ChargeRelease *bool
	ResetParity   *int
}

func (w *Weapon) Kind() Kind     { return KindWeapon }
func (w *Weapon) Handle() Handle { return w.handle }
func (w *Weapon) Origin() Vec3   { return Vec3{} }
func (w *Weapon) HasShape() bool { return false }
func (w *Weapon) Shape() Shape   { return Shape{} }
func (w *Weapon) Owner() Handle  { return w.Owner_ }

// DecodeWeaponInitial constructs a Weapon's initial state. className is the concrete server-class
// name (used for kind-specific attribution, e.g. IsMedigun's class-name
// check).
func DecodeWeaponInitial(selfHandle Handle, className string, props Props) *Weapon {
	w := &Weapon{handle: selfHandle, ClassName: className, Owner_: InvalidHandle}
	patch := DecodeWeaponPatch(props)
	w.Apply(patch)
	return w
}

// DecodeWeaponPatch is a pure function of props.
func DecodeWeaponPatch(props Props) WeaponPatch {
	var patch WeaponPatch
	if v, ok := props.Int(sendprops.ModelIndex); ok {
		patch.ModelIndex = &v
	}
	if h, ok := props.Handle(sendprops.WeaponOwner); ok {
		patch.Owner = &h
	}
	if v, ok := props.Int(sendprops.ItemDefIndex); ok {
		patch.ItemDefIndex = &v
	}
	if v, ok := props.Float(sendprops.MedigunChargeLevel); ok {
		patch.ChargeLevel = &v
	}
	if v, ok := props.Bool(sendprops.MedigunChargeRelease); ok {
		patch.ChargeRelease = &v
	}
	if v, ok := props.Int(sendprops.ResetParity); ok {
		patch.ResetParity = &v
	}
	return patch
}

// Apply mutates w weapon patch semantics: a charge drop
// to zero with unchanged reset-parity retains LastHighCharge (it's the
// one-tick zeroing on death); a present reset-parity change clears it. A
// false→true transition of ChargeRelease is reported via chargedNow so the
// caller can enqueue a MedigunCharged event — Apply itself never touches the
// event queue.
func (w *Weapon) Apply(patch WeaponPatch) (chargedNow bool) {
	if patch.ModelIndex != nil {
		w.ModelIndex = *patch.ModelIndex
	}
	if patch.Owner != nil {
		w.Owner_ = *patch.Owner
	}
	if patch.ItemDefIndex != nil {
		w.ItemDefIndex = *patch.ItemDefIndex
	}

	resetParityChanged := patch.ResetParity != nil && *patch.ResetParity != w.ResetParity
	if patch.ResetParity != nil {
		w.ResetParity = *patch.ResetParity
	}
	if resetParityChanged {
		w.LastHighCharge = 0
	}

	wasReleased := w.ChargeRelease
	if patch.ChargeLevel != nil {
		// A drop to zero never lowers LastHighCharge: that retains it across
		// the death zeroing.
		if *patch.ChargeLevel > w.LastHighCharge {
			w.LastHighCharge = *patch.ChargeLevel
		}
		w.ChargeLevel = *patch.ChargeLevel
	}
	if patch.ChargeRelease != nil {
		w.ChargeRelease = *patch.ChargeRelease
	}

	return !wasReleased && w.ChargeRelease
}

// IsMedigun reports whether w is a medi-gun: its class name is
// "DT_WeaponMedigun", or it has seen a non-zero charge level or a set
// charge-release flag (a non-medigun weapon never carries those props). A
// medigun whose class name differs and whose charge is still zero is not
// recognized.
func (w *Weapon) IsMedigun() bool {
	return w.ClassName == "DT_WeaponMedigun" || w.ChargeLevel != 0 || w.ChargeRelease
}
