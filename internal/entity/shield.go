package entity

import "github.com/leighmacdonald/tf2stats/internal/sendprops"

// Shield is the entity kind for a Demoman charge shield, attributed on
// "charge impact" deaths.
type Shield struct {
	handle       Handle
	ClassName    string
	Owner_       Handle
	ItemDefIndex int
}

// ShieldPatch is "all fields optional".
type ShieldPatch struct {
	Owner        *Handle
	ItemDefIndex *int
}

func (s *Shield) Kind() Kind     { return KindShield }
func (s *Shield) Handle() Handle { return s.handle }
func (s *Shield) Origin() Vec3   { return Vec3{} }
func (s *Shield) HasShape() bool { return false }
func (s *Shield) Shape() Shape   { return Shape{} }
func (s *Shield) Owner() Handle  { return s.Owner_ }

// DecodeShieldInitial constructs a Shield's initial state.
func DecodeShieldInitial(selfHandle Handle, className string, props Props) *Shield {
	s := &Shield{handle: selfHandle, ClassName: className, Owner_: InvalidHandle}
	s.Apply(DecodeShieldPatch(props))
	return s
}

// DecodeShieldPatch is a pure function of props.
func DecodeShieldPatch(props Props) ShieldPatch {
	var patch ShieldPatch
	if h, ok := props.Handle(sendprops.WeaponOwner); ok {
		patch.Owner = &h
	}
	if v, ok := props.Int(sendprops.ItemDefIndex); ok {
		patch.ItemDefIndex = &v
	}
	return patch
}

// Apply mutates s in place from patch.
func (s *Shield) Apply(patch ShieldPatch) {
	if patch.Owner != nil {
		s.Owner_ = *patch.Owner
	}
	if patch.ItemDefIndex != nil {
		s.ItemDefIndex = *patch.ItemDefIndex
	}
}
