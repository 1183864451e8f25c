package entity

import "github.com/leighmacdonald/tf2stats/internal/sendprops"

// Props is a decoded send-prop batch for one entity in one packet-entities
// message, keyed by the stable identifiers from internal/sendprops. Decode
// functions only read the keys they recognize; absent keys mean "not present
// in this batch".
type Props map[sendprops.ID]any

// Int returns the integer value of id, or (0, false) if absent or not an int.
func (p Props) Int(id sendprops.ID) (int, bool) {
	v, ok := p[id]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// Float returns the float64 value of id, or (0, false) if absent.
func (p Props) Float(id sendprops.ID) (float64, bool) {
	v, ok := p[id]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Bool returns the boolean value of id, or (false, false) if absent.
func (p Props) Bool(id sendprops.ID) (bool, bool) {
	v, ok := p[id]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Handle returns the handle value of id, or (InvalidHandle, false) if absent.
func (p Props) Handle(id sendprops.ID) (Handle, bool) {
	v, ok := p[id]
	if !ok {
		return InvalidHandle, false
	}
	switch n := v.(type) {
	case Handle:
		return n, true
	case int:
		return Handle(n), true
	case uint32:
		return Handle(n), true
	}
	return InvalidHandle, false
}

// Vec3 returns the Vec3 value of id, or (Vec3{}, false) if absent.
func (p Props) Vec3(id sendprops.ID) (Vec3, bool) {
	v, ok := p[id]
	if !ok {
		return Vec3{}, false
	}
	vec, ok := v.(Vec3)
	return vec, ok
}

// String returns the string value of id, or ("", false) if absent.
func (p Props) String(id sendprops.ID) (string, bool) {
	v, ok := p[id]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Uint32 returns the uint32 value of id, or (0, false) if absent. Used for
// the condition bitset's four 32-bit slices.
func (p Props) Uint32(id sendprops.ID) (uint32, bool) {
	v, ok := p[id]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint32:
		return n, true
	case int:
		return uint32(n), true
	}
	return 0, false
}
