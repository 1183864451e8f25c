package entity

import (
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/sendprops"
)

func TestWeaponMedigunChargeRetainedAcrossDeathZeroing(t *testing.T) {
	w := DecodeWeaponInitial(1, "DT_WeaponMedigun", Props{
		sendprops.MedigunChargeLevel: 0.97,
		sendprops.ResetParity:        0,
	})
	if w.LastHighCharge != 0.97 {
		t.Fatalf("LastHighCharge = %v, want 0.97", w.LastHighCharge)
	}

	// Death zeroes the charge but reset-parity is unchanged this tick.
	w.Apply(WeaponPatch{ChargeLevel: floatPtr(0)})
	if w.ChargeLevel != 0 {
		t.Fatalf("ChargeLevel = %v, want 0", w.ChargeLevel)
	}
	if w.LastHighCharge != 0.97 {
		t.Fatalf("LastHighCharge should be retained, got %v", w.LastHighCharge)
	}
}

func TestWeaponMedigunLastHighChargeClearedOnResetParity(t *testing.T) {
	w := DecodeWeaponInitial(1, "DT_WeaponMedigun", Props{sendprops.MedigunChargeLevel: 1.0})
	rp := 1
	w.Apply(WeaponPatch{ResetParity: &rp, ChargeLevel: floatPtr(0)})
	if w.LastHighCharge != 0 {
		t.Fatalf("LastHighCharge should clear on reset-parity change, got %v", w.LastHighCharge)
	}
}

func TestWeaponChargeReleaseTransitionReportsChargedNow(t *testing.T) {
	w := DecodeWeaponInitial(1, "DT_WeaponMedigun", Props{})
	if charged := w.Apply(WeaponPatch{ChargeRelease: boolPtr(true)}); !charged {
		t.Fatalf("expected false->true transition to report chargedNow")
	}
	if charged := w.Apply(WeaponPatch{ChargeRelease: boolPtr(true)}); charged {
		t.Fatalf("true->true should not report chargedNow again")
	}
}

func floatPtr(f float64) *float64 { return &f }
func boolPtr(b bool) *bool        { return &b }
