package resolver

import (
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/schema"
)

// SentryShot is the tick-local record produced when a temp-entity effect
// dispatch resolves to a sentry's muzzle flash.
// Consumed and popped by precedence step 1 below.
type SentryShot struct {
	SentryOwnerEntityID int
	IsMini              bool
	Level               int
}

// Input bundles everything precedence steps 1-9 need to resolve one hurt or
// death event. Explosions is the current tick's whole buffer
// (internal/tick owns the buffer's tick-scoping; this package only reads
// it); selectExplosion does the attacker and victim filtering.
type Input struct {
	DamageType   DamageType
	DamageBits   DamageBits
	Attacker     *entity.Player
	AttackerEID  int // attacker's entity-id, for sentry-shot owner matching
	Victim       *entity.Player
	World        *entity.World
	Schema       *schema.Registry
	Explosions   []entity.Explosion
	SentryShots  *[]SentryShot
	Airblasted   bool // attacker fired an airblast this tick
}

// Result is what Resolve returns: the canonical weapon log-name plus whether
// the attributed cause was a reflected ("deflected") projectile.
// internal/analyzer reads only WeaponName.
type Result struct {
	WeaponName string
	Reflected  bool
}

// unknownWeapon is used on a schema gap.
const unknownWeapon = "UNKNOWN"

// Resolve picks the canonical weapon log-name for a hurt/death event,
// numbered precedence exactly. It consumes but
// never mutates the explosion buffer (the SentryShots slice is the one
// exception: a matched entry is popped, "Pop the matching
// SentryShot").
func Resolve(in Input) Result {
	// 1. Sentry shot.
	if in.SentryShots != nil && in.DamageType == Normal && attackerClass(in) == entity.ClassEngineer {
		for i, ss := range *in.SentryShots {
			if ss.SentryOwnerEntityID == in.AttackerEID {
				*in.SentryShots = append((*in.SentryShots)[:i], (*in.SentryShots)[i+1:]...)
				return Result{WeaponName: sentryLogName(ss.IsMini, ss.Level)}
			}
		}
	}

	// 2. Taunt kills.
	if name, ok := tauntLogNames[in.DamageType]; ok {
		return Result{WeaponName: name}
	}

	// 3. Flamethrower/burn chains.
	switch in.DamageType {
	case Burning:
		return Result{WeaponName: slotLogName(in, 0, "flamethrower")}
	case BurningArrow:
		return Result{WeaponName: slotLogName(in, 0, "compound_bow")}
	case BurningFlare:
		return Result{WeaponName: slotLogName(in, 1, "flaregun")}
	case DragonsFuryBonusBurning:
		return Result{WeaponName: "dragons_fury_bonus"}
	}

	// 4. Charge impact.
	if in.DamageType == ChargeImpact {
		if name, ok := shieldLogName(in); ok {
			return Result{WeaponName: name}
		}
	}

	// 5. Fixed damage-type map (BootsStomp is class-dependent; everything
	// else is a flat lookup).
	if in.DamageType == BootsStomp {
		switch attackerClass(in) {
		case entity.ClassSoldier:
			return Result{WeaponName: "mantreads"}
		case entity.ClassPyro:
			return Result{WeaponName: "rocketpack_stomp"}
		}
	}
	if name, ok := fixedLogNames[in.DamageType]; ok {
		return Result{WeaponName: name}
	}

	// 6/7. Projectile attribution (blast-like and continuously-hurting
	// kinds alike: both populate the same Explosion buffer, see
	// internal/entity's projectile preserve/delete hooks).
	if exp, ok := selectExplosion(in); ok {
		if exp.Proj.Reflected {
			return Result{WeaponName: deflectLogName(in.Schema, exp.Proj), Reflected: true}
		}
		return Result{WeaponName: projectileLogName(in.Schema, exp.Proj)}
	}

	// 9 (checked before 8's generic fallback, since a suicide must never
	// resolve to the attacker's held weapon — boundary behavior).
	if in.DamageType == Suicide {
		if in.DamageBits.Has(PreventPhysicsForce) {
			return Result{WeaponName: "player"}
		}
		return Result{WeaponName: "world"}
	}

	// 8. Fallback: attacker's last-active-weapon schema log-name.
	if in.Attacker != nil {
		if w, ok := in.World.SlotByHandle(in.Attacker.LastActive).(*entity.Weapon); ok {
			if item, ok := in.Schema.Get(w.ItemDefIndex); ok && item.LogName != "" {
				return Result{WeaponName: item.LogName}
			}
		}
	}

	return Result{WeaponName: unknownWeapon}
}

func attackerClass(in Input) entity.Class {
	if in.Attacker == nil {
		return entity.ClassUnknown
	}
	return in.Attacker.Class
}

// slotLogName resolves the attacker's weapon-slot[idx] item log-name, or
// fallback if the slot is empty, unresolvable, or has no schema entry
// (precedence 3: "the attacker's primary-slot weapon's log-name
// (fallback ...)").
func slotLogName(in Input, slotIdx int, fallback string) string {
	if in.Attacker == nil || slotIdx >= len(in.Attacker.WeaponSlots) {
		return fallback
	}
	h := in.Attacker.WeaponSlots[slotIdx]
	w, ok := in.World.SlotByHandle(h).(*entity.Weapon)
	if !ok {
		return fallback
	}
	if item, ok := in.Schema.Get(w.ItemDefIndex); ok && item.LogName != "" {
		return item.LogName
	}
	return fallback
}

// shieldLogName resolves the log-name of a shield in the attacker's
// cosmetic slots.
func shieldLogName(in Input) (string, bool) {
	if in.Attacker == nil {
		return "", false
	}
	for _, h := range in.Attacker.CosmeticSlots {
		if sh, ok := in.World.SlotByHandle(h).(*entity.Shield); ok {
			if item, ok := in.Schema.Get(sh.ItemDefIndex); ok && item.LogName != "" {
				return item.LogName, true
			}
			return "charge_impact", true
		}
	}
	return "", false
}

// selectExplosion implements precedence 6's selection rule:
// among this tick's explosions, pick those whose projectile's owner or
// original-owner equals the attacker's handle, or any when the attacker
// airblasted this tick; continuously-hurting kinds must also hit the
// victim's position, other kinds are not checked against the victim; pick
// the first after dedup.
func selectExplosion(in Input) (entity.Explosion, bool) {
	if in.Attacker == nil || in.Victim == nil {
		return entity.Explosion{}, false
	}
	attackerHandle := in.Attacker.Handle()
	seen := make(map[entity.Handle]bool)
	for _, exp := range in.Explosions {
		if exp.Proj.Owner_ != attackerHandle && exp.Proj.OriginalOwner != attackerHandle && !in.Airblasted {
			continue
		}
		if isContinuousHurtKind(exp.Proj.KindTag) && !HitsPlayer(exp.Proj, in.Victim.Pos) {
			continue
		}
		if seen[exp.Proj.Handle()] {
			continue
		}
		seen[exp.Proj.Handle()] = true
		return exp, true
	}
	return entity.Explosion{}, false
}

// isContinuousHurtKind mirrors internal/entity's classification of
// projectile kinds that can hurt a victim without exploding.
func isContinuousHurtKind(kind entity.ProjectileKind) bool {
	switch kind {
	case entity.ProjectileArrow, entity.ProjectileShortCircuitOrb, entity.ProjectileEnergyRing, entity.ProjectileScorchShot:
		return true
	default:
		return false
	}
}

// sentryLogName implements the (is-mini, level) -> log-name rule.
func sentryLogName(isMini bool, level int) string {
	if isMini {
		return "obj_minisentry"
	}
	switch level {
	case 1:
		return "obj_sentrygun"
	case 2:
		return "obj_sentrygun2"
	default:
		return "obj_sentrygun3"
	}
}

// deflectLogName maps a reflected projectile's kind/launcher to its
// deflect-prefixed log-name.
//
// Arrows need an extra disambiguation the rest of the kinds don't: the
// Huntsman and the Fortified Compound both fire ProjectileArrow, but a
// deflected Huntsman arrow logs as "deflect_huntsman" while every other bow
// logs as "deflect_promode_arrow".
func deflectLogName(reg *schema.Registry, proj entity.Projectile) string {
	switch proj.KindTag {
	case entity.ProjectileRocket, entity.ProjectileSentryRocket:
		return "deflect_rocket"
	case entity.ProjectileStickybomb, entity.ProjectilePipebomb, entity.ProjectileStickyJumper, entity.ProjectileScottishResistance:
		return "deflect_sticky"
	case entity.ProjectileCannonball, entity.ProjectileLochNLoad:
		return "deflect_promode"
	case entity.ProjectileArrow:
		return deflectArrowLogName(reg, proj)
	case entity.ProjectileFlare, entity.ProjectileDetonator, entity.ProjectileManmelter, entity.ProjectileScorchShot:
		return "deflect_flare_rocket"
	case entity.ProjectileCleaver:
		return "deflect_cleaver"
	case entity.ProjectileEnergyRing:
		return "deflect_energy_ring"
	default:
		return "deflect_promode"
	}
}

// deflectArrowLogName distinguishes a deflected Huntsman arrow from every
// other deflected bow arrow by the launcher's schema item name. Absent a
// resolvable launcher item (schema gap or an unloaded registry), it falls
// back to the "other bow" name rather than guessing Huntsman.
func deflectArrowLogName(reg *schema.Registry, proj entity.Projectile) string {
	if proj.HasLauncherItemID {
		if item, ok := reg.Get(proj.LauncherItemID); ok && item.Name == "Huntsman" {
			return "deflect_huntsman"
		}
	}
	return "deflect_promode_arrow"
}

// projectileLogName resolves a non-reflected projectile's weapon name from
// its launcher's schema item, falling back to a kind-specific default when
// the launcher item-id is unknown or absent from the schema (// precedence 6/7: "derive the log-name from (projectile class, grenade
// subtype, launcher schema item)").
func projectileLogName(reg *schema.Registry, proj entity.Projectile) string {
	if proj.HasLauncherItemID {
		if item, ok := reg.Get(proj.LauncherItemID); ok && item.LogName != "" {
			return item.LogName
		}
	}
	switch proj.KindTag {
	case entity.ProjectileRocket:
		return "tf_projectile_rocket"
	case entity.ProjectileSentryRocket:
		return sentryLogName(false, 3)
	case entity.ProjectilePipebomb:
		return "tf_projectile_pipe"
	case entity.ProjectileStickybomb, entity.ProjectileStickyJumper, entity.ProjectileScottishResistance:
		return "tf_projectile_pipe_remote"
	case entity.ProjectileCannonball:
		return "loose_cannon"
	case entity.ProjectileLochNLoad:
		return "tf_projectile_pipe"
	case entity.ProjectileArrow:
		return "tf_projectile_arrow"
	case entity.ProjectileHealingBolt:
		return "crusaders_crossbow"
	case entity.ProjectileEnergyRing:
		return "tf_projectile_energy_ball"
	case entity.ProjectileShortCircuitOrb:
		return "short_circuit"
	case entity.ProjectileCleaver:
		return "cleaver"
	case entity.ProjectileJarate:
		return "tf_weapon_jar"
	case entity.ProjectileMadMilk:
		return "tf_weapon_jar_milk"
	case entity.ProjectileGasPasser:
		return "tf_weapon_jar_gas"
	case entity.ProjectileDetonator:
		return "detonator"
	case entity.ProjectileManmelter:
		return "manmelter"
	case entity.ProjectileScorchShot:
		return "scorch_shot"
	case entity.ProjectileFlare:
		return "flaregun"
	default:
		return unknownWeapon
	}
}

// AirshotTicks is the flight-duration threshold for the airshot predicate.
const AirshotTicks = 16

// IsAirshot reports whether victim was airborne long enough at deathTick to
// count as an airshot kill.
func IsAirshot(victim *entity.Player, deathTick int) bool {
	if victim == nil {
		return false
	}
	return victim.FlyingTicks(deathTick) > AirshotTicks
}
