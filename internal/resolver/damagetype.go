// Package resolver implements the damage/death weapon-name resolver
//: given a hurt or death event plus the entity world and the
// current tick's explosion/sentry-shot/airblast buffers, it picks the
// canonical schema log-name that caused the damage.
package resolver

// DamageType mirrors the upstream protocol's damage-type enumeration,
// restricted to the values precedence tables name. An
// unrecognized wire value decodes to Normal.
type DamageType int

const (
	Normal DamageType = iota
	Burning
	BurningArrow
	BurningFlare
	DragonsFuryBonusBurning
	ChargeImpact
	PlayerSentry
	Baseball
	ComboPunch
	CannonballPush
	BootsStomp
	Telefrag
	DefensiveSticky
	StickbombExplosion
	Bleeding
	Suicide

	// Taunt kills, one per class's signature taunt.
	TauntHadouken   // Pyro: Hadouken
	TauntHighNoon   // Heavy: High Noon
	TauntUberslice  // Medic: Ubersaw taunt
	TauntFencing    // Spy: Fencing
	TauntArrowStab  // Sniper: Arrow Stab
	TauntGrandSlam  // Scout: Grand Slam
	TauntExecutioner // Soldier/Demo shared: The Executioner
	TauntSpinAttack // Demoman: Scotsman's Skullcutter spin
	TauntRPS        // Heavy: Rock-Paper-Scissors
	TauntWildWest   // Engineer: Wild West
)

// DamageBit is a single bit of the damage-bits flags word. Only the bit the
// Suicide boundary behavior needs is modeled.
type DamageBit uint32

const PreventPhysicsForce DamageBit = 1 << 0

// DamageBits is the flags word accompanying a hurt/death event.
type DamageBits uint32

func (b DamageBits) Has(bit DamageBit) bool { return DamageBits(bit)&b != 0 }

// tauntLogNames is the fixed damage-type -> log-name map for taunt kills.
var tauntLogNames = map[DamageType]string{
	TauntHadouken:    "taunt_pyro",
	TauntHighNoon:    "taunt_heavy",
	TauntUberslice:   "taunt_medic",
	TauntFencing:     "taunt_spy",
	TauntArrowStab:   "taunt_sniper",
	TauntGrandSlam:   "taunt_scout",
	TauntExecutioner: "taunt_soldier",
	TauntSpinAttack:  "taunt_demoman",
	TauntRPS:         "taunt_heavy_rps",
	TauntWildWest:    "taunt_engineer",
}

// fixedLogNames is the non-taunt fixed damage-type -> log-name map, excluding BootsStomp which is class-dependent.
var fixedLogNames = map[DamageType]string{
	PlayerSentry:        "wrangler_kill",
	Baseball:            "ball",
	ComboPunch:          "robot_arm_combo_kill",
	CannonballPush:      "loose_cannon_impact",
	Telefrag:            "telefrag",
	DefensiveSticky:     "sticky_resistance",
	StickbombExplosion:  "ullapool_caber_explosion",
	Bleeding:            "bleed_kill",
}

func isTaunt(dt DamageType) bool {
	_, ok := tauntLogNames[dt]
	return ok
}
