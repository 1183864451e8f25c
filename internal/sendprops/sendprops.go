// Package sendprops holds the closed set of (data-table, prop) pairs the
// analyzer understands, and maps them to stable identifiers. Identifiers
// outside this set are silently ignored during decode.
package sendprops

// ID is a stable identifier for one recognized (table, prop) pair.
type ID int

// The canonical recognized send-prop identifiers, grouped by owning table.
// Order has no semantic meaning; it only has to be stable within a process.
const (
	Unknown ID = iota

	// DT_BaseEntity
	ModelIndex
	TeamNum
	SimulationTime
	Origin
	OwnerEntity
	Effects

	// DT_BasePlayer
	PlayerFlags
	PlayerHealth

	// DT_TFPlayerClassShared
	PlayerClass

	// DT_TFNonLocalPlayerExclusive
	OriginXY
	OriginZ
	EyeAngleX
	EyeAngleY

	// DT_AttributeManager / DT_AttributeContainer
	SelfHandle

	// DT_TFPlayerShared condition bitset slices
	PlayerCond
	PlayerCondEx
	PlayerCondEx2
	PlayerCondEx3

	// DT_TFPlayerConditionSource
	ConditionProvider

	// DT_BaseCombatCharacter
	ActiveWeapon

	// m_hMyWeapons / _ST_m_hMyWearables_8 array slots
	WeaponSlot0
	WeaponSlot1
	WeaponSlot2
	WeaponSlot3
	WeaponSlot4
	WeaponSlot5
	WeaponSlot6
	CosmeticSlot0
	CosmeticSlot1
	CosmeticSlot2
	CosmeticSlot3
	CosmeticSlot4
	CosmeticSlot5
	CosmeticSlot6
	CosmeticSlot7

	// DT_TFPlayerScoringDataExclusive
	ScoreKills
	ScoreDeaths
	ScoreAssists
	ScoreHealing
	ScoreBonusPoints

	// DT_BaseObject
	ObjectBuilder
	ObjectUpgradeLevel
	ObjectMaxHealth

	// DT_TeamplayRoundBasedRules
	WaitingForPlayers
	RoundState

	// DT_TFBaseRocket / DT_TFWeaponBaseGrenadeProj
	ProjectileOrigin
	ProjectileDeflected
	DeflectOwner
	ProjectileRotation
	ProjectileInitialVelocity

	// DT_TFProjectile_Pipebomb
	PipebombType

	// DT_BaseProjectile
	OriginalLauncher

	// DT_ScriptCreatedItem
	ItemDefIndex

	// DT_TFWeaponMedigunDataNonLocal / DT_WeaponMedigun
	MedigunChargeLevel
	MedigunChargeRelease

	// DT_TFWeaponBase
	ResetParity

	// DT_BaseCombatWeapon
	WeaponOwner

	// DT_EffectData / DT_TEPlayerAnimEvent / DT_TEFireBullets
	EffectEntIndex
	EffectPlayerHandle
	AnimEventID
	FireBulletsPlayer
)

// entry is one recognized (table, prop) pair.
type entry struct {
	table string
	prop  string
	id    ID
}

// table is the closed set the demuxer's identifiers are checked against.
// Multi-slot props (weapon/cosmetic arrays) are listed with their literal
// "000".."007" suffix, matching the wire encoding.
var table = []entry{
	{"DT_BaseEntity", "m_nModelIndex", ModelIndex},
	{"DT_BaseEntity", "m_iTeamNum", TeamNum},
	{"DT_BaseEntity", "m_flSimulationTime", SimulationTime},
	{"DT_BaseEntity", "m_vecOrigin", Origin},
	{"DT_BaseEntity", "m_hOwnerEntity", OwnerEntity},
	{"DT_BaseEntity", "m_fEffects", Effects},

	{"DT_BasePlayer", "m_fFlags", PlayerFlags},
	{"DT_BasePlayer", "m_iHealth", PlayerHealth},

	{"DT_TFPlayerClassShared", "m_iClass", PlayerClass},

	{"DT_TFNonLocalPlayerExclusive", "m_vecOrigin", OriginXY},
	{"DT_TFNonLocalPlayerExclusive", "m_vecOrigin[2]", OriginZ},
	{"DT_TFNonLocalPlayerExclusive", "m_angEyeAngles[0]", EyeAngleX},
	{"DT_TFNonLocalPlayerExclusive", "m_angEyeAngles[1]", EyeAngleY},

	{"DT_AttributeManager", "m_hOuter", SelfHandle},
	{"DT_AttributeContainer", "m_hOuter", SelfHandle},

	{"DT_TFPlayerShared", "m_nPlayerCond", PlayerCond},
	{"DT_TFPlayerShared", "m_nPlayerCondEx", PlayerCondEx},
	{"DT_TFPlayerShared", "m_nPlayerCondEx2", PlayerCondEx2},
	{"DT_TFPlayerShared", "m_nPlayerCondEx3", PlayerCondEx3},

	{"DT_TFPlayerConditionSource", "m_pProvider", ConditionProvider},

	{"DT_BaseCombatCharacter", "m_hActiveWeapon", ActiveWeapon},

	{"m_hMyWeapons", "000", WeaponSlot0},
	{"m_hMyWeapons", "001", WeaponSlot1},
	{"m_hMyWeapons", "002", WeaponSlot2},
	{"m_hMyWeapons", "003", WeaponSlot3},
	{"m_hMyWeapons", "004", WeaponSlot4},
	{"m_hMyWeapons", "005", WeaponSlot5},
	{"m_hMyWeapons", "006", WeaponSlot6},
	{"_ST_m_hMyWearables_8", "000", CosmeticSlot0},
	{"_ST_m_hMyWearables_8", "001", CosmeticSlot1},
	{"_ST_m_hMyWearables_8", "002", CosmeticSlot2},
	{"_ST_m_hMyWearables_8", "003", CosmeticSlot3},
	{"_ST_m_hMyWearables_8", "004", CosmeticSlot4},
	{"_ST_m_hMyWearables_8", "005", CosmeticSlot5},
	{"_ST_m_hMyWearables_8", "006", CosmeticSlot6},
	{"_ST_m_hMyWearables_8", "007", CosmeticSlot7},

	{"DT_TFPlayerScoringDataExclusive", "m_iKills", ScoreKills},
	{"DT_TFPlayerScoringDataExclusive", "m_iDeaths", ScoreDeaths},
	{"DT_TFPlayerScoringDataExclusive", "m_iKillAssists", ScoreAssists},
	{"DT_TFPlayerScoringDataExclusive", "m_iHealPoints", ScoreHealing},
	{"DT_TFPlayerScoringDataExclusive", "m_iBonusPoints", ScoreBonusPoints},

	{"DT_BaseObject", "m_hBuilder", ObjectBuilder},
	{"DT_BaseObject", "m_iUpgradeLevel", ObjectUpgradeLevel},
	{"DT_BaseObject", "m_iMaxHealth", ObjectMaxHealth},

	{"DT_TeamplayRoundBasedRules", "m_bInWaitingForPlayers", WaitingForPlayers},
	{"DT_TeamplayRoundBasedRules", "m_iRoundState", RoundState},

	{"DT_TFBaseRocket", "m_vecOrigin", ProjectileOrigin},
	{"DT_TFBaseRocket", "m_iDeflected", ProjectileDeflected},
	{"DT_TFBaseRocket", "m_hDeflectOwner", DeflectOwner},
	{"DT_TFBaseRocket", "m_angRotation", ProjectileRotation},
	{"DT_TFWeaponBaseGrenadeProj", "m_vecOrigin", ProjectileOrigin},
	{"DT_TFWeaponBaseGrenadeProj", "m_iDeflected", ProjectileDeflected},
	{"DT_TFWeaponBaseGrenadeProj", "m_hDeflectOwner", DeflectOwner},
	{"DT_TFWeaponBaseGrenadeProj", "m_vInitialVelocity", ProjectileInitialVelocity},

	{"DT_TFProjectile_Pipebomb", "m_iType", PipebombType},

	{"DT_BaseProjectile", "m_hOriginalLauncher", OriginalLauncher},

	{"DT_ScriptCreatedItem", "m_iItemDefinitionIndex", ItemDefIndex},

	{"DT_TFWeaponMedigunDataNonLocal", "m_flChargeLevel", MedigunChargeLevel},
	{"DT_TFWeaponMedigunDataNonLocal", "m_bChargeRelease", MedigunChargeRelease},
	{"DT_WeaponMedigun", "m_flChargeLevel", MedigunChargeLevel},
	{"DT_WeaponMedigun", "m_bChargeRelease", MedigunChargeRelease},

	{"DT_TFWeaponBase", "m_bResetParity", ResetParity},

	{"DT_BaseCombatWeapon", "m_hOwner", WeaponOwner},

	{"DT_EffectData", "entindex", EffectEntIndex},
	{"DT_EffectData", "m_hPlayer", EffectPlayerHandle},
	{"DT_TEPlayerAnimEvent", "m_iEvent", AnimEventID},
	{"DT_TEFireBullets", "m_iPlayer", FireBulletsPlayer},
}

// lookup is built once at package init for O(1) identification.
var lookup = func() map[string]ID {
	m := make(map[string]ID, len(table)*2)
	for _, e := range table {
		m[e.table+"\x00"+e.prop] = e.id
	}
	return m
}()

// Identify returns the stable ID for (dataTable, prop), or (Unknown, false)
// if the pair is outside the closed set the analyzer recognizes. Unknown
// identifiers must be silently ignored by callers during decode.
func Identify(dataTable, prop string) (ID, bool) {
	id, ok := lookup[dataTable+"\x00"+prop]
	return id, ok
}
