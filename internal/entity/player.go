package entity

import "github.com/leighmacdonald/tf2stats/internal/sendprops"

// Class is a player's TF2 class. The zero value is ClassUnknown rather than
// Scout, so an undecoded class never silently reads as a real one.
type Class int

const (
	ClassUnknown Class = iota
	ClassScout
	ClassSoldier
	ClassPyro
	ClassDemoman
	ClassHeavy
	ClassEngineer
	ClassMedic
	ClassSniper
	ClassSpy
)

// Team is a round side. Unknown enum values decode to TeamSpectator, a
// sensible default for a team that hasn't picked a side yet.
type Team int

const (
	TeamUnassigned Team = iota
	TeamSpectator
	TeamRed
	TeamBlue
)

var classNames = [...]string{
	ClassUnknown:  "unknown",
	ClassScout:    "scout",
	ClassSoldier:  "soldier",
	ClassPyro:     "pyro",
	ClassDemoman:  "demoman",
	ClassHeavy:    "heavy",
	ClassEngineer: "engineer",
	ClassMedic:    "medic",
	ClassSniper:   "sniper",
	ClassSpy:      "spy",
}

// String renders the class the way the schema/output JSON names it.
func (c Class) String() string {
	if int(c) < 0 || int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

var teamNames = [...]string{
	TeamUnassigned: "unassigned",
	TeamSpectator:  "spectator",
	TeamRed:        "red",
	TeamBlue:       "blue",
}

// String renders the team the way the output JSON names it.
func (t Team) String() string {
	if int(t) < 0 || int(t) >= len(teamNames) {
		return "spectator"
	}
	return teamNames[t]
}

// ConditionSet is the player's 128-bit condition bitset, delivered on the
// wire as four independent 32-bit slices.
type ConditionSet [4]uint32

// Merge replaces the 32-bit slice at word index word with slice. Each
// condition word arrives as a whole on the wire, so this is a plain
// replacement rather than a bitwise merge.
func (c *ConditionSet) Merge(word int, slice uint32) {
	c[word] = slice
}

// Has reports whether bit (0..127) is set.
func (c ConditionSet) Has(bit int) bool {
	word, off := bit/32, bit%32
	if word < 0 || word > 3 {
		return false
	}
	return c[word]&(1<<uint(off)) != 0
}

// Player is the entity kind for a client-controlled player.
type Player struct {
	handle Handle

	UserID         int
	Class          Class
	Team           Team
	OnGround       bool
	InWater        bool
	StartedFlying  int // tick; 0 = not currently tracked as airborne
	Pos            Vec3
	EyeX, EyeY     float64
	Health         int
	Conditions     ConditionSet
	ActiveWeapon   Handle
	LastActive     Handle // sticky: never reset to InvalidHandle once set
	WeaponSlots    [7]Handle
	CosmeticSlots  [8]Handle
	MedigunCharge  float64 // transient, mirrors the owned medigun's charge

	// DisguiseClass/DisguiseTeam hold a spy's visible disguise. No send-prop
	// is decoded into them and nothing reads them, so they stay at their zero
	// values; never serialized. Stats always key off the real Class/Team above.
	DisguiseClass Class
	DisguiseTeam  Team

	// Scoreboard mirror, read from DT_TFPlayerScoringDataExclusive. ScoreKills/
	// ScoreDeaths/ScoreAssists are cross-check/logging data only — the
	// authoritative counts come from resolved kill/death events, not these.
	// ScoreHealing is the monotonically-nondecreasing healing total the
	// accumulator diffs against to get a per-tick delta. BonusPoints is
	// carried straight through to the player summary.
	ScoreKills   int
	ScoreDeaths  int
	ScoreAssists int
	ScoreHealing int
	BonusPoints  int
}

// PlayerPatch is "all fields optional" a zero value means
// "no change in this packet-entities batch" for every field.
type PlayerPatch struct {
	UserID        *int
	Class         *Class
	Team          *Team
	OnGround      *bool
	InWater       *bool
	OriginXY      *[2]float64
	OriginZ       *float64
	EyeX, EyeY    *float64
	Health        *int
	CondWord      map[int]uint32 // word index -> new 32-bit slice
	ActiveWeapon  *Handle
	WeaponSlots   map[int]Handle
	CosmeticSlots map[int]Handle

	ScoreKills   *int
	ScoreDeaths  *int
	ScoreAssists *int
	ScoreHealing *int
	BonusPoints  *int
}

func (p *Player) Kind() Kind     { return KindPlayer }
func (p *Player) Handle() Handle { return p.handle }
func (p *Player) Origin() Vec3   { return p.Pos }
func (p *Player) HasShape() bool { return false }
func (p *Player) Shape() Shape   { return Shape{} }
func (p *Player) Owner() Handle  { return InvalidHandle }

// DecodePlayerInitial constructs a Player's initial state from a full props
// batch on entity creation.
func DecodePlayerInitial(selfHandle Handle, props Props) *Player {
	p := &Player{
		handle:       selfHandle,
		ActiveWeapon: InvalidHandle,
		LastActive:   InvalidHandle,
	}
	for i := range p.WeaponSlots {
		p.WeaponSlots[i] = InvalidHandle
	}
	for i := range p.CosmeticSlots {
		p.CosmeticSlots[i] = InvalidHandle
	}
	patch := DecodePlayerPatch(props)
	p.Apply(patch)
	return p
}

// DecodePlayerPatch is a pure function of props only.
func DecodePlayerPatch(props Props) PlayerPatch {
	var patch PlayerPatch

	if v, ok := props.Int(sendprops.PlayerClass); ok {
		c := Class(v)
		patch.Class = &c
	}
	if v, ok := props.Int(sendprops.TeamNum); ok {
		t := Team(v)
		patch.Team = &t
	}
	if v, ok := props.Int(sendprops.PlayerFlags); ok {
		onGround := v&1 != 0
		inWater := v&2 != 0
		patch.OnGround = &onGround
		patch.InWater = &inWater
	}
	if v, ok := props.Int(sendprops.PlayerHealth); ok {
		patch.Health = &v
	}
	if vec, ok := props.Vec3(sendprops.OriginXY); ok {
		xy := [2]float64{vec.X, vec.Y}
		patch.OriginXY = &xy
	}
	if z, ok := props.Float(sendprops.OriginZ); ok {
		patch.OriginZ = &z
	}
	if v, ok := props.Float(sendprops.EyeAngleX); ok {
		patch.EyeX = &v
	}
	if v, ok := props.Float(sendprops.EyeAngleY); ok {
		patch.EyeY = &v
	}
	if h, ok := props.Handle(sendprops.ActiveWeapon); ok {
		patch.ActiveWeapon = &h
	}
	if v, ok := props.Int(sendprops.ScoreKills); ok {
		patch.ScoreKills = &v
	}
	if v, ok := props.Int(sendprops.ScoreDeaths); ok {
		patch.ScoreDeaths = &v
	}
	if v, ok := props.Int(sendprops.ScoreAssists); ok {
		patch.ScoreAssists = &v
	}
	if v, ok := props.Int(sendprops.ScoreHealing); ok {
		patch.ScoreHealing = &v
	}
	if v, ok := props.Int(sendprops.ScoreBonusPoints); ok {
		patch.BonusPoints = &v
	}

	condIDs := [4]sendprops.ID{sendprops.PlayerCond, sendprops.PlayerCondEx, sendprops.PlayerCondEx2, sendprops.PlayerCondEx3}
	for word, id := range condIDs {
		if slice, ok := props.Uint32(id); ok {
			if patch.CondWord == nil {
				patch.CondWord = make(map[int]uint32, 4)
			}
			patch.CondWord[word] = slice
		}
	}

	weaponIDs := [7]sendprops.ID{
		sendprops.WeaponSlot0, sendprops.WeaponSlot1, sendprops.WeaponSlot2,
		sendprops.WeaponSlot3, sendprops.WeaponSlot4, sendprops.WeaponSlot5, sendprops.WeaponSlot6,
	}
	for slot, id := range weaponIDs {
		if h, ok := props.Handle(id); ok {
			if patch.WeaponSlots == nil {
				patch.WeaponSlots = make(map[int]Handle, 7)
			}
			patch.WeaponSlots[slot] = h
		}
	}

	cosmeticIDs := [8]sendprops.ID{
		sendprops.CosmeticSlot0, sendprops.CosmeticSlot1, sendprops.CosmeticSlot2, sendprops.CosmeticSlot3,
		sendprops.CosmeticSlot4, sendprops.CosmeticSlot5, sendprops.CosmeticSlot6, sendprops.CosmeticSlot7,
	}
	for slot, id := range cosmeticIDs {
		if h, ok := props.Handle(id); ok {
			if patch.CosmeticSlots == nil {
				patch.CosmeticSlots = make(map[int]Handle, 8)
			}
			patch.CosmeticSlots[slot] = h
		}
	}

	return patch
}

// Apply mutates p in place player patch semantics:
// coordinate-wise origin merge, four-word condition merge, on-ground/
// in-water → started-flying transition, and sticky last-active-weapon.
//
// Apply stamps StartedFlying with tick 0; use ApplyAt to record the current
// tick on a started-flying transition.
func (p *Player) Apply(patch PlayerPatch) {
	p.applyAt(patch, 0)
}

// ApplyAt is Apply but records tick as the started-flying tick on a
// grounded/in-water → airborne transition.
func (p *Player) ApplyAt(patch PlayerPatch, tick int) {
	p.applyAt(patch, tick)
}

func (p *Player) applyAt(patch PlayerPatch, tick int) {
	wasGroundedOrWet := p.OnGround || p.InWater

	if patch.UserID != nil {
		p.UserID = *patch.UserID
	}
	if patch.Class != nil {
		p.Class = *patch.Class
	}
	if patch.Team != nil {
		p.Team = *patch.Team
	}
	if patch.OnGround != nil {
		p.OnGround = *patch.OnGround
	}
	if patch.InWater != nil {
		p.InWater = *patch.InWater
	}
	if patch.Health != nil {
		p.Health = *patch.Health
	}
	if patch.OriginXY != nil {
		p.Pos.X, p.Pos.Y = patch.OriginXY[0], patch.OriginXY[1]
	}
	if patch.OriginZ != nil {
		p.Pos.Z = *patch.OriginZ
	}
	if patch.EyeX != nil {
		p.EyeX = *patch.EyeX
	}
	if patch.EyeY != nil {
		p.EyeY = *patch.EyeY
	}
	for word, slice := range patch.CondWord {
		p.Conditions.Merge(word, slice)
	}
	for slot, h := range patch.WeaponSlots {
		p.WeaponSlots[slot] = h
	}
	for slot, h := range patch.CosmeticSlots {
		p.CosmeticSlots[slot] = h
	}
	if patch.ActiveWeapon != nil {
		p.ActiveWeapon = *patch.ActiveWeapon
		if *patch.ActiveWeapon != InvalidHandle {
			p.LastActive = *patch.ActiveWeapon
		}
		// else: sentinel value, LastActive is retained.
	}
	if patch.ScoreKills != nil {
		p.ScoreKills = *patch.ScoreKills
	}
	if patch.ScoreDeaths != nil {
		p.ScoreDeaths = *patch.ScoreDeaths
	}
	if patch.ScoreAssists != nil {
		p.ScoreAssists = *patch.ScoreAssists
	}
	if patch.ScoreHealing != nil {
		p.ScoreHealing = *patch.ScoreHealing
	}
	if patch.BonusPoints != nil {
		p.BonusPoints = *patch.BonusPoints
	}

	nowGroundedOrWet := p.OnGround || p.InWater
	if wasGroundedOrWet && !nowGroundedOrWet {
		p.StartedFlying = tick
	}
}

// FlyingTicks returns how many ticks the player has been airborne as of
// atTick, or 0 if not currently tracked as flying.
func (p *Player) FlyingTicks(atTick int) int {
	if p.OnGround || p.InWater || p.StartedFlying == 0 {
		return 0
	}
	if atTick < p.StartedFlying {
		return 0
	}
	return atTick - p.StartedFlying
}
