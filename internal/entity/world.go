package entity

import (
	"fmt"

	"github.com/leighmacdonald/tf2stats/internal/sendprops"
)

// Capacity is the fixed number of entity slots, matching the upstream
// protocol's entity-index range.
const Capacity = 2048

// Explosion is the analyzer's internal record of a projectile that ceased
// to exist, or is eligible to hurt this tick. Retained only within the tick that
// produced it; internal/tick owns the buffer lifetime, this package only
// produces the records.
type Explosion struct {
	Tick   int
	Origin Vec3
	Proj   Projectile // value copy at the moment of explosion
}

// CollisionIndex is the subset of internal/collision's spatial index the
// entity world needs: incremental upsert/remove driven by packet-entities
// batches, and the point-query used to resolve a sentry rocket's owning
// sentry. Declared here
// (rather than importing internal/collision) so internal/collision can
// depend on internal/entity without a cycle; the concrete *collision.Index
// satisfies this interface structurally.
type CollisionIndex interface {
	Upsert(slot int, shape Shape, origin Vec3)
	Remove(slot int)
	PointQuery(point Vec3) (slot int, ok bool)
}

// World is the fixed-capacity entity table plus the cross-reference maps
// names.
type World struct {
	slots [Capacity]Entity

	handleToSlot       map[Handle]int
	weaponOwnerUserID  map[Handle]int
	cosmeticOwnerUser  map[Handle]int
	userIDToSteamID    map[int]string
	entityIDToUserID   map[int]int
	models             map[int]string
	effects            map[int]string

	classes *ClassTable

	collision CollisionIndex

	// mutatedColliders/removedColliders accumulate within one
	// packet-entities batch; flushed to the collision index after the
	// batch.
	mutatedColliders []int
	removedColliders []int
}

// NewWorld constructs an empty entity world. classes is the class-id
// classification built from handle_data_tables; it may
// be nil until that callback fires, in which case on_enter falls back to
// Unknown for every class.
func NewWorld(classes *ClassTable) *World {
	return &World{
		handleToSlot:      make(map[Handle]int),
		weaponOwnerUserID: make(map[Handle]int),
		cosmeticOwnerUser: make(map[Handle]int),
		userIDToSteamID:   make(map[int]string),
		entityIDToUserID:  make(map[int]int),
		models:            make(map[int]string),
		effects:           make(map[int]string),
		classes:           classes,
	}
}

// SetClassTable installs the classification built from handle_data_tables.
func (w *World) SetClassTable(ct *ClassTable) { w.classes = ct }

// SetCollisionIndex wires the spatial index used for sentry-rocket
// point-queries and dirty-collider flushes.
func (w *World) SetCollisionIndex(ci CollisionIndex) { w.collision = ci }

// BeginPacketEntities resets the dirty-collider lists before a new
// packet-entities batch.
func (w *World) BeginPacketEntities() {
	w.mutatedColliders = w.mutatedColliders[:0]
	w.removedColliders = w.removedColliders[:0]
}

// EndPacketEntities flushes the accumulated dirty-collider lists into the
// collision index.
func (w *World) EndPacketEntities() {
	if w.collision == nil {
		return
	}
	for _, slot := range w.mutatedColliders {
		e := w.slots[slot]
		if e != nil && e.HasShape() {
			w.collision.Upsert(slot, e.Shape(), e.Origin())
		}
	}
	for _, slot := range w.removedColliders {
		w.collision.Remove(slot)
	}
}

// Slot returns the entity occupying index, or nil if empty.
func (w *World) Slot(index int) Entity {
	if index < 0 || index >= Capacity {
		return nil
	}
	return w.slots[index]
}

// SlotByHandle resolves h to its current slot entity, or nil if the handle
// is not (or no longer) mapped.
func (w *World) SlotByHandle(h Handle) Entity {
	idx, ok := w.handleToSlot[h]
	if !ok {
		return nil
	}
	return w.slots[idx]
}

// PlayerAt returns the Player in slot index, or (nil, false) if the slot is
// empty or holds a different kind.
func (w *World) PlayerAt(index int) (*Player, bool) {
	e := w.Slot(index)
	p, ok := e.(*Player)
	return p, ok
}

// PlayerByUserID scans live player slots for userID. Called rarely (owner
// resolution, chat attribution); a reverse index is not worth the
// bookkeeping at typical player counts.
func (w *World) PlayerByUserID(userID int) (*Player, bool) {
	for _, e := range w.slots {
		if p, ok := e.(*Player); ok && p.UserID == userID {
			return p, true
		}
	}
	return nil, false
}

// WeaponOwnerUserID resolves a weapon (or cosmetic) handle to the user-id of
// the player carrying it in a weapon/cosmetic slot.
func (w *World) WeaponOwnerUserID(h Handle) (int, bool) {
	if uid, ok := w.weaponOwnerUserID[h]; ok {
		return uid, true
	}
	uid, ok := w.cosmeticOwnerUser[h]
	return uid, ok
}

// SentryAt performs the point-intersection query used for sentry-rocket
// owner inference. "first match
// wins": only the first collision-index hit is considered, even if it is
// not a sentry.
func (w *World) SentryAt(point Vec3) (Handle, bool) {
	if w.collision == nil {
		return InvalidHandle, false
	}
	slot, ok := w.collision.PointQuery(point)
	if !ok {
		return InvalidHandle, false
	}
	s, ok := w.slots[slot].(*Sentry)
	if !ok {
		return InvalidHandle, false // collision hit was not a sentry; caller logs
	}
	return s.handle, true
}

// SetSteamID records the steam-id for userID, populated by internal/tables from userinfo string-table entries.
func (w *World) SetSteamID(userID int, steamID string) { w.userIDToSteamID[userID] = steamID }

// SteamID resolves userID to its steam-id, if known.
func (w *World) SteamID(userID int) (string, bool) {
	s, ok := w.userIDToSteamID[userID]
	return s, ok
}

// SetEntityUser records entityID -> userID.
func (w *World) SetEntityUser(entityID, userID int) { w.entityIDToUserID[entityID] = userID }

// UserIDForEntity resolves entityID to its last-known user-id.
func (w *World) UserIDForEntity(entityID int) (int, bool) {
	uid, ok := w.entityIDToUserID[entityID]
	return uid, ok
}

// SetModel records model index -> path.
func (w *World) SetModel(id int, path string) { w.models[id] = path }

// SetEffect records effect index -> name.
func (w *World) SetEffect(id int, name string) { w.effects[id] = name }

// OnEnter constructs a new entity of the appropriate kind in index and
// commits its initial state. className is the
// server-class name used for dispatch; launcher/explicitOwner/etc. carry
// the extra context DecodeProjectileInitial needs for owner/kind
// resolution, resolved by the caller (which has schema + recent-weapon
// context the world itself does not track).
func (w *World) OnEnter(index int, className string, props Props, extra ProjectileBirthContext) error {
	if index < 0 || index >= Capacity {
		return fmt.Errorf("entity: on_enter: index %d out of range", index)
	}

	selfHandle, ok := props.Handle(sendprops.SelfHandle)
	if !ok || selfHandle == InvalidHandle {
		selfHandle = Handle(index)
	}

	var e Entity
	switch {
	case className == "CTFPlayer" || className == "DT_TFPlayer":
		p := DecodePlayerInitial(selfHandle, props)
		if uid, ok := w.entityIDToUserID[index]; ok {
			p.UserID = uid
		}
		e = p
	case isBuildingClass(className, "sentry"):
		e = DecodeSentryInitial(selfHandle, props)
	case isBuildingClass(className, "dispenser"):
		e = DecodeDispenserInitial(selfHandle, props)
	case isBuildingClass(className, "teleporter"):
		e = DecodeTeleporterInitial(selfHandle, props)
	case isShieldClass(className):
		e = DecodeShieldInitial(selfHandle, className, props)
	case className == "CTFProjectile_SentryRocket" || w.classes.IsProjectileClass(className):
		e = DecodeProjectileInitial(selfHandle, className, props, extra.ExplicitOwner, extra.OriginalLauncher, extra.Launcher, extra.HasLauncherItemID, extra.LauncherItemID, w)
	case w.classes.IsWeaponClass(className):
		e = DecodeWeaponInitial(selfHandle, className, props)
	default:
		e = DecodeUnknownInitial(selfHandle, className)
	}

	w.slots[index] = e
	w.handleToSlot[e.Handle()] = index
	w.registerWeaponSlots(e)
	w.markMutated(index)
	return nil
}

// ProjectileBirthContext carries the extra, caller-resolved context
// DecodeProjectileInitial needs beyond the raw props.
type ProjectileBirthContext struct {
	ExplicitOwner     Handle
	OriginalLauncher  Handle
	Launcher          LauncherInfo
	HasLauncherItemID bool
	LauncherItemID    int
}

func isBuildingClass(className, kind string) bool {
	switch kind {
	case "sentry":
		return className == "CObjectSentrygun"
	case "dispenser":
		return className == "CObjectDispenser"
	case "teleporter":
		return className == "CObjectTeleporter"
	}
	return false
}

func isShieldClass(className string) bool {
	return className == "CTFWearableDemoShield" || className == "CTFWeaponBaseShield"
}

// OnPreserve decodes a patch for the entity in index and applies it.
// Returns whether the entity was found,
// whether a team/owner inconsistency was detected (projectile-specific),
// an Explosion if this preserve made one eligible (continuously-hurting
// projectile kinds, or a laid Scottish Resistance sticky going NoDraw), and
// chargedNow if a medigun's charge-released flag just transitioned
// false->true.
func (w *World) OnPreserve(index int, props Props, tick int) (found bool, inconsistency bool, explosion *Explosion, chargedNow bool) {
	if index < 0 || index >= Capacity {
		return false, false, nil, false
	}
	e := w.slots[index]
	if e == nil {
		return false, false, nil, false
	}

	switch v := e.(type) {
	case *Player:
		patch := DecodePlayerPatch(props)
		v.ApplyAt(patch, tick)
		w.registerWeaponSlots(v)
	case *Weapon:
		patch := DecodeWeaponPatch(props)
		chargedNow = v.Apply(patch)
	case *Projectile:
		patch := DecodeProjectilePatch(props)
		mismatch, explodes := v.Apply(patch, w)
		inconsistency = mismatch
		if explodes {
			explosion = &Explosion{Tick: tick, Origin: v.Pos, Proj: *v}
		}
	case *Sentry:
		v.Apply(decodeBuildingPatch(props))
	case *Dispenser:
		v.Apply(decodeBuildingPatch(props))
	case *Teleporter:
		v.Apply(decodeBuildingPatch(props))
	case *Shield:
		v.Apply(DecodeShieldPatch(props))
	case *Unknown:
		// bookkeeping only; no patch to apply
	}

	w.markMutated(index)
	return true, inconsistency, explosion, chargedNow
}

// OnDelete permanently removes the entity in index. Idempotent: deleting an already-empty slot is a no-op.
// Returns an Explosion if the deleted entity was a projectile, and the
// departing Player if the deleted entity was one (nil otherwise), so the
// caller can close out its tick-end.
func (w *World) OnDelete(index int, tick int) (*Explosion, *Player) {
	return w.remove(index, tick, true)
}

// OnLeave removes the entity in index but allows a subsequent on_enter in
// the same slot to proceed with no stale state leaked. Functionally
// identical to OnDelete at the World level; "leave may be undone by a
// re-enter" is already satisfied because OnEnter always fully reconstructs
// the slot. Also returns the departing Player, if any, for the same
// tick-end bookkeeping OnDelete provides.
func (w *World) OnLeave(index int, tick int) (*Explosion, *Player) {
	return w.remove(index, tick, false)
}

func (w *World) remove(index int, tick int, permanent bool) (*Explosion, *Player) {
	if index < 0 || index >= Capacity {
		return nil, nil
	}
	e := w.slots[index]
	if e == nil {
		return nil, nil
	}

	var explosion *Explosion
	var leaving *Player
	switch v := e.(type) {
	case *Projectile:
		explosion = &Explosion{Tick: tick, Origin: v.Pos, Proj: *v}
	case *Player:
		leaving = v
	}

	delete(w.handleToSlot, e.Handle())
	w.slots[index] = nil
	w.markRemoved(index)
	_ = permanent // both paths fully clear the slot; see doc comment above
	return explosion, leaving
}

func (w *World) markMutated(index int) {
	w.mutatedColliders = append(w.mutatedColliders, index)
}

func (w *World) markRemoved(index int) {
	w.removedColliders = append(w.removedColliders, index)
}

// registerWeaponSlots updates the weapon/cosmetic handle -> owner-user-id
// maps from a player's current slot contents.
func (w *World) registerWeaponSlots(e Entity) {
	p, ok := e.(*Player)
	if !ok {
		return
	}
	for _, h := range p.WeaponSlots {
		if h != InvalidHandle {
			w.weaponOwnerUserID[h] = p.UserID
		}
	}
	for _, h := range p.CosmeticSlots {
		if h != InvalidHandle {
			w.cosmeticOwnerUser[h] = p.UserID
		}
	}
}
