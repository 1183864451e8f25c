package entity

import "github.com/leighmacdonald/tf2stats/internal/sendprops"

// ProjectileKind discriminates the ~30 distinct projectile variants the
// resolver needs to tell apart.
type ProjectileKind int

const (
	ProjectileUnknown ProjectileKind = iota
	ProjectileRocket
	ProjectileSentryRocket
	ProjectileFlare
	ProjectileDetonator
	ProjectileManmelter
	ProjectileScorchShot
	ProjectileEnergyRing
	ProjectileHealingBolt
	ProjectileArrow
	ProjectileJarate
	ProjectileMadMilk
	ProjectileGasPasser
	ProjectilePipebomb
	ProjectileStickybomb
	ProjectileStickyJumper
	ProjectileScottishResistance
	ProjectileCannonball
	ProjectileLochNLoad
	ProjectileCleaver
	ProjectileShortCircuitOrb
)

// GrenadeSubtype further distinguishes pipe-launcher projectiles.
type GrenadeSubtype int

const (
	SubtypeNone GrenadeSubtype = iota
	SubtypePipe
	SubtypeSticky
	SubtypeStickyJumper
	SubtypeCannonball
)

// Effects bits recognized on a projectile ("effects bitset
// (NoDraw, etc.)").
const EffectNoDraw = 1 << 5

// LauncherInfo is the subset of the launching weapon's schema item the
// projectile's kind-resolution rules need. Resolved by the caller (which has schema access) and
// passed in, since this package has no schema dependency.
type LauncherInfo struct {
	ItemClass string
	ItemName  string
	Mode      string // schema "mode" attribute, e.g. flare-gun "1"/"2"/"3"
}

// Projectile is the entity kind for a live in-flight projectile.
type Projectile struct {
	handle Handle

	ClassName         string
	LauncherItemID    int
	HasLauncherItemID bool
	Pos               Vec3
	Velocity          Vec3
	prevOrigin        Vec3
	havePrevOrigin    bool
	Owner_            Handle
	OriginalOwner     Handle
	OriginalLauncher  Handle
	Team              Team
	OriginalTeam      Team
	Reflected         bool
	Subtype           GrenadeSubtype
	KindTag           ProjectileKind
	ModelIndex        int
	Effects           int
	IsSentry          bool
}

// ProjectilePatch is "all fields optional".
type ProjectilePatch struct {
	Origin      *Vec3
	Team        *Team
	Deflected   *bool
	DeflectOwner *Handle
	Rotation    *Vec3
	InitVel     *Vec3
	Subtype     *GrenadeSubtype
	ModelIndex  *int
	Effects     *int
}

func (pr *Projectile) Kind() Kind     { return KindProjectile }
func (pr *Projectile) Handle() Handle { return pr.handle }
func (pr *Projectile) Origin() Vec3   { return pr.Pos }
func (pr *Projectile) HasShape() bool { return true }
func (pr *Projectile) Shape() Shape   { return Shape{HalfX: 5, HalfY: 5, HalfZ: 5} } // 10x10x10 cuboid
func (pr *Projectile) Owner() Handle  { return pr.Owner_ }

// WorldView is the read-only subset of the entity world that projectile
// birth owner-resolution and sentry point-queries need. Implemented
// by *World; kept as an interface here to avoid an import cycle and to keep
// the "read-only" contract explicit at the call site.
type WorldView interface {
	WeaponOwnerUserID(h Handle) (int, bool)
	PlayerByUserID(userID int) (*Player, bool)
	SentryAt(point Vec3) (Handle, bool)
}

// DecodeProjectileInitial computes a projectile's birth state: origin from whichever source prop is present, owner
// resolved through the explicit-owner > deflect-owner > original-launcher
// chain, sentry-rocket detection via point-query, and kind from (class,
// launcher info).
func DecodeProjectileInitial(selfHandle Handle, className string, props Props, explicitOwner, originalLauncher Handle, launcher LauncherInfo, hasLauncher bool, launcherItemID int, world WorldView) *Projectile {
	pr := &Projectile{
		handle:           selfHandle,
		ClassName:        className,
		Owner_:           InvalidHandle,
		OriginalOwner:    InvalidHandle,
		OriginalLauncher: originalLauncher,
		HasLauncherItemID: hasLauncher,
		LauncherItemID:   launcherItemID,
	}

	if origin, ok := props.Vec3(sendprops.ProjectileOrigin); ok {
		pr.Pos = origin
	} else if origin, ok := props.Vec3(sendprops.Origin); ok {
		pr.Pos = origin
	}

	deflectOwner := InvalidHandle
	if h, ok := props.Handle(sendprops.DeflectOwner); ok {
		deflectOwner = h
	}
	owner := resolveProjectileOwner(explicitOwner, deflectOwner, originalLauncher, world)
	pr.Owner_ = owner
	pr.OriginalOwner = owner

	if v, ok := props.Int(sendprops.TeamNum); ok {
		pr.Team = Team(v)
		pr.OriginalTeam = Team(v)
	}
	if v, ok := props.Int(sendprops.PipebombType); ok {
		pr.Subtype = GrenadeSubtype(v)
	}
	if v, ok := props.Int(sendprops.ModelIndex); ok {
		pr.ModelIndex = v
	}

	if className == "CTFProjectile_SentryRocket" {
		if sentryHandle, ok := world.SentryAt(pr.Pos); ok {
			pr.IsSentry = true
			if sentryOwnerUserID, ok := world.WeaponOwnerUserID(sentryHandle); ok {
				if p, ok := world.PlayerByUserID(sentryOwnerUserID); ok {
					pr.Owner_ = p.handle
					pr.OriginalOwner = p.handle
				}
			}
		}
		// else: collision entity at birth point was not a sentry, or none
		// found; "first match wins" semantics preserved open
		// question — caller logs the inconsistency, this function does not.
	}

	pr.KindTag = resolveProjectileKind(className, pr.Subtype, pr.IsSentry, launcher)
	return pr
}

// resolveProjectileOwner implements owner precedence:
// explicit owner handle > deflect-owner > resolve(original-launcher-handle
// -> weapon-owner-map -> player).
func resolveProjectileOwner(explicitOwner, deflectOwner, originalLauncher Handle, world WorldView) Handle {
	if explicitOwner != InvalidHandle {
		return explicitOwner
	}
	if deflectOwner != InvalidHandle {
		return deflectOwner
	}
	if originalLauncher != InvalidHandle {
		if userID, ok := world.WeaponOwnerUserID(originalLauncher); ok {
			if p, ok := world.PlayerByUserID(userID); ok {
				return p.handle
			}
		}
	}
	return InvalidHandle
}

// resolveProjectileKind implements "projectile kind
// resolution table". Entries not explicitly covered here resolve by class
// name alone, matching the table's "partial, illustrative" framing.
func resolveProjectileKind(className string, subtype GrenadeSubtype, isSentry bool, launcher LauncherInfo) ProjectileKind {
	switch className {
	case "CTFProjectile_EnergyRing":
		return ProjectileEnergyRing
	case "CTFProjectile_HealingBolt":
		return ProjectileHealingBolt
	case "CTFProjectile_Rocket":
		if isSentry {
			return ProjectileSentryRocket
		}
		return ProjectileRocket
	case "CTFProjectile_SentryRocket":
		return ProjectileSentryRocket
	case "CTFProjectile_Flare":
		switch launcher.Mode {
		case "1":
			return ProjectileDetonator
		case "2":
			return ProjectileManmelter
		case "3":
			return ProjectileScorchShot
		default:
			return ProjectileFlare
		}
	case "CTFProjectile_Arrow":
		return ProjectileArrow
	case "CTFProjectile_Cleaver":
		return ProjectileCleaver
	case "CTFProjectile_EnergyBall":
		return ProjectileShortCircuitOrb
	case "CTFGrenadePipebombProjectile":
		switch {
		case launcher.ItemName == "Loch-n-Load" || launcher.ItemClass == "tf_weapon_grenadelauncher" && launcher.Mode == "lochnload":
			return ProjectileLochNLoad
		case subtype == SubtypeCannonball:
			return ProjectileCannonball
		case launcher.ItemName == "Scottish Resistance":
			return ProjectileScottishResistance
		case subtype == SubtypeStickyJumper:
			return ProjectileStickyJumper
		case subtype == SubtypeSticky:
			return ProjectileStickybomb
		default:
			return ProjectilePipebomb
		}
	case "CTFProjectile_JarMilk":
		switch launcher.ItemClass {
		case "tf_weapon_jar":
			return ProjectileJarate
		case "tf_weapon_jar_milk":
			return ProjectileMadMilk
		case "tf_weapon_jar_gas":
			return ProjectileGasPasser
		default:
			return ProjectileJarate
		}
	default:
		return ProjectileUnknown
	}
}

// DecodeProjectilePatch is a pure function of props.
func DecodeProjectilePatch(props Props) ProjectilePatch {
	var patch ProjectilePatch
	if origin, ok := props.Vec3(sendprops.ProjectileOrigin); ok {
		patch.Origin = &origin
	}
	if v, ok := props.Int(sendprops.TeamNum); ok {
		t := Team(v)
		patch.Team = &t
	}
	if v, ok := props.Bool(sendprops.ProjectileDeflected); ok {
		patch.Deflected = &v
	}
	if h, ok := props.Handle(sendprops.DeflectOwner); ok {
		patch.DeflectOwner = &h
	}
	if v, ok := props.Vec3(sendprops.ProjectileRotation); ok {
		patch.Rotation = &v
	}
	if v, ok := props.Vec3(sendprops.ProjectileInitialVelocity); ok {
		patch.InitVel = &v
	}
	if v, ok := props.Int(sendprops.PipebombType); ok {
		s := GrenadeSubtype(v)
		patch.Subtype = &s
	}
	if v, ok := props.Int(sendprops.ModelIndex); ok {
		patch.ModelIndex = &v
	}
	if v, ok := props.Int(sendprops.Effects); ok {
		patch.Effects = &v
	}
	return patch
}

// Apply mutates pr projectile preserve semantics.
// velocity is recomputed as the difference of consecutive origins. teamOwnerMismatch
// reports whether owner changed without team changing (or vice versa) on this
// apply, which the caller logs as an inconsistency. explodesOnNoDraw reports whether this apply should push an
// Explosion (a laid Scottish Resistance sticky going NoDraw, or any
// continuously-hurting kind).
func (pr *Projectile) Apply(patch ProjectilePatch, world WorldView) (teamOwnerMismatch, explodesOnNoDraw bool) {
	prevTeam := pr.Team
	prevOwner := pr.Owner_
	hadNoDraw := pr.Effects&EffectNoDraw != 0

	if patch.Origin != nil {
		if pr.havePrevOrigin {
			pr.prevOrigin = pr.Pos
		} else {
			pr.prevOrigin = *patch.Origin
			pr.havePrevOrigin = true
		}
		pr.Velocity = patch.Origin.Sub(pr.prevOrigin)
		pr.Pos = *patch.Origin
	}
	if patch.Team != nil {
		pr.Team = *patch.Team
	}
	if patch.Subtype != nil {
		pr.Subtype = *patch.Subtype
	}
	if patch.ModelIndex != nil {
		pr.ModelIndex = *patch.ModelIndex
	}
	if patch.Effects != nil {
		pr.Effects = *patch.Effects
	}
	if patch.Deflected != nil && *patch.Deflected && !pr.Reflected {
		pr.Reflected = true
		if patch.DeflectOwner != nil && *patch.DeflectOwner != InvalidHandle {
			pr.Owner_ = *patch.DeflectOwner
		}
	}

	teamChanged := patch.Team != nil && *patch.Team != prevTeam
	ownerChanged := pr.Owner_ != prevOwner
	if teamChanged != ownerChanged && pr.Reflected {
		teamOwnerMismatch = true
	}

	nowNoDraw := pr.Effects&EffectNoDraw != 0
	if pr.KindTag == ProjectileScottishResistance && !hadNoDraw && nowNoDraw {
		explodesOnNoDraw = true
	}
	if isContinuousHurtKind(pr.KindTag) {
		explodesOnNoDraw = true
	}
	return teamOwnerMismatch, explodesOnNoDraw
}

// isContinuousHurtKind reports whether kind can hurt without exploding, so
// every preserve of it should be treated as a potential hit.
func isContinuousHurtKind(kind ProjectileKind) bool {
	switch kind {
	case ProjectileArrow, ProjectileShortCircuitOrb, ProjectileEnergyRing, ProjectileScorchShot:
		return true
	default:
		return false
	}
}
