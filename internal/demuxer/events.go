package demuxer

import (
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/resolver"
)

// PlayerDeathEvent is a "PlayerDeath" game event. AttackerEntityID/AssisterEntityID are 0 when absent (world
// damage, no assister).
type PlayerDeathEvent struct {
	VictimEntityID   int
	AttackerEntityID int
	AssisterEntityID int
	DamageType       resolver.DamageType
	DamageBits       resolver.DamageBits
	Dominator        bool
	Revenge          bool
	Feigned          bool
	Headshot         bool
	Backstab         bool
}

// PlayerHurtEvent is a "PlayerHurt" game event.
type PlayerHurtEvent struct {
	VictimEntityID   int
	AttackerEntityID int
	DamageType       resolver.DamageType
	DamageBits       resolver.DamageBits
	Damage           int
	Headshot         bool
	Backstab         bool
}

// PointCapturedEvent is a "PointCaptured" game event.
type PointCapturedEvent struct {
	CapperEntityIDs []int
}

// CaptureBlockedEvent is a "CaptureBlocked" game event.
type CaptureBlockedEvent struct {
	BlockerEntityID int
}

// RoundWinEvent is a "round_win" game event.
type RoundWinEvent struct {
	Winner      entity.Team
	HasWinner   bool
	IsStalemate bool
	IsSuddenDeath bool
	IsBonus     bool // arena-mode bonus round
}

// RoundStartEvent is a "round_start" game event; it carries no payload
// beyond marking the transition (the round-state enum itself is driven by
// DT_TeamplayRoundBasedRules.m_iRoundState).
type RoundStartEvent struct{}

// WinPanelEvent is a "teamplay_win_panel" game event, carrying the round's
// MVPs.
type WinPanelEvent struct {
	MVPEntityIDs []int
}

// ObjectDestroyedEvent is an "object_destroyed" game event.
type ObjectDestroyedEvent struct {
	BuilderEntityID int
	ObjectType      string
}

// PlayerDisconnectEvent is a "player_disconnect" game event.
type PlayerDisconnectEvent struct {
	EntityID int
}

// PlayerHealedEvent is a "player_healed" game event (logging only; the
// accumulated healing total itself comes from the scoreboard prop per
// "Healing").
type PlayerHealedEvent struct {
	PatientEntityID int
	HealerEntityID  int
}

// PlayerInvulnedEvent is a "player_invulned" game event (logging only).
type PlayerInvulnedEvent struct {
	PatientEntityID int
	MedicEntityID   int
}

// ChargeDeployedEvent is a "charge_deployed" game event (logging only; the
// authoritative MedigunCharged trigger is the weapon patch's
// charge-released false->true transition, not this event).
type ChargeDeployedEvent struct {
	MedicEntityID int
}

// GameEvent is the tagged union of every recognized game-event name. Exactly one field is populated; Name is the raw upstream
// event name, kept for logging unrecognized events.
type GameEvent struct {
	Name string

	PlayerDeath      *PlayerDeathEvent
	PlayerHurt       *PlayerHurtEvent
	PointCaptured    *PointCapturedEvent
	CaptureBlocked   *CaptureBlockedEvent
	RoundWin         *RoundWinEvent
	RoundStart       *RoundStartEvent
	WinPanel         *WinPanelEvent
	ObjectDestroyed  *ObjectDestroyedEvent
	PlayerDisconnect *PlayerDisconnectEvent
	PlayerHealed     *PlayerHealedEvent
	PlayerInvulned   *PlayerInvulnedEvent
	ChargeDeployed   *ChargeDeployedEvent
}
