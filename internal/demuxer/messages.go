// Package demuxer defines the external demuxer contract: the four callbacks
// (HandleDataTables, HandleStringEntry, HandleMessage, IntoOutput) and the
// typed message/event shapes the analyzer consumes. The bitstream decoding
// itself is out of scope — this package only types the boundary;
// FakeSource (in source.go) drives the analyzer from synthetic,
// already-typed message structs for tests, exactly as a real decoder would
// after parsing bytes.
package demuxer

import (
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/tables"
)

// EntityOp discriminates which of the four entity lifecycle operations
// names applies to one PacketEntities update.
type EntityOp int

const (
	EntityEnter EntityOp = iota
	EntityPreserve
	EntityDelete
	EntityLeave
)

// EntityUpdate is one entity's delta within a PacketEntitiesMessage. ClassName
// is only meaningful (and only need be set) on EntityEnter; Props carries
// whatever subset of recognized send-props changed this batch.
type EntityUpdate struct {
	Index     int
	Op        EntityOp
	ClassName string
	Props     entity.Props
}

// NetTickMessage carries the upstream server-tick counter, used only for
// logging/span structure.
type NetTickMessage struct {
	ServerTick int
}

// PacketEntitiesMessage is the delta-compressed world view for one tick.
type PacketEntitiesMessage struct {
	Updates []EntityUpdate
}

// TempEntityKind discriminates the temp-entity variants // recognizes.
type TempEntityKind int

const (
	TempEntityAnimationEvent TempEntityKind = iota
	TempEntityEffectDispatch
	TempEntityFireBullets
)

// AnimEventID enumerates the player-animation events the analyzer reacts to
// ("animation event (record airblasts ... when a pyro's
// secondary-attack animation fires while primary is active)").
type AnimEventID int

const (
	AnimEventUnknown AnimEventID = iota
	AnimEventAirblast
	AnimEventPrimaryAttack
)

// TempEntity is one decoded temp-entity effect.
type TempEntity struct {
	Kind TempEntityKind

	// AnimationEvent fields.
	PlayerEntityID int
	AnimEvent      AnimEventID

	// EffectDispatch fields.
	EffectName       string
	EffectEntityID   int
	EffectOrigin     entity.Vec3
	HasEffectOrigin  bool

	// FireBullets fields.
	ShooterEntityID int
}

// TempEntitiesMessage is a batch of one-shot effects.
type TempEntitiesMessage struct {
	Entities []TempEntity
}

// UserMessageMessage carries a user-message payload; only SayText2 chat is
// recognized.
type UserMessageMessage struct {
	SayText2 *tables.SayText2
}

// MessageKind discriminates which field of Message is populated.
type MessageKind int

const (
	KindNetTick MessageKind = iota
	KindPacketEntities
	KindTempEntities
	KindGameEvent
	KindUserMessage
)

// Message is the tagged union handle_message(message, tick) receives.
// Exactly one of the kind-specific fields is non-nil,
// matching Kind.
type Message struct {
	Kind MessageKind

	NetTick        *NetTickMessage
	PacketEntities *PacketEntitiesMessage
	TempEntities   *TempEntitiesMessage
	GameEvent      *GameEvent
	UserMessage    *UserMessageMessage
}
