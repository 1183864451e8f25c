// Package tick owns the per-tick event queue and scratch buffers: the
// explosion, sentry-shot, airblast and deleted-entity buffers that live only
// within the tick that produced them, and the ordered death/hurt/medigun-
// charge event queue that is drained once all of a tick's packet-entities
// have landed.
package tick

import (
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/resolver"
)

// DeathEvent is a queued "PlayerDeath" awaiting end-of-tick resolution.
type DeathEvent struct {
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

// HurtEvent is a queued "PlayerHurt" awaiting end-of-tick resolution.
type HurtEvent struct {
	VictimEntityID   int
	AttackerEntityID int
	DamageType       resolver.DamageType
	DamageBits       resolver.DamageBits
	Damage           int
	Headshot         bool
	Backstab         bool
}

// ChargeEvent is a queued medigun charge-release transition.
type ChargeEvent struct {
	WeaponEntityID int
}

// EventKind discriminates which field of Event is populated.
type EventKind int

const (
	EventDeath EventKind = iota
	EventHurt
	EventCharge
)

// Event is one entry of the ordered tick-event queue.
type Event struct {
	Kind   EventKind
	Death  *DeathEvent
	Hurt   *HurtEvent
	Charge *ChargeEvent
}

// Queue holds one tick's deferred event list plus the scratch buffers the
// resolver and temp-entity handling populate within the tick.
type Queue struct {
	events []Event

	explosions  []entity.Explosion
	sentryShots []resolver.SentryShot
	airblasted  map[int]bool // attacker entity-id -> airblasted this tick
	deleted     map[int]bool // entity-id -> deleted this tick
}

// NewQueue returns an empty tick queue.
func NewQueue() *Queue {
	return &Queue{
		airblasted: make(map[int]bool),
		deleted:    make(map[int]bool),
	}
}

// QueueDeath appends a death event to the ordered queue.
func (q *Queue) QueueDeath(e DeathEvent) { q.events = append(q.events, Event{Kind: EventDeath, Death: &e}) }

// QueueHurt appends a hurt event to the ordered queue.
func (q *Queue) QueueHurt(e HurtEvent) { q.events = append(q.events, Event{Kind: EventHurt, Hurt: &e}) }

// QueueCharge appends a medigun-charge event to the ordered queue.
func (q *Queue) QueueCharge(e ChargeEvent) {
	q.events = append(q.events, Event{Kind: EventCharge, Charge: &e})
}

// Drain returns the queued events in arrival order and empties the queue.
// Does not touch the scratch buffers — see ClearTickBuffers.
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// AddExplosion records a projectile explosion/hurt-eligibility this tick.
func (q *Queue) AddExplosion(e entity.Explosion) { q.explosions = append(q.explosions, e) }

// Explosions returns this tick's explosion buffer.
func (q *Queue) Explosions() []entity.Explosion { return q.explosions }

// PushSentryShot records a sentry muzzle-flash this tick.
func (q *Queue) PushSentryShot(s resolver.SentryShot) { q.sentryShots = append(q.sentryShots, s) }

// SentryShots returns a pointer to the live sentry-shot buffer, so the
// resolver can pop a matched entry in place.
func (q *Queue) SentryShots() *[]resolver.SentryShot { return &q.sentryShots }

// MarkAirblast records that attackerEntityID fired an airblast this tick.
func (q *Queue) MarkAirblast(attackerEntityID int) { q.airblasted[attackerEntityID] = true }

// WasAirblasted reports whether entityID airblasted this tick.
func (q *Queue) WasAirblasted(entityID int) bool { return q.airblasted[entityID] }

// MarkDeleted records that entityID was deleted this tick.
func (q *Queue) MarkDeleted(entityID int) { q.deleted[entityID] = true }

// WasDeleted reports whether entityID was deleted this tick.
func (q *Queue) WasDeleted(entityID int) bool { return q.deleted[entityID] }

// ClearTickBuffers resets the explosion, sentry-shot, airblast, and
// deleted-entity buffers for the next tick. The hurts/deaths/charges buffer is
// already empty after Drain.
func (q *Queue) ClearTickBuffers() {
	q.explosions = q.explosions[:0]
	q.sentryShots = q.sentryShots[:0]
	q.airblasted = make(map[int]bool)
	q.deleted = make(map[int]bool)
}
