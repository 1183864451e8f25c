package tick

import (
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/resolver"
)

func TestDrainPreservesArrivalOrder(t *testing.T) {
	q := NewQueue()
	q.QueueHurt(HurtEvent{VictimEntityID: 1, Damage: 10})
	q.QueueDeath(DeathEvent{VictimEntityID: 2})
	q.QueueCharge(ChargeEvent{WeaponEntityID: 3})

	events := q.Drain()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Kind != EventHurt || events[1].Kind != EventDeath || events[2].Kind != EventCharge {
		t.Fatalf("expected hurt,death,charge order, got %+v", events)
	}
	if len(q.Drain()) != 0 {
		t.Fatalf("expected queue emptied after drain")
	}
}

func TestClearTickBuffersResetsEverythingButNotEvents(t *testing.T) {
	q := NewQueue()
	q.AddExplosion(entity.Explosion{Tick: 1})
	q.PushSentryShot(resolver.SentryShot{SentryOwnerEntityID: 42})
	q.MarkAirblast(5)
	q.MarkDeleted(9)
	q.QueueDeath(DeathEvent{VictimEntityID: 1})

	q.ClearTickBuffers()

	if len(q.Explosions()) != 0 {
		t.Fatalf("expected explosions cleared")
	}
	if len(*q.SentryShots()) != 0 {
		t.Fatalf("expected sentry shots cleared")
	}
	if q.WasAirblasted(5) {
		t.Fatalf("expected airblast set cleared")
	}
	if q.WasDeleted(9) {
		t.Fatalf("expected deleted set cleared")
	}
	if len(q.Drain()) != 1 {
		t.Fatalf("expected queued events untouched by ClearTickBuffers")
	}
}
