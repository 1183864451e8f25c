package stats

import (
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/entity"
)

func TestKillCreditsAttackerAndVictim(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 100)

	attacker := a.Player("76561198000000001", "Attacker", 100)
	victim := a.Player("76561198000000002", "Victim", 100)

	a.Kill(attacker, victim, nil, "tf_weapon_rocketlauncher", entity.ClassSoldier, entity.ClassScout, entity.ClassUnknown, false, false, false, false, false, false)

	if attacker.Overall.Kills != 1 {
		t.Fatalf("attacker kills = %d, want 1", attacker.Overall.Kills)
	}
	if attacker.ByClass[entity.ClassSoldier].Kills != 1 {
		t.Fatalf("attacker per-class kills = %d, want 1", attacker.ByClass[entity.ClassSoldier].Kills)
	}
	if attacker.ByWeapon["tf_weapon_rocketlauncher"].Kills != 1 {
		t.Fatalf("attacker per-weapon kills = %d, want 1", attacker.ByWeapon["tf_weapon_rocketlauncher"].Kills)
	}
	if victim.Overall.Deaths != 1 {
		t.Fatalf("victim deaths = %d, want 1", victim.Overall.Deaths)
	}
}

func TestKillPostRoundSplitsCounters(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 0)
	attacker := a.Player("1", "A", 0)
	victim := a.Player("2", "V", 0)

	a.SetRoundState(TeamWin, 500)
	a.Kill(attacker, victim, nil, "tf_weapon_shotgun", entity.ClassEngineer, entity.ClassSpy, entity.ClassUnknown, false, false, false, false, false, false)

	if attacker.Overall.Kills != 0 || attacker.Overall.PostRoundKills != 1 {
		t.Fatalf("expected postround kill only, got Kills=%d PostRoundKills=%d", attacker.Overall.Kills, attacker.Overall.PostRoundKills)
	}
	if victim.Overall.Deaths != 0 || victim.Overall.PostRoundDeaths != 1 {
		t.Fatalf("expected postround death only, got Deaths=%d PostRoundDeaths=%d", victim.Overall.Deaths, victim.Overall.PostRoundDeaths)
	}
}

func TestFeignedDeathDoesNotCountAsDeath(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 0)
	attacker := a.Player("1", "A", 0)
	victim := a.Player("2", "V", 0)

	a.Kill(attacker, victim, nil, "tf_weapon_knife", entity.ClassSpy, entity.ClassSpy, entity.ClassUnknown, true, false, false, false, false, true)

	if victim.Overall.Deaths != 0 {
		t.Fatalf("feigned death counted: Deaths = %d, want 0", victim.Overall.Deaths)
	}
	if attacker.Overall.Kills != 1 {
		t.Fatalf("attacker should still be credited the kill: Kills = %d, want 1", attacker.Overall.Kills)
	}
}

func TestSuicideDoesNotCreditAttacker(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 0)
	p := a.Player("1", "A", 0)

	a.Kill(p, p, nil, "tf_weapon_grenade_demoman", entity.ClassDemoman, entity.ClassDemoman, entity.ClassUnknown, false, false, false, false, false, false)

	if p.Overall.Kills != 0 {
		t.Fatalf("suicide credited as kill: Kills = %d, want 0", p.Overall.Kills)
	}
	if p.Overall.Suicides != 1 {
		t.Fatalf("Suicides = %d, want 1", p.Overall.Suicides)
	}
}

func TestDominationAndRevengeCounters(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 0)
	attacker := a.Player("1", "A", 0)
	victim := a.Player("2", "V", 0)

	a.Kill(attacker, victim, nil, "w", entity.ClassHeavy, entity.ClassScout, entity.ClassUnknown, false, true, false, false, false, false)
	if attacker.Overall.Dominations != 1 || victim.Overall.Dominated != 1 {
		t.Fatalf("domination counters wrong: dominator=%d dominated=%d", attacker.Overall.Dominations, victim.Overall.Dominated)
	}

	a.Kill(victim, attacker, nil, "w", entity.ClassScout, entity.ClassHeavy, entity.ClassUnknown, false, false, true, false, false, false)
	if victim.Overall.Revenges != 1 || attacker.Overall.Revenged != 1 {
		t.Fatalf("revenge counters wrong: revenger=%d revenged=%d", victim.Overall.Revenges, attacker.Overall.Revenged)
	}
}

func TestHealingAccumulatesDeltaAndFlagsAnomaly(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 0)
	medic := a.Player("1", "Medic", 0)

	delta, anomalous := a.Healing(medic, entity.ClassMedic, "tf_weapon_medigun", 50)
	if delta != 50 || anomalous {
		t.Fatalf("first healing delta = %d, anomalous = %v, want 50, false", delta, anomalous)
	}

	delta, anomalous = a.Healing(medic, entity.ClassMedic, "tf_weapon_medigun", 450)
	if delta != 400 || !anomalous {
		t.Fatalf("second healing delta = %d, anomalous = %v, want 400, true", delta, anomalous)
	}

	if medic.Overall.HealingDealt != 450 {
		t.Fatalf("HealingDealt = %d, want 450", medic.Overall.HealingDealt)
	}
	if medic.Healing.RoundRunning != 450 {
		t.Fatalf("Healing.RoundRunning = %d, want 450", medic.Healing.RoundRunning)
	}

	// A non-increasing reading (e.g. scoreboard reset on respawn) applies no
	// delta and is never treated as anomalous.
	delta, anomalous = a.Healing(medic, entity.ClassMedic, "tf_weapon_medigun", 10)
	if delta != 0 || anomalous {
		t.Fatalf("regressed healing reading: delta = %d, anomalous = %v, want 0, false", delta, anomalous)
	}
}

func TestCloseRoundSnapshotsSortedByStatic(t *testing.T) {
	a := NewAccumulator()
	a.SetRoundState(RoundRunning, 0)
	b := a.Player("2", "B", 0)
	first := a.Player("1", "A", 0)
	a.Kill(first, b, nil, "w", entity.ClassSniper, entity.ClassScout, entity.ClassUnknown, false, false, false, false, false, false)

	a.CloseRound(entity.TeamRed, true, false, false, false, 1000, []string{"1"}, []string{"1"}, []string{"2"})

	if len(a.Rounds()) != 1 {
		t.Fatalf("Rounds() len = %d, want 1", len(a.Rounds()))
	}
	round := a.Rounds()[0]
	if len(round.Players) != 2 {
		t.Fatalf("round.Players len = %d, want 2", len(round.Players))
	}
	if round.Players[0].SteamID != "1" || round.Players[1].SteamID != "2" {
		t.Fatalf("round.Players not sorted by steam-id: got %s, %s", round.Players[0].SteamID, round.Players[1].SteamID)
	}
	// Mutating the live accumulator after close must not retroactively alter
	// the snapshot.
	first.Overall.Kills = 999
	if round.Players[0].Overall.Kills == 999 {
		t.Fatalf("snapshot shares state with live accumulator")
	}
}

func TestReconnectIncrementsConnectionCount(t *testing.T) {
	a := NewAccumulator()
	a.Player("1", "Old Name", 0)
	p := a.Reconnect("1", "New Name")

	if p.ConnectionCount != 2 {
		t.Fatalf("ConnectionCount = %d, want 2", p.ConnectionCount)
	}
	if p.Name != "New Name" {
		t.Fatalf("Name = %q, want %q", p.Name, "New Name")
	}
}

func TestFinalizeTickEndFillsMissing(t *testing.T) {
	a := NewAccumulator()
	p := a.Player("1", "A", 0)
	a.FinalizeTickEnd(5000)

	if p.TickStart != 5000 || p.TickEnd != 5000 {
		t.Fatalf("TickStart=%d TickEnd=%d, want both 5000", p.TickStart, p.TickEnd)
	}
}
