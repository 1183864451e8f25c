package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/demuxer"
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/output"
	"github.com/leighmacdonald/tf2stats/internal/resolver"
	"github.com/leighmacdonald/tf2stats/internal/schema"
	"github.com/leighmacdonald/tf2stats/internal/sendprops"
	"github.com/leighmacdonald/tf2stats/internal/tables"
)

func loadTestSchema(t *testing.T) *schema.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.json")
	doc := `{"result":{"items":[
		{"defindex":200,"item_logname":"rocketlauncher","item_class":"tf_weapon_rocketlauncher"}
	]}}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write schema fixture: %v", err)
	}
	reg, err := schema.LoadFile(path)
	if err != nil {
		t.Fatalf("load schema fixture: %v", err)
	}
	return reg
}

// TestAnalyzerEndToEndKillAttribution drives a full data-tables -> userinfo
// -> packet-entities -> game-event -> into_output pass through a FakeSource,
// covering the game-rules round-state prop, a player-death resolved against
// the attacker's active weapon, and a round-win close.
func TestAnalyzerEndToEndKillAttribution(t *testing.T) {
	reg := loadTestSchema(t)
	a := New(reg, nil)
	a.SetHeader(map[string]string{"map": "cp_badlands"})
	a.SetFilename("match.dem")

	src := demuxer.NewFakeSource().
		WithDataTables(demuxer.DataTableBatch{
			ParseTables: []entity.ParseTable{
				{Name: "DT_TFWeaponRocketLauncher", BaseClass: "DT_BaseCombatWeapon"},
			},
		}).
		WithStringEntry("userinfo", demuxer.StringEntry{
			Kind: demuxer.StringEntryUserInfo,
			UserInfo: tables.UserInfoEntry{
				Name: "attacker", SteamID: "STEAM_1", UserID: 1, EntityID: 1,
			},
		}).
		WithStringEntry("userinfo", demuxer.StringEntry{
			Kind: demuxer.StringEntryUserInfo,
			UserInfo: tables.UserInfoEntry{
				Name: "victim", SteamID: "STEAM_2", UserID: 2, EntityID: 2,
			},
		}).
		WithMessage(10, demuxer.Message{
			Kind: demuxer.KindPacketEntities,
			PacketEntities: &demuxer.PacketEntitiesMessage{
				Updates: []demuxer.EntityUpdate{
					{
						Index: 500, Op: demuxer.EntityEnter, ClassName: "DT_TeamplayRoundBasedRules",
						Props: entity.Props{sendprops.RoundState: int(4)}, // RoundRunning
					},
					{
						Index: 10, Op: demuxer.EntityEnter, ClassName: "DT_TFWeaponRocketLauncher",
						Props: entity.Props{
							sendprops.ItemDefIndex: 200,
							sendprops.WeaponOwner:  entity.Handle(1),
						},
					},
					{
						Index: 1, Op: demuxer.EntityEnter, ClassName: "CTFPlayer",
						Props: entity.Props{
							sendprops.PlayerClass:  int(entity.ClassSoldier),
							sendprops.TeamNum:      int(entity.TeamRed),
							sendprops.ActiveWeapon: entity.Handle(10),
						},
					},
					{
						Index: 2, Op: demuxer.EntityEnter, ClassName: "CTFPlayer",
						Props: entity.Props{
							sendprops.PlayerClass: int(entity.ClassScout),
							sendprops.TeamNum:     int(entity.TeamBlue),
						},
					},
				},
			},
		}).
		WithMessage(100, demuxer.Message{
			Kind: demuxer.KindGameEvent,
			GameEvent: &demuxer.GameEvent{
				Name: "player_death",
				PlayerDeath: &demuxer.PlayerDeathEvent{
					VictimEntityID:   2,
					AttackerEntityID: 1,
					DamageType:       resolver.Normal,
				},
			},
		}).
		WithMessage(150, demuxer.Message{
			Kind: demuxer.KindGameEvent,
			GameEvent: &demuxer.GameEvent{
				Name: "teamplay_round_win",
				RoundWin: &demuxer.RoundWinEvent{
					Winner:    entity.TeamRed,
					HasWinner: true,
				},
			},
		})

	result := src.Run(a)
	summary, ok := result.(output.Summary)
	if !ok {
		t.Fatalf("expected output.Summary, got %T", result)
	}

	if summary.Filename == nil || *summary.Filename != "match.dem" {
		t.Fatalf("expected filename set, got %v", summary.Filename)
	}
	if len(summary.Rounds) != 1 {
		t.Fatalf("expected exactly one closed round, got %d", len(summary.Rounds))
	}
	round := summary.Rounds[0]
	if round.Winner != "red" || !round.HasWinner {
		t.Fatalf("expected red to win, got %+v", round)
	}
	if len(round.Winners) != 1 || round.Winners[0] != "STEAM_1" {
		t.Fatalf("expected STEAM_1 in winners, got %v", round.Winners)
	}
	if len(round.Losers) != 1 || round.Losers[0] != "STEAM_2" {
		t.Fatalf("expected STEAM_2 in losers, got %v", round.Losers)
	}

	var attacker, victim output.Player
	for _, p := range round.Players {
		switch p.SteamID {
		case "STEAM_1":
			attacker = p
		case "STEAM_2":
			victim = p
		}
	}
	if attacker.Overall.Kills != 1 {
		t.Fatalf("expected attacker to have 1 kill, got %+v", attacker.Overall)
	}
	if victim.Overall.Deaths != 1 {
		t.Fatalf("expected victim to have 1 death, got %+v", victim.Overall)
	}
	weaponStats, ok := attacker.ByWeapon["rocketlauncher"]
	if !ok || weaponStats.Kills != 1 {
		t.Fatalf("expected the kill attributed to rocketlauncher, got %+v", attacker.ByWeapon)
	}
}

// TestAnalyzerScoreboardPropsCreditHealingAndBonusPoints drives a medic
// through a scoreboard update and a mid-demo disconnect, covering the
// m_iHealPoints/m_iBonusPoints decode path and the player-delete tick-end
// hook.
func TestAnalyzerScoreboardPropsCreditHealingAndBonusPoints(t *testing.T) {
	reg := loadTestSchema(t)
	a := New(reg, nil)

	src := demuxer.NewFakeSource().
		WithStringEntry("userinfo", demuxer.StringEntry{
			Kind: demuxer.StringEntryUserInfo,
			UserInfo: tables.UserInfoEntry{
				Name: "medic", SteamID: "STEAM_3", UserID: 3, EntityID: 3,
			},
		}).
		WithMessage(10, demuxer.Message{
			Kind: demuxer.KindPacketEntities,
			PacketEntities: &demuxer.PacketEntitiesMessage{
				Updates: []demuxer.EntityUpdate{
					{
						Index: 3, Op: demuxer.EntityEnter, ClassName: "CTFPlayer",
						Props: entity.Props{
							sendprops.PlayerClass: int(entity.ClassMedic),
							sendprops.TeamNum:     int(entity.TeamRed),
						},
					},
				},
			},
		}).
		WithMessage(20, demuxer.Message{
			Kind: demuxer.KindPacketEntities,
			PacketEntities: &demuxer.PacketEntitiesMessage{
				Updates: []demuxer.EntityUpdate{
					{
						Index: 3, Op: demuxer.EntityPreserve, ClassName: "CTFPlayer",
						Props: entity.Props{
							sendprops.ScoreHealing:     250,
							sendprops.ScoreBonusPoints: 5,
						},
					},
				},
			},
		}).
		WithMessage(30, demuxer.Message{
			Kind: demuxer.KindPacketEntities,
			PacketEntities: &demuxer.PacketEntitiesMessage{
				Updates: []demuxer.EntityUpdate{
					{Index: 3, Op: demuxer.EntityDelete},
				},
			},
		}).
		WithMessage(35, demuxer.Message{
			Kind: demuxer.KindGameEvent,
			GameEvent: &demuxer.GameEvent{
				Name: "teamplay_round_win",
				RoundWin: &demuxer.RoundWinEvent{
					Winner:    entity.TeamRed,
					HasWinner: true,
				},
			},
		})

	result := src.Run(a)
	summary, ok := result.(output.Summary)
	if !ok {
		t.Fatalf("expected output.Summary, got %T", result)
	}
	if len(summary.Rounds) != 1 || len(summary.Rounds[0].Players) != 1 {
		t.Fatalf("expected exactly one closed round with one player, got %+v", summary.Rounds)
	}
	medic := summary.Rounds[0].Players[0]
	if medic.BonusPoints != 5 {
		t.Fatalf("expected BonusPoints 5, got %d", medic.BonusPoints)
	}
	if medic.Overall.HealingDealt != 250 {
		t.Fatalf("expected HealingDealt 250, got %d", medic.Overall.HealingDealt)
	}
	if medic.TickEnd != 30 {
		t.Fatalf("expected tick_end 30 from the disconnect hook, got %d", medic.TickEnd)
	}
}

// TestAnalyzerChatLogDefaultsToEmptySlice covers the no-op path: a demo with
// no messages at all still produces a valid (empty, not nil) summary.
func TestAnalyzerChatLogDefaultsToEmptySlice(t *testing.T) {
	a := New(nil, nil)
	result := demuxer.NewFakeSource().Run(a)
	summary, ok := result.(output.Summary)
	if !ok {
		t.Fatalf("expected output.Summary, got %T", result)
	}
	if summary.Chat == nil {
		t.Fatalf("expected chat to default to an empty slice, not nil")
	}
	if len(summary.Rounds) != 0 {
		t.Fatalf("expected no rounds for an empty demo, got %d", len(summary.Rounds))
	}
}
