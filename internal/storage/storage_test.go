package storage

import (
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/output"
	"github.com/leighmacdonald/tf2stats/internal/stats"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleSummary() output.Summary {
	filename := "match.dem"
	return output.Summary{
		Header:   map[string]string{"map": "cp_badlands"},
		Filename: &filename,
		Rounds: []output.Round{
			{
				Winner:    "red",
				HasWinner: true,
				Players: []output.Player{
					{
						SteamID: "STEAM_1",
						Name:    "alice",
						Overall: stats.Stats{Kills: 2, Deaths: 1},
						ByWeapon: map[string]*stats.Stats{
							"rocketlauncher": {Kills: 2, Shots: 4, Hits: 3},
						},
					},
					{
						SteamID: "STEAM_2",
						Name:    "bob",
						Overall: stats.Stats{Kills: 0, Deaths: 2},
					},
				},
			},
		},
	}
}

func TestSaveSummaryAndRoundTrip(t *testing.T) {
	db := openMemDB(t)
	sum := sampleSummary()

	if err := db.SaveSummary("deadbeef1234", "match.dem", sum); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	got, hash, err := db.GetSummaryByHashPrefix("deadb")
	if err != nil {
		t.Fatalf("GetSummaryByHashPrefix: %v", err)
	}
	if got == nil {
		t.Fatal("expected a match for prefix 'deadb'")
	}
	if hash != "deadbeef1234" {
		t.Errorf("unexpected hash %s", hash)
	}
	if len(got.Rounds) != 1 || got.Rounds[0].Winner != "red" {
		t.Fatalf("unexpected round-trip summary: %+v", got)
	}
}

func TestGetSummaryByHashPrefixNoMatch(t *testing.T) {
	db := openMemDB(t)

	got, hash, err := db.GetSummaryByHashPrefix("ffffffff")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil || hash != "" {
		t.Error("expected nil summary for unknown prefix")
	}
}

func TestListDemosOrdersNewestFirst(t *testing.T) {
	db := openMemDB(t)
	sum := sampleSummary()

	if err := db.SaveSummary("h1", "first.dem", sum); err != nil {
		t.Fatalf("SaveSummary h1: %v", err)
	}
	if err := db.SaveSummary("h2", "second.dem", sum); err != nil {
		t.Fatalf("SaveSummary h2: %v", err)
	}

	list, err := db.ListDemos()
	if err != nil {
		t.Fatalf("ListDemos: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 demos, got %d", len(list))
	}
}

func TestSaveSummaryPopulatesPlayerAggregates(t *testing.T) {
	db := openMemDB(t)
	sum := sampleSummary()

	if err := db.SaveSummary("h1", "match.dem", sum); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	var kills int
	if err := db.conn.QueryRow(`SELECT kills FROM player_match_stats WHERE demo_hash = 'h1' AND steam_id = 'STEAM_1'`).Scan(&kills); err != nil {
		t.Fatalf("query aggregate: %v", err)
	}
	if kills != 2 {
		t.Errorf("expected 2 aggregated kills for STEAM_1, got %d", kills)
	}

	var weaponKills int
	if err := db.conn.QueryRow(`SELECT kills FROM player_weapon_stats WHERE demo_hash = 'h1' AND steam_id = 'STEAM_1' AND weapon = 'rocketlauncher'`).Scan(&weaponKills); err != nil {
		t.Fatalf("query weapon aggregate: %v", err)
	}
	if weaponKills != 2 {
		t.Errorf("expected 2 rocketlauncher kills, got %d", weaponKills)
	}
}

func TestSaveSummaryRejectsWrongType(t *testing.T) {
	db := openMemDB(t)
	if err := db.SaveSummary("h1", "match.dem", "not a summary"); err == nil {
		t.Fatal("expected an error for a non-output.Summary value")
	}
}

func TestDeleteDemoRemovesAggregates(t *testing.T) {
	db := openMemDB(t)
	sum := sampleSummary()
	if err := db.SaveSummary("h1", "match.dem", sum); err != nil {
		t.Fatalf("SaveSummary: %v", err)
	}

	if err := db.DeleteDemo("h1"); err != nil {
		t.Fatalf("DeleteDemo: %v", err)
	}

	got, _, err := db.GetSummaryByHashPrefix("h1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected demo to be gone after DeleteDemo")
	}

	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM player_match_stats WHERE demo_hash = 'h1'`).Scan(&count); err != nil {
		t.Fatalf("query count: %v", err)
	}
	if count != 0 {
		t.Errorf("expected cascaded delete of player_match_stats, got %d rows", count)
	}
}

func TestDeleteDemoUnknownHash(t *testing.T) {
	db := openMemDB(t)
	if err := db.DeleteDemo("nonexistent"); err == nil {
		t.Fatal("expected an error deleting an unknown hash")
	}
}
