package tables

import (
	"testing"

	"github.com/leighmacdonald/tf2stats/internal/stats"
)

type fakeWorld struct {
	steamIDs map[int]string
	entUsers map[int]int
	models   map[int]string
	effects  map[int]string
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		steamIDs: make(map[int]string),
		entUsers: make(map[int]int),
		models:   make(map[int]string),
		effects:  make(map[int]string),
	}
}

func (f *fakeWorld) SetSteamID(userID int, steamID string) { f.steamIDs[userID] = steamID }
func (f *fakeWorld) SetEntityUser(entityID, userID int)    { f.entUsers[entityID] = userID }
func (f *fakeWorld) SetModel(id int, path string)          { f.models[id] = path }
func (f *fakeWorld) SetEffect(id int, name string)         { f.effects[id] = name }

func TestHandleUserInfoReconnectIncrementsConnectionCount(t *testing.T) {
	acc := stats.NewAccumulator()
	world := newFakeWorld()
	tb := New(acc, world)

	tb.HandleUserInfo(UserInfoEntry{Name: "alice", SteamID: "STEAM_X", UserID: 3, EntityID: 7}, 100)
	tb.HandleUserInfo(UserInfoEntry{Name: "alice", SteamID: "STEAM_X", UserID: 4, EntityID: 8}, 500)

	players := acc.Players()
	if len(players) != 1 {
		t.Fatalf("expected exactly one PlayerSummary, got %d", len(players))
	}
	p := players[0]
	if p.ConnectionCount != 2 {
		t.Fatalf("expected connection_count=2, got %d", p.ConnectionCount)
	}
	if world.steamIDs[4] != "STEAM_X" {
		t.Fatalf("expected latest userID mapped to steam-id")
	}
	if world.entUsers[8] != 4 {
		t.Fatalf("expected latest entity-id -> user-id mapping")
	}
}

func TestChatLogDropsUnknownUserID(t *testing.T) {
	acc := stats.NewAccumulator()
	world := newFakeWorld()
	tb := New(acc, world)
	var log Log

	log.Append(tb, 10, SayText2{UserID: 99, Text: "hello"})
	if len(log.Entries()) != 0 {
		t.Fatalf("expected unknown user-id chat to be dropped")
	}

	tb.HandleUserInfo(UserInfoEntry{Name: "bob", SteamID: "STEAM_Y", UserID: 1, EntityID: 2}, 10)
	log.Append(tb, 20, SayText2{UserID: 1, Text: "gg"})
	entries := log.Entries()
	if len(entries) != 1 || entries[0].SteamID != "STEAM_Y" || entries[0].Text != "gg" {
		t.Fatalf("expected one resolved chat entry, got %+v", entries)
	}
}
