// Package tables implements the string-table driven identity and chat
// bookkeeping: the "userinfo" table resolves steam-id-keyed PlayerSummary
// records, "modelprecache" and "EffectDispatch" populate the entity world's
// models/effects indexes, and SayText2 user-messages append to the chat log.
package tables

import "github.com/leighmacdonald/tf2stats/internal/stats"

// UserInfoEntry is the decoded payload of one "userinfo" string-table entry.
type UserInfoEntry struct {
	Name         string
	SteamID      string
	UserID       int
	EntityID     int
	IsFakePlayer bool
	IsHLTV       bool
	IsReplay     bool
}

// World is the subset of the entity world the chat/identity tables need to
// keep in sync. Declared as an interface to avoid tables depending on entity's full
// surface and to keep this package trivially testable.
type World interface {
	SetSteamID(userID int, steamID string)
	SetEntityUser(entityID, userID int)
	SetModel(id int, path string)
	SetEffect(id int, name string)
}

// Tables wires string-table entries into the stats accumulator and entity
// world.
type Tables struct {
	acc   *stats.Accumulator
	world World

	seenSteamIDs map[string]bool

	// userIDToSteamID lets ChatEntry resolve a SayText2 message's user-id to
	// the steam-id the chat log records.
	userIDToSteamID map[int]string
}

// New wires tables against an accumulator and world.
func New(acc *stats.Accumulator, world World) *Tables {
	return &Tables{
		acc:             acc,
		world:           world,
		seenSteamIDs:    make(map[string]bool),
		userIDToSteamID: make(map[int]string),
	}
}

// HandleUserInfo processes one "userinfo" string-table entry. tick is the current tick, used to stamp a newly-created
// summary's TickStart.
func (t *Tables) HandleUserInfo(e UserInfoEntry, tick int) {
	var summary *stats.PlayerSummary
	if t.seenSteamIDs[e.SteamID] {
		summary = t.acc.Reconnect(e.SteamID, e.Name)
	} else {
		summary = t.acc.Player(e.SteamID, e.Name, tick)
		t.seenSteamIDs[e.SteamID] = true
	}

	summary.IsFakePlayer = e.IsFakePlayer
	summary.IsHLTV = e.IsHLTV
	summary.IsReplay = e.IsReplay

	t.world.SetSteamID(e.UserID, e.SteamID)
	t.world.SetEntityUser(e.EntityID, e.UserID)
	t.userIDToSteamID[e.UserID] = e.SteamID
}

// ModelPrecacheEntry is one "modelprecache" string-table entry.
type ModelPrecacheEntry struct {
	Index int
	Path  string
}

// HandleModelPrecache records a model index -> path mapping.
func (t *Tables) HandleModelPrecache(e ModelPrecacheEntry) {
	t.world.SetModel(e.Index, e.Path)
}

// EffectDispatchEntry is one "EffectDispatch" string-table entry.
type EffectDispatchEntry struct {
	Index int
	Name  string
}

// HandleEffectDispatch records an effect id -> name mapping.
func (t *Tables) HandleEffectDispatch(e EffectDispatchEntry) {
	t.world.SetEffect(e.Index, e.Name)
}

// ChatEntry is one logged chat line.
type ChatEntry struct {
	Tick         int
	SteamID      string
	Text         string
	IsDead       bool
	IsTeam       bool
	IsSpec       bool
	IsNameChange bool
}

// SayText2 is the decoded payload of a SayText2 user-message.
type SayText2 struct {
	UserID       int
	Text         string
	IsDead       bool
	IsTeam       bool
	IsSpec       bool
	IsNameChange bool
}

// Log is the ordered chat log.
type Log struct {
	entries []ChatEntry
}

// Append records a SayText2 event, resolving the sender's steam-id via the
// user-id->steam-id map. Dropped silently, with no side effects, if the
// user-id has no known steam-id yet.
func (l *Log) Append(t *Tables, tick int, m SayText2) {
	steamID, ok := t.userIDToSteamID[m.UserID]
	if !ok {
		return
	}
	l.entries = append(l.entries, ChatEntry{
		Tick:         tick,
		SteamID:      steamID,
		Text:         m.Text,
		IsDead:       m.IsDead,
		IsTeam:       m.IsTeam,
		IsSpec:       m.IsSpec,
		IsNameChange: m.IsNameChange,
	})
}

// Entries returns the chat log in append order.
func (l *Log) Entries() []ChatEntry { return l.entries }
