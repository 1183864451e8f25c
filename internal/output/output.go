// Package output assembles the final per-match summary: header, optional
// filename, the closed-round list, and the chat log, with players sorted by
// steam-id and missing tick bounds filled in.
package output

import (
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/stats"
	"github.com/leighmacdonald/tf2stats/internal/tables"
)

// Player is one round snapshot's per-player record. The per-class/per-weapon
// maps, bonus points and the fake/HLTV/replay flags are omitempty; steam_id,
// name, tick bounds, connection_count, overall and healing are always
// emitted.
type Player struct {
	SteamID         string                    `json:"steam_id"`
	Name            string                    `json:"name"`
	TickStart       int                       `json:"tick_start"`
	TickEnd         int                       `json:"tick_end"`
	ConnectionCount int                       `json:"connection_count"`
	Overall         stats.Stats               `json:"overall"`
	ByClass         map[string]*stats.Stats   `json:"by_class,omitempty"`
	ByWeapon        map[string]*stats.Stats   `json:"by_weapon,omitempty"`
	BonusPoints     int                       `json:"bonus_points,omitempty"`
	Healing         stats.HealingCounters     `json:"healing"`
	IsFakePlayer    bool                      `json:"is_fake_player,omitempty"`
	IsHLTV          bool                      `json:"is_hltv,omitempty"`
	IsReplay        bool                      `json:"is_replay,omitempty"`
}

// Round is one closed round.
type Round struct {
	Winner        string   `json:"winner,omitempty"`
	HasWinner     bool     `json:"has_winner"`
	IsStalemate   bool     `json:"is_stalemate,omitempty"`
	IsSuddenDeath bool     `json:"is_sudden_death,omitempty"`
	IsBonusRound  bool     `json:"is_bonus_round,omitempty"`
	TimeSeconds   float64  `json:"time_seconds"`
	MVPs          []string `json:"mvps,omitempty"`
	Winners       []string `json:"winners,omitempty"`
	Losers        []string `json:"losers,omitempty"`
	Players       []Player `json:"players"`
}

// Summary is the final emitted document: header, optional filename, the
// closed-round list, and the chat log. Header is typed any because this
// package never interprets the demuxer's header shape, only carries it.
type Summary struct {
	Header   any               `json:"header,omitempty"`
	Filename *string           `json:"filename,omitempty"`
	Rounds   []Round           `json:"rounds"`
	Chat     []tables.ChatEntry `json:"chat"`
}

// Build assembles the final Summary from a fully-drained accumulator.
// Callers must flush any still-open round and call
// acc.FinalizeTickEnd(finalTick) before calling Build — both are orchestration
// decisions that belong to internal/analyzer, which knows the end-of-stream
// round-close semantics (round-time-elapsed vs. player-activity heuristic).
func Build(acc *stats.Accumulator, chat []tables.ChatEntry, header any, filename string) Summary {
	rounds := make([]Round, 0, len(acc.Rounds()))
	for _, r := range acc.Rounds() {
		rounds = append(rounds, convertRound(r))
	}

	var fn *string
	if filename != "" {
		fn = &filename
	}

	if chat == nil {
		chat = []tables.ChatEntry{}
	}

	return Summary{
		Header:   header,
		Filename: fn,
		Rounds:   rounds,
		Chat:     chat,
	}
}

func convertRound(r stats.RoundSummary) Round {
	out := Round{
		HasWinner:     r.HasWinner,
		IsStalemate:   r.IsStalemate,
		IsSuddenDeath: r.IsSuddenDeath,
		IsBonusRound:  r.IsBonusRound,
		TimeSeconds:   r.TimeSeconds,
		MVPs:          r.MVPs,
		Winners:       r.Winners,
		Losers:        r.Losers,
		Players:       make([]Player, 0, len(r.Players)),
	}
	if r.HasWinner {
		out.Winner = r.Winner.String()
	}
	for _, p := range r.Players {
		out.Players = append(out.Players, convertPlayer(p))
	}
	return out
}

func convertPlayer(p *stats.PlayerSummary) Player {
	byClass := make(map[string]*stats.Stats, len(p.ByClass))
	for class, s := range p.ByClass {
		byClass[classKey(class)] = s
	}
	return Player{
		SteamID:         p.SteamID,
		Name:            p.Name,
		TickStart:       p.TickStart,
		TickEnd:         p.TickEnd,
		ConnectionCount: p.ConnectionCount,
		Overall:         p.Overall,
		ByClass:         byClass,
		ByWeapon:        p.ByWeapon,
		BonusPoints:     p.BonusPoints,
		Healing:         p.Healing,
		IsFakePlayer:    p.IsFakePlayer,
		IsHLTV:          p.IsHLTV,
		IsReplay:        p.IsReplay,
	}
}

func classKey(c entity.Class) string { return c.String() }
