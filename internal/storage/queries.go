package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/leighmacdonald/tf2stats/internal/output"
)

// DemoRecord is the row shape `tf2stats list` renders — just enough to pick
// a hash prefix to pass to `tf2stats summary`.
type DemoRecord struct {
	Hash       string
	Filename   string
	MapName    string
	ParsedAt   string
	RoundCount int
}

// SaveSummary implements httpapi.Store and is also called directly by
// cmd/parse.go. summary must be an output.Summary; accepting `any` keeps
// this package decoupled from internal/httpapi's interface declaration.
func (db *DB) SaveSummary(hash, filename string, summary any) error {
	sum, ok := summary.(output.Summary)
	if !ok {
		return fmt.Errorf("storage: SaveSummary expects output.Summary, got %T", summary)
	}

	blob, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO demos(hash, filename, map_name, parsed_at, round_count, summary_json)
		VALUES (?, ?, ?, datetime('now'), ?, ?)`,
		hash, filename, mapNameOf(sum.Header), len(sum.Rounds), string(blob),
	); err != nil {
		return fmt.Errorf("insert demo: %w", err)
	}

	// Re-saving an existing hash replaces its aggregates wholesale.
	if _, err := tx.Exec(`DELETE FROM player_match_stats WHERE demo_hash = ?`, hash); err != nil {
		return fmt.Errorf("clear player_match_stats: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM player_weapon_stats WHERE demo_hash = ?`, hash); err != nil {
		return fmt.Errorf("clear player_weapon_stats: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM chat_log WHERE demo_hash = ?`, hash); err != nil {
		return fmt.Errorf("clear chat_log: %w", err)
	}

	if err := insertAggregates(tx, hash, sum); err != nil {
		return err
	}
	if err := insertChat(tx, hash, sum); err != nil {
		return err
	}

	return tx.Commit()
}

// insertAggregates sums each player's Overall stats and per-weapon stats
// across every round into one demo-wide row per player, building
// player_match_stats from per-round data.
func insertAggregates(tx *sql.Tx, hash string, sum output.Summary) error {
	type totals struct {
		name                                                      string
		kills, assists, deaths                                    int
		damageDealt, damageTaken, healingDealt                    int
		headshotKills, backstabKills, captures                    int
	}
	byPlayer := map[string]*totals{}
	type weaponTotals struct{ kills, shots, hits int }
	byWeapon := map[[2]string]*weaponTotals{}

	for _, round := range sum.Rounds {
		for _, p := range round.Players {
			t := byPlayer[p.SteamID]
			if t == nil {
				t = &totals{}
				byPlayer[p.SteamID] = t
			}
			t.name = p.Name
			t.kills += p.Overall.Kills
			t.assists += p.Overall.Assists
			t.deaths += p.Overall.Deaths
			t.damageDealt += p.Overall.DamageDealt
			t.damageTaken += p.Overall.DamageTaken
			t.healingDealt += p.Overall.HealingDealt
			t.headshotKills += p.Overall.HeadshotKills
			t.backstabKills += p.Overall.BackstabKills
			t.captures += p.Overall.Captures

			for weapon, ws := range p.ByWeapon {
				key := [2]string{p.SteamID, weapon}
				wt := byWeapon[key]
				if wt == nil {
					wt = &weaponTotals{}
					byWeapon[key] = wt
				}
				wt.kills += ws.Kills
				wt.shots += ws.Shots
				wt.hits += ws.Hits
			}
		}
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_match_stats(
			demo_hash, steam_id, name, kills, assists, deaths,
			damage_dealt, damage_taken, healing_dealt,
			headshot_kills, backstab_kills, captures
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare player_match_stats: %w", err)
	}
	defer stmt.Close()

	for steamID, t := range byPlayer {
		if _, err := stmt.Exec(
			hash, steamID, t.name, t.kills, t.assists, t.deaths,
			t.damageDealt, t.damageTaken, t.healingDealt,
			t.headshotKills, t.backstabKills, t.captures,
		); err != nil {
			return fmt.Errorf("insert player_match_stats for %s: %w", steamID, err)
		}
	}

	weaponStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_weapon_stats(demo_hash, steam_id, weapon, kills, shots, hits)
		VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare player_weapon_stats: %w", err)
	}
	defer weaponStmt.Close()

	for key, wt := range byWeapon {
		if _, err := weaponStmt.Exec(hash, key[0], key[1], wt.kills, wt.shots, wt.hits); err != nil {
			return fmt.Errorf("insert player_weapon_stats for %s/%s: %w", key[0], key[1], err)
		}
	}
	return nil
}

func insertChat(tx *sql.Tx, hash string, sum output.Summary) error {
	if len(sum.Chat) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT INTO chat_log(demo_hash, tick, steam_id, message) VALUES (?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare chat_log: %w", err)
	}
	defer stmt.Close()

	for _, c := range sum.Chat {
		if _, err := stmt.Exec(hash, c.Tick, c.SteamID, c.Text); err != nil {
			return fmt.Errorf("insert chat_log: %w", err)
		}
	}
	return nil
}

// mapNameOf best-effort extracts a "map" field from the demuxer's opaque
// header.
func mapNameOf(header any) string {
	switch h := header.(type) {
	case map[string]string:
		return h["map"]
	case map[string]any:
		if v, ok := h["map"].(string); ok {
			return v
		}
	}
	return ""
}

// ListDemos returns every stored demo, newest first.
func (db *DB) ListDemos() ([]DemoRecord, error) {
	rows, err := db.conn.Query(`
		SELECT hash, filename, map_name, parsed_at, round_count
		FROM demos ORDER BY parsed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DemoRecord
	for rows.Next() {
		var d DemoRecord
		if err := rows.Scan(&d.Hash, &d.Filename, &d.MapName, &d.ParsedAt, &d.RoundCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetSummaryByHashPrefix looks up a stored summary by a (possibly partial)
// hash prefix. Returns (nil summary, "", nil) when nothing matches.
func (db *DB) GetSummaryByHashPrefix(prefix string) (*output.Summary, string, error) {
	var hash, blob string
	err := db.conn.QueryRow(
		`SELECT hash, summary_json FROM demos WHERE hash LIKE ? ORDER BY parsed_at DESC LIMIT 1`,
		prefix+"%",
	).Scan(&hash, &blob)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("query demo by prefix: %w", err)
	}

	var sum output.Summary
	if err := json.Unmarshal([]byte(blob), &sum); err != nil {
		return nil, "", fmt.Errorf("unmarshal summary: %w", err)
	}
	return &sum, hash, nil
}

// DeleteDemo removes a demo and its aggregates (ON DELETE CASCADE covers
// player_match_stats/player_weapon_stats/chat_log).
func (db *DB) DeleteDemo(hash string) error {
	res, err := db.conn.Exec(`DELETE FROM demos WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("delete demo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no demo found with hash %q", hash)
	}
	return nil
}
