// Package report formats and prints parsed demo summaries as terminal
// tables using tablewriter: a printSection explanatory-header convention,
// tablewriter.WithConfig column alignment, and fatih/color for highlighting
// a focus player's row.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/leighmacdonald/tf2stats/internal/output"
	"github.com/leighmacdonald/tf2stats/internal/storage"
)

// Verbose controls whether metric explanations are printed before each table.
var Verbose = true

func printSection(w io.Writer, title, desc string) {
	fmt.Fprintf(w, "\n--- %s ---\n", title)
	if Verbose {
		fmt.Fprintf(w, "%s\n", desc)
	}
}

// PrintSummaryHeader prints a one-line header for the parsed demo.
func PrintSummaryHeader(w io.Writer, hash, filename string, sum output.Summary) {
	mapName := "?"
	if m, ok := sum.Header.(map[string]string); ok {
		if v, ok := m["map"]; ok {
			mapName = v
		}
	}
	shortHash := hash
	if len(shortHash) > 12 {
		shortHash = shortHash[:12]
	}
	fmt.Fprintf(w, "\nFile: %s  |  Map: %s  |  Rounds: %d  |  Hash: %s\n",
		filename, mapName, len(sum.Rounds), shortHash)
}

// PrintScoreboard renders one table per round. focusSteamID, if non-empty,
// marks that player's row with a cyan ">".
func PrintScoreboard(w io.Writer, sum output.Summary, focusSteamID string) {
	for i, round := range sum.Rounds {
		title := fmt.Sprintf("Round %d", i+1)
		if round.HasWinner {
			title += fmt.Sprintf(" — winner: %s", round.Winner)
		}
		printSection(w, title,
			"K=Kills  A=Assists  D=Deaths  DMG=damage dealt  HEAL=healing dealt  CAP=point captures  HS=headshot kills  BS=backstab kills")

		table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
			Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
			Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
		}))
		table.Header(" ", "NAME", "STEAM_ID", "K", "A", "D", "DMG", "HEAL", "CAP", "HS", "BS")

		players := append([]output.Player(nil), round.Players...)
		sort.Slice(players, func(a, b int) bool { return players[a].Overall.Kills > players[b].Overall.Kills })

		for _, p := range players {
			marker := " "
			if focusSteamID != "" && p.SteamID == focusSteamID {
				marker = color.CyanString(">")
			}
			table.Append(
				marker, p.Name, p.SteamID,
				p.Overall.Kills, p.Overall.Assists, p.Overall.Deaths,
				p.Overall.DamageDealt, p.Overall.HealingDealt, p.Overall.Captures,
				p.Overall.HeadshotKills, p.Overall.BackstabKills,
			)
		}
		table.Render()
	}
	fmt.Fprintln(w)
}

// PrintWeaponTable renders one row per (player, weapon) pair, summed across
// every round in the summary.
func PrintWeaponTable(w io.Writer, sum output.Summary) {
	printSection(w, "Weapon Breakdown", "K=Kills  SHOTS=shots fired  HITS=shots landed  ACC%=hit accuracy")

	type row struct {
		name, weapon   string
		kills, shots, hits int
	}
	totals := map[[2]string]*row{}
	for _, round := range sum.Rounds {
		for _, p := range round.Players {
			for weapon, s := range p.ByWeapon {
				key := [2]string{p.SteamID, weapon}
				r := totals[key]
				if r == nil {
					r = &row{name: p.Name, weapon: weapon}
					totals[key] = r
				}
				r.kills += s.Kills
				r.shots += s.Shots
				r.hits += s.Hits
			}
		}
	}

	rows := make([]*row, 0, len(totals))
	for _, r := range totals {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].kills > rows[b].kills })

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("NAME", "WEAPON", "K", "SHOTS", "HITS", "ACC%")
	for _, r := range rows {
		acc := 0.0
		if r.shots > 0 {
			acc = 100 * float64(r.hits) / float64(r.shots)
		}
		table.Append(r.name, r.weapon, r.kills, r.shots, r.hits, fmt.Sprintf("%.1f", acc))
	}
	table.Render()
	fmt.Fprintln(w)
}

// PrintDemoList renders the `tf2stats list` table.
func PrintDemoList(w io.Writer, demos []storage.DemoRecord) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
	}))
	table.Header("HASH", "FILENAME", "MAP", "ROUNDS", "PARSED_AT")
	for _, d := range demos {
		hash := d.Hash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(hash, d.Filename, d.MapName, d.RoundCount, d.ParsedAt)
	}
	table.Render()
}

// PrintSummaryTo is a convenience wrapper that prints the header, scoreboard,
// and weapon table to stdout — the shape cmd/parse.go and cmd/summary.go share.
func PrintSummaryTo(hash, filename string, sum output.Summary) {
	PrintSummaryHeader(os.Stdout, hash, filename, sum)
	PrintScoreboard(os.Stdout, sum, "")
	PrintWeaponTable(os.Stdout, sum)
}
