// Package stats implements the statistics accumulator: a
// three-level write-through (overall, per-class, per-weapon) over each
// player's kills, deaths, damage, healing, and the round-summary bookkeeping
// that output assembly reads from.
package stats

import (
	"sort"

	"github.com/leighmacdonald/tf2stats/internal/entity"
)

// RoundState is the match's current round-state enum. The zero value is Init.
type RoundState int

const (
	Init RoundState = iota
	Pregame
	StartGame
	PreRound
	RoundRunning
	TeamWin
	Restart
	Stalemate
	GameOver
	Bonus
	BetweenRounds
)

// HealingPhase buckets a healing delta by the round state active when it was
// observed.
type HealingPhase int

const (
	PhasePreRound HealingPhase = iota
	PhaseRoundRunning
	PhasePostRound
)

func phaseForState(s RoundState) HealingPhase {
	switch s {
	case RoundRunning:
		return PhaseRoundRunning
	case TeamWin:
		return PhasePostRound
	default:
		return PhasePreRound
	}
}

// Stats is one write-through accumulator slot: the overall totals, or one
// entry of the per-class / per-weapon maps.
type Stats struct {
	Kills   int `json:"kills,omitempty"`
	Assists int `json:"assists,omitempty"`
	Deaths  int `json:"deaths,omitempty"`

	PostRoundKills   int `json:"post_round_kills,omitempty"`
	PostRoundAssists int `json:"post_round_assists,omitempty"`
	PostRoundDeaths  int `json:"post_round_deaths,omitempty"`

	DamageDealt int `json:"damage_dealt,omitempty"`
	DamageTaken int `json:"damage_taken,omitempty"`
	HealingDealt int `json:"healing_dealt,omitempty"`

	Dominations int `json:"dominations,omitempty"`
	Dominated   int `json:"dominated,omitempty"`
	Revenges    int `json:"revenges,omitempty"`
	Revenged    int `json:"revenged,omitempty"`

	Airshots int `json:"airshots,omitempty"`

	HeadshotKills  int `json:"headshot_kills,omitempty"`
	HeadshotsTaken int `json:"headshots_taken,omitempty"`
	BackstabKills  int `json:"backstab_kills,omitempty"`
	BackstabsTaken int `json:"backstabs_taken,omitempty"`

	Shots int `json:"shots,omitempty"`
	Hits  int `json:"hits,omitempty"`

	Suicides int `json:"suicides,omitempty"`

	Captures        int `json:"captures,omitempty"`
	CapturesBlocked int `json:"captures_blocked,omitempty"`
}

// HealingCounters tracks the medic-specific counters name
// outside the generic Stats block.
type HealingCounters struct {
	Drops               int `json:"drops,omitempty"`
	NearFullChargeDeath int `json:"near_full_charge_death,omitempty"`
	UberCharges         int `json:"uber_charges,omitempty"`
	KritzCharges        int `json:"kritz_charges,omitempty"`
	QuickfixCharges     int `json:"quickfix_charges,omitempty"`
	PreRound            int `json:"pre_round,omitempty"`
	RoundRunning        int `json:"round_running,omitempty"`
	PostRound           int `json:"post_round,omitempty"`
}

// PlayerSummary is the per-player record, keyed by
// steam-id (the persistence primary key — survives reconnects, unlike
// user-id/entity-id which are per-connection).
type PlayerSummary struct {
	SteamID         string
	Name            string
	TickStart       int
	TickEnd         int
	ConnectionCount int

	Overall  Stats
	ByClass  map[entity.Class]*Stats
	ByWeapon map[string]*Stats

	BonusPoints int
	Healing     HealingCounters

	IsFakePlayer bool
	IsHLTV       bool
	IsReplay     bool

	// Transient fields, used during processing only; never serialized.
	Origin     entity.Vec3
	OnGround   bool
	Charge     float64
	Kritzed    bool
	lastHealed int
}

func newPlayerSummary(steamID, name string, tick int) *PlayerSummary {
	return &PlayerSummary{
		SteamID:         steamID,
		Name:            name,
		TickStart:       tick,
		ConnectionCount: 1,
		ByClass:         make(map[entity.Class]*Stats),
		ByWeapon:        make(map[string]*Stats),
	}
}

func (p *PlayerSummary) classStats(class entity.Class) *Stats {
	s, ok := p.ByClass[class]
	if !ok {
		s = &Stats{}
		p.ByClass[class] = s
	}
	return s
}

func (p *PlayerSummary) weaponStats(weapon string) *Stats {
	s, ok := p.ByWeapon[weapon]
	if !ok {
		s = &Stats{}
		p.ByWeapon[weapon] = s
	}
	return s
}

// Clone deep-copies p for a round snapshot.
func (p *PlayerSummary) Clone() *PlayerSummary {
	out := *p
	out.ByClass = make(map[entity.Class]*Stats, len(p.ByClass))
	for k, v := range p.ByClass {
		cp := *v
		out.ByClass[k] = &cp
	}
	out.ByWeapon = make(map[string]*Stats, len(p.ByWeapon))
	for k, v := range p.ByWeapon {
		cp := *v
		out.ByWeapon[k] = &cp
	}
	return &out
}

// RoundSummary is the per-round record.
type RoundSummary struct {
	Winner       entity.Team
	HasWinner    bool
	IsStalemate  bool
	IsSuddenDeath bool
	IsBonusRound bool // arena-mode bonus round
	TimeSeconds  float64
	MVPs         []string
	Winners      []string
	Losers       []string
	Players      []*PlayerSummary // sorted by steam-id at close
}

// Accumulator is the statistics accumulator plus the round
// bookkeeping "Match state" assigns to it: the completed-rounds
// list and the current-round accumulator.
type Accumulator struct {
	players     map[string]*PlayerSummary
	order       []string // first-seen order, for stable iteration independent of map order
	roundState  RoundState
	roundStart  int
	rounds      []RoundSummary
	roundActive bool
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{players: make(map[string]*PlayerSummary)}
}

// Player returns the summary for steamID, creating it (with the given
// display name and connection_count = 1) if this is the first time it has
// been seen. A later call with the same steamID updates Name and increments
// ConnectionCount only via Reconnect, not here.
func (a *Accumulator) Player(steamID, name string, tick int) *PlayerSummary {
	p, ok := a.players[steamID]
	if !ok {
		p = newPlayerSummary(steamID, name, tick)
		a.players[steamID] = p
		a.order = append(a.order, steamID)
		return p
	}
	return p
}

// Reconnect records a userinfo re-entry for an already-known steam-id.
func (a *Accumulator) Reconnect(steamID, name string) *PlayerSummary {
	p, ok := a.players[steamID]
	if !ok {
		return a.Player(steamID, name, 0)
	}
	p.ConnectionCount++
	p.Name = name
	return p
}

// RoundState reports the current round-state enum.
func (a *Accumulator) RoundState() RoundState { return a.roundState }

// SetRoundState transitions the match's round-state. tick marks when the transition happened, used to timestamp the
// next round's start.
func (a *Accumulator) SetRoundState(state RoundState, tick int) {
	if state == RoundRunning && a.roundState != RoundRunning {
		a.roundStart = tick
		a.roundActive = true
	}
	a.roundState = state
}

// Kill applies a kill to attacker/assister and a death to victim, honoring
// the TeamWin → postround split and the feigned-death exception.
//
// feigned: victim's death does not count at all (only dominations/revenges
// below, "Feigned deaths increment only the
// domination/revenge counters").
func (a *Accumulator) Kill(attacker, victim, assister *PlayerSummary, weapon string, attackerClass, victimClass, assisterClass entity.Class, feigned, dominator, revenge, airshot, headshot, backstab bool) {
	postround := a.roundState == TeamWin
	suicide := attacker == victim

	if attacker != nil && !suicide {
		a.creditKill(attacker, attackerClass, weapon, postround, airshot, headshot, backstab)
	}
	if assister != nil && assister != attacker && assister != victim {
		a.creditAssist(assister, assisterClass, postround)
	}

	if victim != nil {
		if suicide {
			if !postround {
				victim.Overall.Suicides++
				victim.classStats(victimClass).Suicides++
			}
		} else if !feigned {
			a.creditDeath(victim, victimClass, postround)
		}
	}

	if dominator && attacker != nil && victim != nil {
		attacker.Overall.Dominations++
		attacker.classStats(attackerClass).Dominations++
		victim.Overall.Dominated++
		victim.classStats(victimClass).Dominated++
	}
	if revenge && attacker != nil && victim != nil {
		attacker.Overall.Revenges++
		attacker.classStats(attackerClass).Revenges++
		victim.Overall.Revenged++
		victim.classStats(victimClass).Revenged++
	}

	if victim != nil && a.roundState == RoundRunning {
		switch {
		case victim.Charge >= 1.0:
			victim.Healing.Drops++
		case victim.Charge > 0.95 && victim.Charge < 1.0:
			victim.Healing.NearFullChargeDeath++
		}
	}
}

func (a *Accumulator) creditKill(p *PlayerSummary, class entity.Class, weapon string, postround, airshot, headshot, backstab bool) {
	targets := []*Stats{&p.Overall, p.classStats(class), p.weaponStats(weapon)}
	for _, s := range targets {
		if postround {
			s.PostRoundKills++
			continue
		}
		s.Kills++
		if airshot {
			s.Airshots++
		}
		if headshot {
			s.HeadshotKills++
		}
		if backstab {
			s.BackstabKills++
		}
	}
}

func (a *Accumulator) creditAssist(p *PlayerSummary, class entity.Class, postround bool) {
	for _, s := range []*Stats{&p.Overall, p.classStats(class)} {
		if postround {
			s.PostRoundAssists++
		} else {
			s.Assists++
		}
	}
}

func (a *Accumulator) creditDeath(p *PlayerSummary, class entity.Class, postround bool) {
	for _, s := range []*Stats{&p.Overall, p.classStats(class)} {
		if postround {
			s.PostRoundDeaths++
		} else {
			s.Deaths++
		}
	}
}

// Assist credits assister directly under its own class, used by the tick
// loop instead of Kill's best-effort path when the assister's class is
// known.
func (a *Accumulator) Assist(assister *PlayerSummary, class entity.Class) {
	postround := a.roundState == TeamWin
	a.creditAssist(assister, class, postround)
}

// Damage applies a hurt event's damage to the dealer's overall, per-class and
// per-weapon DamageDealt and the taker's overall and per-class DamageTaken.
// It does not touch headshot/backstab counters; those are credited through
// HeadshotSuffered/BackstabSuffered and Kill.
func (a *Accumulator) Damage(dealer, taker *PlayerSummary, dealerClass, takerClass entity.Class, weapon string, amount int) {
	if dealer != nil {
		for _, s := range []*Stats{&dealer.Overall, dealer.classStats(dealerClass), dealer.weaponStats(weapon)} {
			s.DamageDealt += amount
		}
	}
	if taker != nil {
		for _, s := range []*Stats{&taker.Overall, taker.classStats(takerClass)} {
			s.DamageTaken += amount
		}
	}
}

// Shot credits a shot-fired to shooter.
func (a *Accumulator) Shot(shooter *PlayerSummary, class entity.Class, weapon string) {
	if shooter == nil {
		return
	}
	for _, s := range []*Stats{&shooter.Overall, shooter.classStats(class), shooter.weaponStats(weapon)} {
		s.Shots++
	}
}

// Hit credits a hit landed to shooter.
func (a *Accumulator) Hit(shooter *PlayerSummary, class entity.Class, weapon string) {
	if shooter == nil {
		return
	}
	for _, s := range []*Stats{&shooter.Overall, shooter.classStats(class), shooter.weaponStats(weapon)} {
		s.Hits++
	}
}

// HeadshotSuffered/BackstabSuffered credit the victim-side counters.
func (a *Accumulator) HeadshotSuffered(victim *PlayerSummary, class entity.Class) {
	if victim == nil {
		return
	}
	victim.Overall.HeadshotsTaken++
	victim.classStats(class).HeadshotsTaken++
}

func (a *Accumulator) BackstabSuffered(victim *PlayerSummary, class entity.Class) {
	if victim == nil {
		return
	}
	victim.Overall.BackstabsTaken++
	victim.classStats(class).BackstabsTaken++
}

// Capture credits capper with +1 capture.
func (a *Accumulator) Capture(capper *PlayerSummary, class entity.Class) {
	if capper == nil {
		return
	}
	capper.Overall.Captures++
	capper.classStats(class).Captures++
}

// CaptureBlocked credits blocker with +1 block.
func (a *Accumulator) CaptureBlocked(blocker *PlayerSummary, class entity.Class) {
	if blocker == nil {
		return
	}
	blocker.Overall.CapturesBlocked++
	blocker.classStats(class).CapturesBlocked++
}

// AnomalousHealingDelta is the threshold above which a single healing
// update is logged as anomalous but still accepted.
const AnomalousHealingDelta = 300

// TickInterval is the Source-engine default server tick interval (a 66.67
// tick/s server), used to convert tick deltas to seconds. The demuxer's
// header carries the demo's actual tick interval, but this package never
// inspects that opaque header, so CloseRound always converts at the engine
// default rather than per-demo.
const TickInterval = 0.015

// Healing accumulates a positive scoreboard delta for healer, attributed to
// the current round phase and to weapon's per-weapon Stats. newValue is the raw monotonically-nondecreasing scoreboard
// reading; the accumulator itself tracks the last-seen value per player.
// Returns the delta actually applied and whether it exceeded the anomaly
// threshold (caller logs; this function never discards or caps it).
func (a *Accumulator) Healing(healer *PlayerSummary, class entity.Class, weapon string, newValue int) (delta int, anomalous bool) {
	if healer == nil {
		return 0, false
	}
	if newValue > healer.lastHealed {
		delta = newValue - healer.lastHealed
	}
	healer.lastHealed = newValue
	if delta <= 0 {
		return 0, false
	}

	for _, s := range []*Stats{&healer.Overall, healer.classStats(class), healer.weaponStats(weapon)} {
		s.HealingDealt += delta
	}
	switch phaseForState(a.roundState) {
	case PhasePreRound:
		healer.Healing.PreRound += delta
	case PhaseRoundRunning:
		healer.Healing.RoundRunning += delta
	case PhasePostRound:
		healer.Healing.PostRound += delta
	}
	return delta, delta > AnomalousHealingDelta
}

// ChargeType mirrors the schema "set_charge_type" attribute: 0 = uber, 1 = kritz, 2 = quickfix.
type ChargeType int

const (
	ChargeUber ChargeType = iota
	ChargeKritz
	ChargeQuickfix
)

// CreditCharge increments the owner's charge-type counter when a medigun's
// charge-released flag transitions false→true.
func (a *Accumulator) CreditCharge(owner *PlayerSummary, ct ChargeType) {
	if owner == nil {
		return
	}
	switch ct {
	case ChargeUber:
		owner.Healing.UberCharges++
	case ChargeKritz:
		owner.Healing.KritzCharges++
	case ChargeQuickfix:
		owner.Healing.QuickfixCharges++
	}
}

// CloseRound appends the current round to the completed-rounds list and
// resets round-local bookkeeping.
// Player snapshots are sorted by steam-id for determinism.
func (a *Accumulator) CloseRound(winner entity.Team, hasWinner, stalemate, suddenDeath, bonus bool, endTick int, mvps, winners, losers []string) {
	timeSeconds := 0.0
	if endTick > a.roundStart {
		timeSeconds = float64(endTick-a.roundStart) * TickInterval
	}

	snapshot := make([]*PlayerSummary, 0, len(a.order))
	for _, id := range a.order {
		snapshot = append(snapshot, a.players[id].Clone())
	}
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].SteamID < snapshot[j].SteamID })

	a.rounds = append(a.rounds, RoundSummary{
		Winner:        winner,
		HasWinner:     hasWinner,
		IsStalemate:   stalemate,
		IsSuddenDeath: suddenDeath,
		IsBonusRound:  bonus,
		TimeSeconds:   timeSeconds,
		MVPs:          mvps,
		Winners:       winners,
		Losers:        losers,
		Players:       snapshot,
	})
	a.roundActive = false
}

// HasActiveRound reports whether a round has been opened (entered
// RoundRunning) since the last close, used by end-of-stream flush logic.
func (a *Accumulator) HasActiveRound() bool { return a.roundActive }

// Rounds returns the completed round list, in close order.
func (a *Accumulator) Rounds() []RoundSummary { return a.rounds }

// Players returns every known player summary in first-seen order.
func (a *Accumulator) Players() []*PlayerSummary {
	out := make([]*PlayerSummary, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.players[id])
	}
	return out
}

// FinalizeTickEnd fills TickEnd (and TickStart, if unset) for every player
// with the final observed tick.
func (a *Accumulator) FinalizeTickEnd(finalTick int) {
	for _, p := range a.players {
		if p.TickStart == 0 {
			p.TickStart = finalTick
		}
		if p.TickEnd == 0 {
			p.TickEnd = finalTick
		}
	}
}
