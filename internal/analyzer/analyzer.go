// Package analyzer wires the entity world, entity kinds, tick queue,
// damage/death resolver, statistics accumulator, collision index, and
// user/chat tables behind the four demuxer callbacks, producing the final
// output assembly from IntoOutput. This is the match-state orchestration
// that sits above all of those pieces as the analyzer's outer shell.
package analyzer

import (
	"go.uber.org/zap"

	"github.com/leighmacdonald/tf2stats/internal/collision"
	"github.com/leighmacdonald/tf2stats/internal/demuxer"
	"github.com/leighmacdonald/tf2stats/internal/entity"
	"github.com/leighmacdonald/tf2stats/internal/output"
	"github.com/leighmacdonald/tf2stats/internal/resolver"
	"github.com/leighmacdonald/tf2stats/internal/schema"
	"github.com/leighmacdonald/tf2stats/internal/sendprops"
	"github.com/leighmacdonald/tf2stats/internal/stats"
	"github.com/leighmacdonald/tf2stats/internal/tables"
	"github.com/leighmacdonald/tf2stats/internal/tick"
)

// Analyzer implements demuxer.Analyzer for one demo. Not safe for concurrent use.
type Analyzer struct {
	world     *entity.World
	collision *collision.Index
	acc       *stats.Accumulator
	tbl       *tables.Tables
	chat      tables.Log
	queue     *tick.Queue
	reg       *schema.Registry
	log       *zap.Logger

	currentTick int
	haveTick    bool
	header      any
	filename    string

	observeAnomaly func(kind string)
}

// anomaly kinds, used as the zap "kind" field
// and handed to the anomaly observer so a caller can count them by kind
// (internal/httpapi wires this to a Prometheus counter vector).
const (
	anomalySchemaGap      = "schema-gap"
	anomalyUnknownEnum    = "unknown-enum"
	anomalyReferenceMiss  = "reference-miss"
	anomalyInconsistency  = "inconsistency"
	anomalyBoundedAnomaly = "bounded-anomaly"
)

// SetAnomalyObserver registers a callback invoked once per logged anomaly,
// tagged with its taxonomy kind. Parsing never aborts because of an anomaly
//; the observer exists purely for metrics.
func (a *Analyzer) SetAnomalyObserver(fn func(kind string)) { a.observeAnomaly = fn }

// logAnomaly records one taxonomy event at the given zap level,
// tagging it with "kind" so the log stream can be grepped per category, and
// forwards the kind to the anomaly observer if one is set.
func (a *Analyzer) logAnomaly(level, kind, msg string, fields ...zap.Field) {
	fields = append(fields, zap.String("kind", kind))
	switch level {
	case "warn":
		a.log.Warn(msg, fields...)
	case "error":
		a.log.Error(msg, fields...)
	default:
		a.log.Debug(msg, fields...)
	}
	if a.observeAnomaly != nil {
		a.observeAnomaly(kind)
	}
}

// New wires a fresh Analyzer against the given (read-only, process-lifetime)
// schema registry.
// logger may be nil, in which case diagnostics are dropped.
func New(reg *schema.Registry, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	world := entity.NewWorld(nil)
	ci := collision.New()
	world.SetCollisionIndex(ci)
	acc := stats.NewAccumulator()

	return &Analyzer{
		world:     world,
		collision: ci,
		acc:       acc,
		tbl:       tables.New(acc, world),
		queue:     tick.NewQueue(),
		reg:       reg,
		log:       logger,
	}
}

// SetHeader attaches the demuxer's header to the final output (// "header (from external demuxer)").
func (a *Analyzer) SetHeader(header any) { a.header = header }

// SetFilename attaches the optional source filename to the final output.
func (a *Analyzer) SetFilename(name string) { a.filename = name }

// HandleDataTables implements demuxer.Analyzer.
func (a *Analyzer) HandleDataTables(batch demuxer.DataTableBatch) {
	ct := entity.BuildClassTable(batch.ParseTables)
	a.world.SetClassTable(ct)
}

// HandleStringEntry implements demuxer.Analyzer.
func (a *Analyzer) HandleStringEntry(tableName string, entry demuxer.StringEntry) {
	switch entry.Kind {
	case demuxer.StringEntryUserInfo:
		a.tbl.HandleUserInfo(entry.UserInfo, a.currentTick)
	case demuxer.StringEntryModelPrecache:
		a.tbl.HandleModelPrecache(entry.ModelPrecache)
	case demuxer.StringEntryEffectDispatch:
		a.tbl.HandleEffectDispatch(entry.EffectDispatch)
	default:
		// every other table name is ignored
	}
}

// HandleMessage implements demuxer.Analyzer.
func (a *Analyzer) HandleMessage(msg demuxer.Message, t int) {
	if !a.haveTick {
		a.currentTick = t
		a.haveTick = true
	} else if t > a.currentTick {
		a.endOfTick()
		a.currentTick = t
	}

	switch msg.Kind {
	case demuxer.KindNetTick:
		a.log.Debug("net-tick", zap.Int("server_tick", msg.NetTick.ServerTick), zap.Int("tick", t))
	case demuxer.KindPacketEntities:
		a.handlePacketEntities(msg.PacketEntities)
	case demuxer.KindTempEntities:
		a.handleTempEntities(msg.TempEntities)
	case demuxer.KindGameEvent:
		a.handleGameEvent(msg.GameEvent)
	case demuxer.KindUserMessage:
		a.handleUserMessage(msg.UserMessage)
	}
}

// IntoOutput implements demuxer.Analyzer.
func (a *Analyzer) IntoOutput() any {
	a.endOfTick()

	if a.acc.HasActiveRound() {
		a.acc.CloseRound(entity.TeamUnassigned, false, false, false, false, a.currentTick, nil, nil, nil)
	}
	a.acc.FinalizeTickEnd(a.currentTick)

	return output.Build(a.acc, a.chat.Entries(), a.header, a.filename)
}

// handlePacketEntities applies one tick's entity deltas: on_enter/on_preserve/on_delete/on_leave per update, then one
// collision-index flush for the whole batch.
func (a *Analyzer) handlePacketEntities(m *demuxer.PacketEntitiesMessage) {
	a.world.BeginPacketEntities()
	for _, u := range m.Updates {
		a.applyGameRulesProps(u.Props)
		switch u.Op {
		case demuxer.EntityEnter:
			a.onEnter(u)
		case demuxer.EntityPreserve:
			a.onPreserve(u)
		case demuxer.EntityDelete:
			exp, leaving := a.world.OnDelete(u.Index, a.currentTick)
			if exp != nil {
				a.queue.AddExplosion(*exp)
			}
			if leaving != nil {
				a.closePlayerTickEnd(u.Index, leaving)
			}
			a.queue.MarkDeleted(u.Index)
		case demuxer.EntityLeave:
			exp, leaving := a.world.OnLeave(u.Index, a.currentTick)
			if exp != nil {
				a.queue.AddExplosion(*exp)
			}
			if leaving != nil {
				a.closePlayerTickEnd(u.Index, leaving)
			}
		}
	}
	a.world.EndPacketEntities()
}

// applyGameRulesProps watches every update for the game-rules round-state
// prop, regardless
// of which entity kind carries it — the game-rules entity itself decodes as
// Unknown, so the round-state transition has to be read off the raw props
// before they reach on_enter/on_preserve. The wire enum's ordinal values
// match stats.RoundState's declaration order exactly.
func (a *Analyzer) applyGameRulesProps(props entity.Props) {
	if v, ok := props.Int(sendprops.RoundState); ok {
		a.acc.SetRoundState(stats.RoundState(v), a.currentTick)
	}
}

func (a *Analyzer) onEnter(u demuxer.EntityUpdate) {
	ctx := a.projectileBirthContext(u.ClassName, u.Props)
	if err := a.world.OnEnter(u.Index, u.ClassName, u.Props, ctx); err != nil {
		a.logAnomaly("warn", anomalyInconsistency, "on_enter failed", zap.Int("index", u.Index), zap.Error(err))
	}
}

// projectileBirthContext resolves the launcher schema context
// DecodeProjectileInitial needs. Only
// meaningful for projectile classes; a no-op LauncherInfo is harmless for
// every other className since OnEnter only reads it in that branch.
func (a *Analyzer) projectileBirthContext(className string, props entity.Props) entity.ProjectileBirthContext {
	ctx := entity.ProjectileBirthContext{
		ExplicitOwner:    entity.InvalidHandle,
		OriginalLauncher: entity.InvalidHandle,
	}
	if h, ok := props.Handle(sendprops.OwnerEntity); ok {
		ctx.ExplicitOwner = h
	}
	if h, ok := props.Handle(sendprops.OriginalLauncher); ok {
		ctx.OriginalLauncher = h
	}

	launcherWeapon, ok := a.world.SlotByHandle(ctx.OriginalLauncher).(*entity.Weapon)
	if !ok {
		return ctx
	}
	item, ok := a.reg.Get(launcherWeapon.ItemDefIndex)
	if !ok {
		return ctx
	}
	ctx.HasLauncherItemID = true
	ctx.LauncherItemID = launcherWeapon.ItemDefIndex
	mode, _ := item.AttrString("mode")
	ctx.Launcher = entity.LauncherInfo{ItemClass: item.Class, ItemName: item.Name, Mode: mode}
	return ctx
}

func (a *Analyzer) onPreserve(u demuxer.EntityUpdate) {
	_, inconsistency, explosion, chargedNow := a.world.OnPreserve(u.Index, u.Props, a.currentTick)
	if inconsistency {
		a.logAnomaly("warn", anomalyInconsistency, "projectile owner/team mismatch", zap.Int("index", u.Index), zap.Int("tick", a.currentTick))
	}
	if explosion != nil {
		a.queue.AddExplosion(*explosion)
	}
	if chargedNow {
		a.queue.QueueCharge(tick.ChargeEvent{WeaponEntityID: u.Index})
	}
	if p, ok := a.world.Slot(u.Index).(*entity.Player); ok {
		a.applyScoreboardProps(u.Index, p)
	}
}

// applyScoreboardProps folds a player's DT_TFPlayerScoringDataExclusive
// scoreboard mirror into its summary: healing is diffed against the
// accumulator's last-seen value, bonus points are carried straight
// through, and kills/deaths/assists are only cross-checked against the
// resolved event counts for anomaly logging.
func (a *Analyzer) applyScoreboardProps(entityID int, p *entity.Player) {
	summary, ok := a.playerSummaryByEntity(entityID, p)
	if !ok {
		return
	}

	if p.BonusPoints > summary.BonusPoints {
		summary.BonusPoints = p.BonusPoints
	}

	if delta, anomalous := a.acc.Healing(summary, p.Class, medigunLogName(a.reg, a.world, p), p.ScoreHealing); anomalous {
		a.logAnomaly("warn", anomalyBoundedAnomaly, "healing delta exceeds anomaly threshold",
			zap.Int("delta", delta), zap.String("steam_id", summary.SteamID))
	}

	if tracked := summary.Overall.Kills + summary.Overall.PostRoundKills; p.ScoreKills > tracked {
		a.logAnomaly("debug", anomalyInconsistency, "scoreboard kills ahead of tracked kills",
			zap.Int("scoreboard", p.ScoreKills), zap.Int("tracked", tracked))
	}
	if tracked := summary.Overall.Deaths + summary.Overall.PostRoundDeaths; p.ScoreDeaths > tracked {
		a.logAnomaly("debug", anomalyInconsistency, "scoreboard deaths ahead of tracked deaths",
			zap.Int("scoreboard", p.ScoreDeaths), zap.Int("tracked", tracked))
	}
	if tracked := summary.Overall.Assists + summary.Overall.PostRoundAssists; p.ScoreAssists > tracked {
		a.logAnomaly("debug", anomalyInconsistency, "scoreboard assists ahead of tracked assists",
			zap.Int("scoreboard", p.ScoreAssists), zap.Int("tracked", tracked))
	}
}

// closePlayerTickEnd records the tick a player left the server (delete or
// leave) as their summary's tick_end, so a player who disconnects mid-demo
// and never reconnects gets their actual departure tick rather than relying
// on FinalizeTickEnd's end-of-stream fallback.
func (a *Analyzer) closePlayerTickEnd(entityID int, p *entity.Player) {
	summary, ok := a.playerSummaryByEntity(entityID, p)
	if !ok {
		return
	}
	summary.TickEnd = a.currentTick
}

// medigunLogName resolves the weapon-stats key healing should be credited
// under: the schema log-name of whichever medigun is in the player's
// weapon slots, or a generic fallback if the schema has no entry for it.
func medigunLogName(reg *schema.Registry, world *entity.World, p *entity.Player) string {
	for _, h := range p.WeaponSlots {
		w, ok := world.SlotByHandle(h).(*entity.Weapon)
		if !ok || !w.IsMedigun() {
			continue
		}
		if item, ok := reg.Get(w.ItemDefIndex); ok && item.LogName != "" {
			return item.LogName
		}
		break
	}
	return "medigun"
}

// handleTempEntities implements item 2.
func (a *Analyzer) handleTempEntities(m *demuxer.TempEntitiesMessage) {
	for _, te := range m.Entities {
		switch te.Kind {
		case demuxer.TempEntityAnimationEvent:
			a.handleAnimationEvent(te)
		case demuxer.TempEntityEffectDispatch:
			a.handleEffectDispatch(te)
		case demuxer.TempEntityFireBullets:
			a.handleFireBullets(te)
		}
	}
}

// handleAnimationEvent records airblasts.
func (a *Analyzer) handleAnimationEvent(te demuxer.TempEntity) {
	if te.AnimEvent != demuxer.AnimEventAirblast {
		return
	}
	p, ok := a.world.PlayerAt(te.PlayerEntityID)
	if !ok || p.Class != entity.ClassPyro {
		return
	}
	a.queue.MarkAirblast(te.PlayerEntityID)
}

// handleEffectDispatch recognizes "Impact" (crossbow healing-bolt hits) and
// sentry muzzle flashes.
func (a *Analyzer) handleEffectDispatch(te demuxer.TempEntity) {
	switch te.EffectName {
	case "Impact":
		a.handleHealingBoltImpact(te)
	default:
		if s, ok := a.world.Slot(te.EffectEntityID).(*entity.Sentry); ok {
			ownerEID := -1
			for i := 0; i < entity.Capacity; i++ {
				if p, ok := a.world.PlayerAt(i); ok && p.Handle() == s.Builder {
					ownerEID = i
					break
				}
			}
			a.queue.PushSentryShot(resolver.SentryShot{
				SentryOwnerEntityID: ownerEID,
				IsMini:              s.IsMini,
				Level:               s.UpgradeLevel,
			})
		}
	}
}

// handleHealingBoltImpact credits a crossbow hit when an "Impact" effect
// lands near a live healing-bolt projectile owned by some attacker.
func (a *Analyzer) handleHealingBoltImpact(te demuxer.TempEntity) {
	if !te.HasEffectOrigin {
		return
	}
	for i := 0; i < entity.Capacity; i++ {
		pr, ok := a.world.Slot(i).(*entity.Projectile)
		if !ok || pr.KindTag != entity.ProjectileHealingBolt {
			continue
		}
		if proximity(pr.Pos, te.EffectOrigin) {
			if owner, ok := a.playerSummaryByHandle(pr.Owner_); ok {
				a.acc.Hit(owner, a.classOf(pr.Owner_), "crusaders_crossbow")
			}
			return
		}
	}
}

// proximity is a generous radius check: 96 units, a little under the
// 49x49x83 player hit-box's full diagonal (about 108 units) and well above
// its half-diagonal (about 54).
func proximity(a, b entity.Vec3) bool {
	d := a.Sub(b)
	const r = 96.0
	return d.X*d.X+d.Y*d.Y+d.Z*d.Z <= r*r
}

// handleFireBullets credits a shot-fired for the shooter's last-active
// weapon.
func (a *Analyzer) handleFireBullets(te demuxer.TempEntity) {
	p, ok := a.world.PlayerAt(te.ShooterEntityID)
	if !ok {
		return
	}
	weapon := a.activeWeaponLogName(p)
	if summary, ok := a.playerSummaryByUserID(p.UserID); ok {
		a.acc.Shot(summary, p.Class, weapon)
	}
}

func (a *Analyzer) activeWeaponLogName(p *entity.Player) string {
	w, ok := a.world.SlotByHandle(p.LastActive).(*entity.Weapon)
	if !ok {
		return "UNKNOWN"
	}
	item, ok := a.reg.Get(w.ItemDefIndex)
	if !ok || item.LogName == "" {
		return "UNKNOWN"
	}
	return item.LogName
}

// handleGameEvent implements item 3: death/hurt are queued,
// everything else dispatches immediately.
func (a *Analyzer) handleGameEvent(ev *demuxer.GameEvent) {
	if ev == nil {
		return
	}
	switch {
	case ev.PlayerDeath != nil:
		d := ev.PlayerDeath
		a.queue.QueueDeath(tick.DeathEvent{
			VictimEntityID:   d.VictimEntityID,
			AttackerEntityID: d.AttackerEntityID,
			AssisterEntityID: d.AssisterEntityID,
			DamageType:       d.DamageType,
			DamageBits:       d.DamageBits,
			Dominator:        d.Dominator,
			Revenge:          d.Revenge,
			Feigned:          d.Feigned,
			Headshot:         d.Headshot,
			Backstab:         d.Backstab,
		})
	case ev.PlayerHurt != nil:
		h := ev.PlayerHurt
		a.queue.QueueHurt(tick.HurtEvent{
			VictimEntityID:   h.VictimEntityID,
			AttackerEntityID: h.AttackerEntityID,
			DamageType:       h.DamageType,
			DamageBits:       h.DamageBits,
			Damage:           h.Damage,
			Headshot:         h.Headshot,
			Backstab:         h.Backstab,
		})
	case ev.PointCaptured != nil:
		a.handlePointCaptured(ev.PointCaptured)
	case ev.CaptureBlocked != nil:
		a.handleCaptureBlocked(ev.CaptureBlocked)
	case ev.RoundStart != nil:
		a.acc.SetRoundState(stats.PreRound, a.currentTick)
	case ev.RoundWin != nil:
		a.handleRoundWin(ev.RoundWin)
	case ev.WinPanel != nil:
		// informational only; no MVPs are recorded (handleRoundWin closes
		// the round with a nil MVP list).
	case ev.ObjectDestroyed != nil, ev.PlayerDisconnect != nil, ev.PlayerHealed != nil,
		ev.PlayerInvulned != nil, ev.ChargeDeployed != nil:
		// logging-only events; no stats effect beyond what the
		// authoritative scoreboard/weapon-patch paths already capture.
	default:
		a.logAnomaly("debug", anomalyUnknownEnum, "unrecognized game event", zap.String("name", ev.Name))
	}
}

func (a *Analyzer) handlePointCaptured(ev *demuxer.PointCapturedEvent) {
	for _, eid := range ev.CapperEntityIDs {
		p, ok := a.world.PlayerAt(eid)
		if !ok {
			continue
		}
		if summary, ok := a.playerSummaryByUserID(p.UserID); ok {
			a.acc.Capture(summary, p.Class)
		}
	}
}

func (a *Analyzer) handleCaptureBlocked(ev *demuxer.CaptureBlockedEvent) {
	p, ok := a.world.PlayerAt(ev.BlockerEntityID)
	if !ok {
		return
	}
	if summary, ok := a.playerSummaryByUserID(p.UserID); ok {
		a.acc.CaptureBlocked(summary, p.Class)
	}
}

// handleRoundWin closes the current round. Winner/loser
// steam-id lists are derived from the live entity world's team assignments
// at the moment of the win, since PlayerSummary itself is steam-id keyed and
// does not track team.
func (a *Analyzer) handleRoundWin(ev *demuxer.RoundWinEvent) {
	a.acc.SetRoundState(stats.TeamWin, a.currentTick)

	var winners, losers []string
	if ev.HasWinner {
		for i := 0; i < entity.Capacity; i++ {
			p, ok := a.world.Slot(i).(*entity.Player)
			if !ok {
				continue
			}
			steamID, ok := a.world.SteamID(p.UserID)
			if !ok {
				continue
			}
			if p.Team == ev.Winner {
				winners = append(winners, steamID)
			} else if p.Team == entity.TeamRed || p.Team == entity.TeamBlue {
				losers = append(losers, steamID)
			}
		}
	}

	a.acc.CloseRound(ev.Winner, ev.HasWinner, ev.IsStalemate, ev.IsSuddenDeath, ev.IsBonus, a.currentTick, nil, winners, losers)
}

// handleUserMessage appends a chat entry from a SayText2 user message.
func (a *Analyzer) handleUserMessage(m *demuxer.UserMessageMessage) {
	if m.SayText2 == nil {
		return
	}
	a.chat.Append(a.tbl, a.currentTick, tables.SayText2{
		UserID:       m.SayText2.UserID,
		Text:         m.SayText2.Text,
		IsDead:       m.SayText2.IsDead,
		IsTeam:       m.SayText2.IsTeam,
		IsSpec:       m.SayText2.IsSpec,
		IsNameChange: m.SayText2.IsNameChange,
	})
}

// endOfTick implements deferred end-of-tick processing:
// drains the ordered event queue (resolving each death/hurt's weapon, and
// crediting medigun charges), then clears the tick-local scratch buffers.
func (a *Analyzer) endOfTick() {
	for _, ev := range a.queue.Drain() {
		switch ev.Kind {
		case tick.EventDeath:
			a.resolveDeath(*ev.Death)
		case tick.EventHurt:
			a.resolveHurt(*ev.Hurt)
		case tick.EventCharge:
			a.resolveCharge(*ev.Charge)
		}
	}
	a.queue.ClearTickBuffers()
}

func (a *Analyzer) resolveDeath(d tick.DeathEvent) {
	victim, vOK := a.world.PlayerAt(d.VictimEntityID)
	attacker, _ := a.world.PlayerAt(d.AttackerEntityID)
	assister, _ := a.world.PlayerAt(d.AssisterEntityID)

	result := resolver.Resolve(resolver.Input{
		DamageType:  d.DamageType,
		DamageBits:  d.DamageBits,
		Attacker:    attacker,
		AttackerEID: d.AttackerEntityID,
		Victim:      victim,
		World:       a.world,
		Schema:      a.reg,
		Explosions:  a.queue.Explosions(),
		SentryShots: a.queue.SentryShots(),
		Airblasted:  a.queue.WasAirblasted(d.AttackerEntityID),
	})

	victimSummary, _ := a.playerSummaryByEntity(d.VictimEntityID, victim)
	attackerSummary, _ := a.playerSummaryByEntity(d.AttackerEntityID, attacker)
	assisterSummary, _ := a.playerSummaryByEntity(d.AssisterEntityID, assister)

	var attackerClass, victimClass, assisterClass entity.Class
	if attacker != nil {
		attackerClass = attacker.Class
	}
	if victim != nil {
		victimClass = victim.Class
	}
	if assister != nil {
		assisterClass = assister.Class
	}

	airshot := vOK && resolver.IsAirshot(victim, a.currentTick)
	a.acc.Kill(attackerSummary, victimSummary, assisterSummary, result.WeaponName,
		attackerClass, victimClass, assisterClass,
		d.Feigned, d.Dominator, d.Revenge, airshot, d.Headshot, d.Backstab)

	if d.Headshot {
		a.acc.HeadshotSuffered(victimSummary, victimClass)
	}
	if d.Backstab {
		a.acc.BackstabSuffered(victimSummary, victimClass)
	}
}

func (a *Analyzer) resolveHurt(h tick.HurtEvent) {
	victim, _ := a.world.PlayerAt(h.VictimEntityID)
	attacker, _ := a.world.PlayerAt(h.AttackerEntityID)

	result := resolver.Resolve(resolver.Input{
		DamageType:  h.DamageType,
		DamageBits:  h.DamageBits,
		Attacker:    attacker,
		AttackerEID: h.AttackerEntityID,
		Victim:      victim,
		World:       a.world,
		Schema:      a.reg,
		Explosions:  a.queue.Explosions(),
		SentryShots: a.queue.SentryShots(),
		Airblasted:  a.queue.WasAirblasted(h.AttackerEntityID),
	})

	victimSummary, _ := a.playerSummaryByEntity(h.VictimEntityID, victim)
	attackerSummary, _ := a.playerSummaryByEntity(h.AttackerEntityID, attacker)

	var attackerClass, victimClass entity.Class
	if attacker != nil {
		attackerClass = attacker.Class
	}
	if victim != nil {
		victimClass = victim.Class
	}

	a.acc.Damage(attackerSummary, victimSummary, attackerClass, victimClass, result.WeaponName, h.Damage)
	if attackerSummary != nil {
		a.acc.Hit(attackerSummary, attackerClass, result.WeaponName)
	}
	if h.Headshot {
		a.acc.HeadshotSuffered(victimSummary, victimClass)
	}
	if h.Backstab {
		a.acc.BackstabSuffered(victimSummary, victimClass)
	}
}

// resolveCharge credits the owning player with a charge-type count.
func (a *Analyzer) resolveCharge(c tick.ChargeEvent) {
	w, ok := a.world.Slot(c.WeaponEntityID).(*entity.Weapon)
	if !ok {
		return
	}
	item, ok := a.reg.Get(w.ItemDefIndex)
	if !ok {
		a.logAnomaly("debug", anomalySchemaGap, "medigun charge: no schema item", zap.Int("item_def_index", w.ItemDefIndex))
		return
	}
	v, ok := item.AttrFloat("set_charge_type")
	if !ok {
		a.logAnomaly("debug", anomalySchemaGap, "medigun charge: no set_charge_type attribute", zap.Int("item_def_index", w.ItemDefIndex))
		return
	}

	ownerUserID, ok := a.world.WeaponOwnerUserID(w.Handle())
	if !ok {
		return
	}
	owner, ok := a.world.PlayerByUserID(ownerUserID)
	if !ok {
		return
	}
	summary, ok := a.playerSummaryByUserID(owner.UserID)
	if !ok {
		return
	}

	switch v {
	case 0:
		a.acc.CreditCharge(summary, stats.ChargeUber)
	case 1:
		a.acc.CreditCharge(summary, stats.ChargeKritz)
	case 2:
		a.acc.CreditCharge(summary, stats.ChargeQuickfix)
	default:
		a.logAnomaly("warn", anomalyUnknownEnum, "medigun charge: unrecognized set_charge_type", zap.Float64("value", v))
	}
}

func (a *Analyzer) classOf(h entity.Handle) entity.Class {
	if p, ok := a.world.SlotByHandle(h).(*entity.Player); ok {
		return p.Class
	}
	return entity.ClassUnknown
}

func (a *Analyzer) playerSummaryByHandle(h entity.Handle) (*stats.PlayerSummary, bool) {
	p, ok := a.world.SlotByHandle(h).(*entity.Player)
	if !ok {
		return nil, false
	}
	return a.playerSummaryByUserID(p.UserID)
}

func (a *Analyzer) playerSummaryByEntity(entityID int, p *entity.Player) (*stats.PlayerSummary, bool) {
	if p != nil {
		return a.playerSummaryByUserID(p.UserID)
	}
	userID, ok := a.world.UserIDForEntity(entityID)
	if !ok {
		return nil, false
	}
	return a.playerSummaryByUserID(userID)
}

func (a *Analyzer) playerSummaryByUserID(userID int) (*stats.PlayerSummary, bool) {
	steamID, ok := a.world.SteamID(userID)
	if !ok {
		return nil, false
	}
	for _, p := range a.acc.Players() {
		if p.SteamID == steamID {
			return p, true
		}
	}
	return nil, false
}
