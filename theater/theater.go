// Package theater runs the per-tick tactical pass for one objective. A
// Theater owns every piece of cross-tick state the pass needs, so separate
// theaters share nothing mutable and can run side by side.
package theater

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/match"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/retreat"
	"github.com/nstehr/vimy/vimy-tactics/rules"
	"github.com/nstehr/vimy/vimy-tactics/squad"
	"github.com/nstehr/vimy/vimy-tactics/tactics"
)

// Group names assigned by the spawn manager.
const (
	GroupPair  = "pair"
	GroupSquad = "squad"
)

// diagInterval throttles the per-theater diagnostics log.
const diagInterval = 100

type Theater struct {
	Name     string
	squads   *squad.Registry
	engine   *rules.Engine
	lastDiag int
}

func New(name string, engine *rules.Engine, caps map[combat.Role]int) *Theater {
	return &Theater{
		Name:     name,
		squads:   squad.NewRegistry(caps),
		engine:   engine,
		lastDiag: -diagInterval,
	}
}

// Squads exposes the registry for inspection.
func (t *Theater) Squads() *squad.Registry { return t.squads }

// Report summarises one pass for event detection and logging.
type Report struct {
	Theater    string
	Tick       int
	Agents     int
	Hostiles   int
	Pairs      int
	Squads     int
	Formed     []string
	Dissolved  []string
	Regrouping []string
	Focus      *squad.Target
	Decisions  map[int]string // agent id → chosen behavior
	Corrupt    []int          // agents left unassigned this tick
	PairsOf    map[int]int    // agent id → live partner id
}

// Pass runs one tick for this theater's units and emits their intents to
// out in ascending agent id order.
func (t *Theater) Pass(ctx context.Context, gs model.GameState, units []model.Unit, terrain *model.TerrainGrid, d rules.Doctrine, out combat.Sink) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	rep := Report{
		Theater:   t.Name,
		Tick:      gs.Tick,
		Agents:    len(units),
		Hostiles:  len(gs.Hostiles),
		Decisions: make(map[int]string, len(units)),
		PairsOf:   make(map[int]int),
	}

	agents := make([]*combat.Agent, len(units))
	for i, u := range units {
		agents[i] = combat.NewAgent(u)
	}
	idx := combat.NewIndex(agents)
	snap := intel.NewSnapshot(gs, terrain, idx.All(), d.IntelParams())

	f := t.sweep(idx, gs.Tick)
	for _, a := range idx.All() {
		if f.has(a.ID()) {
			rep.Corrupt = append(rep.Corrupt, a.ID())
		}
	}

	t.squads.Advance(gs.Tick)
	unpairIneligible(idx, d, gs.Tick)
	t.match(idx, f, d)
	rep.Formed, rep.Dissolved = t.squads.Sync(idx)

	records := t.squads.Records()
	plan := tactics.Build(records, snap, d.TacticsParams())
	plan.Apply(t.squads)
	rep.Focus = plan.Focus
	rep.Squads = len(records)
	for _, r := range records {
		if r.Phase == squad.PhaseRegrouping {
			rep.Regrouping = append(rep.Regrouping, r.Ref)
		}
	}

	rp := d.RetreatParams()
	governor := make(map[int]retreat.Decision, idx.Len())
	for _, a := range idx.All() {
		dec, err := retreat.Evaluate(a, snap, rp)
		if err != nil {
			slog.Error("corrupt memory", "theater", t.Name, "agent", a.ID(), "error", err)
		}
		if dec.Changed {
			slog.Debug("retreat state", "agent", a.ID(), "state", dec.State, "retreatAt", dec.RetreatAt, "reengageAt", dec.ReengageAt)
		}
		governor[a.ID()] = dec
	}

	for _, a := range idx.All() {
		env := rules.RuleEnv{Agent: a, Snap: snap, Governor: governor[a.ID()], Doctrine: d}
		if !f.has(a.ID()) {
			env.Partner = livePartner(a, idx)
			if ref, ok, _ := a.SquadRef(); ok {
				env.Squad, _ = t.squads.Get(ref)
			}
		}
		if env.Partner != nil {
			rep.PairsOf[a.ID()] = env.Partner.ID()
		}
		if fired := t.engine.Evaluate(env); len(fired) > 0 {
			rep.Decisions[a.ID()] = fired[0]
			a.SetPhase(fired[0])
		}
		a.Flush(out)
	}
	rep.Pairs = len(rep.PairsOf) / 2

	t.logDiagnostics(rep)
	return rep, nil
}

// faults records which relation fields of which agents were corrupt this
// tick. Such agents are left out of matching for that relation and act
// unassigned.
type faults struct {
	partner map[int]bool
	squad   map[int]bool
}

func (f faults) has(id int) bool { return f.partner[id] || f.squad[id] }

// sweep clears corrupt relation fields, then drops partner ids that no
// longer resolve to a live agent claiming this one back.
func (t *Theater) sweep(idx *combat.Index, tick int) faults {
	f := faults{partner: make(map[int]bool), squad: make(map[int]bool)}
	for _, a := range idx.All() {
		if _, _, err := a.Partner(); err != nil {
			t.logCorrupt(a, err)
			a.ClearPartner()
			f.partner[a.ID()] = true
		}
		if _, _, err := a.SquadRef(); err != nil {
			t.logCorrupt(a, err)
			a.ClearSquadRef()
			f.squad[a.ID()] = true
		}
	}
	for _, a := range idx.All() {
		id, ok, _ := a.Partner()
		if ok && livePartner(a, idx) == nil {
			slog.Debug("partner gone", "agent", a.ID(), "partner", id, "tick", tick)
			a.ClearPartner()
		}
	}
	return f
}

func (t *Theater) logCorrupt(a *combat.Agent, err error) {
	if errors.Is(err, combat.ErrCorruptMemory) {
		slog.Error("corrupt memory", "theater", t.Name, "agent", a.ID(), "error", err)
	}
}

// unpairIneligible dissolves pairs whose halves no longer qualify for each
// other, clearing both sides at once. A unit can leave the pair group, or a
// doctrine reload can change the pair roles.
func unpairIneligible(idx *combat.Index, d rules.Doctrine, tick int) {
	for _, a := range idx.All() {
		p := livePartner(a, idx)
		if p == nil || p.ID() < a.ID() {
			continue
		}
		if pairable(a, p, d) {
			continue
		}
		slog.Debug("pair dissolved", "agent", a.ID(), "partner", p.ID(), "tick", tick)
		a.ClearPartner()
		p.ClearPartner()
	}
}

// pairable reports whether a and b are both pair-group agents holding the
// two pair roles.
func pairable(a, b *combat.Agent, d rules.Doctrine) bool {
	if a.Group() != GroupPair || b.Group() != GroupPair {
		return false
	}
	other, ok := d.PairRoleFor(a.Role())
	return ok && b.Role() == other
}

// match runs the pair and squad matchers over the agents of each group, in
// ascending id order.
func (t *Theater) match(idx *combat.Index, f faults, d rules.Doctrine) {
	for _, a := range idx.All() {
		switch a.Group() {
		case GroupPair:
			other, ok := d.PairRoleFor(a.Role())
			if !ok || f.partner[a.ID()] {
				continue
			}
			candidates := idx.Filter(func(c *combat.Agent) bool {
				return c != a && !f.partner[c.ID()] && c.Group() == GroupPair && c.Role() == other
			})
			if p, ok := match.FindPartner(a, candidates, d.PairToleranceTicks); ok {
				slog.Debug("paired", "agent", a.ID(), "partner", p.ID())
			}
		case GroupSquad:
			if f.squad[a.ID()] {
				continue
			}
			candidates := idx.Filter(func(c *combat.Agent) bool {
				return c != a && !f.squad[c.ID()] && c.Group() == GroupSquad
			})
			match.FindSquad(a, candidates, t.squads.Caps(), d.SquadToleranceTicks, t.squads.Mint)
		}
	}
}

// livePartner resolves a's partner id to a live agent that claims a back.
func livePartner(a *combat.Agent, idx *combat.Index) *combat.Agent {
	id, ok, err := a.Partner()
	if err != nil || !ok {
		return nil
	}
	p, live := idx.Get(id)
	if !live {
		return nil
	}
	back, ok, err := p.Partner()
	if err != nil || !ok || back != a.ID() {
		return nil
	}
	return p
}

func (t *Theater) logDiagnostics(rep Report) {
	if rep.Tick-t.lastDiag < diagInterval {
		return
	}
	t.lastDiag = rep.Tick
	slog.Info("theater diagnostics",
		"theater", t.Name,
		"tick", rep.Tick,
		"agents", rep.Agents,
		"hostiles", rep.Hostiles,
		"pairs", rep.Pairs,
		"squads", rep.Squads,
		"regrouping", len(rep.Regrouping),
		"corrupt", len(rep.Corrupt),
	)
}
