package tactics

import (
	"log/slog"

	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/squad"
)

// Order is what one squad does this tick.
type Order struct {
	Ref    string
	Phase  squad.Phase
	Target *squad.Target
	Rally  *model.Position
}

// Plan is computed once per tick and applied to every squad before any
// member acts, so all squads read the same targets.
type Plan struct {
	Tick   int
	Ready  bool
	Focus  *squad.Target // shared focus-fire target
	Orders []Order
}

// Build runs the coordinator over the theater's squads. records must be in
// registry order; that order is the squad index for distribution and pincer
// slots.
func Build(records []*squad.Record, snap *intel.Snapshot, p Params) Plan {
	plan := Plan{Tick: snap.Tick, Ready: Ready(records)}
	if !plan.Ready {
		for _, r := range records {
			o := Order{Ref: r.Ref, Phase: r.Phase, Target: resolve(r.Target, snap), Rally: r.Rally}
			switch {
			case !r.AssemblyComplete:
				o = Order{Ref: r.Ref, Phase: squad.PhaseAssembling}
			case ShouldRegroup(r, p):
				o.Phase, o.Rally = squad.PhaseRegrouping, nil
			case r.Phase == squad.PhaseRegrouping:
				// Recovered while others assemble: resume the fight if the
				// target is still there, else hold with the assembling squads.
				o.Rally = nil
				o.Phase = squad.PhaseAssembling
				if o.Target != nil {
					o.Phase = squad.PhaseEngaging
				}
			}
			plan.Orders = append(plan.Orders, o)
		}
		return plan
	}

	targets := make([]*squad.Target, len(records))
	switch {
	case len(snap.Hostiles) > 0:
		if h, ok := FocusFire(records, snap, p); ok {
			plan.Focus = &squad.Target{ID: h.ID, Pos: h.Pos()}
			for i := range targets {
				targets[i] = plan.Focus
			}
		}
	case len(snap.HostileStructures) > 0:
		targets = DistributeTargets(records, snap)
	}

	plan.Orders = make([]Order, len(records))
	var active []int
	for i, r := range records {
		plan.Orders[i] = Order{Ref: r.Ref, Target: targets[i]}
		if ShouldRegroup(r, p) {
			plan.Orders[i].Phase = squad.PhaseRegrouping
			continue
		}
		active = append(active, i)
	}

	var slots []model.Position
	if plan.Focus != nil {
		slots = PincerPositions(plan.Focus.Pos, len(active), p.PincerRadius, model.Bounds(snap.Width, snap.Height))
	}

	var staging []int
	for slot, i := range active {
		o := &plan.Orders[i]
		switch {
		case o.Target == nil:
			o.Phase = squad.PhaseStaging
		case records[i].Phase == squad.PhaseEngaging || slots == nil:
			o.Phase = squad.PhaseEngaging
		default:
			rally := slots[slot]
			o.Phase, o.Rally = squad.PhaseStaging, &rally
			staging = append(staging, i)
		}
	}

	if len(staging) > 0 && allStaged(records, plan.Orders, staging, p) {
		for _, i := range staging {
			plan.Orders[i].Phase = squad.PhaseEngaging
		}
	}
	return plan
}

func allStaged(records []*squad.Record, orders []Order, staging []int, p Params) bool {
	for _, i := range staging {
		rally := *orders[i].Rally
		for _, m := range records[i].Members {
			if !m.Pos().InRange(rally, p.StageRange) {
				return false
			}
		}
	}
	return true
}

// resolve refreshes a stored target against the snapshot; a target that is
// no longer visible is dropped.
func resolve(t *squad.Target, snap *intel.Snapshot) *squad.Target {
	if t == nil {
		return nil
	}
	if t.Structure {
		st, ok := snap.HostileStructure(t.ID)
		if !ok {
			return nil
		}
		return &squad.Target{ID: st.ID, Pos: st.Pos(), Structure: true}
	}
	h, ok := snap.Hostile(t.ID)
	if !ok {
		return nil
	}
	return &squad.Target{ID: h.ID, Pos: h.Pos()}
}

// Apply writes the plan into the registry.
func (pl Plan) Apply(reg *squad.Registry) {
	for _, o := range pl.Orders {
		r, ok := reg.Get(o.Ref)
		if !ok {
			continue
		}
		if r.Phase != o.Phase {
			slog.Info("squad phase", "squad", o.Ref, "from", r.Phase, "to", o.Phase, "tick", pl.Tick)
		}
		r.Phase = o.Phase
		r.Target = o.Target
		r.Rally = o.Rally
	}
}
