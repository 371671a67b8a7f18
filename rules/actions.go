package rules

import (
	"errors"
	"log/slog"

	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/position"
	"github.com/nstehr/vimy/vimy-tactics/retreat"
)

var errNoSquad = errors.New("agent has no live squad")

// target is a resolved attack target for this tick.
type target struct {
	id        int
	pos       model.Position
	structure bool
	melee     bool
}

func ActionRetreat(env RuleEnv) error {
	a := env.Agent
	a.Move(retreat.Step(a, env.Snap, env.Doctrine.RetreatParams()))
	if a.Damaged() && a.Caps().CanHeal() {
		a.Heal(a.ID())
	}
	shootNearest(a, env.Snap)
	return nil
}

// ActionRegroup pulls a battered squad back to the territory anchor, healers
// tending the worst-hurt member on the way.
func ActionRegroup(env RuleEnv) error {
	if env.Squad == nil {
		return errNoSquad
	}
	a := env.Agent
	a.Move(combat.MoveRequest{
		Goals: []combat.Goal{{Pos: env.Snap.Anchor(), Range: env.Doctrine.StageRange + 1}},
		Avoid: avoidHostiles(env.Snap, intel.RangedRange+1),
	})
	tendSquad(env)
	shootNearest(a, env.Snap)
	return nil
}

// ActionStage walks the agent to its squad's pincer point without engaging.
func ActionStage(env RuleEnv) error {
	if env.Squad == nil || env.Squad.Rally == nil {
		return errNoSquad
	}
	a := env.Agent
	a.Move(combat.MoveRequest{
		Goals: []combat.Goal{{Pos: *env.Squad.Rally, Range: 0}},
		Avoid: avoidHostiles(env.Snap, intel.RangedRange),
	})
	tendSquad(env)
	return nil
}

// ActionSquadEngage sends the agent at the squad's shared target. Healers
// stay with the squad and heal the most damaged member.
func ActionSquadEngage(env RuleEnv) error {
	t, ok := env.squadTarget()
	if !ok {
		return nil
	}
	a := env.Agent
	if a.Caps().DPS() == 0 && a.Caps().Dismantle == 0 {
		follow(a, env.Squad.Centroid(), 1)
		tendSquad(env)
		return nil
	}
	strike(a, t)
	tendSelf(a)
	return nil
}

// ActionAssemble gathers squad members near the anchor until the squad is
// committed.
func ActionAssemble(env RuleEnv) error {
	if env.Squad == nil {
		return errNoSquad
	}
	follow(env.Agent, env.Snap.Anchor(), env.Doctrine.StageRange)
	tendSquad(env)
	shootNearest(env.Agent, env.Snap)
	return nil
}

func ActionFireSupport(env RuleEnv) error {
	if position.Support(env.Agent, env.Snap, env.Doctrine.PositionParams()) {
		return nil
	}
	slog.Debug("no fire-support cell", "agent", env.Agent.ID())
	return ActionEngage(env)
}

// ActionPairSupport keeps a healer on its partner's shoulder.
func ActionPairSupport(env RuleEnv) error {
	a, p := env.Agent, env.Partner
	if p == nil {
		return nil
	}
	follow(a, p.Pos(), 1)
	switch {
	case p.Damaged() && (!a.Damaged() || p.HitsRatio() <= a.HitsRatio()):
		mend(a, p)
	case a.Damaged():
		a.Heal(a.ID())
	default:
		mend(a, p)
	}
	return nil
}

// ActionPairAttack engages the hostile nearest to the pair, so both halves
// pick the same one.
func ActionPairAttack(env RuleEnv) error {
	a, p := env.Agent, env.Partner
	if p == nil {
		return nil
	}
	h, _, ok := env.Snap.NearestHostile(midpoint(a.Pos(), p.Pos()))
	if !ok {
		return nil
	}
	strike(a, target{id: h.ID, pos: h.Pos(), melee: h.Caps.Attack > 0})
	tendSelf(a)
	return nil
}

func ActionEngage(env RuleEnv) error {
	a := env.Agent
	h, _, ok := env.Snap.NearestHostile(a.Pos())
	if !ok {
		return nil
	}
	strike(a, target{id: h.ID, pos: h.Pos(), melee: h.Caps.Attack > 0})
	tendSelf(a)
	return nil
}

// ActionSiege takes down the nearest non-ignored hostile structure when no
// hostile unit is in sight.
func ActionSiege(env RuleEnv) error {
	a := env.Agent
	var best model.Structure
	bestRange := -1
	for _, st := range env.Snap.HostileStructures {
		if intel.Classify(st) == intel.ClassIgnored {
			continue
		}
		r := a.Pos().Range(st.Pos())
		if bestRange < 0 || r < bestRange || (r == bestRange && st.ID < best.ID) {
			best, bestRange = st, r
		}
	}
	if bestRange < 0 {
		return nil
	}
	strike(a, target{id: best.ID, pos: best.Pos(), structure: true})
	return nil
}

func ActionHold(env RuleEnv) error {
	a := env.Agent
	follow(a, env.Snap.Anchor(), env.Doctrine.StageRange+1)
	tendSelf(a)
	return nil
}

// strike closes to the range the agent's body needs and fires everything
// that reaches.
func strike(a *combat.Agent, t target) {
	caps := a.Caps()
	r := a.Pos().Range(t.pos)

	switch {
	case t.structure && caps.Dismantle > 0:
		follow(a, t.pos, intel.MeleeRange)
		if r <= intel.MeleeRange {
			a.Dismantle(t.id)
		}
	case caps.Attack > 0:
		follow(a, t.pos, intel.MeleeRange)
		if r <= intel.MeleeRange {
			a.Attack(t.id)
		}
	case caps.Ranged > 0:
		req := combat.MoveRequest{Goals: []combat.Goal{{Pos: t.pos, Range: intel.RangedRange}}}
		if t.melee {
			req.Avoid = []combat.Goal{{Pos: t.pos, Range: intel.RangedRange - 1}}
		}
		a.Move(req)
	}
	if caps.Ranged > 0 && r <= intel.RangedRange {
		a.RangedAttack(t.id)
	}
}

func follow(a *combat.Agent, pos model.Position, within int) {
	if a.Pos().InRange(pos, within) {
		return
	}
	a.Move(combat.MoveRequest{Goals: []combat.Goal{{Pos: pos, Range: within}}})
}

// mend heals patient at whatever range the healer can reach it.
func mend(a, patient *combat.Agent) bool {
	switch r := a.Pos().Range(patient.Pos()); {
	case r <= intel.MeleeRange:
		a.Heal(patient.ID())
	case r <= intel.RangedRange:
		a.RangedHeal(patient.ID())
	default:
		return false
	}
	return true
}

func tendSelf(a *combat.Agent) {
	if a.Damaged() && a.Caps().CanHeal() {
		a.Heal(a.ID())
	}
}

// tendSquad heals the squad's most damaged member if the agent can heal and
// reach it; a damaged healer falls back to itself.
func tendSquad(env RuleEnv) {
	a := env.Agent
	if !a.Caps().CanHeal() || env.Squad == nil {
		return
	}
	if m, ok := env.Squad.MostDamaged(); ok && mend(a, m) {
		return
	}
	tendSelf(a)
}

func shootNearest(a *combat.Agent, snap *intel.Snapshot) {
	if a.Caps().Ranged == 0 {
		return
	}
	if h, r, ok := snap.NearestHostile(a.Pos()); ok && r <= intel.RangedRange {
		a.RangedAttack(h.ID)
	}
}

func avoidHostiles(snap *intel.Snapshot, r int) []combat.Goal {
	out := make([]combat.Goal, 0, len(snap.Hostiles))
	for _, h := range snap.Hostiles {
		out = append(out, combat.Goal{Pos: h.Pos(), Range: r})
	}
	return out
}

func midpoint(a, b model.Position) model.Position {
	return model.Position{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}
