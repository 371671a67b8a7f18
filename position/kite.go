package position

import (
	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
)

// KiteRange is the distance to hold from the nearest hostile. Pure ranged
// hostiles are held at ranged range; melee ones may come one cell closer so
// the agent stays inside the towers' optimal band.
func KiteRange(h intel.Hostile) int {
	if h.Caps.Attack == 0 {
		return intel.RangedRange
	}
	return intel.RangedRange - 1
}

// Support moves a to its fire-support cell, or kites there once it has
// arrived. It returns false when no cell qualifies and the caller should
// fall back to another behavior.
func Support(a *combat.Agent, snap *intel.Snapshot, p Params) bool {
	cell, _, ok := FindFireSupport(snap, a.Pos(), p)
	if !ok {
		return false
	}
	if a.Pos() != cell {
		h, _, _ := snap.NearestHostile(a.Pos())
		a.Move(combat.MoveRequest{
			Goals: []combat.Goal{{Pos: cell, Range: 0}},
			Avoid: avoidAll(snap, KiteRange(h)),
		})
		opportunistic(a, snap)
		return true
	}
	return Kite(a, snap, cell)
}

// Kite holds position near anchor while keeping every hostile at kiting
// range, shooting the nearest one and healing itself when hurt.
func Kite(a *combat.Agent, snap *intel.Snapshot, anchor model.Position) bool {
	h, r, ok := snap.NearestHostile(a.Pos())
	if !ok {
		return false
	}
	keep := KiteRange(h)
	req := combat.MoveRequest{
		Goals: []combat.Goal{{Pos: anchor, Range: 1}},
		Avoid: avoidAll(snap, keep),
	}
	if r < keep {
		req.Flee = true
	}
	a.Move(req)
	opportunistic(a, snap)
	return true
}

func opportunistic(a *combat.Agent, snap *intel.Snapshot) {
	h, r, ok := snap.NearestHostile(a.Pos())
	if ok && r <= intel.RangedRange && a.Caps().Ranged > 0 {
		a.RangedAttack(h.ID)
	}
	if a.Damaged() && a.Caps().CanHeal() {
		a.Heal(a.ID())
	}
}

func avoidAll(snap *intel.Snapshot, r int) []combat.Goal {
	out := make([]combat.Goal, 0, len(snap.Hostiles))
	for _, h := range snap.Hostiles {
		out = append(out, combat.Goal{Pos: h.Pos(), Range: r})
	}
	return out
}
