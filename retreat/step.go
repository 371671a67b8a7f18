package retreat

import (
	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
)

// neighbours in scan order; the first of equally good cells wins.
var neighbours = [8]model.Position{
	{X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: -1, Y: 0}, {X: 1, Y: 0},
	{X: -1, Y: 1}, {X: 0, Y: 1}, {X: 1, Y: 1},
}

// avoidRange keeps the movement collaborator clear of ranged fire.
const avoidRange = intel.RangedRange + 1

// Step picks the retreat goal for a recovering agent: the adjacent cell
// inside friendly territory that puts the most distance between it and the
// nearest hostile. An endangered agent on the map boundary steps inward
// instead of along or across it. Without a visible hostile, or with nowhere
// better to stand, the agent falls back toward the territory anchor.
func Step(a *combat.Agent, snap *intel.Snapshot, p Params) combat.MoveRequest {
	pos := a.Pos()
	avoid := hostileGoals(snap)
	home := combat.MoveRequest{
		Goals: []combat.Goal{{Pos: snap.Anchor(), Range: 1}},
		Avoid: avoid,
	}
	if len(snap.Hostiles) == 0 {
		return home
	}

	offBoundary := model.OnBoundary(pos, snap.Width, snap.Height) && Endangered(a, snap.Tick, p)
	best, bestDist := pos, nearestRange(snap, pos)
	if offBoundary {
		bestDist = -1
	}
	for _, d := range neighbours {
		c := model.Position{X: pos.X + d.X, Y: pos.Y + d.Y}
		if !snap.Territory.Contains(c) || !snap.Passable(c) {
			continue
		}
		if offBoundary && model.OnBoundary(c, snap.Width, snap.Height) {
			continue
		}
		if r := nearestRange(snap, c); r > bestDist {
			best, bestDist = c, r
		}
	}
	if best == pos {
		return home
	}
	return combat.MoveRequest{
		Goals: []combat.Goal{{Pos: best, Range: 0}},
		Avoid: avoid,
	}
}

func nearestRange(snap *intel.Snapshot, pos model.Position) int {
	_, r, _ := snap.NearestHostile(pos)
	return r
}

func hostileGoals(snap *intel.Snapshot) []combat.Goal {
	out := make([]combat.Goal, 0, len(snap.Hostiles))
	for _, h := range snap.Hostiles {
		out = append(out, combat.Goal{Pos: h.Pos(), Range: avoidRange})
	}
	return out
}
