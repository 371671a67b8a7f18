// Package position places ranged agents inside the envelope of our static
// defenses so that anything chasing them is shot by the towers as well.
package position

import (
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
)

// Params weight the terms of the fire-support score.
type Params struct {
	Radius       int // half-width of the search box
	BandMin      int // preferred hostile range, inclusive
	BandMax      int
	BandBonus    float64 // added when the nearest hostile is inside the band
	CloseWeight  float64 // per cell closer than BandMin
	FarRange     int
	FarWeight    float64 // per cell beyond FarRange
	EdgeWeight   float64 // per cell of distance from the map edge
	TravelWeight float64 // per cell of travel from the agent
}

func DefaultParams() Params {
	return Params{
		Radius:       8,
		BandMin:      3,
		BandMax:      4,
		BandBonus:    100,
		CloseWeight:  50,
		FarRange:     6,
		FarWeight:    20,
		EdgeWeight:   2,
		TravelWeight: 0.5,
	}
}

// Score rates standing on cell for an agent currently at from. Lower-level
// than FindFireSupport; exported for diagnostics.
func Score(snap *intel.Snapshot, from, cell model.Position, p Params) float64 {
	score := snap.DefenseDamageAt(cell)

	if _, r, ok := snap.NearestHostile(cell); ok {
		switch {
		case r >= p.BandMin && r <= p.BandMax:
			score += p.BandBonus
		case r < p.BandMin:
			score -= p.CloseWeight * float64(p.BandMin-r)
		case r > p.FarRange:
			score -= p.FarWeight * float64(r-p.FarRange)
		}
	}

	score += p.EdgeWeight * float64(model.EdgeDistance(cell, snap.Width, snap.Height))
	score -= p.TravelWeight * float64(from.Range(cell))
	return score
}

// FindFireSupport scans the box around the mean defense position row by row
// and returns the best passable cell. The first cell reaching the top score
// wins, so identical snapshots always give the same answer. ok is false when
// there is nothing to defend with or nothing to defend against.
func FindFireSupport(snap *intel.Snapshot, from model.Position, p Params) (cell model.Position, score float64, ok bool) {
	center, hasDefense := snap.DefenseCenter()
	if !hasDefense || len(snap.Hostiles) == 0 {
		return model.Position{}, 0, false
	}
	for y := center.Y - p.Radius; y <= center.Y+p.Radius; y++ {
		for x := center.X - p.Radius; x <= center.X+p.Radius; x++ {
			c := model.Position{X: x, Y: y}
			if !snap.Passable(c) {
				continue
			}
			s := Score(snap, from, c, p)
			if !ok || s > score {
				cell, score, ok = c, s, true
			}
		}
	}
	return cell, score, ok
}
