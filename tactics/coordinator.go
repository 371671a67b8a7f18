// Package tactics coordinates every squad of one theater: who they shoot,
// when they pull back, and where they stand before committing together.
package tactics

import (
	"math"

	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/squad"
)

type Params struct {
	RegroupRatio float64 // aggregate hits ratio below which a squad regroups
	PincerRadius int
	StageRange   int // members must be this close to their pincer point

	KillableBonus  float64 // our DPS beats the hostile's heal support
	HealerBonus    float64
	HealPartBonus  float64
	CriticalHP     float64
	CriticalBonus  float64
	WoundedHP      float64
	WoundedBonus   float64
	DistanceWeight float64 // per cell of average squad distance
}

func DefaultParams() Params {
	return Params{
		RegroupRatio:   0.5,
		PincerRadius:   5,
		StageRange:     2,
		KillableBonus:  1000,
		HealerBonus:    500,
		HealPartBonus:  30,
		CriticalHP:     0.3,
		CriticalBonus:  400,
		WoundedHP:      0.5,
		WoundedBonus:   200,
		DistanceWeight: 15,
	}
}

// Ready reports whether every squad has finished assembling. Partly formed
// forces are never committed.
func Ready(records []*squad.Record) bool {
	if len(records) == 0 {
		return false
	}
	for _, r := range records {
		if !r.AssemblyComplete {
			return false
		}
	}
	return true
}

// ShouldRegroup reports whether a squad is too hurt or too thin to fight.
func ShouldRegroup(r *squad.Record, p Params) bool {
	return r.HitsRatio() < p.RegroupRatio || len(r.Members) < r.DesignedSize()
}

// PincerPositions spreads n staging points evenly on a circle around target,
// starting east and turning toward +y. Points are clamped into bounds. Fewer
// than two squads get no pincer.
func PincerPositions(target model.Position, n, radius int, bounds model.Rect) []model.Position {
	if n < 2 {
		return nil
	}
	out := make([]model.Position, n)
	for i := range n {
		angle := 2 * math.Pi * float64(i) / float64(n)
		p := model.Position{
			X: target.X + int(math.Round(float64(radius)*math.Cos(angle))),
			Y: target.Y + int(math.Round(float64(radius)*math.Sin(angle))),
		}
		out[i] = bounds.Clamp(p)
	}
	return out
}
