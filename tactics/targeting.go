package tactics

import (
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/squad"
)

var classOrder = []intel.StructureClass{intel.ClassSpawn, intel.ClassDefense, intel.ClassSecondary}

// DistributeTargets splits hostile structures into priority groups and hands
// group i mod n to squad i; each squad takes the member of its group nearest
// to its centroid. Empty groups are skipped. Returns one target per record,
// nil where there is nothing to take.
func DistributeTargets(records []*squad.Record, snap *intel.Snapshot) []*squad.Target {
	var groups [][]model.Structure
	for _, class := range classOrder {
		var g []model.Structure
		for _, st := range snap.HostileStructures {
			if intel.Classify(st) == class {
				g = append(g, st)
			}
		}
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}

	out := make([]*squad.Target, len(records))
	if len(groups) == 0 {
		return out
	}
	for i, r := range records {
		from := r.Centroid()
		var best model.Structure
		bestRange := -1
		for _, st := range groups[i%len(groups)] {
			d := from.Range(st.Pos())
			if bestRange < 0 || d < bestRange || (d == bestRange && st.ID < best.ID) {
				best, bestRange = st, d
			}
		}
		out[i] = &squad.Target{ID: best.ID, Pos: best.Pos(), Structure: true}
	}
	return out
}

// FocusScore rates a hostile as the shared target of all squads.
func FocusScore(h intel.Hostile, records []*squad.Record, snap *intel.Snapshot, p Params) float64 {
	dps := 0.0
	for _, r := range records {
		dps += r.DPS()
	}

	score := 0.0
	if dps > snap.HealSupport(h) {
		score += p.KillableBonus
	}
	if h.Caps.CanHeal() {
		score += p.HealerBonus + p.HealPartBonus*float64(h.Caps.HealParts)
	}
	if h.HitsMax > 0 {
		ratio := float64(h.Hits) / float64(h.HitsMax)
		switch {
		case ratio < p.CriticalHP:
			score += p.CriticalBonus
		case ratio < p.WoundedHP:
			score += p.WoundedBonus
		}
	}
	if len(records) > 0 {
		total := 0
		for _, r := range records {
			total += r.Centroid().Range(h.Pos())
		}
		score -= p.DistanceWeight * float64(total) / float64(len(records))
	}
	return score
}

// FocusFire picks the single hostile every squad shoots this tick. Ties go
// to the lowest id.
func FocusFire(records []*squad.Record, snap *intel.Snapshot, p Params) (intel.Hostile, bool) {
	var best intel.Hostile
	bestScore, found := 0.0, false
	for _, h := range snap.Hostiles {
		s := FocusScore(h, records, snap, p)
		if !found || s > bestScore || (s == bestScore && h.ID < best.ID) {
			best, bestScore, found = h, s, true
		}
	}
	return best, found
}
