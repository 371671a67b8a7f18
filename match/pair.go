// Package match binds agents into pairs and squads. Both matchers are greedy
// and local: each call looks only at the candidates it is handed, so per-tick
// cost stays bounded by candidate count.
package match

import "github.com/nstehr/vimy/vimy-tactics/combat"

// FindPartner returns self's partner, forming a new pair if needed.
//
// An existing partner is kept only while it is among candidates and claims
// self back; otherwise the field is cleared and matching retries in the same
// call. A candidate already claiming self is adopted before any new match is
// considered. New pairs go to the unclaimed candidate whose remaining lifetime
// is closest to self's, within toleranceTicks; equal differences go to the
// lowest id. Both sides are written before returning.
//
// Candidates are expected to have had dead partner ids swept already, so a
// set partner field on a candidate means it is taken.
func FindPartner(self *combat.Agent, candidates []*combat.Agent, toleranceTicks int) (*combat.Agent, bool) {
	if id, ok, err := self.Partner(); err == nil && ok {
		if p := byID(candidates, id); p != nil && claims(p, self.ID()) {
			return p, true
		}
		self.ClearPartner()
	}

	for _, c := range candidates {
		if c.ID() != self.ID() && claims(c, self.ID()) {
			link(self, c)
			return c, true
		}
	}

	selfTTL, ok := self.TicksToLive()
	if !ok {
		return nil, false
	}

	var best *combat.Agent
	bestDiff := 0
	for _, c := range candidates {
		if c.ID() == self.ID() || claimed(c) {
			continue
		}
		ttl, ok := c.TicksToLive()
		if !ok {
			continue
		}
		d := abs(selfTTL - ttl)
		if d > toleranceTicks {
			continue
		}
		if best == nil || d < bestDiff || (d == bestDiff && c.ID() < best.ID()) {
			best, bestDiff = c, d
		}
	}
	if best == nil {
		return nil, false
	}
	link(self, best)
	return best, true
}

// link writes the relation on both sides in one step.
func link(a, b *combat.Agent) {
	a.SetPartner(b.ID())
	b.SetPartner(a.ID())
}

func claims(c *combat.Agent, id int) bool {
	p, ok, err := c.Partner()
	return err == nil && ok && p == id
}

// claimed treats a corrupt partner field as unassigned.
func claimed(c *combat.Agent) bool {
	_, ok, err := c.Partner()
	return err == nil && ok
}

func byID(agents []*combat.Agent, id int) *combat.Agent {
	for _, a := range agents {
		if a.ID() == id {
			return a
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
