package match

import "github.com/nstehr/vimy/vimy-tactics/combat"

// Mint returns a squad ref that no live squad uses.
type Mint func() string

// FindSquad returns self's squad ref, joining or founding a squad if needed.
//
// An existing ref is reused unconditionally. Otherwise candidates are grouped
// by ref in order of first appearance and self joins the first group where
// every member's remaining lifetime is within toleranceTicks of self's and
// the group holds fewer than maxPerRole[self.Role()] agents of self's role.
// With no qualifying group a new ref is minted. A role without a cap entry
// is not allowed in squads and gets no ref.
func FindSquad(self *combat.Agent, candidates []*combat.Agent, maxPerRole map[combat.Role]int, toleranceTicks int, mint Mint) (string, bool) {
	if ref, ok, err := self.SquadRef(); err == nil && ok {
		return ref, true
	}

	limit := maxPerRole[self.Role()]
	if limit <= 0 {
		return "", false
	}
	selfTTL, ok := self.TicksToLive()
	if !ok {
		return "", false
	}

	var order []string
	groups := make(map[string][]*combat.Agent)
	for _, c := range candidates {
		if c.ID() == self.ID() {
			continue
		}
		ref, ok, err := c.SquadRef()
		if err != nil || !ok {
			continue
		}
		if _, seen := groups[ref]; !seen {
			order = append(order, ref)
		}
		groups[ref] = append(groups[ref], c)
	}

	for _, ref := range order {
		if accepts(groups[ref], self.Role(), selfTTL, limit, toleranceTicks) {
			self.SetSquadRef(ref)
			return ref, true
		}
	}

	ref := mint()
	self.SetSquadRef(ref)
	return ref, true
}

func accepts(members []*combat.Agent, role combat.Role, ttl, limit, tolerance int) bool {
	sameRole := 0
	for _, m := range members {
		mt, ok := m.TicksToLive()
		if !ok || abs(mt-ttl) > tolerance {
			return false
		}
		if m.Role() == role {
			sameRole++
		}
	}
	return sameRole < limit
}
