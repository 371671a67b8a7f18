package match

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/model"
)

func agent(id int, role combat.Role, ttl int, mem map[string]any) *combat.Agent {
	return combat.NewAgent(model.Unit{ID: id, Role: string(role), TicksToLive: &ttl, Memory: mem})
}

func partnerOf(t *testing.T, a *combat.Agent) int {
	t.Helper()
	id, ok, err := a.Partner()
	if err != nil {
		t.Fatalf("agent %d partner: %v", a.ID(), err)
	}
	if !ok {
		return 0
	}
	return id
}

func TestFindPartnerPicksClosestLifetime(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, nil)
	cands := []*combat.Agent{
		agent(10, combat.RoleHealer, 1040, nil),
		agent(11, combat.RoleHealer, 990, nil),
		agent(12, combat.RoleHealer, 1200, nil), // outside tolerance
	}

	got, ok := FindPartner(self, cands, 50)
	if !ok || got.ID() != 11 {
		t.Fatalf("FindPartner = %v, %v; want agent 11", got, ok)
	}
	if partnerOf(t, self) != 11 || partnerOf(t, cands[1]) != 1 {
		t.Error("relation not written on both sides")
	}
	if partnerOf(t, cands[0]) != 0 || partnerOf(t, cands[2]) != 0 {
		t.Error("unmatched candidates must stay unclaimed")
	}
}

func TestFindPartnerTieBreaksOnLowestID(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, nil)
	cands := []*combat.Agent{
		agent(30, combat.RoleHealer, 1010, nil),
		agent(20, combat.RoleHealer, 990, nil),
		agent(25, combat.RoleHealer, 1010, nil),
	}
	got, ok := FindPartner(self, cands, 50)
	if !ok || got.ID() != 20 {
		t.Fatalf("FindPartner = %v; want lowest id 20 among equal differences", got)
	}
}

func TestFindPartnerOutsideTolerance(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, nil)
	cands := []*combat.Agent{agent(10, combat.RoleHealer, 1101, nil)}
	if _, ok := FindPartner(self, cands, 100); ok {
		t.Fatal("expected no match beyond tolerance")
	}
	if partnerOf(t, self) != 0 {
		t.Error("failed match must not write a partner")
	}
	if _, ok := FindPartner(self, nil, 100); ok {
		t.Error("expected no match with no candidates")
	}
}

func TestFindPartnerSkipsClaimedCandidates(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, nil)
	cands := []*combat.Agent{
		agent(10, combat.RoleHealer, 1000, map[string]any{combat.MemPartner: 2}),
		agent(11, combat.RoleHealer, 1030, nil),
	}
	got, ok := FindPartner(self, cands, 50)
	if !ok || got.ID() != 11 {
		t.Fatalf("FindPartner = %v; want unclaimed agent 11", got)
	}
}

func TestFindPartnerAdoptsExistingClaim(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, nil)
	cands := []*combat.Agent{
		agent(10, combat.RoleHealer, 1000, nil),
		agent(11, combat.RoleHealer, 1400, map[string]any{combat.MemPartner: 1.0}),
	}
	got, ok := FindPartner(self, cands, 50)
	if !ok || got.ID() != 11 {
		t.Fatalf("FindPartner = %v; want the candidate already claiming self", got)
	}
	if partnerOf(t, self) != 11 {
		t.Error("self must adopt the claim")
	}
}

func TestFindPartnerClearsDeadPartnerAndRetries(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, map[string]any{combat.MemPartner: 99})
	cands := []*combat.Agent{agent(10, combat.RoleHealer, 1005, nil)}

	got, ok := FindPartner(self, cands, 50)
	if !ok || got.ID() != 10 {
		t.Fatalf("FindPartner = %v; want rematch with 10", got)
	}
	if partnerOf(t, self) != 10 {
		t.Error("dangling partner id should have been replaced")
	}
}

func TestFindPartnerClearsOneSidedRelation(t *testing.T) {
	// 10 is alive but claims someone else; the relation must not stay one-sided.
	self := agent(1, combat.RoleAttacker, 1000, map[string]any{combat.MemPartner: 10})
	cands := []*combat.Agent{agent(10, combat.RoleHealer, 1000, map[string]any{combat.MemPartner: 2})}

	if _, ok := FindPartner(self, cands, 50); ok {
		t.Fatal("expected no match")
	}
	if partnerOf(t, self) != 0 {
		t.Error("one-sided partner id should be cleared")
	}
}

func TestFindPartnerIdempotent(t *testing.T) {
	self := agent(1, combat.RoleAttacker, 1000, nil)
	cands := []*combat.Agent{
		agent(10, combat.RoleHealer, 1010, nil),
		agent(11, combat.RoleHealer, 1020, nil),
	}
	first, ok := FindPartner(self, cands, 50)
	if !ok {
		t.Fatal("expected a match")
	}
	writes := len(self.Writes())
	second, ok := FindPartner(self, cands, 50)
	if !ok || second.ID() != first.ID() {
		t.Fatalf("second call = %v, first = %v", second, first)
	}
	if len(self.Writes()) != writes {
		t.Error("second call should not write anything")
	}
}

func TestFindPartnerSpawningAgentNeverMatches(t *testing.T) {
	self := combat.NewAgent(model.Unit{ID: 1, Role: string(combat.RoleAttacker)})
	cands := []*combat.Agent{agent(10, combat.RoleHealer, 1000, nil)}
	if _, ok := FindPartner(self, cands, 5000); ok {
		t.Error("agent without a lifetime should not form a new pair")
	}
}

// Pairs every attacker against a shuffled pool of healers and checks that the
// resulting relation is symmetric and within tolerance.
func TestFindPartnerSymmetryAndTolerance(t *testing.T) {
	const tolerance = 40
	rng := rand.New(rand.NewPCG(7, 11))
	for round := range 20 {
		t.Run(fmt.Sprintf("round-%d", round), func(t *testing.T) {
			var attackers, healers []*combat.Agent
			for i := range 12 {
				attackers = append(attackers, agent(100+i, combat.RoleAttacker, 200+rng.IntN(1300), nil))
				healers = append(healers, agent(200+i, combat.RoleHealer, 200+rng.IntN(1300), nil))
			}
			for _, a := range attackers {
				FindPartner(a, healers, tolerance)
			}

			all := append(append([]*combat.Agent{}, attackers...), healers...)
			byID := make(map[int]*combat.Agent)
			for _, a := range all {
				byID[a.ID()] = a
			}
			for _, a := range all {
				p := partnerOf(t, a)
				if p == 0 {
					continue
				}
				b := byID[p]
				if partnerOf(t, b) != a.ID() {
					t.Errorf("asymmetric: %d -> %d but %d -> %d", a.ID(), p, p, partnerOf(t, b))
				}
				at, _ := a.TicksToLive()
				bt, _ := b.TicksToLive()
				if abs(at-bt) > tolerance {
					t.Errorf("pair %d/%d lifetime difference %d exceeds %d", a.ID(), b.ID(), abs(at-bt), tolerance)
				}
			}
		})
	}
}
