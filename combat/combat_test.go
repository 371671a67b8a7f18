package combat

import (
	"errors"
	"testing"

	"github.com/nstehr/vimy/vimy-tactics/model"
)

func ttl(n int) *int { return &n }

func TestCapabilitiesOf(t *testing.T) {
	body := []model.BodyPart{
		{Type: PartAttack, Hits: 100},
		{Type: PartAttack, Hits: 0}, // destroyed
		{Type: PartRanged, Hits: 100, Boost: 2},
		{Type: PartHeal, Hits: 100},
		{Type: PartHeal, Hits: 100},
		{Type: PartWork, Hits: 100},
		{Type: PartMove, Hits: 100},
	}
	c := CapabilitiesOf(body)

	if c.Attack != 30 {
		t.Errorf("Attack = %v, want 30", c.Attack)
	}
	if c.Ranged != 20 {
		t.Errorf("Ranged = %v, want 20 (boosted)", c.Ranged)
	}
	if c.Heal != 24 || c.RangedHeal != 8 || c.HealParts != 2 {
		t.Errorf("heal = %v/%v parts %d, want 24/8 parts 2", c.Heal, c.RangedHeal, c.HealParts)
	}
	if c.Dismantle != 50 {
		t.Errorf("Dismantle = %v, want 50", c.Dismantle)
	}
	if c.DPS() != 50 {
		t.Errorf("DPS = %v, want 50", c.DPS())
	}
}

func TestInferRole(t *testing.T) {
	tests := []struct {
		name string
		body []model.BodyPart
		want Role
	}{
		{"healer", []model.BodyPart{{Type: PartHeal, Hits: 100}, {Type: PartHeal, Hits: 100}}, RoleHealer},
		{"ranged", []model.BodyPart{{Type: PartRanged, Hits: 100}}, RoleRanged},
		{"dismantler", []model.BodyPart{{Type: PartWork, Hits: 100}}, RoleDismantler},
		{"attacker", []model.BodyPart{{Type: PartAttack, Hits: 100}}, RoleAttacker},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InferRole(CapabilitiesOf(tc.body)); got != tc.want {
				t.Errorf("InferRole = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAgentMemoryAcceptsJSONNumbers(t *testing.T) {
	a := NewAgent(model.Unit{ID: 1, Memory: map[string]any{
		MemPartner:    float64(7),
		MemSquad:      "sq-1",
		MemRecovering: true,
	}})

	id, ok, err := a.Partner()
	if err != nil || !ok || id != 7 {
		t.Errorf("Partner() = %d, %v, %v; want 7, true, nil", id, ok, err)
	}
	ref, ok, err := a.SquadRef()
	if err != nil || !ok || ref != "sq-1" {
		t.Errorf("SquadRef() = %q, %v, %v", ref, ok, err)
	}
	if rec, err := a.Recovering(); err != nil || !rec {
		t.Errorf("Recovering() = %v, %v", rec, err)
	}
}

func TestAgentMemoryCorrupt(t *testing.T) {
	a := NewAgent(model.Unit{ID: 1, Memory: map[string]any{
		MemPartner:    "seven",
		MemSquad:      42.0,
		MemRecovering: "yes",
		MemLastDanger: 3.5,
	}})

	if _, ok, err := a.Partner(); ok || !errors.Is(err, ErrCorruptMemory) {
		t.Errorf("Partner() ok=%v err=%v, want corrupt", ok, err)
	}
	if _, ok, err := a.SquadRef(); ok || !errors.Is(err, ErrCorruptMemory) {
		t.Errorf("SquadRef() ok=%v err=%v, want corrupt", ok, err)
	}
	if _, err := a.Recovering(); !errors.Is(err, ErrCorruptMemory) {
		t.Errorf("Recovering() err=%v, want corrupt", err)
	}
	if _, _, err := a.LastDanger(); !errors.Is(err, ErrCorruptMemory) {
		t.Errorf("LastDanger() err=%v, want corrupt", err)
	}
}

func TestAgentWritesCollapsePerKey(t *testing.T) {
	a := NewAgent(model.Unit{ID: 3})
	a.SetPartner(4)
	a.SetSquadRef("sq-a")
	a.SetPartner(5)
	a.ClearSquadRef()
	a.SetRecovering(false) // absent key, no write

	w := a.Writes()
	if len(w) != 2 {
		t.Fatalf("expected 2 writes, got %d: %v", len(w), w)
	}
	if w[0].Key != MemPartner || w[0].Value != 5 {
		t.Errorf("first write = %+v, want partner=5", w[0])
	}
	if w[1].Key != MemSquad || w[1].Value != nil {
		t.Errorf("second write = %+v, want squad deleted", w[1])
	}
	if id, ok, _ := a.Partner(); !ok || id != 5 {
		t.Errorf("memory not updated in place: %d %v", id, ok)
	}
}

func TestAgentFlush(t *testing.T) {
	a := NewAgent(model.Unit{ID: 9})
	a.Attack(1)
	a.Move(MoveRequest{Goals: []Goal{{Pos: model.Position{X: 1, Y: 1}, Range: 1}}})
	a.Attack(2) // replaces the first attack
	a.SetRecovering(true)

	var rec Recorder
	a.Flush(&rec)

	if len(rec.Intents) != 3 {
		t.Fatalf("expected 3 intents, got %d", len(rec.Intents))
	}
	if got := rec.Of(9, IntentAttack); len(got) != 1 || got[0].TargetID != 2 {
		t.Errorf("attack intents = %+v, want one targeting 2", got)
	}
	if rec.Intents[2].Kind != IntentSetMemory || rec.Intents[2].Key != MemRecovering {
		t.Errorf("memory write should be flushed last, got %+v", rec.Intents[2])
	}
	if len(a.Orders()) != 0 || len(a.Writes()) != 0 {
		t.Error("Flush should reset orders and writes")
	}
}

func TestIndexOrderAndLookup(t *testing.T) {
	idx := NewIndex([]*Agent{
		NewAgent(model.Unit{ID: 30}),
		NewAgent(model.Unit{ID: 10}),
		NewAgent(model.Unit{ID: 20, TicksToLive: ttl(5)}),
	})
	all := idx.All()
	for i, want := range []int{10, 20, 30} {
		if all[i].ID() != want {
			t.Errorf("All()[%d] = %d, want %d", i, all[i].ID(), want)
		}
	}
	if _, ok := idx.Get(99); ok {
		t.Error("Get(99) should miss")
	}
	a, ok := idx.Get(20)
	if !ok {
		t.Fatal("Get(20) should hit")
	}
	if n, ok := a.TicksToLive(); !ok || n != 5 {
		t.Errorf("TicksToLive = %d, %v", n, ok)
	}
	if a.Theater() != DefaultTheater {
		t.Errorf("Theater() = %q, want default", a.Theater())
	}
}

func TestTheaterOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultTheater},
		{"north", "north"},
	}
	for _, tt := range tests {
		u := model.Unit{ID: 1, Theater: tt.in}
		if got := TheaterOf(u); got != tt.want {
			t.Errorf("TheaterOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := NewAgent(u).Theater(); got != tt.want {
			t.Errorf("Agent.Theater() for %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}
