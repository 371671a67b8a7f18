package rules

import (
	"testing"

	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/retreat"
	"github.com/nstehr/vimy/vimy-tactics/squad"
)

func parts(typ string, n int) []model.BodyPart {
	out := make([]model.BodyPart, n)
	for i := range out {
		out[i] = model.BodyPart{Type: typ, Hits: 100}
	}
	return out
}

func unit(id int, x, y, hits int, body ...[]model.BodyPart) *combat.Agent {
	var b []model.BodyPart
	for _, p := range body {
		b = append(b, p...)
	}
	return combat.NewAgent(model.Unit{ID: id, X: x, Y: y, Hits: hits, HitsMax: 100, Body: b})
}

func snapshot(gs model.GameState) *intel.Snapshot {
	if gs.MapWidth == 0 {
		gs.MapWidth, gs.MapHeight = 50, 50
	}
	return intel.NewSnapshot(gs, nil, nil, intel.DefaultParams())
}

func decide(t *testing.T, env RuleEnv) (string, *combat.Recorder) {
	t.Helper()
	engine, err := NewEngine(CompileDoctrine(DefaultDoctrine()))
	if err != nil {
		t.Fatal(err)
	}
	env.Doctrine = DefaultDoctrine()
	env.Doctrine.Validate()
	fired := engine.Evaluate(env)
	if len(fired) != 1 {
		t.Fatalf("fired = %v, want exactly one behavior", fired)
	}
	rec := &combat.Recorder{}
	env.Agent.Flush(rec)
	return fired[0], rec
}

func TestRetreatWinsOverEverything(t *testing.T) {
	a := unit(1, 10, 10, 40, parts(combat.PartAttack, 2), parts(combat.PartHeal, 1))
	rally := model.Position{X: 20, Y: 20}
	env := RuleEnv{
		Agent:    a,
		Snap:     snapshot(model.GameState{Hostiles: []model.Unit{{ID: 100, X: 12, Y: 10}}}),
		Squad:    &squad.Record{Ref: "sq-1", Phase: squad.PhaseStaging, Rally: &rally, Members: []*combat.Agent{a}},
		Governor: retreat.Decision{State: retreat.Recovering},
	}
	name, rec := decide(t, env)
	if name != "retreat" {
		t.Fatalf("behavior = %s, want retreat", name)
	}
	if len(rec.Of(1, combat.IntentMove)) != 1 {
		t.Error("retreat should move")
	}
	if h := rec.Of(1, combat.IntentHeal); len(h) != 1 || h[0].TargetID != 1 {
		t.Errorf("damaged healer body should heal itself, got %+v", h)
	}
}

func TestPairSupportHealsPartner(t *testing.T) {
	healer := unit(2, 10, 10, 100, parts(combat.PartHeal, 2), parts(combat.PartMove, 2))
	partner := unit(1, 11, 10, 50, parts(combat.PartAttack, 2))
	name, rec := decide(t, RuleEnv{Agent: healer, Partner: partner, Snap: snapshot(model.GameState{})})
	if name != "pair-support" {
		t.Fatalf("behavior = %s, want pair-support", name)
	}
	if h := rec.Of(2, combat.IntentHeal); len(h) != 1 || h[0].TargetID != 1 {
		t.Errorf("heal = %+v, want partner 1", h)
	}
	if len(rec.Of(2, combat.IntentMove)) != 0 {
		t.Error("healer already adjacent should not move")
	}
}

func TestPairAttackStrikesAdjacentHostile(t *testing.T) {
	attacker := unit(1, 10, 10, 100, parts(combat.PartAttack, 2))
	healer := unit(2, 9, 10, 100, parts(combat.PartHeal, 2))
	snap := snapshot(model.GameState{Hostiles: []model.Unit{{ID: 100, X: 11, Y: 11}}})
	name, rec := decide(t, RuleEnv{Agent: attacker, Partner: healer, Snap: snap})
	if name != "pair-attack" {
		t.Fatalf("behavior = %s, want pair-attack", name)
	}
	if at := rec.Of(1, combat.IntentAttack); len(at) != 1 || at[0].TargetID != 100 {
		t.Errorf("attack = %+v", at)
	}
}

func TestFireSupportForRangedDefender(t *testing.T) {
	a := unit(5, 20, 20, 100, parts(combat.PartRanged, 3))
	snap := snapshot(model.GameState{
		Structures: []model.Structure{{ID: 1, Type: "tower", X: 25, Y: 25}},
		Hostiles:   []model.Unit{{ID: 100, X: 25, Y: 34, Body: parts(combat.PartAttack, 1)}},
	})
	name, rec := decide(t, RuleEnv{Agent: a, Snap: snap})
	if name != "fire-support" {
		t.Fatalf("behavior = %s, want fire-support", name)
	}
	mv := rec.Of(5, combat.IntentMove)
	if len(mv) != 1 || mv[0].Move.Goals[0].Pos != (model.Position{X: 21, Y: 30}) {
		t.Errorf("move = %+v", mv)
	}
}

func TestStageMovesToRally(t *testing.T) {
	a := unit(1, 5, 5, 100, parts(combat.PartAttack, 1))
	rally := model.Position{X: 30, Y: 25}
	rec := &squad.Record{Ref: "sq-1", Phase: squad.PhaseStaging, Rally: &rally, Members: []*combat.Agent{a},
		Target: &squad.Target{ID: 100, Pos: model.Position{X: 25, Y: 25}}}
	snap := snapshot(model.GameState{Hostiles: []model.Unit{{ID: 100, X: 25, Y: 25}}})
	name, out := decide(t, RuleEnv{Agent: a, Squad: rec, Snap: snap})
	if name != "stage" {
		t.Fatalf("behavior = %s, want stage", name)
	}
	mv := out.Of(1, combat.IntentMove)
	if len(mv) != 1 || mv[0].Move.Goals[0].Pos != rally {
		t.Errorf("move = %+v", mv)
	}
	if len(out.Of(1, combat.IntentAttack)) != 0 {
		t.Error("staging squads hold fire")
	}
}

func TestSquadEngageHitsSharedTarget(t *testing.T) {
	a := unit(1, 10, 10, 100, parts(combat.PartAttack, 1))
	medic := unit(2, 10, 11, 100, parts(combat.PartHeal, 1))
	hurt := unit(3, 10, 12, 30, parts(combat.PartAttack, 1))
	rec := &squad.Record{Ref: "sq-1", Phase: squad.PhaseEngaging, Members: []*combat.Agent{a, medic, hurt},
		Target: &squad.Target{ID: 101, Pos: model.Position{X: 11, Y: 10}}}
	snap := snapshot(model.GameState{Hostiles: []model.Unit{
		{ID: 100, X: 9, Y: 9},
		{ID: 101, X: 11, Y: 10},
	}})

	name, out := decide(t, RuleEnv{Agent: a, Squad: rec, Snap: snap})
	if name != "squad-engage" {
		t.Fatalf("behavior = %s, want squad-engage", name)
	}
	if at := out.Of(1, combat.IntentAttack); len(at) != 1 || at[0].TargetID != 101 {
		t.Errorf("attack = %+v, want shared target 101", at)
	}

	name, out = decide(t, RuleEnv{Agent: medic, Squad: rec, Snap: snap})
	if name != "squad-engage" {
		t.Fatalf("behavior = %s, want squad-engage", name)
	}
	if h := out.Of(2, combat.IntentHeal); len(h) != 1 || h[0].TargetID != 3 {
		t.Errorf("heal = %+v, want most damaged member 3", h)
	}
}

func TestSquadWithLostTargetFallsThrough(t *testing.T) {
	a := unit(1, 10, 10, 100, parts(combat.PartAttack, 1))
	rec := &squad.Record{Ref: "sq-1", Phase: squad.PhaseEngaging, Members: []*combat.Agent{a},
		Target: &squad.Target{ID: 999}}
	name, _ := decide(t, RuleEnv{Agent: a, Squad: rec, Snap: snapshot(model.GameState{})})
	if name != "hold" {
		t.Errorf("behavior = %s, want hold", name)
	}
}

func TestSiegeDismantlesStructure(t *testing.T) {
	a := unit(1, 11, 10, 100, parts(combat.PartWork, 2))
	snap := snapshot(model.GameState{HostileStructures: []model.Structure{
		{ID: 40, Type: "controller", X: 11, Y: 11},
		{ID: 50, Type: "spawn", X: 12, Y: 10},
	}})
	name, rec := decide(t, RuleEnv{Agent: a, Snap: snap})
	if name != "siege" {
		t.Fatalf("behavior = %s, want siege", name)
	}
	if d := rec.Of(1, combat.IntentDismantle); len(d) != 1 || d[0].TargetID != 50 {
		t.Errorf("dismantle = %+v", d)
	}
}

func TestHoldIsTheFallback(t *testing.T) {
	a := unit(1, 40, 40, 100, parts(combat.PartAttack, 1))
	name, rec := decide(t, RuleEnv{Agent: a, Snap: snapshot(model.GameState{})})
	if name != "hold" {
		t.Fatalf("behavior = %s, want hold", name)
	}
	mv := rec.Of(1, combat.IntentMove)
	if len(mv) != 1 || mv[0].Move.Goals[0].Pos != (model.Position{X: 24, Y: 24}) {
		t.Errorf("move = %+v, want toward the territory anchor", mv)
	}
}
