package rules

import (
	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/retreat"
	"github.com/nstehr/vimy/vimy-tactics/squad"
)

// RuleEnv is everything one agent's rules may look at, exposed to expr
// conditions through helper methods. Partner and Squad are resolved against
// the live index before the env is built; nil means no live relation.
type RuleEnv struct {
	Agent    *combat.Agent
	Snap     *intel.Snapshot
	Partner  *combat.Agent
	Squad    *squad.Record
	Governor retreat.Decision
	Doctrine Doctrine
}

func (e RuleEnv) Role() string             { return string(e.Agent.Role()) }
func (e RuleEnv) HitsRatio() float64       { return e.Agent.HitsRatio() }
func (e RuleEnv) Damaged() bool            { return e.Agent.Damaged() }
func (e RuleEnv) Recovering() bool         { return e.Governor.State == retreat.Recovering }
func (e RuleEnv) CanAttack() bool          { return e.Agent.Caps().Attack > 0 }
func (e RuleEnv) CanRanged() bool          { return e.Agent.Caps().Ranged > 0 }
func (e RuleEnv) CanHeal() bool            { return e.Agent.Caps().CanHeal() }
func (e RuleEnv) CanDismantle() bool       { return e.Agent.Caps().Dismantle > 0 }
func (e RuleEnv) IncomingDamage() float64  { return e.Governor.Incoming }
func (e RuleEnv) HealingCapacity() float64 { return e.Governor.Healing }

func (e RuleEnv) HasPartner() bool { return e.Partner != nil }

// PartnerDamaged reports whether the live partner is below full hits.
func (e RuleEnv) PartnerDamaged() bool {
	return e.Partner != nil && e.Partner.Damaged()
}

func (e RuleEnv) InSquad() bool { return e.Squad != nil }

func (e RuleEnv) squadPhase(p squad.Phase) bool {
	return e.Squad != nil && e.Squad.Phase == p
}

func (e RuleEnv) SquadAssembling() bool { return e.squadPhase(squad.PhaseAssembling) }
func (e RuleEnv) SquadStaging() bool    { return e.squadPhase(squad.PhaseStaging) }
func (e RuleEnv) SquadEngaging() bool   { return e.squadPhase(squad.PhaseEngaging) }
func (e RuleEnv) SquadRegrouping() bool { return e.squadPhase(squad.PhaseRegrouping) }

// HasSquadTarget reports whether the squad's shared target is still visible.
func (e RuleEnv) HasSquadTarget() bool {
	_, ok := e.squadTarget()
	return ok
}

func (e RuleEnv) HasRally() bool {
	return e.Squad != nil && e.Squad.Rally != nil
}

func (e RuleEnv) HostilesVisible() bool { return len(e.Snap.Hostiles) > 0 }
func (e RuleEnv) HostileCount() int     { return len(e.Snap.Hostiles) }
func (e RuleEnv) HasDefenses() bool     { return len(e.Snap.Defenses) > 0 }

// NearestHostileRange is the range to the closest hostile, or -1 with none
// in sight.
func (e RuleEnv) NearestHostileRange() int {
	_, r, ok := e.Snap.NearestHostile(e.Agent.Pos())
	if !ok {
		return -1
	}
	return r
}

// HostileStructuresVisible reports whether any hostile structure other than
// ignored ones is in sight.
func (e RuleEnv) HostileStructuresVisible() bool {
	for _, st := range e.Snap.HostileStructures {
		if intel.Classify(st) != intel.ClassIgnored {
			return true
		}
	}
	return false
}

// squadTarget resolves the shared target against this tick's snapshot.
func (e RuleEnv) squadTarget() (target, bool) {
	if e.Squad == nil || e.Squad.Target == nil {
		return target{}, false
	}
	t := e.Squad.Target
	if t.Structure {
		st, ok := e.Snap.HostileStructure(t.ID)
		return target{id: st.ID, pos: st.Pos(), structure: true}, ok
	}
	h, ok := e.Snap.Hostile(t.ID)
	return target{id: h.ID, pos: h.Pos(), melee: h.Caps.Attack > 0}, ok
}
