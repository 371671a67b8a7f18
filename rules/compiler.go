package rules

import "fmt"

// CategoryBehavior holds the mutually exclusive per-agent behaviors.
const CategoryBehavior = "behavior"

// CompileDoctrine generates the per-agent rule set from a doctrine.
// All conditions are built via fmt.Sprintf with interpolated values, so
// the compiler never generates invalid expr.
func CompileDoctrine(d Doctrine) []*Rule {
	d.Validate()
	var rules []*Rule

	behavior := func(name string, priority int, cond string, action ActionFunc) {
		rules = append(rules, &Rule{
			Name:         name,
			Priority:     priority,
			Category:     CategoryBehavior,
			Exclusive:    true,
			ConditionSrc: cond,
			Action:       action,
		})
	}

	// --- Survival ---

	behavior("retreat", 1000, `Recovering()`, ActionRetreat)

	// --- Squad phases ---
	// The coordinator has already set the phase for this tick; these rules
	// only read it.

	behavior("regroup", 900, `InSquad() && SquadRegrouping()`, ActionRegroup)
	behavior("stage", 850, `InSquad() && SquadStaging() && HasRally()`, ActionStage)
	behavior("squad-engage", 800, `InSquad() && SquadEngaging() && HasSquadTarget()`, ActionSquadEngage)
	behavior("assemble", 750, `InSquad() && !SquadEngaging()`, ActionAssemble)

	// --- Defensive positioning ---

	behavior("fire-support", 700,
		fmt.Sprintf(`HostilesVisible() && HasDefenses() && CanRanged() && !CanAttack() && NearestHostileRange() <= %d`,
			d.EngageRange+d.FireSupportRadius),
		ActionFireSupport)

	// --- Pairs ---

	behavior("pair-support", 650, `HasPartner() && CanHeal() && !CanAttack()`, ActionPairSupport)
	behavior("pair-attack", 600,
		fmt.Sprintf(`HasPartner() && HostilesVisible() && NearestHostileRange() <= %d`, d.EngageRange),
		ActionPairAttack)

	// --- Solo ---

	behavior("engage", 500,
		fmt.Sprintf(`HostilesVisible() && NearestHostileRange() <= %d && (CanAttack() || CanRanged())`, d.EngageRange),
		ActionEngage)
	behavior("siege", 400,
		`!HostilesVisible() && HostileStructuresVisible() && (CanAttack() || CanRanged() || CanDismantle())`,
		ActionSiege)
	behavior("hold", 0, `true`, ActionHold)

	return rules
}
