package rules

import "github.com/expr-lang/expr/vm"

// ActionFunc issues an agent's intents when its rule is chosen.
type ActionFunc func(env RuleEnv) error

// Rule is the atomic unit of agent behavior: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive so
// that an agent gets exactly one behavior per tick.
type Rule struct {
	Name         string      // human-readable identifier, persisted as the agent's phase
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for serialization)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
