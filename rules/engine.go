package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled rules against one agent at a time. Rules fire in
// priority order; exclusive rules block lower-priority rules in the same
// category, so each agent gets one behavior per tick.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Evaluate runs the rule set for the agent in env and returns the names of
// the rules that fired. A VM handle is not shared between callers, so
// theaters may evaluate concurrently.
func (e *Engine) Evaluate(env RuleEnv) []string {
	rules := e.Rules()
	var machine vm.VM
	fired := make(map[string]bool) // category → exclusive rule already fired
	var names []string

	for _, r := range rules {
		if fired[r.Category] {
			continue
		}

		result, err := machine.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "agent", env.Agent.ID(), "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		names = append(names, r.Name)
		slog.Debug("rule fired", "rule", r.Name, "agent", env.Agent.ID(), "priority", r.Priority, "category", r.Category)

		if err := r.Action(env); err != nil {
			slog.Error("rule action error", "rule", r.Name, "agent", env.Agent.ID(), "error", err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return names
}

// Rules returns the active rule set, highest priority first.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rules
}

// Swap atomically replaces the rule set (called by the doctrine reloader).
// Compiles first; if compilation fails the old rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", names)
	return nil
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
