package combat

import "github.com/nstehr/vimy/vimy-tactics/model"

// IntentKind names an elementary action. Values match the mod's command types.
type IntentKind string

const (
	IntentAttack       IntentKind = "attack"
	IntentRangedAttack IntentKind = "ranged_attack"
	IntentHeal         IntentKind = "heal"
	IntentRangedHeal   IntentKind = "ranged_heal"
	IntentDismantle    IntentKind = "dismantle"
	IntentMove         IntentKind = "move"
	IntentSetMemory    IntentKind = "set_memory"
)

// Goal is a position plus the range at which it counts as reached (approach)
// or cleared (avoid).
type Goal struct {
	Pos   model.Position
	Range int
}

// MoveRequest is handed to the movement collaborator, which performs one
// incremental move per tick. The coordinator never computes paths.
type MoveRequest struct {
	Goals []Goal
	Avoid []Goal
	Flee  bool // maximise distance from Avoid instead of approaching Goals
}

type Intent struct {
	Kind     IntentKind
	ActorID  int
	TargetID int
	Move     *MoveRequest
	Key      string
	Value    any
}

// Sink receives intents in emission order.
type Sink interface {
	Emit(Intent)
}

// Recorder is a Sink that keeps everything it receives.
type Recorder struct {
	Intents []Intent
}

func (r *Recorder) Emit(i Intent) { r.Intents = append(r.Intents, i) }

// Of returns the intents of one kind for one actor.
func (r *Recorder) Of(actor int, kind IntentKind) []Intent {
	var out []Intent
	for _, i := range r.Intents {
		if i.ActorID == actor && i.Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

func (a *Agent) order(i Intent) {
	i.ActorID = a.unit.ID
	for n := range a.orders {
		if a.orders[n].Kind == i.Kind {
			a.orders[n] = i
			return
		}
	}
	a.orders = append(a.orders, i)
}

// Action intents. Each kind is issued at most once per tick; a later call of
// the same kind replaces the earlier one.

func (a *Agent) Attack(target int) {
	a.order(Intent{Kind: IntentAttack, TargetID: target})
}

func (a *Agent) RangedAttack(target int) {
	a.order(Intent{Kind: IntentRangedAttack, TargetID: target})
}

func (a *Agent) Heal(target int) {
	a.order(Intent{Kind: IntentHeal, TargetID: target})
}

func (a *Agent) RangedHeal(target int) {
	a.order(Intent{Kind: IntentRangedHeal, TargetID: target})
}

func (a *Agent) Dismantle(target int) {
	a.order(Intent{Kind: IntentDismantle, TargetID: target})
}

func (a *Agent) Move(req MoveRequest) {
	a.order(Intent{Kind: IntentMove, Move: &req})
}

// Orders returns the action intents issued this tick.
func (a *Agent) Orders() []Intent {
	return a.orders
}

// Flush emits action intents followed by memory writes, then resets both.
func (a *Agent) Flush(out Sink) {
	for _, i := range a.orders {
		out.Emit(i)
	}
	for _, w := range a.writes {
		out.Emit(Intent{Kind: IntentSetMemory, ActorID: a.unit.ID, Key: w.Key, Value: w.Value})
	}
	a.orders = nil
	a.writes = nil
}
