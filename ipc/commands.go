package ipc

import (
	"fmt"

	"github.com/nstehr/vimy/vimy-tactics/combat"
)

// Command types. These must stay in sync with the mod's command executor.
const (
	TypeAttack       = "attack"
	TypeRangedAttack = "ranged_attack"
	TypeHeal         = "heal"
	TypeRangedHeal   = "ranged_heal"
	TypeDismantle    = "dismantle"
	TypeMove         = "move"
	TypeSetMemory    = "set_memory"
)

// TargetCommand covers every command aimed at one object.
type TargetCommand struct {
	ActorID  uint32 `json:"actor_id"`
	TargetID uint32 `json:"target_id"`
}

type GoalData struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Range int `json:"range"`
}

type MoveCommand struct {
	ActorID uint32     `json:"actor_id"`
	Goals   []GoalData `json:"goals"`
	Avoid   []GoalData `json:"avoid,omitempty"`
	Flee    bool       `json:"flee,omitempty"`
}

// SetMemoryCommand writes one persisted field. A null value deletes it.
type SetMemoryCommand struct {
	ActorID uint32 `json:"actor_id"`
	Key     string `json:"key"`
	Value   any    `json:"value"`
}

var targetTypes = map[combat.IntentKind]string{
	combat.IntentAttack:       TypeAttack,
	combat.IntentRangedAttack: TypeRangedAttack,
	combat.IntentHeal:         TypeHeal,
	combat.IntentRangedHeal:   TypeRangedHeal,
	combat.IntentDismantle:    TypeDismantle,
}

// CommandEnvelope converts an intent into its wire command.
func CommandEnvelope(in combat.Intent) (Envelope, error) {
	actor := uint32(in.ActorID)
	if typ, ok := targetTypes[in.Kind]; ok {
		return NewEnvelope(typ, TargetCommand{ActorID: actor, TargetID: uint32(in.TargetID)})
	}
	switch in.Kind {
	case combat.IntentMove:
		if in.Move == nil {
			return Envelope{}, fmt.Errorf("move intent for %d has no request", in.ActorID)
		}
		return NewEnvelope(TypeMove, MoveCommand{
			ActorID: actor,
			Goals:   goals(in.Move.Goals),
			Avoid:   goals(in.Move.Avoid),
			Flee:    in.Move.Flee,
		})
	case combat.IntentSetMemory:
		return NewEnvelope(TypeSetMemory, SetMemoryCommand{ActorID: actor, Key: in.Key, Value: in.Value})
	default:
		return Envelope{}, fmt.Errorf("unknown intent kind %q", in.Kind)
	}
}

func goals(in []combat.Goal) []GoalData {
	if len(in) == 0 {
		return nil
	}
	out := make([]GoalData, len(in))
	for i, g := range in {
		out[i] = GoalData{X: g.Pos.X, Y: g.Pos.Y, Range: g.Range}
	}
	return out
}
