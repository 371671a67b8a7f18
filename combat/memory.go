package combat

import (
	"errors"
	"fmt"
	"math"
)

// Persisted per-agent memory keys. The storage format belongs to the mod;
// fields are addressed by name only.
const (
	MemPartner    = "partner"
	MemSquad      = "squad"
	MemRecovering = "recovering"
	MemLastDanger = "lastDanger"
	MemPhase      = "phase"
)

// ErrCorruptMemory marks a persisted field whose shape is not what the
// coordinator wrote. The agent is treated as unassigned for the tick.
var ErrCorruptMemory = errors.New("corrupt memory field")

// MemoryWrite is a pending change to a persisted field. A nil Value deletes it.
type MemoryWrite struct {
	Key   string
	Value any
}

func memInt(m map[string]any, key string) (int, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case float64:
		// JSON numbers decode as float64.
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true, nil
		}
	}
	return 0, false, fmt.Errorf("%w: %s has value %v (%T)", ErrCorruptMemory, key, v, v)
}

func memString(m map[string]any, key string) (string, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false, fmt.Errorf("%w: %s has value %v (%T)", ErrCorruptMemory, key, v, v)
	}
	return s, true, nil
}

func memBool(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s has value %v (%T)", ErrCorruptMemory, key, v, v)
	}
	return b, nil
}
