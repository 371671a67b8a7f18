package combat

import (
	"maps"

	"github.com/nstehr/vimy/vimy-tactics/model"
)

// DefaultTheater is used for units that arrive without a theater name.
const DefaultTheater = "default"

// Agent wraps one of our combat units for a single tick. Relation fields
// (partner, squad) are plain ids: they say nothing about whether the referent
// is still alive, so every reader re-validates against an Index.
type Agent struct {
	unit   model.Unit
	caps   Capabilities
	role   Role
	mem    map[string]any
	writes []MemoryWrite
	orders []Intent
}

func NewAgent(u model.Unit) *Agent {
	caps := CapabilitiesOf(u.Body)
	role := Role(u.Role)
	if role == "" {
		role = InferRole(caps)
	}
	mem := make(map[string]any, len(u.Memory))
	maps.Copy(mem, u.Memory)
	return &Agent{unit: u, caps: caps, role: role, mem: mem}
}

func (a *Agent) ID() int                { return a.unit.ID }
func (a *Agent) Role() Role             { return a.role }
func (a *Agent) Group() string          { return a.unit.Group }
func (a *Agent) Hits() int              { return a.unit.Hits }
func (a *Agent) HitsMax() int           { return a.unit.HitsMax }
func (a *Agent) Pos() model.Position    { return a.unit.Pos() }
func (a *Agent) Caps() Capabilities     { return a.caps }
func (a *Agent) Unit() model.Unit       { return a.unit }
func (a *Agent) Memory() map[string]any { return a.mem }

func (a *Agent) Theater() string { return TheaterOf(a.unit) }

// TheaterOf names the theater a unit belongs to.
func TheaterOf(u model.Unit) string {
	if u.Theater == "" {
		return DefaultTheater
	}
	return u.Theater
}

// TicksToLive returns the remaining lifetime; ok is false while spawning.
func (a *Agent) TicksToLive() (int, bool) {
	if a.unit.TicksToLive == nil {
		return 0, false
	}
	return *a.unit.TicksToLive, true
}

// HitsRatio is hits/hitsMax, or 1 for a unit reporting no max.
func (a *Agent) HitsRatio() float64 {
	if a.unit.HitsMax <= 0 {
		return 1
	}
	return float64(a.unit.Hits) / float64(a.unit.HitsMax)
}

// Damaged reports whether the agent is below full hits.
func (a *Agent) Damaged() bool {
	return a.unit.Hits < a.unit.HitsMax
}

func (a *Agent) Partner() (int, bool, error) { return memInt(a.mem, MemPartner) }
func (a *Agent) SetPartner(id int)           { a.write(MemPartner, id) }
func (a *Agent) ClearPartner()               { a.write(MemPartner, nil) }

func (a *Agent) SquadRef() (string, bool, error) { return memString(a.mem, MemSquad) }
func (a *Agent) SetSquadRef(ref string)          { a.write(MemSquad, ref) }
func (a *Agent) ClearSquadRef()                  { a.write(MemSquad, nil) }

func (a *Agent) Recovering() (bool, error) { return memBool(a.mem, MemRecovering) }

func (a *Agent) SetRecovering(v bool) {
	if v {
		a.write(MemRecovering, true)
		return
	}
	a.write(MemRecovering, nil)
}

func (a *Agent) LastDanger() (int, bool, error) { return memInt(a.mem, MemLastDanger) }
func (a *Agent) SetLastDanger(tick int)         { a.write(MemLastDanger, tick) }

// Phase is the behavior chosen last; informational for the mod's debug view.
func (a *Agent) Phase() string {
	s, _, _ := memString(a.mem, MemPhase)
	return s
}

func (a *Agent) SetPhase(p string) {
	if a.Phase() == p {
		return
	}
	a.write(MemPhase, p)
}

// write updates memory immediately so later readers in the same tick see the
// new value, and queues the change for the mod.
func (a *Agent) write(key string, v any) {
	if v == nil {
		if _, ok := a.mem[key]; !ok {
			return
		}
		delete(a.mem, key)
	} else {
		a.mem[key] = v
	}
	for i := range a.writes {
		if a.writes[i].Key == key {
			a.writes[i].Value = v
			return
		}
	}
	a.writes = append(a.writes, MemoryWrite{Key: key, Value: v})
}

// Writes returns the memory changes queued this tick, in first-write order.
func (a *Agent) Writes() []MemoryWrite {
	return a.writes
}
