// Package intel computes per-tick threat figures from visible state. A
// Snapshot is built fresh every tick and must never be kept across ticks:
// visibility and hostile composition change between them.
package intel

import (
	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/model"
)

// Engagement ranges for body parts.
const (
	MeleeRange  = 1
	RangedRange = 3
)

// Params describe static-defense output. Damage is full up to OptimalRange,
// falls off linearly to (1-Falloff) of full at MaxRange, and is zero beyond.
type Params struct {
	TowerPower        float64
	TowerOptimalRange int
	TowerMaxRange     int
	TowerFalloff      float64
}

func DefaultParams() Params {
	return Params{
		TowerPower:        600,
		TowerOptimalRange: 5,
		TowerMaxRange:     20,
		TowerFalloff:      0.75,
	}
}

// Hostile is a visible enemy unit with its derived capabilities.
type Hostile struct {
	model.Unit
	Caps combat.Capabilities
}

type Snapshot struct {
	Tick              int
	Width             int
	Height            int
	Terrain           *model.TerrainGrid
	Territory         model.Rect
	Hostiles          []Hostile
	HostileStructures []model.Structure
	Structures        []model.Structure
	Defenses          []model.Structure

	allies  []*combat.Agent
	params  Params
	blocked map[model.Position]bool
}

// NewSnapshot derives the tick's threat picture. allies are the live agents
// whose healing counts toward HealingCapacity.
func NewSnapshot(gs model.GameState, terrain *model.TerrainGrid, allies []*combat.Agent, p Params) *Snapshot {
	s := &Snapshot{
		Tick:              gs.Tick,
		Width:             gs.MapWidth,
		Height:            gs.MapHeight,
		Terrain:           terrain,
		Territory:         model.Bounds(gs.MapWidth, gs.MapHeight),
		HostileStructures: gs.HostileStructures,
		Structures:        gs.Structures,
		Defenses:          filterTypes(gs.Structures, defenseTypes),
		allies:            allies,
		params:            p,
		blocked:           make(map[model.Position]bool, len(gs.Structures)+len(gs.HostileStructures)),
	}
	if gs.Territory != nil {
		s.Territory = *gs.Territory
	}
	for _, u := range gs.Hostiles {
		s.Hostiles = append(s.Hostiles, Hostile{Unit: u, Caps: combat.CapabilitiesOf(u.Body)})
	}
	for _, st := range gs.Structures {
		s.blocked[st.Pos()] = true
	}
	for _, st := range gs.HostileStructures {
		s.blocked[st.Pos()] = true
	}
	return s
}

func (s *Snapshot) Params() Params { return s.params }

// TowerDamage is the damage a tower at from deals to a target at to.
func (s *Snapshot) TowerDamage(from, to model.Position) float64 {
	p := s.params
	r := from.Range(to)
	switch {
	case r <= p.TowerOptimalRange:
		return p.TowerPower
	case r <= p.TowerMaxRange:
		span := float64(p.TowerMaxRange - p.TowerOptimalRange)
		return p.TowerPower * (1 - p.TowerFalloff*float64(r-p.TowerOptimalRange)/span)
	default:
		return 0
	}
}

// DefenseDamageAt is the combined output of our static defenses on a cell.
func (s *Snapshot) DefenseDamageAt(pos model.Position) float64 {
	total := 0.0
	for _, d := range s.Defenses {
		total += s.TowerDamage(d.Pos(), pos)
	}
	return total
}

// HostileDefenseDamageAt is the combined output of hostile static defenses on a cell.
func (s *Snapshot) HostileDefenseDamageAt(pos model.Position) float64 {
	total := 0.0
	for _, d := range s.HostileStructures {
		if IsDefense(d) {
			total += s.TowerDamage(d.Pos(), pos)
		}
	}
	return total
}

// IncomingDamage sums hostile melee in range 1, hostile ranged in range 3
// and hostile structure damage at pos.
func (s *Snapshot) IncomingDamage(pos model.Position) float64 {
	total := s.HostileDefenseDamageAt(pos)
	for _, h := range s.Hostiles {
		r := h.Pos().Range(pos)
		if r <= MeleeRange {
			total += h.Caps.Attack
		}
		if r <= RangedRange {
			total += h.Caps.Ranged
		}
	}
	return total
}

// HealingCapacity is the most allied healing that can land on pos this tick.
func (s *Snapshot) HealingCapacity(pos model.Position) float64 {
	total := 0.0
	for _, a := range s.allies {
		r := a.Pos().Range(pos)
		switch {
		case r <= MeleeRange:
			total += a.Caps().Heal
		case r <= RangedRange:
			total += a.Caps().RangedHeal
		}
	}
	return total
}

// HealSupport is the highest heal rate a hostile can sustain on itself from
// its own parts and nearby hostile healers.
func (s *Snapshot) HealSupport(target Hostile) float64 {
	total := 0.0
	for _, h := range s.Hostiles {
		r := h.Pos().Range(target.Pos())
		switch {
		case r <= MeleeRange:
			total += h.Caps.Heal
		case r <= RangedRange:
			total += h.Caps.RangedHeal
		}
	}
	return total
}

// NearestHostile returns the closest visible hostile to pos; ties go to the
// lowest id.
func (s *Snapshot) NearestHostile(pos model.Position) (Hostile, int, bool) {
	var best Hostile
	bestRange := -1
	for _, h := range s.Hostiles {
		r := h.Pos().Range(pos)
		if bestRange < 0 || r < bestRange || (r == bestRange && h.ID < best.ID) {
			best, bestRange = h, r
		}
	}
	return best, bestRange, bestRange >= 0
}

func (s *Snapshot) Hostile(id int) (Hostile, bool) {
	for _, h := range s.Hostiles {
		if h.ID == id {
			return h, true
		}
	}
	return Hostile{}, false
}

func (s *Snapshot) HostileStructure(id int) (model.Structure, bool) {
	for _, st := range s.HostileStructures {
		if st.ID == id {
			return st, true
		}
	}
	return model.Structure{}, false
}

// InBounds reports whether pos is on the map.
func (s *Snapshot) InBounds(pos model.Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < s.Width && pos.Y < s.Height
}

// Passable reports whether an agent could stand on pos.
func (s *Snapshot) Passable(pos model.Position) bool {
	return s.InBounds(pos) && s.Terrain.Walkable(pos) && !s.blocked[pos]
}

// Anchor is the rally point of friendly territory: the mean position of our
// structures clamped into territory, or the territory center without any.
func (s *Snapshot) Anchor() model.Position {
	if len(s.Structures) == 0 {
		t := s.Territory
		return model.Position{X: (t.X0 + t.X1) / 2, Y: (t.Y0 + t.Y1) / 2}
	}
	sx, sy := 0, 0
	for _, st := range s.Structures {
		sx += st.X
		sy += st.Y
	}
	n := len(s.Structures)
	return s.Territory.Clamp(model.Position{X: sx / n, Y: sy / n})
}

// DefenseCenter is the mean position of our static defenses.
func (s *Snapshot) DefenseCenter() (model.Position, bool) {
	if len(s.Defenses) == 0 {
		return model.Position{}, false
	}
	sx, sy := 0, 0
	for _, d := range s.Defenses {
		sx += d.X
		sy += d.Y
	}
	n := len(s.Defenses)
	return model.Position{X: sx / n, Y: sy / n}, true
}
