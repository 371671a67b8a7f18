package combat

import "github.com/nstehr/vimy/vimy-tactics/model"

// Body part types.
const (
	PartMove   = "move"
	PartAttack = "attack"
	PartRanged = "ranged_attack"
	PartHeal   = "heal"
	PartWork   = "work"
	PartTough  = "tough"
)

// Per-part effect per tick, before boosts.
const (
	AttackPower     = 30
	RangedPower     = 10
	HealPower       = 12
	RangedHealPower = 4
	DismantlePower  = 50
)

// Role is the tactical job an agent was spawned for.
type Role string

const (
	RoleAttacker   Role = "attacker"
	RoleHealer     Role = "healer"
	RoleRanged     Role = "ranged"
	RoleDismantler Role = "dismantler"
)

// Capabilities are the per-tick potentials derived from a body. Only parts
// with hits remaining count.
type Capabilities struct {
	Attack     float64
	Ranged     float64
	Heal       float64
	RangedHeal float64
	Dismantle  float64
	HealParts  int
}

// DPS is the damage the body can deal to a single target in one tick.
func (c Capabilities) DPS() float64 {
	return c.Attack + c.Ranged
}

func (c Capabilities) CanHeal() bool { return c.HealParts > 0 }

// CapabilitiesOf sums the active parts of a body.
func CapabilitiesOf(body []model.BodyPart) Capabilities {
	var c Capabilities
	for _, p := range body {
		if p.Hits <= 0 {
			continue
		}
		mul := p.Boost
		if mul <= 0 {
			mul = 1
		}
		switch p.Type {
		case PartAttack:
			c.Attack += AttackPower * mul
		case PartRanged:
			c.Ranged += RangedPower * mul
		case PartHeal:
			c.Heal += HealPower * mul
			c.RangedHeal += RangedHealPower * mul
			c.HealParts++
		case PartWork:
			c.Dismantle += DismantlePower * mul
		}
	}
	return c
}

// InferRole picks a role from the dominant capability when the spawner did
// not tag the unit.
func InferRole(c Capabilities) Role {
	switch {
	case c.HealParts > 0 && c.Heal >= c.Attack && c.Heal >= c.Ranged:
		return RoleHealer
	case c.Ranged > c.Attack:
		return RoleRanged
	case c.Dismantle > c.Attack:
		return RoleDismantler
	default:
		return RoleAttacker
	}
}
