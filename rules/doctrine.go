package rules

import (
	"maps"
	"slices"

	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
	"github.com/nstehr/vimy/vimy-tactics/position"
	"github.com/nstehr/vimy/vimy-tactics/retreat"
	"github.com/nstehr/vimy/vimy-tactics/tactics"
)

// Doctrine is the tunable tactical posture. It is loaded from YAML and
// compiled into a rule set; every package-level parameter block is derived
// from it.
type Doctrine struct {
	Name      string `yaml:"name" json:"name"`
	Rationale string `yaml:"rationale" json:"rationale"`

	PairRoles           []combat.Role       `yaml:"pair_roles" json:"pair_roles"`
	PairToleranceTicks  int                 `yaml:"pair_tolerance_ticks" json:"pair_tolerance_ticks"`
	SquadCaps           map[combat.Role]int `yaml:"squad_caps" json:"squad_caps"`
	SquadToleranceTicks int                 `yaml:"squad_tolerance_ticks" json:"squad_tolerance_ticks"`

	RetreatBands   []retreat.Band `yaml:"retreat_bands" json:"retreat_bands"`
	RetreatFloor   float64        `yaml:"retreat_floor" json:"retreat_floor"`
	ReengageMargin float64        `yaml:"reengage_margin" json:"reengage_margin"`

	TowerPower        float64 `yaml:"tower_power" json:"tower_power"`
	TowerOptimalRange int     `yaml:"tower_optimal_range" json:"tower_optimal_range"`
	TowerMaxRange     int     `yaml:"tower_max_range" json:"tower_max_range"`
	TowerFalloff      float64 `yaml:"tower_falloff" json:"tower_falloff"`

	FireSupportRadius int     `yaml:"fire_support_radius" json:"fire_support_radius"`
	EngageRange       int     `yaml:"engage_range" json:"engage_range"`
	RegroupRatio      float64 `yaml:"regroup_ratio" json:"regroup_ratio"`
	PincerRadius      int     `yaml:"pincer_radius" json:"pincer_radius"`
	StageRange        int     `yaml:"stage_range" json:"stage_range"`
}

// DefaultDoctrine returns the baseline posture.
func DefaultDoctrine() Doctrine {
	rp := retreat.DefaultParams()
	ip := intel.DefaultParams()
	tp := tactics.DefaultParams()
	return Doctrine{
		Name:                "Balanced",
		Rationale:           "Default tactical posture",
		PairRoles:           []combat.Role{combat.RoleAttacker, combat.RoleHealer},
		PairToleranceTicks:  100,
		SquadCaps:           map[combat.Role]int{combat.RoleAttacker: 2, combat.RoleHealer: 1, combat.RoleRanged: 1},
		SquadToleranceTicks: 150,
		RetreatBands:        rp.Bands,
		RetreatFloor:        rp.Floor,
		ReengageMargin:      rp.ReengageMargin,
		TowerPower:          ip.TowerPower,
		TowerOptimalRange:   ip.TowerOptimalRange,
		TowerMaxRange:       ip.TowerMaxRange,
		TowerFalloff:        ip.TowerFalloff,
		FireSupportRadius:   position.DefaultParams().Radius,
		EngageRange:         10,
		RegroupRatio:        tp.RegroupRatio,
		PincerRadius:        tp.PincerRadius,
		StageRange:          tp.StageRange,
	}
}

// maxRetreatThreshold leaves room for the hysteresis gap below full hits.
const maxRetreatThreshold = 1 - 0.05

// Validate clamps every field to its valid range and fills what is missing.
func (d *Doctrine) Validate() {
	def := DefaultDoctrine()

	if len(d.PairRoles) != 2 || d.PairRoles[0] == d.PairRoles[1] {
		d.PairRoles = def.PairRoles
	}
	d.PairToleranceTicks = clampInt(d.PairToleranceTicks, 0, 1500)
	d.SquadToleranceTicks = clampInt(d.SquadToleranceTicks, 0, 1500)

	caps := make(map[combat.Role]int, len(d.SquadCaps))
	for role, n := range d.SquadCaps {
		if n > 0 {
			caps[role] = clampInt(n, 1, 8)
		}
	}
	if len(caps) == 0 {
		caps = def.SquadCaps
	}
	d.SquadCaps = caps

	if len(d.RetreatBands) == 0 {
		d.RetreatBands = def.RetreatBands
	}
	bands := slices.Clone(d.RetreatBands)
	for i := range bands {
		bands[i].Ratio = max(bands[i].Ratio, 0)
		bands[i].Threshold = clamp(bands[i].Threshold, 0, maxRetreatThreshold)
	}
	// Highest pressure first, whatever order the file used.
	slices.SortStableFunc(bands, func(a, b retreat.Band) int {
		switch {
		case a.Ratio > b.Ratio:
			return -1
		case a.Ratio < b.Ratio:
			return 1
		}
		return 0
	})
	d.RetreatBands = bands
	d.RetreatFloor = clamp(d.RetreatFloor, 0, maxRetreatThreshold)
	d.ReengageMargin = clamp(d.ReengageMargin, 0.05, 0.5)

	if d.TowerPower <= 0 {
		d.TowerPower = def.TowerPower
	}
	d.TowerOptimalRange = clampInt(d.TowerOptimalRange, 0, 50)
	d.TowerMaxRange = clampInt(d.TowerMaxRange, d.TowerOptimalRange+1, 50)
	d.TowerFalloff = clamp(d.TowerFalloff, 0, 1)

	d.FireSupportRadius = clampInt(d.FireSupportRadius, 1, 12)
	d.EngageRange = clampInt(d.EngageRange, 1, 50)
	d.RegroupRatio = clamp(d.RegroupRatio, 0, 1)
	d.PincerRadius = clampInt(d.PincerRadius, 1, 15)
	d.StageRange = clampInt(d.StageRange, 0, 5)
}

// PairRoleFor returns the role that completes a pair with role, if role is
// one of the two pair roles.
func (d Doctrine) PairRoleFor(role combat.Role) (combat.Role, bool) {
	if len(d.PairRoles) != 2 {
		return "", false
	}
	switch role {
	case d.PairRoles[0]:
		return d.PairRoles[1], true
	case d.PairRoles[1]:
		return d.PairRoles[0], true
	}
	return "", false
}

func (d Doctrine) Caps() map[combat.Role]int { return maps.Clone(d.SquadCaps) }

func (d Doctrine) RetreatParams() retreat.Params {
	p := retreat.DefaultParams()
	p.Bands = d.RetreatBands
	p.Floor = d.RetreatFloor
	p.ReengageMargin = d.ReengageMargin
	return p
}

func (d Doctrine) IntelParams() intel.Params {
	return intel.Params{
		TowerPower:        d.TowerPower,
		TowerOptimalRange: d.TowerOptimalRange,
		TowerMaxRange:     d.TowerMaxRange,
		TowerFalloff:      d.TowerFalloff,
	}
}

func (d Doctrine) PositionParams() position.Params {
	p := position.DefaultParams()
	p.Radius = d.FireSupportRadius
	return p
}

func (d Doctrine) TacticsParams() tactics.Params {
	p := tactics.DefaultParams()
	p.RegroupRatio = d.RegroupRatio
	p.PincerRadius = d.PincerRadius
	p.StageRange = d.StageRange
	return p
}

// clampInt restricts v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp restricts v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
