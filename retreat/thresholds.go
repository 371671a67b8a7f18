// Package retreat decides when an agent breaks off to heal and where it goes
// while it does. Retreat thresholds move with the damage-vs-healing balance of
// the agent's cell, so a unit under heavy fire leaves earlier than one that is
// only being chipped.
package retreat

// Band maps a pressure ratio to a retreat threshold. An agent whose incoming
// damage exceeds Ratio times its healing capacity uses Threshold.
type Band struct {
	Ratio     float64 `yaml:"ratio" json:"ratio"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
}

type Params struct {
	Bands          []Band  // checked in order; first match wins
	Floor          float64 // threshold when no band matches
	ReengageMargin float64
	Epsilon        float64 // minimum gap between the two thresholds
	DangerWindow   int     // ticks a hit keeps the agent "endangered"
}

func DefaultParams() Params {
	return Params{
		Bands: []Band{
			{Ratio: 1.5, Threshold: 0.90},
			{Ratio: 1.0, Threshold: 0.85},
			{Ratio: 0.5, Threshold: 0.75},
		},
		Floor:          0.60,
		ReengageMargin: 0.10,
		Epsilon:        0.05,
		DangerWindow:   3,
	}
}

// Thresholds returns the retreat and re-engage hit ratios for the given
// pressure. The re-engage threshold never sits closer than Epsilon above the
// retreat threshold, even if that puts it above 1.
func Thresholds(incoming, healing float64, p Params) (retreatAt, reengageAt float64) {
	retreatAt = p.Floor
	for _, b := range p.Bands {
		if incoming > b.Ratio*healing {
			retreatAt = b.Threshold
			break
		}
	}
	reengageAt = min(retreatAt+p.ReengageMargin, 1.0)
	if reengageAt < retreatAt+p.Epsilon {
		reengageAt = retreatAt + p.Epsilon
	}
	return retreatAt, reengageAt
}
