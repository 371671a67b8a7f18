package retreat

import (
	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/intel"
)

type State int

const (
	Engaging State = iota
	Recovering
)

func (s State) String() string {
	switch s {
	case Engaging:
		return "engaging"
	case Recovering:
		return "recovering"
	default:
		return "unknown"
	}
}

// Decision is the governor's output for one agent and tick.
type Decision struct {
	State      State
	Changed    bool
	RetreatAt  float64
	ReengageAt float64
	Incoming   float64
	Healing    float64
}

// Evaluate re-reads the agent's recovering flag, recomputes thresholds for
// its current cell and persists any transition. A corrupt flag is reported
// and treated as Engaging; the write that follows repairs it.
func Evaluate(a *combat.Agent, snap *intel.Snapshot, p Params) (Decision, error) {
	recovering, err := a.Recovering()
	if err != nil {
		recovering = false
	}

	pos := a.Pos()
	d := Decision{
		Incoming: snap.IncomingDamage(pos),
		Healing:  snap.HealingCapacity(pos),
	}
	if d.Incoming > 0 {
		a.SetLastDanger(snap.Tick)
	}
	d.RetreatAt, d.ReengageAt = Thresholds(d.Incoming, d.Healing, p)

	hits, hitsMax := float64(a.Hits()), float64(a.HitsMax())
	switch {
	case !recovering && hits < hitsMax*d.RetreatAt:
		recovering, d.Changed = true, true
	case recovering && hits >= hitsMax*d.ReengageAt:
		recovering, d.Changed = false, true
	}
	if recovering {
		d.State = Recovering
	}
	if d.Changed || err != nil {
		a.SetRecovering(recovering)
	}
	return d, err
}

// Endangered reports whether the agent took fire within the danger window.
func Endangered(a *combat.Agent, tick int, p Params) bool {
	last, ok, err := a.LastDanger()
	if err != nil || !ok {
		return false
	}
	return tick-last <= p.DangerWindow
}
