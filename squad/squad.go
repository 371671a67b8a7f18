// Package squad keeps the per-squad half of the persisted relation state.
// Membership itself is never stored here: it is re-derived every tick from
// the squad refs live agents carry, so a squad whose last member died simply
// disappears on the next Sync.
package squad

import (
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/model"
)

// Phase is the squad-level state re-evaluated every tick by the coordinator.
type Phase string

const (
	PhaseAssembling Phase = "assembling"
	PhaseStaging    Phase = "staging"
	PhaseEngaging   Phase = "engaging"
	PhaseRegrouping Phase = "regrouping"
)

// Target is a shared squad target, stored by id and re-resolved every tick.
type Target struct {
	ID        int
	Pos       model.Position
	Structure bool
}

type Record struct {
	Ref              string
	Caps             map[combat.Role]int
	Members          []*combat.Agent // live members, ascending id, rebuilt by Sync
	AssemblyComplete bool
	Phase            Phase
	Target           *Target
	Rally            *model.Position // pincer staging point
	FormedTick       int
}

// DesignedSize is the member count the squad was built for.
func (r *Record) DesignedSize() int {
	n := 0
	for _, c := range r.Caps {
		n += c
	}
	return n
}

func (r *Record) RoleCount(role combat.Role) int {
	n := 0
	for _, m := range r.Members {
		if m.Role() == role {
			n++
		}
	}
	return n
}

// Full reports whether every capped role is at its cap.
func (r *Record) Full() bool {
	if len(r.Caps) == 0 {
		return false
	}
	for role, c := range r.Caps {
		if r.RoleCount(role) < c {
			return false
		}
	}
	return true
}

// HitsRatio is Σhits / Σhits-max across live members.
func (r *Record) HitsRatio() float64 {
	hits, maxHits := 0, 0
	for _, m := range r.Members {
		hits += m.Hits()
		maxHits += m.HitsMax()
	}
	if maxHits == 0 {
		return 0
	}
	return float64(hits) / float64(maxHits)
}

// Centroid is the mean member position.
func (r *Record) Centroid() model.Position {
	if len(r.Members) == 0 {
		return model.Position{}
	}
	sx, sy := 0, 0
	for _, m := range r.Members {
		p := m.Pos()
		sx += p.X
		sy += p.Y
	}
	n := len(r.Members)
	return model.Position{X: sx / n, Y: sy / n}
}

// DPS is the combined single-target damage of the squad.
func (r *Record) DPS() float64 {
	total := 0.0
	for _, m := range r.Members {
		total += m.Caps().DPS()
	}
	return total
}

// MostDamaged returns the member with the lowest hits ratio; ties go to the
// lowest id.
func (r *Record) MostDamaged() (*combat.Agent, bool) {
	var best *combat.Agent
	for _, m := range r.Members {
		if !m.Damaged() {
			continue
		}
		if best == nil || m.HitsRatio() < best.HitsRatio() {
			best = m
		}
	}
	return best, best != nil
}

// Registry holds the squad records of one theater.
type Registry struct {
	records map[string]*Record
	caps    map[combat.Role]int
	tick    int
}

func NewRegistry(caps map[combat.Role]int) *Registry {
	return &Registry{
		records: make(map[string]*Record),
		caps:    maps.Clone(caps),
	}
}

// SetCaps changes the caps of every squad. Members above a lowered cap stay;
// the squad just takes no one new for that role.
func (g *Registry) SetCaps(caps map[combat.Role]int) {
	if maps.Equal(g.caps, caps) {
		return
	}
	g.caps = maps.Clone(caps)
	for _, r := range g.records {
		r.Caps = maps.Clone(caps)
	}
}

func (g *Registry) Caps() map[combat.Role]int { return g.caps }

// Advance stamps the tick used for records created from now on.
func (g *Registry) Advance(tick int) { g.tick = tick }

// Mint creates a record under a fresh ref.
func (g *Registry) Mint() string {
	for {
		ref := "sq-" + uuid.NewString()[:8]
		if _, taken := g.records[ref]; taken {
			continue
		}
		g.records[ref] = g.newRecord(ref)
		return ref
	}
}

func (g *Registry) newRecord(ref string) *Record {
	return &Record{
		Ref:        ref,
		Caps:       maps.Clone(g.caps),
		Phase:      PhaseAssembling,
		FormedTick: g.tick,
	}
}

// Sync rebuilds membership from the live index. Records that no live agent
// references are dropped; refs seen for the first time (e.g. after a sidecar
// restart) get a fresh record. Assembly completes once every role is at cap
// and stays complete.
func (g *Registry) Sync(idx *combat.Index) (formed, dissolved []string) {
	for _, r := range g.records {
		r.Members = r.Members[:0]
	}
	for _, a := range idx.All() {
		ref, ok, err := a.SquadRef()
		if err != nil || !ok {
			continue
		}
		r, exists := g.records[ref]
		if !exists {
			r = g.newRecord(ref)
			g.records[ref] = r
		}
		r.Members = append(r.Members, a)
	}

	for ref, r := range g.records {
		if len(r.Members) == 0 {
			delete(g.records, ref)
			dissolved = append(dissolved, ref)
			slog.Info("squad dissolved", "squad", ref)
			continue
		}
		if !r.AssemblyComplete && r.Full() {
			r.AssemblyComplete = true
			formed = append(formed, ref)
			slog.Info("squad assembled", "squad", ref, "size", len(r.Members))
		}
	}
	slices.Sort(formed)
	slices.Sort(dissolved)
	return formed, dissolved
}

func (g *Registry) Get(ref string) (*Record, bool) {
	r, ok := g.records[ref]
	return r, ok
}

// Records returns all squads ordered by formation tick, then ref. This order
// is the squad index used for target distribution and pincer slots.
func (g *Registry) Records() []*Record {
	out := slices.Collect(maps.Values(g.records))
	slices.SortFunc(out, func(a, b *Record) int {
		if a.FormedTick != b.FormedTick {
			return a.FormedTick - b.FormedTick
		}
		return strings.Compare(a.Ref, b.Ref)
	})
	return out
}

func (g *Registry) Len() int { return len(g.records) }
