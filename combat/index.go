package combat

import "slices"

// Index is the live-agent table for one tick. It is the only way to turn a
// stored id back into an Agent.
type Index struct {
	byID    map[int]*Agent
	ordered []*Agent
}

func NewIndex(agents []*Agent) *Index {
	idx := &Index{
		byID:    make(map[int]*Agent, len(agents)),
		ordered: slices.Clone(agents),
	}
	slices.SortFunc(idx.ordered, func(a, b *Agent) int { return a.ID() - b.ID() })
	for _, a := range idx.ordered {
		idx.byID[a.ID()] = a
	}
	return idx
}

func (x *Index) Get(id int) (*Agent, bool) {
	a, ok := x.byID[id]
	return a, ok
}

// All returns agents in ascending id order.
func (x *Index) All() []*Agent { return x.ordered }

func (x *Index) Len() int { return len(x.ordered) }

// Filter returns the agents, in id order, for which keep is true.
func (x *Index) Filter(keep func(*Agent) bool) []*Agent {
	var out []*Agent
	for _, a := range x.ordered {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
