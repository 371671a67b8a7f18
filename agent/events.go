package agent

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nstehr/vimy/vimy-tactics/theater"
)

// EventKind identifies a tactical change worth surfacing in the logs and in
// the doctrine reload summary.
type EventKind string

const (
	EventFirstContact      EventKind = "first_contact"
	EventPartnerLost       EventKind = "partner_lost"
	EventSquadFormed       EventKind = "squad_formed"
	EventSquadDissolved    EventKind = "squad_dissolved"
	EventSquadRegrouping   EventKind = "squad_regrouping"
	EventTheaterDevastated EventKind = "theater_devastated"
	EventTheaterClosed     EventKind = "theater_closed"
)

// Event is one tactical change detected by diffing consecutive theater reports.
type Event struct {
	Kind    EventKind
	Tick    int
	Theater string
	Detail  string
}

// devastationFloor is the smallest force whose losses are worth reporting;
// a theater of two units losing one is routine attrition.
const devastationFloor = 4

// theaterSnapshot keeps the diffable fields of one theater's last report.
type theaterSnapshot struct {
	agents     int
	hostiles   int
	pairs      map[int]int
	regrouping map[string]bool
}

func takeSnapshot(rep theater.Report) theaterSnapshot {
	s := theaterSnapshot{
		agents:     rep.Agents,
		hostiles:   rep.Hostiles,
		pairs:      make(map[int]int, len(rep.PairsOf)),
		regrouping: make(map[string]bool, len(rep.Regrouping)),
	}
	for id, p := range rep.PairsOf {
		s.pairs[id] = p
	}
	for _, ref := range rep.Regrouping {
		s.regrouping[ref] = true
	}
	return s
}

// detectEvents compares one report against the theater's previous snapshot.
// Returns nil if prev is nil (first pass of the theater).
func detectEvents(rep theater.Report, prev *theaterSnapshot) []Event {
	if prev == nil {
		return nil
	}
	var events []Event
	add := func(kind EventKind, detail string) {
		events = append(events, Event{Kind: kind, Tick: rep.Tick, Theater: rep.Theater, Detail: detail})
	}

	if rep.Agents == 0 {
		add(EventTheaterClosed, "no units left in theater")
		return events
	}

	if prev.hostiles == 0 && rep.Hostiles > 0 {
		add(EventFirstContact, fmt.Sprintf("%d hostiles in sight", rep.Hostiles))
	}

	// A partner relation that vanished while the agent itself survived.
	var lost []int
	for id, p := range prev.pairs {
		if _, alive := rep.Decisions[id]; !alive {
			continue
		}
		if rep.PairsOf[id] != p {
			lost = append(lost, id)
		}
	}
	slices.Sort(lost)
	for _, id := range lost {
		add(EventPartnerLost, fmt.Sprintf("agent %d lost partner %d", id, prev.pairs[id]))
	}

	for _, ref := range rep.Formed {
		add(EventSquadFormed, "squad "+ref)
	}
	for _, ref := range rep.Dissolved {
		add(EventSquadDissolved, "squad "+ref)
	}
	for _, ref := range rep.Regrouping {
		if !prev.regrouping[ref] {
			add(EventSquadRegrouping, "squad "+ref)
		}
	}

	if prev.agents >= devastationFloor && rep.Agents*2 <= prev.agents {
		add(EventTheaterDevastated, fmt.Sprintf("%d of %d units lost", prev.agents-rep.Agents, prev.agents))
	}
	return events
}

// formatEvents renders events as a "Recent Events" block for the reload log.
func formatEvents(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent Events:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- [tick %d] %s/%s: %s\n", e.Tick, e.Theater, e.Kind, e.Detail)
	}
	return b.String()
}
