package agent

import (
	"strings"
	"testing"

	"github.com/nstehr/vimy/vimy-tactics/theater"
)

func baseReport(tick int) theater.Report {
	return theater.Report{
		Theater:   "north",
		Tick:      tick,
		Agents:    6,
		Hostiles:  0,
		Decisions: map[int]string{1: "hold", 2: "hold", 3: "hold", 4: "hold", 5: "hold", 6: "hold"},
		PairsOf:   map[int]int{1: 2, 2: 1},
	}
}

func hasKind(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func TestDetectEvents_NilPrev(t *testing.T) {
	if events := detectEvents(baseReport(10), nil); events != nil {
		t.Errorf("expected nil events for nil prev, got %+v", events)
	}
}

func TestDetectEvents_NoEvents(t *testing.T) {
	prev := takeSnapshot(baseReport(10))
	if events := detectEvents(baseReport(11), &prev); len(events) != 0 {
		t.Errorf("expected 0 events, got %+v", events)
	}
}

func TestDetectEvents(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*theater.Report)
		want   EventKind
	}{
		{"first contact", func(r *theater.Report) { r.Hostiles = 3 }, EventFirstContact},
		{"partner lost", func(r *theater.Report) {
			delete(r.Decisions, 2)
			delete(r.PairsOf, 1)
			delete(r.PairsOf, 2)
		}, EventPartnerLost},
		{"squad formed", func(r *theater.Report) { r.Formed = []string{"sq-abcdef12"} }, EventSquadFormed},
		{"squad dissolved", func(r *theater.Report) { r.Dissolved = []string{"sq-abcdef12"} }, EventSquadDissolved},
		{"squad regrouping", func(r *theater.Report) { r.Regrouping = []string{"sq-abcdef12"} }, EventSquadRegrouping},
		{"devastated", func(r *theater.Report) { r.Agents = 3 }, EventTheaterDevastated},
		{"closed", func(r *theater.Report) { r.Agents = 0 }, EventTheaterClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := takeSnapshot(baseReport(10))
			rep := baseReport(11)
			tt.mutate(&rep)
			events := detectEvents(rep, &prev)
			if !hasKind(events, tt.want) {
				t.Errorf("expected %s, got %+v", tt.want, events)
			}
		})
	}
}

func TestDetectEvents_PartnerLostNamesSurvivor(t *testing.T) {
	prev := takeSnapshot(baseReport(10))
	rep := baseReport(11)
	delete(rep.Decisions, 2)
	rep.PairsOf = map[int]int{}

	events := detectEvents(rep, &prev)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %+v", events)
	}
	if events[0].Detail != "agent 1 lost partner 2" {
		t.Errorf("detail = %q", events[0].Detail)
	}
}

func TestDetectEvents_RegroupingOnlyOnce(t *testing.T) {
	first := baseReport(10)
	first.Regrouping = []string{"sq-1"}
	prev := takeSnapshot(first)

	rep := baseReport(11)
	rep.Regrouping = []string{"sq-1"}
	if hasKind(detectEvents(rep, &prev), EventSquadRegrouping) {
		t.Error("a squad already regrouping should not be reported again")
	}
}

func TestDetectEvents_SmallForceNotDevastated(t *testing.T) {
	small := baseReport(10)
	small.Agents = 2
	prev := takeSnapshot(small)

	rep := baseReport(11)
	rep.Agents = 1
	if hasKind(detectEvents(rep, &prev), EventTheaterDevastated) {
		t.Error("losses below the floor are routine")
	}
}

func TestFormatEvents_Empty(t *testing.T) {
	if got := formatEvents(nil); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestFormatEvents_MultipleEvents(t *testing.T) {
	got := formatEvents([]Event{
		{Kind: EventFirstContact, Tick: 10, Theater: "north", Detail: "3 hostiles in sight"},
		{Kind: EventSquadFormed, Tick: 12, Theater: "south", Detail: "squad sq-1"},
	})
	for _, want := range []string{
		"Recent Events:",
		"- [tick 10] north/first_contact: 3 hostiles in sight",
		"- [tick 12] south/squad_formed: squad sq-1",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}
