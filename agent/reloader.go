package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nstehr/vimy/vimy-tactics/config"
	"github.com/nstehr/vimy/vimy-tactics/rules"
	"github.com/nstehr/vimy/vimy-tactics/theater"
)

// maxEvents bounds the events kept for the next reload summary.
const maxEvents = 32

// Reloader runs in the background, re-reading the doctrine file when it
// changes and swapping the rule engine's rule set. A file that fails to load
// or compile leaves the running doctrine in place.
type Reloader struct {
	mu        sync.Mutex
	path      string
	engine    *rules.Engine
	commander *theater.Commander
	interval  int       // check every N ticks
	lastTick  int       // tick of last check
	lastMod   time.Time // mtime of the file currently applied
	events    []Event
	ready     chan struct{}
}

// NewReloader creates a reloader for path. An empty path disables reloading.
func NewReloader(path string, engine *rules.Engine, commander *theater.Commander, interval int) *Reloader {
	if interval <= 0 {
		interval = 500
	}
	r := &Reloader{
		path:      path,
		engine:    engine,
		commander: commander,
		interval:  interval,
		ready:     make(chan struct{}, 1),
	}
	if path != "" {
		if mod, err := config.ModTime(path); err == nil {
			r.lastMod = mod
		}
	}
	return r
}

// UpdateTick records the latest tick and signals a check on interval
// boundaries.
func (r *Reloader) UpdateTick(tick int) {
	if r.path == "" {
		return
	}
	r.mu.Lock()
	due := tick-r.lastTick >= r.interval
	if due {
		r.lastTick = tick
	}
	r.mu.Unlock()

	if due {
		select {
		case r.ready <- struct{}{}:
		default:
		}
	}
}

// RecordEvents keeps the most recent events for the next reload summary.
func (r *Reloader) RecordEvents(events []Event) {
	if len(events) == 0 {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, events...)
	if over := len(r.events) - maxEvents; over > 0 {
		r.events = r.events[over:]
	}
	r.mu.Unlock()
}

// Start blocks until ctx is cancelled.
func (r *Reloader) Start(ctx context.Context) {
	if r.path == "" {
		return
	}
	slog.Info("doctrine reloader started", "path", r.path, "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("doctrine reloader stopped")
			return
		case <-r.ready:
			r.check()
		}
	}
}

// check reloads the doctrine if the file changed since it was last applied.
// It reports whether a new doctrine was swapped in.
func (r *Reloader) check() bool {
	mod, err := config.ModTime(r.path)
	if err != nil {
		slog.Error("doctrine stat failed", "path", r.path, "error", err)
		return false
	}
	r.mu.Lock()
	unchanged := mod.Equal(r.lastMod)
	r.mu.Unlock()
	if unchanged {
		return false
	}

	d, err := config.LoadDoctrine(r.path)
	if err != nil {
		slog.Error("doctrine reload failed", "error", err)
		r.markApplied(mod)
		return false
	}
	if err := r.engine.Swap(rules.CompileDoctrine(d)); err != nil {
		slog.Error("doctrine rule swap failed", "name", d.Name, "error", err)
		r.markApplied(mod)
		return false
	}
	r.commander.SetDoctrine(d)

	r.mu.Lock()
	r.lastMod = mod
	events := r.events
	r.events = nil
	r.mu.Unlock()

	slog.Info("doctrine reloaded",
		"name", d.Name,
		"rationale", d.Rationale,
		"pairRoles", d.PairRoles,
		"squadCaps", d.SquadCaps,
		"retreatFloor", d.RetreatFloor,
		"regroupRatio", d.RegroupRatio,
		"pincerRadius", d.PincerRadius,
	)
	if summary := formatEvents(events); summary != "" {
		slog.Info("events since last doctrine", "summary", summary)
	}
	return true
}

// markApplied remembers a broken file's mtime so it is not retried until it
// is edited again.
func (r *Reloader) markApplied(mod time.Time) {
	r.mu.Lock()
	r.lastMod = mod
	r.mu.Unlock()
}
