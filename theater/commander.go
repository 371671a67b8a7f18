package theater

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/nstehr/vimy/vimy-tactics/combat"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/rules"
)

// Commander splits each game state by theater and runs the theaters
// concurrently. Theaters are created on first sight and dropped once they
// have no units left.
type Commander struct {
	engine *rules.Engine

	mu       sync.RWMutex
	doctrine rules.Doctrine
	terrain  *model.TerrainGrid

	theaters map[string]*Theater // touched only by Tick
}

func NewCommander(engine *rules.Engine, d rules.Doctrine) *Commander {
	d.Validate()
	return &Commander{
		engine:   engine,
		doctrine: d,
		theaters: make(map[string]*Theater),
	}
}

// SetDoctrine replaces the doctrine used from the next tick on.
func (c *Commander) SetDoctrine(d rules.Doctrine) {
	d.Validate()
	c.mu.Lock()
	c.doctrine = d
	c.mu.Unlock()
}

func (c *Commander) Doctrine() rules.Doctrine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.doctrine
}

// SetTerrain stores the terrain grid received during the hello handshake.
func (c *Commander) SetTerrain(grid *model.TerrainGrid) {
	c.mu.Lock()
	c.terrain = grid
	c.mu.Unlock()
	if grid != nil {
		slog.Info("terrain grid set", "cols", grid.Cols, "rows", grid.Rows, "cellW", grid.CellW, "cellH", grid.CellH)
	}
}

// Result is one tick's output across all theaters.
type Result struct {
	Intents []combat.Intent
	Reports []Report // in theater-name order
}

// Tick runs one pass per theater. Intents are merged in theater-name order,
// so the output does not depend on scheduling.
func (c *Commander) Tick(ctx context.Context, gs model.GameState) (Result, error) {
	c.mu.RLock()
	d, terrain := c.doctrine, c.terrain
	c.mu.RUnlock()

	byTheater := make(map[string][]model.Unit)
	for _, u := range gs.Units {
		name := combat.TheaterOf(u)
		byTheater[name] = append(byTheater[name], u)
	}
	for name := range c.theaters {
		if _, ok := byTheater[name]; !ok {
			byTheater[name] = nil // one last pass dissolves its squads
		}
	}

	names := make([]string, 0, len(byTheater))
	for name := range byTheater {
		names = append(names, name)
		th, ok := c.theaters[name]
		if !ok {
			th = New(name, c.engine, d.Caps())
			c.theaters[name] = th
			slog.Info("theater opened", "theater", name, "tick", gs.Tick)
		}
		th.Squads().SetCaps(d.Caps())
	}
	slices.Sort(names)

	sinks := make([]*combat.Recorder, len(names))
	reports := make([]Report, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		th := c.theaters[name]
		units := byTheater[name]
		sinks[i] = &combat.Recorder{}
		g.Go(func() error {
			rep, err := th.Pass(gctx, gs, units, terrain, d, sinks[i])
			reports[i] = rep
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, name := range names {
		res.Intents = append(res.Intents, sinks[i].Intents...)
		res.Reports = append(res.Reports, reports[i])
		if len(byTheater[name]) == 0 {
			delete(c.theaters, name)
			slog.Info("theater closed", "theater", name, "tick", gs.Tick)
		}
	}
	return res, nil
}

// Theater returns a live theater by name.
func (c *Commander) Theater(name string) (*Theater, bool) {
	th, ok := c.theaters[name]
	return th, ok
}
