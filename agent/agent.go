package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nstehr/vimy/vimy-tactics/ipc"
	"github.com/nstehr/vimy/vimy-tactics/model"
	"github.com/nstehr/vimy/vimy-tactics/theater"
)

// Agent owns the tactical session for a single player connection.
type Agent struct {
	Conn      *ipc.Connection
	Player    string
	Commander *theater.Commander
	Reloader  *Reloader // optional

	prev map[string]*theaterSnapshot // last report per theater
}

func New(conn *ipc.Connection, commander *theater.Commander, reloader *Reloader) *Agent {
	return &Agent{
		Conn:      conn,
		Commander: commander,
		Reloader:  reloader,
		prev:      make(map[string]*theaterSnapshot),
	}
}

// HandleHello completes the handshake so the mod knows the bridge is ready.
func (a *Agent) HandleHello(_ context.Context, env ipc.Envelope) ([]ipc.Envelope, error) {
	hello, err := ipc.Decode[ipc.HelloMessage](env)
	if err != nil {
		return nil, err
	}

	a.Player = hello.Player
	if a.Conn != nil {
		a.Conn.Player = hello.Player
	}
	a.Commander.SetTerrain(terrainGrid(hello.Terrain))
	slog.Info("player identified", "player", a.Player, "map", fmt.Sprintf("%dx%d", hello.MapWidth, hello.MapHeight))

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok"})
	if err != nil {
		return nil, err
	}
	return []ipc.Envelope{ack}, nil
}

// HandleGameState runs one coordinator tick and answers with the tick's
// commands followed by an ack carrying the command count.
func (a *Agent) HandleGameState(ctx context.Context, env ipc.Envelope) ([]ipc.Envelope, error) {
	gs, err := ipc.Decode[model.GameState](env)
	if err != nil {
		return nil, err
	}

	slog.Debug("game state received",
		"player", gs.Player,
		"tick", gs.Tick,
		"units", len(gs.Units),
		"hostiles", len(gs.Hostiles),
		"hostileStructures", len(gs.HostileStructures),
	)

	res, err := a.Commander.Tick(ctx, gs)
	if err != nil {
		return nil, fmt.Errorf("tick %d: %w", gs.Tick, err)
	}
	a.observe(res.Reports)
	if a.Reloader != nil {
		a.Reloader.UpdateTick(gs.Tick)
	}

	out := make([]ipc.Envelope, 0, len(res.Intents)+1)
	for _, in := range res.Intents {
		cmd, err := ipc.CommandEnvelope(in)
		if err != nil {
			slog.Error("dropping intent", "actor", in.ActorID, "kind", in.Kind, "error", err)
			continue
		}
		out = append(out, cmd)
	}

	ack, err := ipc.NewEnvelope(ipc.TypeAck, ipc.AckMessage{Status: "ok", Tick: gs.Tick, Commands: len(out)})
	if err != nil {
		return nil, err
	}
	return append(out, ack), nil
}

// observe diffs each theater report against the previous one and logs the
// resulting events.
func (a *Agent) observe(reports []theater.Report) {
	for _, rep := range reports {
		events := detectEvents(rep, a.prev[rep.Theater])
		for _, e := range events {
			slog.Info("tactical event", "kind", e.Kind, "theater", e.Theater, "tick", e.Tick, "detail", e.Detail)
		}
		if a.Reloader != nil {
			a.Reloader.RecordEvents(events)
		}
		if rep.Agents == 0 {
			delete(a.prev, rep.Theater)
			continue
		}
		snap := takeSnapshot(rep)
		a.prev[rep.Theater] = &snap
	}
}

// terrainGrid converts the wire grid. Unknown codes are treated as plain.
func terrainGrid(td *ipc.TerrainData) *model.TerrainGrid {
	if td == nil || td.Cols <= 0 || td.Rows <= 0 || len(td.Grid) != td.Cols*td.Rows {
		return nil
	}
	grid := make([]model.TerrainType, len(td.Grid))
	for i, v := range td.Grid {
		switch v {
		case int(model.Swamp), int(model.Wall):
			grid[i] = model.TerrainType(v)
		}
	}
	return &model.TerrainGrid{Cols: td.Cols, Rows: td.Rows, CellW: td.CellW, CellH: td.CellH, Grid: grid}
}
