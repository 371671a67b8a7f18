package ipc

// Message types exchanged with the game mod.
const (
	TypeHello     = "hello"
	TypeAck       = "ack"
	TypeGameState = "game_state"
)

type HelloMessage struct {
	Player    string       `json:"player"`
	MapWidth  int          `json:"mapWidth"`
	MapHeight int          `json:"mapHeight"`
	Terrain   *TerrainData `json:"terrain,omitempty"`
}

// TerrainData carries the terrain grid from the mod.
// Optional. Without it every in-bounds cell is treated as plain.
type TerrainData struct {
	Cols  int   `json:"cols"`
	Rows  int   `json:"rows"`
	CellW int   `json:"cellW"`
	CellH int   `json:"cellH"`
	Grid  []int `json:"grid"`
}

// AckMessage closes a tick's command stream.
type AckMessage struct {
	Status   string `json:"status"`
	Tick     int    `json:"tick,omitempty"`
	Commands int    `json:"commands,omitempty"`
}
