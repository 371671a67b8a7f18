package model

// TerrainType classifies a grid zone.
type TerrainType byte

const (
	Plain TerrainType = 0 // passable ground
	Swamp TerrainType = 1 // passable, slow
	Wall  TerrainType = 2 // impassable
)

// TerrainGrid stores one TerrainType per zone. Each zone covers CellW x CellH
// map cells; a full-resolution grid uses CellW = CellH = 1.
type TerrainGrid struct {
	Cols  int           // grid columns
	Rows  int           // grid rows
	CellW int           // map cells per grid column
	CellH int           // map cells per grid row
	Grid  []TerrainType // row-major: Grid[row*Cols + col]
}

// At returns the terrain type at grid coordinates (col, row).
// Returns Plain for out-of-bounds coordinates.
func (g *TerrainGrid) At(col, row int) TerrainType {
	if col < 0 || col >= g.Cols || row < 0 || row >= g.Rows {
		return Plain
	}
	return g.Grid[row*g.Cols+col]
}

// AtMapPos converts map coordinates to grid coordinates and returns the
// terrain type. Returns Plain for out-of-bounds or zero-sized cells.
func (g *TerrainGrid) AtMapPos(mapX, mapY int) TerrainType {
	if g.CellW <= 0 || g.CellH <= 0 {
		return Plain
	}
	return g.At(mapX/g.CellW, mapY/g.CellH)
}

// Walkable reports whether a map cell is not a wall. A nil grid is all plain.
func (g *TerrainGrid) Walkable(p Position) bool {
	if g == nil {
		return true
	}
	return g.AtMapPos(p.X, p.Y) != Wall
}
