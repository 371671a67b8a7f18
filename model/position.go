package model

// Position is a map cell.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Range is the Chebyshev distance between two cells, i.e. the number of
// 8-directional moves separating them.
func (p Position) Range(o Position) int {
	return max(abs(p.X-o.X), abs(p.Y-o.Y))
}

// InRange reports whether o is within r cells of p.
func (p Position) InRange(o Position, r int) bool {
	return p.Range(o) <= r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

func (r Rect) Contains(p Position) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Clamp moves p to the nearest cell inside r.
func (r Rect) Clamp(p Position) Position {
	return Position{
		X: min(max(p.X, r.X0), r.X1),
		Y: min(max(p.Y, r.Y0), r.Y1),
	}
}

// Bounds returns the full-map rectangle for a width x height map.
func Bounds(width, height int) Rect {
	return Rect{X0: 0, Y0: 0, X1: width - 1, Y1: height - 1}
}

// EdgeDistance is the number of cells between p and the nearest map edge.
func EdgeDistance(p Position, width, height int) int {
	return min(p.X, p.Y, width-1-p.X, height-1-p.Y)
}

// OnBoundary reports whether p sits on the outermost ring of the map.
func OnBoundary(p Position, width, height int) bool {
	return p.X <= 0 || p.Y <= 0 || p.X >= width-1 || p.Y >= height-1
}
