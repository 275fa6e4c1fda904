package domain

import "math"

// Footprint dimensions shared by every node
const (
	NodeWidth  = 60.0
	NodeHeight = 40.0
)

// Position is the top-left canvas anchor of a node
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position
func NewPosition(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Overlap reports whether the footprints anchored at a and b share interior area.
// Edge-touching footprints do not overlap.
func Overlap(a, b Position) bool {
	return a.X < b.X+NodeWidth && a.X+NodeWidth > b.X &&
		a.Y < b.Y+NodeHeight && a.Y+NodeHeight > b.Y
}

// Contains reports whether pt falls inside the footprint anchored at p, bounds included
func (p Position) Contains(pt Position) bool {
	return pt.X >= p.X && pt.X <= p.X+NodeWidth &&
		pt.Y >= p.Y && pt.Y <= p.Y+NodeHeight
}

// Finite reports whether both coordinates are real numbers
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
