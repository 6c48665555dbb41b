package rules

import "fmt"

// Grid is a fixed width x height board stored row major.
type Grid struct {
	width  uint32
	height uint32
	cells  []Cell
	counts [len(cellNames)]int
}

// NewGrid creates an empty grid. Dimensions are fixed for its lifetime.
func NewGrid(width, height uint32) *Grid {
	g := &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, int(width)*int(height)),
	}
	for i := range g.cells {
		g.cells[i] = CellEmpty
	}
	g.counts[CellEmpty] = len(g.cells)
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() uint32 { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() uint32 { return g.height }

// Contains reports whether p lies on the grid.
func (g *Grid) Contains(p Point) bool {
	return p.Row < g.height && p.Col < g.width
}

// Index maps p to its offset in the cell array. Points are always derived
// from validated moves, so an out of range point means the state machine is
// broken and Index panics instead of aliasing another cell.
func (g *Grid) Index(p Point) int {
	if !g.Contains(p) {
		panic(fmt.Sprintf("rules: point %s outside %dx%d grid", p, g.width, g.height))
	}
	return int(p.Row)*int(g.width) + int(p.Col)
}

// At returns the cell at p.
func (g *Grid) At(p Point) Cell {
	return g.cells[g.Index(p)]
}

// Set writes the cell at p.
func (g *Grid) Set(p Point, c Cell) {
	i := g.Index(p)
	g.counts[g.cells[i]]--
	g.counts[c]++
	g.cells[i] = c
}

// Count returns how many cells currently hold c.
func (g *Grid) Count(c Cell) int {
	if int(c) >= len(g.counts) {
		return 0
	}
	return g.counts[c]
}

// CanMove reports whether a step from p in dir stays on the grid. It must be
// checked before Step because the coordinates are unsigned.
func (g *Grid) CanMove(p Point, dir Direction) bool {
	return CanStep(p, dir, g.width, g.height)
}

// CanStep is CanMove for a width x height grid.
func CanStep(p Point, dir Direction, width, height uint32) bool {
	switch dir {
	case DirectionUp:
		return p.Row > 0
	case DirectionDown:
		return p.Row+1 < height
	case DirectionLeft:
		return p.Col > 0
	case DirectionRight:
		return p.Col+1 < width
	}
	return false
}

// Step returns the neighbour of p in dir. Callers check CanMove first.
func Step(p Point, dir Direction) Point {
	switch dir {
	case DirectionUp:
		p.Row--
	case DirectionDown:
		p.Row++
	case DirectionLeft:
		p.Col--
	case DirectionRight:
		p.Col++
	}
	return p
}

// pointAt is the inverse of Index.
func (g *Grid) pointAt(i int) Point {
	return Point{Row: uint32(i) / g.width, Col: uint32(i) % g.width}
}
