package rules

// View is the read only side of a Simulation, handed to input sources that
// decide the next direction.
type View interface {
	Width() uint32
	Height() uint32
	Head() Point
	Heading() Direction
	Score() uint32
	Food() (Point, bool)
	CellAt(Point) Cell
}

var _ View = (*Simulation)(nil)

// LayoutOptions returns the starting layout for a width x height grid. The
// default head and food positions are used when they fit, otherwise the snake
// starts a quarter of the way across the middle row with food at the centre.
// Grids narrower than 4 columns must be laid out explicitly.
func LayoutOptions(width, height uint32) []Option {
	if DefaultHead.Row < height && DefaultFood.Row < height &&
		DefaultHead.Col < width && DefaultFood.Col < width {
		return []Option{WithSize(width, height)}
	}
	row := height / 2
	return []Option{
		WithSize(width, height),
		WithHead(Point{Row: row, Col: width / 4}),
		WithFood(Point{Row: row, Col: width / 2}),
	}
}
