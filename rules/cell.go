package rules

// Cell is the occupancy of a single grid square. The numeric values are part
// of the frame wire format and must not be reordered.
type Cell uint8

const (
	// CellHead is the front segment of the snake.
	CellHead Cell = iota
	// CellTail is any snake segment that is not the head.
	CellTail
	// CellFood is a square holding food.
	CellFood
	// CellEmpty is an unoccupied square.
	CellEmpty
)

var cellNames = [...]string{
	CellHead:  "head",
	CellTail:  "tail",
	CellFood:  "food",
	CellEmpty: "empty",
}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return "unknown"
}

// Occupied reports whether the cell belongs to the snake.
func (c Cell) Occupied() bool {
	return c == CellHead || c == CellTail
}
