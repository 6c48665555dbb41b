package rules

import "fmt"

// Point is a (row, column) grid coordinate. Row 0 is the top edge and column
// 0 the left edge.
type Point struct {
	Row uint32 `json:"row"`
	Col uint32 `json:"col"`
}

// Equal checks if 2 points are the same row,col coordinate
func (p Point) Equal(other Point) bool {
	return p.Row == other.Row && p.Col == other.Col
}

func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Distance returns the manhattan distance between two points.
func (p Point) Distance(other Point) uint32 {
	return absDiff(p.Row, other.Row) + absDiff(p.Col, other.Col)
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
