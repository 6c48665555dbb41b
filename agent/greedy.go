// Package agent provides computer controlled input for simulations.
package agent

import (
	"github.com/battlesnakeio/gridsnake/rules"
)

// Greedy steers toward the food along the shortest manhattan path. It never
// reverses, never leaves the grid and never enters the body while any other
// move exists, and it prefers cells with more open neighbours so it does not
// trap itself in a dead end when a better square is equally close.
type Greedy struct{}

type candidate struct {
	dir      rules.Direction
	distance uint32
	exits    int
}

// Next returns the direction code for the next tick, or nil to keep the
// current heading when every move is fatal.
func (Greedy) Next(v rules.View) *uint32 {
	head := v.Head()
	food, hasFood := v.Food()

	var best *candidate
	for _, d := range rules.Directions {
		if v.Score() > 1 && d == v.Heading().Reverse() {
			continue
		}
		if !rules.CanStep(head, d, v.Width(), v.Height()) {
			continue
		}
		next := rules.Step(head, d)
		if v.CellAt(next).Occupied() {
			continue
		}
		c := &candidate{dir: d, exits: openNeighbours(v, next, head)}
		if hasFood {
			c.distance = next.Distance(food)
		}
		if best == nil || better(c, best, v.Heading()) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	code := best.dir.Code()
	return &code
}

func better(c, best *candidate, heading rules.Direction) bool {
	// A cell with no way out is only taken as a last resort.
	if (c.exits == 0) != (best.exits == 0) {
		return best.exits == 0
	}
	if c.distance != best.distance {
		return c.distance < best.distance
	}
	if c.exits != best.exits {
		return c.exits > best.exits
	}
	return c.dir == heading
}

// openNeighbours counts the free cells around p, ignoring from since the
// head will have moved off it.
func openNeighbours(v rules.View, p, from rules.Point) int {
	n := 0
	for _, d := range rules.Directions {
		if !rules.CanStep(p, d, v.Width(), v.Height()) {
			continue
		}
		q := rules.Step(p, d)
		if q.Equal(from) {
			continue
		}
		if !v.CellAt(q).Occupied() {
			n++
		}
	}
	return n
}
