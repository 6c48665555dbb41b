package rules

import (
	log "github.com/sirupsen/logrus"
)

// Tick advances the simulation one step. input is an optional direction code
// (0 up, 1 down, 2 left, 3 right); nil or an unknown code keeps the current
// heading. The returned diff lists every cell that changed. A move into an
// empty cell reports the new head, the old head as tail and the vacated last
// segment as empty, or only the new head and the vacated cell for a single
// segment snake. Eating reports the new head, the old head as tail and the
// new food when one could be placed. Tick returns nil when the head cannot
// move, either off the grid or into the snake itself, including the cell the
// last segment is about to leave; the simulation is then halted and every
// later call also returns nil.
func (s *Simulation) Tick(input *uint32) *Diff {
	if s.Halted() {
		return nil
	}

	// The heading is kept even when the move below fails.
	s.heading = resolveHeading(s.heading, input, s.body.Len())

	head := s.body.Front()
	if !s.grid.CanMove(head, s.heading) {
		s.halt(HaltCauseWallCollision, head)
		return nil
	}
	next := Step(head, s.heading)

	switch s.grid.At(next) {
	case CellFood:
		return s.grow(head, next)
	case CellEmpty:
		return s.move(head, next)
	default:
		s.halt(HaltCauseSelfCollision, next)
		return nil
	}
}

// move advances the head into an empty cell and drops the last segment.
func (s *Simulation) move(head, next Point) *Diff {
	s.turn++
	changes := make([]Change, 0, 3)

	tail := s.body.PopBack()
	s.grid.Set(tail, CellEmpty)

	changes = append(changes, Change{Point: next, Cell: CellHead})
	if s.body.Len() > 0 {
		s.grid.Set(head, CellTail)
		changes = append(changes, Change{Point: head, Cell: CellTail})
	}
	changes = append(changes, Change{Point: tail, Cell: CellEmpty})

	s.body.PushFront(next)
	s.grid.Set(next, CellHead)

	s.log.WithFields(log.Fields{
		"Turn":    s.turn,
		"Head":    next,
		"Heading": s.heading,
	}).Debug("move")

	return &Diff{Turn: s.turn, Score: s.Score(), Changes: changes}
}

// grow advances the head onto the food, keeps the tail and places new food.
func (s *Simulation) grow(head, next Point) *Diff {
	s.turn++
	changes := make([]Change, 0, 3)

	s.grid.Set(head, CellTail)
	s.body.PushFront(next)
	s.grid.Set(next, CellHead)
	s.hasFood = false
	changes = append(changes,
		Change{Point: next, Cell: CellHead},
		Change{Point: head, Cell: CellTail},
	)

	if p, ok := placeFood(s.grid, s.rnd); ok {
		s.grid.Set(p, CellFood)
		s.food = p
		s.hasFood = true
		changes = append(changes, Change{Point: p, Cell: CellFood})
	}

	s.log.WithFields(log.Fields{
		"Turn":  s.turn,
		"Head":  next,
		"Score": s.Score(),
		"Food":  s.food,
	}).Debug("snake ate")

	return &Diff{Turn: s.turn, Score: s.Score(), Changes: changes}
}

func (s *Simulation) halt(cause string, at Point) {
	s.haltCause = cause
	s.log.WithFields(log.Fields{
		"Turn":    s.turn,
		"Score":   s.Score(),
		"At":      at,
		"Heading": s.heading,
		"Cause":   cause,
	}).Info("game halted")
}
