package rules

import (
	"math/rand"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Default layout of a new simulation.
const (
	DefaultWidth  = 64
	DefaultHeight = 64
)

var (
	// DefaultHead is where the snake starts.
	DefaultHead = Point{Row: 5, Col: 20}
	// DefaultFood is where the first food is placed.
	DefaultFood = Point{Row: 5, Col: 21}

	// ErrInvalidLayout is returned when the initial layout cannot be built.
	ErrInvalidLayout = errors.New("rules: invalid initial layout")
)

// Simulation is the snake state machine. It owns the grid and the body and
// only mutates them inside Tick. A Simulation is not safe for concurrent use.
type Simulation struct {
	grid      *Grid
	body      *Body
	heading   Direction
	food      Point
	hasFood   bool
	rnd       RandomSource
	turn      uint64
	haltCause string
	log       *log.Entry
}

type settings struct {
	width   uint32
	height  uint32
	head    Point
	food    Point
	heading Direction
	rnd     RandomSource
	entry   *log.Entry
}

// Option customizes a new simulation.
type Option func(*settings)

// WithSize sets the grid dimensions.
func WithSize(width, height uint32) Option {
	return func(s *settings) { s.width, s.height = width, height }
}

// WithHead sets the starting head position.
func WithHead(p Point) Option {
	return func(s *settings) { s.head = p }
}

// WithFood sets the first food position.
func WithFood(p Point) Option {
	return func(s *settings) { s.food = p }
}

// WithHeading sets the starting heading.
func WithHeading(d Direction) Option {
	return func(s *settings) { s.heading = d }
}

// WithRandom sets the source used to place food.
func WithRandom(r RandomSource) Option {
	return func(s *settings) { s.rnd = r }
}

// WithLogger sets the log entry used by the simulation, usually one carrying
// the game id.
func WithLogger(entry *log.Entry) Option {
	return func(s *settings) { s.entry = entry }
}

// New creates a simulation with one head segment, one food and every other
// cell empty. Without options the grid is 64x64 with the head at (5, 20), the
// food at (5, 21) and the snake heading right.
func New(opts ...Option) (*Simulation, error) {
	st := &settings{
		width:   DefaultWidth,
		height:  DefaultHeight,
		head:    DefaultHead,
		food:    DefaultFood,
		heading: DirectionRight,
	}
	for _, o := range opts {
		o(st)
	}
	if st.width == 0 || st.height == 0 {
		return nil, errors.Wrapf(ErrInvalidLayout, "grid %dx%d", st.width, st.height)
	}

	grid := NewGrid(st.width, st.height)
	if !grid.Contains(st.head) {
		return nil, errors.Wrapf(ErrInvalidLayout, "head %s outside grid", st.head)
	}
	if !grid.Contains(st.food) || st.food.Equal(st.head) {
		return nil, errors.Wrapf(ErrInvalidLayout, "food %s", st.food)
	}
	if int(st.heading) >= len(directionNames) {
		return nil, errors.Wrapf(ErrInvalidLayout, "heading %d", st.heading)
	}
	if st.rnd == nil {
		st.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if st.entry == nil {
		st.entry = log.NewEntry(log.StandardLogger())
	}

	grid.Set(st.head, CellHead)
	grid.Set(st.food, CellFood)

	capacity := 16
	if n := int(st.width) * int(st.height); n < capacity {
		capacity = n
	}

	return &Simulation{
		grid:    grid,
		body:    newBody(capacity, st.head),
		heading: st.heading,
		food:    st.food,
		hasFood: true,
		rnd:     st.rnd,
		log:     st.entry,
	}, nil
}

// Width returns the number of grid columns.
func (s *Simulation) Width() uint32 { return s.grid.Width() }

// Height returns the number of grid rows.
func (s *Simulation) Height() uint32 { return s.grid.Height() }

// Score is the current snake length.
func (s *Simulation) Score() uint32 { return uint32(s.body.Len()) }

// Turn is the number of successful moves so far.
func (s *Simulation) Turn() uint64 { return s.turn }

// Heading is the persisted direction of travel.
func (s *Simulation) Heading() Direction { return s.heading }

// Head returns the head position.
func (s *Simulation) Head() Point { return s.body.Front() }

// Body returns a copy of the snake segments, head first.
func (s *Simulation) Body() []Point { return s.body.Points() }

// Food returns the food position, if any food is on the grid.
func (s *Simulation) Food() (Point, bool) { return s.food, s.hasFood }

// CellAt returns the cell at p. It panics when p is outside the grid.
func (s *Simulation) CellAt(p Point) Cell { return s.grid.At(p) }

// Halted reports whether the game is over.
func (s *Simulation) Halted() bool { return s.haltCause != "" }

// HaltCause returns why the game stopped, or "" while it is running.
func (s *Simulation) HaltCause() string { return s.haltCause }

// Snapshot lists every non empty cell. Renderers paint it once before
// applying per tick diffs.
func (s *Simulation) Snapshot() *Diff {
	d := &Diff{
		Turn:     s.turn,
		Score:    s.Score(),
		Snapshot: true,
	}
	for i, c := range s.grid.cells {
		if c != CellEmpty {
			d.Changes = append(d.Changes, Change{Point: s.grid.pointAt(i), Cell: c})
		}
	}
	return d
}
