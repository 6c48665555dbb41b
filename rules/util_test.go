package rules

import (
	"io/ioutil"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// pointRandom feeds placeFood a queue of points, then falls back to a seeded
// generator.
type pointRandom struct {
	width, height uint32
	points        []Point
	pendingCol    bool
	fallback      *rand.Rand
}

func newPointRandom(width, height uint32, points ...Point) *pointRandom {
	return &pointRandom{
		width:    width,
		height:   height,
		points:   points,
		fallback: rand.New(rand.NewSource(1)),
	}
}

func (r *pointRandom) Float64() float64 {
	if len(r.points) == 0 {
		return r.fallback.Float64()
	}
	p := r.points[0]
	if !r.pendingCol {
		r.pendingCol = true
		return (float64(p.Row) + 0.5) / float64(r.height)
	}
	r.pendingCol = false
	r.points = r.points[1:]
	return (float64(p.Col) + 0.5) / float64(r.width)
}

func quietLogger() *log.Entry {
	l := log.New()
	l.Out = ioutil.Discard
	return log.NewEntry(l)
}

func code(d Direction) *uint32 {
	c := d.Code()
	return &c
}

// newGrownSim builds a 64x64 simulation whose snake has eaten its way right
// along row 5 until it is length segments long, heading right.
func newGrownSim(t *testing.T, length int) *Simulation {
	var feed []Point
	for i := 2; i < length; i++ {
		feed = append(feed, Point{Row: 5, Col: uint32(5 + i)})
	}
	feed = append(feed, Point{Row: 40, Col: 40})

	s, err := New(
		WithHead(Point{Row: 5, Col: 5}),
		WithFood(Point{Row: 5, Col: 6}),
		WithRandom(newPointRandom(DefaultWidth, DefaultHeight, feed...)),
		WithLogger(quietLogger()),
	)
	require.NoError(t, err)
	for i := 1; i < length; i++ {
		d := s.Tick(nil)
		require.NotNil(t, d)
		require.Len(t, d.Changes, 3)
	}
	require.Equal(t, uint32(length), s.Score())
	return s
}

// requireInvariants checks the grid and body agree.
func requireInvariants(t *testing.T, s *Simulation) {
	body := s.Body()
	require.NotEmpty(t, body)

	seen := map[Point]bool{}
	for i, p := range body {
		require.False(t, seen[p], "duplicate body point %s: %s", p, spew.Sdump(body))
		seen[p] = true
		want := CellTail
		if i == 0 {
			want = CellHead
		}
		require.Equal(t, want, s.CellAt(p), "segment %d at %s", i, p)
	}

	require.Equal(t, 1, s.grid.Count(CellHead))
	require.Equal(t, len(body)-1, s.grid.Count(CellTail))
	require.True(t, s.grid.Count(CellFood) <= 1)
	if f, ok := s.Food(); ok {
		require.Equal(t, CellFood, s.CellAt(f))
		require.Equal(t, 1, s.grid.Count(CellFood))
	}
	total := s.grid.Count(CellHead) + s.grid.Count(CellTail) + s.grid.Count(CellFood) + s.grid.Count(CellEmpty)
	require.Equal(t, int(s.Width()*s.Height()), total)
}
