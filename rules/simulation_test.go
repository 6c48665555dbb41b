package rules

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	s, err := New(WithLogger(quietLogger()))
	require.NoError(t, err)
	require.Equal(t, uint32(64), s.Width())
	require.Equal(t, uint32(64), s.Height())
	require.Equal(t, uint32(1), s.Score())
	require.Equal(t, DirectionRight, s.Heading())
	require.Equal(t, Point{Row: 5, Col: 20}, s.Head())
	require.False(t, s.Halted())

	food, ok := s.Food()
	require.True(t, ok)
	require.Equal(t, Point{Row: 5, Col: 21}, food)
	require.Equal(t, CellHead, s.CellAt(Point{Row: 5, Col: 20}))
	require.Equal(t, CellFood, s.CellAt(Point{Row: 5, Col: 21}))
	require.Equal(t, 64*64-2, s.grid.Count(CellEmpty))
	requireInvariants(t, s)
}

func TestNewInvalidLayout(t *testing.T) {
	tests := map[string][]Option{
		"ZeroSize":    {WithSize(0, 10)},
		"HeadOutside": {WithSize(10, 10), WithHead(Point{Row: 10, Col: 0})},
		"FoodOutside": {WithSize(10, 10), WithHead(Point{}), WithFood(Point{Row: 0, Col: 10})},
		"FoodOnHead":  {WithHead(Point{Row: 1, Col: 1}), WithFood(Point{Row: 1, Col: 1})},
		"NotAHeading": {WithHeading(Direction(7))},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := New(opts...)
			require.Error(t, err)
			require.Equal(t, ErrInvalidLayout, errors.Cause(err))
		})
	}
}

func TestSnapshot(t *testing.T) {
	s := newGrownSim(t, 3)
	snap := s.Snapshot()
	require.True(t, snap.Snapshot)
	require.Equal(t, uint32(3), snap.Score)
	require.Len(t, snap.Changes, 4)

	cells := map[Point]Cell{}
	for _, c := range snap.Changes {
		cells[c.Point] = c.Cell
	}
	require.Equal(t, CellHead, cells[Point{Row: 5, Col: 7}])
	require.Equal(t, CellTail, cells[Point{Row: 5, Col: 6}])
	require.Equal(t, CellTail, cells[Point{Row: 5, Col: 5}])
	require.Equal(t, CellFood, cells[Point{Row: 40, Col: 40}])
}

func TestLayoutOptions(t *testing.T) {
	s, err := New(append(LayoutOptions(32, 16), WithLogger(quietLogger()))...)
	require.NoError(t, err)
	require.Equal(t, DefaultHead, s.Head())
	food, ok := s.Food()
	require.True(t, ok)
	require.Equal(t, DefaultFood, food)

	s, err = New(append(LayoutOptions(8, 4), WithLogger(quietLogger()))...)
	require.NoError(t, err)
	require.Equal(t, Point{Row: 2, Col: 2}, s.Head())
	food, ok = s.Food()
	require.True(t, ok)
	require.Equal(t, Point{Row: 2, Col: 4}, food)
	requireInvariants(t, s)
}
