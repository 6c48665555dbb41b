package rules

import "github.com/battlesnakeio/gridsnake/controller/pb"

// Change is a single cell that changed during a tick and its new value.
type Change struct {
	Point Point `json:"point"`
	Cell  Cell  `json:"cell"`
}

// Diff is the self contained set of changes produced by one tick.
type Diff struct {
	Turn     uint64   `json:"turn"`
	Score    uint32   `json:"score"`
	Changes  []Change `json:"changes"`
	Snapshot bool     `json:"snapshot,omitempty"`
}

// Len returns the number of changed cells.
func (d *Diff) Len() int { return len(d.Changes) }

// Frame flattens the diff into the parallel array form sent to renderers.
func (d *Diff) Frame() *pb.Frame {
	n := len(d.Changes)
	f := &pb.Frame{
		Turn:     d.Turn,
		Rows:     make([]uint32, n),
		Cols:     make([]uint32, n),
		Cells:    make([]uint32, n),
		Len:      uint32(n),
		Score:    d.Score,
		Snapshot: d.Snapshot,
	}
	for i, c := range d.Changes {
		f.Rows[i] = c.Point.Row
		f.Cols[i] = c.Point.Col
		f.Cells[i] = uint32(c.Cell)
	}
	return f
}

// DiffFromFrame expands a frame back into change records.
func DiffFromFrame(f *pb.Frame) (*Diff, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	d := &Diff{
		Turn:     f.Turn,
		Score:    f.Score,
		Changes:  make([]Change, f.Len),
		Snapshot: f.Snapshot,
	}
	for i := range d.Changes {
		d.Changes[i] = Change{
			Point: Point{Row: f.Rows[i], Col: f.Cols[i]},
			Cell:  Cell(f.Cells[i]),
		}
	}
	return d, nil
}
