package controller

import (
	"github.com/battlesnakeio/gridsnake/controller/pb"
	"github.com/battlesnakeio/gridsnake/rules"
)

// board replays frames onto a cell array so a full snapshot can be served to
// renderers that join a game late.
type board struct {
	width  uint32
	height uint32
	cells  []uint8
	turn   uint64
	score  uint32
}

func newBoard(width, height uint32) *board {
	b := &board{
		width:  width,
		height: height,
		cells:  make([]uint8, int(width)*int(height)),
	}
	for i := range b.cells {
		b.cells[i] = uint8(rules.CellEmpty)
	}
	return b
}

// apply writes the frame's changes. Changes outside the board are ignored.
func (b *board) apply(f *pb.Frame) {
	if f.Snapshot {
		for i := range b.cells {
			b.cells[i] = uint8(rules.CellEmpty)
		}
	}
	for i := 0; i < int(f.Len); i++ {
		row, col := f.Rows[i], f.Cols[i]
		if row >= b.height || col >= b.width {
			continue
		}
		b.cells[int(row)*int(b.width)+int(col)] = uint8(f.Cells[i])
	}
	if !f.Halted {
		b.turn = f.Turn
	}
	b.score = f.Score
}

// snapshot lists every non empty cell.
func (b *board) snapshot() *pb.Frame {
	f := &pb.Frame{
		Turn:     b.turn,
		Score:    b.score,
		Snapshot: true,
	}
	for i, c := range b.cells {
		if c == uint8(rules.CellEmpty) {
			continue
		}
		f.Rows = append(f.Rows, uint32(i)/b.width)
		f.Cols = append(f.Cols, uint32(i)%b.width)
		f.Cells = append(f.Cells, uint32(c))
		f.Len++
	}
	return f
}
