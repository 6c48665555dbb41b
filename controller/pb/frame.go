// Package pb holds the messages exchanged between the simulation host and its
// renderers. Messages are plain structs tagged for the protobuf wire format so
// they can be sent as compact binary frames or as JSON.
package pb

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// Frame is the flattened change set of one tick. Rows, Cols and Cells are
// parallel arrays of length Len. Cells hold cell ordinals: 0 head, 1 tail,
// 2 food, 3 empty.
type Frame struct {
	Turn      uint64   `protobuf:"varint,1,opt,name=turn,proto3" json:"turn"`
	Rows      []uint32 `protobuf:"varint,2,rep,packed,name=rows,proto3" json:"rows"`
	Cols      []uint32 `protobuf:"varint,3,rep,packed,name=cols,proto3" json:"cols"`
	Cells     []uint32 `protobuf:"varint,4,rep,packed,name=cells,proto3" json:"cells"`
	Len       uint32   `protobuf:"varint,5,opt,name=len,proto3" json:"len"`
	Score     uint32   `protobuf:"varint,6,opt,name=score,proto3" json:"score"`
	Snapshot  bool     `protobuf:"varint,7,opt,name=snapshot,proto3" json:"snapshot,omitempty"`
	Halted    bool     `protobuf:"varint,8,opt,name=halted,proto3" json:"halted,omitempty"`
	HaltCause string   `protobuf:"bytes,9,opt,name=halt_cause,json=haltCause,proto3" json:"halt_cause,omitempty"`
}

func (m *Frame) Reset()         { *m = Frame{} }
func (m *Frame) String() string { return proto.CompactTextString(m) }
func (*Frame) ProtoMessage()    {}

// MaxCell is the highest cell ordinal a frame may carry (empty).
const MaxCell = 3

// Validate checks the parallel arrays agree with Len and every cell is a
// known ordinal.
func (m *Frame) Validate() error {
	n := int(m.Len)
	if len(m.Rows) != n || len(m.Cols) != n || len(m.Cells) != n {
		return errors.Errorf("pb: frame arrays out of step: len=%d rows=%d cols=%d cells=%d",
			m.Len, len(m.Rows), len(m.Cols), len(m.Cells))
	}
	for i, c := range m.Cells {
		if c > MaxCell {
			return errors.Errorf("pb: unknown cell %d at index %d", c, i)
		}
	}
	return nil
}

// HaltFrame builds the terminal frame sent once a game stops.
func HaltFrame(turn uint64, score uint32, cause string) *Frame {
	return &Frame{
		Turn:      turn,
		Score:     score,
		Halted:    true,
		HaltCause: cause,
	}
}
