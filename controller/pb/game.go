package pb

import "github.com/gogo/protobuf/proto"

// Game describes a hosted game session. The simulation itself lives with the
// worker running it; the game record carries what is needed to rebuild it and
// the latest progress.
type Game struct {
	ID        string `protobuf:"bytes,1,opt,name=id,proto3" json:"id"`
	Status    string `protobuf:"bytes,2,opt,name=status,proto3" json:"status"`
	Width     uint32 `protobuf:"varint,3,opt,name=width,proto3" json:"width"`
	Height    uint32 `protobuf:"varint,4,opt,name=height,proto3" json:"height"`
	Seed      int64  `protobuf:"varint,5,opt,name=seed,proto3" json:"seed"`
	Turn      uint64 `protobuf:"varint,6,opt,name=turn,proto3" json:"turn"`
	Score     uint32 `protobuf:"varint,7,opt,name=score,proto3" json:"score"`
	HaltCause string `protobuf:"bytes,8,opt,name=halt_cause,json=haltCause,proto3" json:"halt_cause,omitempty"`
	// TickMS overrides the configured tick interval when non zero.
	TickMS uint32 `protobuf:"varint,9,opt,name=tick_ms,json=tickMs,proto3" json:"tick_ms,omitempty"`
}

func (m *Game) Reset()         { *m = Game{} }
func (m *Game) String() string { return proto.CompactTextString(m) }
func (*Game) ProtoMessage()    {}

// CreateRequest is the body accepted when creating a game.
type CreateRequest struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Seed   int64  `json:"seed"`
	TickMS uint32 `json:"tick_ms"`
}

// StatusResponse reports a game and its most recent frame.
type StatusResponse struct {
	Game      *Game  `json:"game"`
	LastFrame *Frame `json:"last_frame,omitempty"`
}

// ListGameFramesResponse is a page of frames.
type ListGameFramesResponse struct {
	Frames []*Frame `json:"frames"`
	Count  int      `json:"count"`
}
