package pb

import (
	"encoding/json"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// Encoding selects how frames are serialized on the wire.
type Encoding string

const (
	// EncodingJSON sends frames as JSON text.
	EncodingJSON Encoding = "json"
	// EncodingProto sends frames as binary protobuf.
	EncodingProto Encoding = "proto"
)

// ParseEncoding maps a query value onto an Encoding, defaulting to JSON.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case "", EncodingJSON:
		return EncodingJSON, nil
	case EncodingProto:
		return EncodingProto, nil
	}
	return "", errors.Errorf("pb: unknown encoding %q", s)
}

// EncodeFrame serializes a frame.
func EncodeFrame(f *Frame, enc Encoding) ([]byte, error) {
	if enc == EncodingProto {
		data, err := proto.Marshal(f)
		return data, errors.Wrap(err, "pb: marshal frame")
	}
	data, err := json.Marshal(f)
	return data, errors.Wrap(err, "pb: marshal frame json")
}

// DecodeFrame parses a frame and validates its arrays.
func DecodeFrame(data []byte, enc Encoding) (*Frame, error) {
	f := &Frame{}
	var err error
	if enc == EncodingProto {
		err = proto.Unmarshal(data, f)
	} else {
		err = json.Unmarshal(data, f)
	}
	if err != nil {
		return nil, errors.Wrap(err, "pb: unmarshal frame")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// CloneFrame deep copies a frame.
func CloneFrame(f *Frame) *Frame {
	return proto.Clone(f).(*Frame)
}

// CloneGame deep copies a game.
func CloneGame(g *Game) *Game {
	return proto.Clone(g).(*Game)
}
