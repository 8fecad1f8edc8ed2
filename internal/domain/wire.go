package domain

import "encoding/json"

// Frame types exchanged between a relay client and the room daemon. Frames
// are newline-delimited JSON objects on a plain TCP stream.
const (
	FrameJoin    = "join"
	FrameMessage = "message"
)

// Frame is one wire unit. Join frames carry only the room; message frames
// carry the envelope as raw JSON so the receiving side can validate it
// before trusting its shape.
type Frame struct {
	Type     string          `json:"type"`
	Room     string          `json:"room,omitempty"`
	Envelope json.RawMessage `json:"envelope,omitempty"`
}
