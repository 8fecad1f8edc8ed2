package domain

import "context"

// MessageLog is the dedup/merge surface the relay sync writes into.
type MessageLog interface {
	// ValidateShape reports whether an untrusted candidate carries every
	// required field. Candidates that fail are dropped, never stored.
	ValidateShape(env Envelope) bool
	// Append inserts the envelope unless its id is already present.
	// It reports whether the envelope was inserted.
	Append(env Envelope) bool
}

// ConnHandler receives transport events for one live connection.
type ConnHandler interface {
	// OnMessage delivers one raw inbound payload. The bytes are untrusted.
	OnMessage(payload []byte)
	// OnClose fires once when the connection dies for any reason other
	// than a local Close call.
	OnClose(err error)
}

// Conn is a live connection to a relay room.
type Conn interface {
	Send(room string, env Envelope) error
	Close() error
}

// Transport dials relay connections. The sync layer owns reconnect policy
// regardless of anything the transport does internally.
type Transport interface {
	Open(ctx context.Context, addr, room string, h ConnHandler) (Conn, error)
}
