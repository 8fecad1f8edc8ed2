package relay

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"sync"

	"buildaq/internal/domain"
)

// maxFrameBytes bounds a single wire frame; envelopes are short notes, so a
// megabyte is already generous.
const maxFrameBytes = 1 << 20

// TCP dials the relayd daemon and speaks its newline-delimited JSON frame
// protocol: one join frame, then message frames in both directions.
type TCP struct {
	Dialer net.Dialer
}

func NewTCP() *TCP { return &TCP{} }

var _ domain.Transport = (*TCP)(nil)

func (t *TCP) Open(ctx context.Context, addr, room string, h domain.ConnHandler) (domain.Conn, error) {
	c, err := t.Dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	conn := &tcpConn{c: c, enc: json.NewEncoder(c)}
	if err := conn.write(domain.Frame{Type: domain.FrameJoin, Room: room}); err != nil {
		_ = c.Close()
		return nil, err
	}
	go conn.readLoop(h)
	return conn, nil
}

type tcpConn struct {
	mu     sync.Mutex
	c      net.Conn
	enc    *json.Encoder
	closed bool
}

var _ domain.Conn = (*tcpConn)(nil)

func (c *tcpConn) Send(room string, env domain.Envelope) error {
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.write(domain.Frame{Type: domain.FrameMessage, Room: room, Envelope: raw})
}

func (c *tcpConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return c.c.Close()
}

// write serializes frames onto the stream; json.Encoder terminates each
// value with a newline, which is exactly the framing relayd expects.
func (c *tcpConn) write(f domain.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enc.Encode(f)
}

func (c *tcpConn) readLoop(h domain.ConnHandler) {
	sc := bufio.NewScanner(c.c)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
	for sc.Scan() {
		var f domain.Frame
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			continue // not a frame; skip rather than kill the connection
		}
		if f.Type == domain.FrameMessage {
			h.OnMessage(f.Envelope)
		}
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if !closed {
		h.OnClose(sc.Err())
	}
}
