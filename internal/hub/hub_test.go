package hub_test

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"buildaq/internal/domain"
	"buildaq/internal/hub"
	"buildaq/internal/relay"
)

type collector struct {
	messages chan []byte
	closed   chan error
}

func newCollector() *collector {
	return &collector{
		messages: make(chan []byte, 8),
		closed:   make(chan error, 1),
	}
}

func (c *collector) OnMessage(payload []byte) {
	c.messages <- append([]byte(nil), payload...)
}

func (c *collector) OnClose(err error) { c.closed <- err }

func startHub(t *testing.T) (*hub.Server, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := hub.NewServer()
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })
	return srv, ln.Addr().String()
}

func dial(t *testing.T, addr, room string, h domain.ConnHandler) domain.Conn {
	t.Helper()
	conn, err := relay.NewTCP().Open(context.Background(), addr, room, h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastsWithinRoomOnly(t *testing.T) {
	_, addr := startHub(t)

	sender := newCollector()
	peer := newCollector()
	other := newCollector()

	a := dial(t, addr, "room1", sender)
	dial(t, addr, "room1", peer)
	dial(t, addr, "room2", other)

	env := domain.Envelope{
		ID: "m1", Sender: "You", At: "2026-01-02T15:04:05Z",
		Salt: "c2FsdA==", IV: "bm9uY2U=", Ciphertext: "Y3Q=",
	}
	// Give the slower joins a moment to register before broadcasting.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, a.Send("room1", env))

	select {
	case raw := <-peer.messages:
		var got domain.Envelope
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, env, got)
	case <-time.After(2 * time.Second):
		t.Fatal("room member never received the envelope")
	}

	select {
	case <-other.messages:
		t.Fatal("envelope leaked into another room")
	case <-sender.messages:
		t.Fatal("envelope echoed back to its sender")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestHub_RequiresJoinFirst(t *testing.T) {
	_, addr := startHub(t)

	c, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer c.Close()

	// A message frame before joining gets the connection dropped.
	f := domain.Frame{Type: domain.FrameMessage, Envelope: json.RawMessage(`{}`)}
	require.NoError(t, json.NewEncoder(c).Encode(f))

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 1)
	_, err = c.Read(buf)
	require.Error(t, err, "server should close the connection")
}

func TestHub_CloseDropsMembers(t *testing.T) {
	srv, addr := startHub(t)

	member := newCollector()
	dial(t, addr, "room1", member)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, srv.Close())

	select {
	case <-member.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("client never observed the close")
	}
}
