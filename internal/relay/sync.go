package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"buildaq/internal/domain"
)

const (
	maxBackoff    = 30 * time.Second
	maxBackoffExp = 5 // caps growth at base * 2^5
)

// backoffDelay computes the reconnect delay for the given attempt count:
// base * 2^min(attempts, 5), never more than 30 seconds.
func backoffDelay(attempts int, base time.Duration) time.Duration {
	exp := attempts
	if exp > maxBackoffExp {
		exp = maxBackoffExp
	}
	d := base << exp
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// Syncer delivers and receives envelopes over an unreliable transport.
//
// All state transitions run under one mutex, so user actions, timer firings
// and transport callbacks apply one at a time. The Syncer exclusively owns
// the live connection and the pending retry timer; both are torn down before
// replacements are made.
type Syncer struct {
	transport domain.Transport
	messages  domain.MessageLog

	onStatus func(Status, string)
	onUpdate func()

	mu              sync.Mutex
	ctx             context.Context
	status          Status
	label           string
	addr, room      string
	shouldReconnect bool
	attempts        int
	retry           *time.Timer
	conn            domain.Conn

	// gen invalidates callbacks from connections that have since been torn
	// down; a stale close event must not revive reconnection.
	gen int

	dropped uint64

	backoffBase time.Duration
}

// NewSyncer returns a disconnected Syncer merging into messages.
func NewSyncer(transport domain.Transport, messages domain.MessageLog) *Syncer {
	return &Syncer{
		transport:   transport,
		messages:    messages,
		status:      StatusDisconnected,
		label:       StatusDisconnected.String(),
		backoffBase: time.Second,
	}
}

// OnStatus registers the status callback. Set before Connect.
func (s *Syncer) OnStatus(fn func(Status, string)) { s.onStatus = fn }

// OnUpdate registers the re-render hook invoked after an inbound envelope
// is merged. Set before Connect.
func (s *Syncer) OnUpdate(fn func()) { s.onUpdate = fn }

// Status returns the current state and its human-readable label.
func (s *Syncer) Status() (Status, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.label
}

// Dropped returns how many inbound payloads were discarded as malformed or
// duplicate. Silent drops are a deliberate robustness boundary; the counter
// keeps them observable.
func (s *Syncer) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Connect targets addr/room and starts dialing. Empty input fails the
// attempt via the status label without touching any existing connection.
func (s *Syncer) Connect(ctx context.Context, addr, room string) {
	s.mu.Lock()
	if addr == "" || room == "" {
		// Invalid configuration fails the attempt via the label; the
		// current state is left exactly as it was.
		s.setStatusLocked(s.status, "Enter relay address and room")
		s.mu.Unlock()
		return
	}
	s.ctx = ctx
	s.addr, s.room = addr, room
	s.shouldReconnect = true
	s.mu.Unlock()
	s.connect()
}

// connect is the shared entry for user-initiated connects and timer retries.
func (s *Syncer) connect() {
	s.mu.Lock()
	if !s.shouldReconnect {
		s.mu.Unlock()
		return
	}
	s.stopTimerLocked()
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.gen++
	gen := s.gen
	ctx, addr, room := s.ctx, s.addr, s.room
	s.setStatusLocked(StatusConnecting, "Connecting")
	s.mu.Unlock()

	go func() {
		conn, err := s.transport.Open(ctx, addr, room, &connEvents{s: s, gen: gen})

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen || !s.shouldReconnect {
			// Disconnected (or re-connected) while the dial was in flight.
			if conn != nil {
				_ = conn.Close()
			}
			return
		}
		if err != nil {
			log.Printf("relay: connect %s failed: %v", addr, err)
			s.scheduleReconnectLocked()
			return
		}
		s.conn = conn
		s.attempts = 0
		s.setStatusLocked(StatusConnected, "Connected")
	}()
}

// scheduleReconnectLocked arms the one-shot retry timer. Attempts only reset
// on a successful connect or an explicit Disconnect, so the delay keeps
// growing across consecutive failures.
func (s *Syncer) scheduleReconnectLocked() {
	if !s.shouldReconnect {
		return
	}
	delay := backoffDelay(s.attempts, s.backoffBase)
	s.attempts++
	s.setStatusLocked(StatusReconnecting, fmt.Sprintf("Reconnecting in %s", delay))
	s.stopTimerLocked()
	s.retry = time.AfterFunc(delay, s.connect)
}

// Disconnect tears everything down and cancels any pending retry. Safe to
// call from any state, any number of times; no automatic connect happens
// afterwards until the next Connect.
func (s *Syncer) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shouldReconnect = false
	s.attempts = 0
	s.stopTimerLocked()
	s.gen++
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	s.setStatusLocked(StatusDisconnected, "Disconnected")
}

// Send forwards a locally created envelope to the room. It is a no-op unless
// currently connected; the envelope lives in the local log either way.
// Transport failures are logged, not retried per message — only the
// connection itself is retried.
func (s *Syncer) Send(env domain.Envelope) {
	s.mu.Lock()
	conn, room, status := s.conn, s.room, s.status
	s.mu.Unlock()
	if status != StatusConnected || conn == nil || room == "" {
		return
	}
	if err := conn.Send(room, env); err != nil {
		log.Printf("relay: send failed: %v", err)
	}
}

func (s *Syncer) setStatusLocked(status Status, label string) {
	s.status, s.label = status, label
	if s.onStatus != nil {
		s.onStatus(status, label)
	}
}

func (s *Syncer) stopTimerLocked() {
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
}

// connEvents adapts transport callbacks for one connection generation.
type connEvents struct {
	s   *Syncer
	gen int
}

var _ domain.ConnHandler = (*connEvents)(nil)

// OnMessage validates and merges one inbound payload. Malformed and
// duplicate payloads are dropped without altering connection state.
func (e *connEvents) OnMessage(payload []byte) {
	s := e.s
	s.mu.Lock()
	stale := e.gen != s.gen
	s.mu.Unlock()
	if stale {
		return
	}

	var env domain.Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		s.drop()
		return
	}
	if !s.messages.ValidateShape(env) {
		s.drop()
		return
	}
	if !s.messages.Append(env) {
		s.drop()
		return
	}
	if s.onUpdate != nil {
		s.onUpdate()
	}
}

// OnClose reacts to an unexpected close by scheduling a reconnect, unless
// the user has disconnected in the meantime.
func (e *connEvents) OnClose(err error) {
	s := e.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.gen != s.gen {
		return
	}
	if err != nil {
		log.Printf("relay: connection closed: %v", err)
	}
	s.conn = nil
	if s.shouldReconnect {
		s.scheduleReconnectLocked()
	} else {
		s.setStatusLocked(StatusDisconnected, "Disconnected")
	}
}

func (s *Syncer) drop() {
	s.mu.Lock()
	s.dropped++
	s.mu.Unlock()
}
