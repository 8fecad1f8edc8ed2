package hub

import (
	"bufio"
	"encoding/json"
	"errors"
	"log"
	"net"
	"sync"

	"buildaq/internal/domain"
)

const maxFrameBytes = 1 << 20

// Server accepts relay clients and broadcasts their message frames to the
// rest of their room.
type Server struct {
	mu     sync.Mutex
	ln     net.Listener
	rooms  map[string]map[*member]struct{}
	closed bool
}

type member struct {
	mu  sync.Mutex
	c   net.Conn
	enc *json.Encoder
}

func (m *member) send(f domain.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enc.Encode(f)
}

func NewServer() *Server {
	return &Server{rooms: make(map[string]map[*member]struct{})}
}

// ListenAndServe listens on addr and serves until Close.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the accept loop on ln. It returns after Close.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	log.Printf("hub: listening on %s", ln.Addr())

	for {
		c, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}
		go s.handle(c)
	}
}

// Addr returns the bound listener address, for tests that listen on :0.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Close stops accepting and drops every live member.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	ln := s.ln
	var conns []net.Conn
	for _, members := range s.rooms {
		for m := range members {
			conns = append(conns, m.c)
		}
	}
	s.rooms = make(map[string]map[*member]struct{})
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	if ln != nil {
		return ln.Close()
	}
	return nil
}

// handle speaks the frame protocol with one client: a join frame first, then
// message frames that get fanned out to the rest of the room.
func (s *Server) handle(c net.Conn) {
	defer c.Close()

	sc := bufio.NewScanner(c)
	sc.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)

	room, err := readJoin(sc)
	if err != nil {
		log.Printf("hub: %s rejected: %v", c.RemoteAddr(), err)
		return
	}

	m := &member{c: c, enc: json.NewEncoder(c)}
	s.join(room, m)
	log.Printf("hub: %s joined room %q", c.RemoteAddr(), room)
	defer func() {
		s.leave(room, m)
		log.Printf("hub: %s left room %q", c.RemoteAddr(), room)
	}()

	for sc.Scan() {
		var f domain.Frame
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			continue // garbage frame from a buggy or hostile client
		}
		if f.Type != domain.FrameMessage || len(f.Envelope) == 0 {
			continue
		}
		// Routing uses the joined room, never the frame's claim.
		f.Room = room
		s.broadcast(room, m, f)
	}
}

func readJoin(sc *bufio.Scanner) (string, error) {
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", errors.New("connection closed before join")
	}
	var f domain.Frame
	if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
		return "", err
	}
	if f.Type != domain.FrameJoin || f.Room == "" {
		return "", errors.New("first frame must join a room")
	}
	return f.Room, nil
}

func (s *Server) join(room string, m *member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rooms[room] == nil {
		s.rooms[room] = make(map[*member]struct{})
	}
	s.rooms[room][m] = struct{}{}
}

func (s *Server) leave(room string, m *member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms[room], m)
	if len(s.rooms[room]) == 0 {
		delete(s.rooms, room)
	}
}

func (s *Server) broadcast(room string, from *member, f domain.Frame) {
	s.mu.Lock()
	peers := make([]*member, 0, len(s.rooms[room]))
	for m := range s.rooms[room] {
		if m != from {
			peers = append(peers, m)
		}
	}
	s.mu.Unlock()

	for _, m := range peers {
		if err := m.send(f); err != nil {
			log.Printf("hub: forward to %s failed: %v", m.c.RemoteAddr(), err)
		}
	}
}
