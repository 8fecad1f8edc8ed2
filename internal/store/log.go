package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"buildaq/internal/domain"
)

// Log is the append-only, id-deduplicated conversation. Insertion order is
// arrival order: local sends and remote receipts interleave as they happen.
//
// Every successful mutation rewrites the full snapshot in the messages slot.
// Persistence failures are logged and the in-memory log stays authoritative
// for the rest of the session.
type Log struct {
	mu       sync.Mutex
	store    *Store
	messages []domain.Envelope
}

var _ domain.MessageLog = (*Log)(nil)

// NewLog hydrates the conversation from the last persisted snapshot.
// A missing or corrupt snapshot starts the log empty; corruption is
// reported, not fatal.
func NewLog(s *Store) *Log {
	l := &Log{store: s}
	raw, err := s.readSlot(messagesKey)
	if errors.Is(err, errNoSlot) {
		return l
	}
	if err != nil {
		log.Printf("store: unable to load saved conversation: %v", err)
		return l
	}
	if err := json.Unmarshal(raw, &l.messages); err != nil {
		log.Printf("store: saved conversation is corrupt, starting empty: %v", err)
		l.messages = nil
	}
	return l
}

// ValidateShape reports whether an untrusted candidate carries every field
// an envelope needs. It is the gate between the relay and Append.
func (l *Log) ValidateShape(env domain.Envelope) bool {
	return env.ID != "" &&
		env.Sender != "" &&
		env.At != "" &&
		env.Salt != "" &&
		env.IV != "" &&
		env.Ciphertext != ""
}

// Append inserts the envelope unless its id is already present, making
// redelivery from the relay harmless. It reports whether the envelope was
// inserted.
func (l *Log) Append(env domain.Envelope) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.ID == env.ID {
			return false
		}
	}
	l.messages = append(l.messages, env)
	l.persistLocked()
	return true
}

// All returns a snapshot copy of the conversation in insertion order.
func (l *Log) All() []domain.Envelope {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Envelope, len(l.messages))
	copy(out, l.messages)
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// Clear wipes the conversation and persists the empty snapshot. Irreversible.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
	l.persistLocked()
}

// Replace swaps in a full conversation, as the import path does.
func (l *Log) Replace(messages []domain.Envelope) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append([]domain.Envelope(nil), messages...)
	l.persistLocked()
}

func (l *Log) persistLocked() {
	raw, err := json.Marshal(l.messages)
	if err != nil {
		log.Printf("store: unable to encode conversation: %v", err)
		return
	}
	if err := l.store.writeSlot(messagesKey, raw); err != nil {
		log.Printf("store: unable to persist conversation: %v", err)
	}
}

// marshal serves the export path, which needs the snapshot bytes rather
// than a copy of the slice.
func (l *Log) marshal() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.messages == nil {
		return []byte("[]"), nil
	}
	raw, err := json.Marshal(l.messages)
	if err != nil {
		return nil, fmt.Errorf("encode conversation: %w", err)
	}
	return raw, nil
}
