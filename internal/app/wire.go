package app

import (
	"log"
	"path/filepath"

	"buildaq/internal/relay"
	"buildaq/internal/session"
	"buildaq/internal/store"
)

const dbFile = "chat.db"

// Wire bundles the store, lock, and relay sync for the CLI.
type Wire struct {
	Store    *store.Store
	Messages *store.Log
	Lock     *session.Lock
	Sync     *relay.Syncer
}

// NewWire constructs the dependency graph from cfg.
//
// A database that cannot be opened is a warning, not an error: the
// conversation then lives in memory for the session only.
func NewWire(cfg Config) *Wire {
	st, err := store.Open(filepath.Join(cfg.Home, dbFile))
	if err != nil {
		log.Printf("app: running without persistence: %v", err)
		st = nil
	}

	transport := cfg.Transport
	if transport == nil {
		transport = relay.NewTCP()
	}

	messages := store.NewLog(st)
	return &Wire{
		Store:    st,
		Messages: messages,
		Lock:     session.NewLock(),
		Sync:     relay.NewSyncer(transport, messages),
	}
}

// Close releases the database handle.
func (w *Wire) Close() {
	if w.Store != nil {
		_ = w.Store.Close()
	}
}
