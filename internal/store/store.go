package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"buildaq/internal/domain"
)

const (
	bucketName = "buildaq"

	messagesKey = "messages"
	relayKey    = "relay"
)

// errNoSlot reports a slot that has never been written.
var errNoSlot = errors.New("slot not found")

// Store wraps the durable key-value slots. A nil *Store is valid and keeps
// everything in memory, which is how the app degrades when the database
// cannot be opened.
type Store struct {
	db *bolt.DB
}

// Open creates or opens the database at path and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) readSlot(key string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, errNoSlot
	}
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return errNoSlot
		}
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (s *Store) writeSlot(key string, value []byte) error {
	if s == nil || s.db == nil {
		return errors.New("no database")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
}

// LoadRelayConfig returns the persisted connection target, or a zero value
// when none has been saved yet.
func (s *Store) LoadRelayConfig() (domain.RelayConfig, error) {
	raw, err := s.readSlot(relayKey)
	if errors.Is(err, errNoSlot) {
		return domain.RelayConfig{}, nil
	}
	if err != nil {
		return domain.RelayConfig{}, err
	}
	var cfg domain.RelayConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return domain.RelayConfig{}, fmt.Errorf("decode relay config: %w", err)
	}
	return cfg, nil
}

// SaveRelayConfig replaces the persisted connection target.
func (s *Store) SaveRelayConfig(cfg domain.RelayConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.writeSlot(relayKey, raw)
}
