package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bucket names.
const (
	bucketSessions = "sessions"
	bucketActions  = "actions"
)

// Store persists session snapshots and their merged action streams in a
// bbolt database. Actions are kept in per-session nested buckets under
// monotonically increasing sequence keys, so iteration preserves append
// order.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex
}

// Open creates or opens the recording database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open recording db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{bucketSessions, bucketActions} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// AppendAction durably appends one merged action to a session's stream.
func (s *Store) AppendAction(sessionID string, action map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		parent := tx.Bucket([]byte(bucketActions))
		b, err := parent.CreateBucketIfNotExists([]byte(sessionID))
		if err != nil {
			return fmt.Errorf("create session bucket: %w", err)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		data, err := json.Marshal(action)
		if err != nil {
			return fmt.Errorf("marshal action: %w", err)
		}
		return b.Put(key, data)
	})
}

// Actions returns a session's action stream in append order.
func (s *Store) Actions(sessionID string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []map[string]any
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketActions)).Bucket([]byte(sessionID))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var action map[string]any
			if err := json.Unmarshal(v, &action); err != nil {
				return fmt.Errorf("unmarshal action %x: %w", k, err)
			}
			result = append(result, action)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SaveSession stores or replaces a session snapshot.
func (s *Store) SaveSession(sessionID string, snapshot map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(snapshot)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		return tx.Bucket([]byte(bucketSessions)).Put([]byte(sessionID), data)
	})
}

// Session loads one session snapshot.
func (s *Store) Session(sessionID string) (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot map[string]any
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketSessions)).Get([]byte(sessionID))
		if data == nil {
			return fmt.Errorf("session not found: %s", sessionID)
		}
		return json.Unmarshal(data, &snapshot)
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Sessions returns every stored session snapshot, keyed insertion order.
func (s *Store) Sessions() ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []map[string]any
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketSessions)).ForEach(func(k, v []byte) error {
			var snapshot map[string]any
			if err := json.Unmarshal(v, &snapshot); err != nil {
				return fmt.Errorf("unmarshal session %s: %w", string(k), err)
			}
			result = append(result, snapshot)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
