package sipper

import (
	"sync"
	"time"
)

// Store holds the latest known value for every telemetry key. Keys keep the
// order they were introduced in and are never removed. The scheduler writes
// the raw parameter keys and the estimator writes the computed keys; both
// run on the engine goroutine, so each key has a single writer. Everything
// else reads through Get or Snapshot.
type Store struct {
	mu     sync.Mutex
	order  []string
	values map[string]string
}

func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Seed introduces a key with a placeholder value. Seeding an existing key
// does nothing, so a restart-time re-seed never clobbers live data.
func (s *Store) Seed(key, placeholder string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		return
	}
	s.order = append(s.order, key)
	s.values[key] = placeholder
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}

func (s *Store) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Snapshot is a point-in-time copy of the store. It never changes after it
// is taken, so readers can hold on to it without locking.
type Snapshot struct {
	Time time.Time
	Keys []string

	values map[string]string
}

func (snap Snapshot) Get(key string) string {
	return snap.values[key]
}

// Snapshot copies the whole store under the lock. A snapshot can never mix
// values from before and after an in-progress cycle write.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Time:   timeNow(),
		Keys:   make([]string, len(s.order)),
		values: make(map[string]string, len(s.values)),
	}
	copy(snap.Keys, s.order)
	for k, v := range s.values {
		snap.values[k] = v
	}
	return snap
}
