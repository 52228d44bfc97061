package candidate

import (
	"strings"
	"sync"
)

// Store holds at most one entry per endpoint for the lifetime of a run.
// The first entry inserted for an endpoint wins; later duplicates are dropped.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Insert adds entry unless an entry with the same endpoint is already
// present. It reports whether the entry was added. Entries without an
// endpoint cannot be probed and are ignored.
func (s *Store) Insert(entry Entry) bool {
	key := strings.TrimSpace(entry.Endpoint)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[key]; exists {
		return false
	}

	entry.Endpoint = key
	entry.Seq = len(s.entries)
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, entry)
	return true
}

// Lookup returns the entry stored for endpoint.
func (s *Store) Lookup(endpoint string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[strings.TrimSpace(endpoint)]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// All returns a copy of the deduplicated entries in insertion order.
func (s *Store) All() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of distinct endpoints held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
