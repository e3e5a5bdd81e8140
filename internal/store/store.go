package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"loghealth/internal/metrics"
)

// Store is a concurrency-safe in-memory holder for chart artifacts.
//
// Every submission gets its own random ID, so concurrent submissions never
// overwrite each other's chart before it is fetched.
//
// Note:
// TTL testing uses short sleeps instead of injecting a clock,
// keeping the store free of test-only concerns.
type Store struct {
	mu      sync.RWMutex
	data    map[string]Entry
	ttl     time.Duration
	metrics *metrics.Registry
}

// NewStore initializes a store. ttl <= 0 disables expiry.
func NewStore(ttl time.Duration, metricsRegistry *metrics.Registry) *Store {
	return &Store{
		data:    make(map[string]Entry),
		ttl:     ttl,
		metrics: metricsRegistry,
	}
}

// Put stores data under a fresh ID and returns that ID.
func (s *Store) Put(data []byte, contentType string) string {
	now := time.Now()
	entry := Entry{
		Data:        data,
		ContentType: contentType,
		CreatedAt:   now,
	}
	if s.ttl > 0 {
		entry.ExpiresAt = now.Add(s.ttl)
	}

	id := uuid.NewString()
	s.Set(id, entry)
	return id
}

// Set inserts or replaces an entry under id.
func (s *Store) Set(id string, entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[id]; !exists {
		s.metrics.Inc(metrics.ChartsLive)
	}
	s.metrics.Inc(metrics.ChartsStoredTotal)
	s.data[id] = entry
}

// Get retrieves an entry.
//
// Behavior:
// - Returns (entry, true) if the ID exists and is not expired
// - If the entry is expired, it is deleted and treated as missing
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	entry, exists := s.data[id]
	s.mu.RUnlock()

	if !exists {
		s.metrics.Inc(metrics.ChartsMissesTotal)
		return Entry{}, false
	}

	if entry.IsExpired(time.Now()) {
		s.mu.Lock()
		if _, still := s.data[id]; still {
			delete(s.data, id)
			s.metrics.Inc(metrics.ChartsExpiredTotal)
			s.metrics.Add(metrics.ChartsLive, -1)
		}
		s.mu.Unlock()

		s.metrics.Inc(metrics.ChartsMissesTotal)
		return Entry{}, false
	}

	return entry, true
}

// Delete removes an entry and reports whether it was present.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[id]; !ok {
		return false
	}
	delete(s.data, id)
	s.metrics.Add(metrics.ChartsLive, -1)
	return true
}

// List returns a snapshot of all non-expired entries.
func (s *Store) List() map[string]Entry {
	now := time.Now()
	result := make(map[string]Entry)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for k, v := range s.data {
		if !v.IsExpired(now) {
			result[k] = v
		}
	}
	return result
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// RemoveExpired removes all expired entries. Used by the TTL cleaner.
func (s *Store) RemoveExpired() int {
	now := time.Now()
	removed := 0

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range s.data {
		if v.IsExpired(now) {
			delete(s.data, k)
			removed++
		}
	}

	if removed > 0 {
		s.metrics.Add(metrics.ChartsExpiredTotal, int64(removed))
		s.metrics.Add(metrics.ChartsLive, -int64(removed))
	}

	return removed
}
