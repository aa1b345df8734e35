// Package cache is the process-wide key/value store behind every read of the
// exchange graph. Entries expire lazily: expiry is checked when a key is read,
// there is no background sweep.
//
// A Store is created once at startup and handed to the components that need
// it; it holds no global state and is released with the process.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dalfonso89/node-currency-converter/internal/metrics"
)

// Entry is a single cached value and the instant it stops being served.
type Entry struct {
	Key       string
	Value     any
	ExpiresAt time.Time
}

func (e Entry) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is safe for concurrent use. Reads and writes of one key are atomic
// with respect to each other; there is no ordering across keys.
type Store struct {
	mutex   sync.RWMutex
	entries map[string]Entry

	singleFlightGroup singleflight.Group

	now     func() time.Time
	metrics *metrics.Metrics
}

type Option func(*Store)

// WithClock replaces time.Now, letting tests move time forward.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func New(opts ...Option) *Store {
	store := &Store{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Set stores value under key until ttl elapses, replacing any previous entry.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries[key] = Entry{Key: key, Value: value, ExpiresAt: s.now().Add(ttl)}
}

// Lookup returns the live value for key. An expired entry is removed and
// reported as absent.
func (s *Store) Lookup(key string) (any, bool) {
	s.mutex.RLock()
	entry, found := s.entries[key]
	s.mutex.RUnlock()

	if !found {
		return nil, false
	}

	now := s.now()
	if !entry.expired(now) {
		return entry.Value, true
	}

	s.mutex.Lock()
	// Another writer may have refreshed the key since the read lock was released.
	if current, ok := s.entries[key]; ok && current.expired(now) {
		delete(s.entries, key)
	}
	s.mutex.Unlock()
	return nil, false
}

func (s *Store) Delete(key string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.entries, key)
}

// Len counts stored entries, including expired ones not yet read.
func (s *Store) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.entries)
}

// Get returns the cached value under key, or defaultValue when the key is
// missing, expired, or holds a value of another type.
func Get[T any](s *Store, key string, defaultValue T) T {
	value, found := s.Lookup(key)
	if !found {
		return defaultValue
	}
	typed, ok := value.(T)
	if !ok {
		return defaultValue
	}
	return typed
}

// GetOrCompute returns the cached list under key when it is live and
// non-empty. Otherwise it calls compute and caches a non-empty result for
// ttl. Empty results and errors are never cached, so the next call fetches
// again. Concurrent misses on one key share a single compute call, which
// runs detached from any one caller's cancellation; each caller stops
// waiting when its own ctx ends.
func GetOrCompute[T any](ctx context.Context, s *Store, key string, ttl time.Duration, compute func(context.Context) ([]T, error)) ([]T, error) {
	if cached := Get[[]T](s, key, nil); len(cached) > 0 {
		s.metrics.CacheHit(key)
		return cached, nil
	}
	s.metrics.CacheMiss(key)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	computeContext := context.WithoutCancel(ctx)
	resultChannel := s.singleFlightGroup.DoChan(key, func() (interface{}, error) {
		// A concurrent caller may have filled the key while this one waited.
		if cached := Get[[]T](s, key, nil); len(cached) > 0 {
			return cached, nil
		}

		values, err := compute(computeContext)
		if err != nil {
			return nil, err
		}
		if len(values) > 0 {
			s.Set(key, values, ttl)
		}
		return values, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChannel:
		if result.Err != nil {
			return nil, result.Err
		}
		values, _ := result.Val.([]T)
		return values, nil
	}
}
