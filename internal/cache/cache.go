// Package cache implements the tag-based page cache that keeps previously
// rendered reads consistent with remote catalog changes.
//
// Every entry is stored under a key together with the logical resource tags
// it depends on. Invalidating a tag advances that tag's generation counter;
// entries stored under an older generation miss on the next Get and are
// refetched. Concurrent fetches for the same key are collapsed through
// singleflight so a burst of identical reads costs one upstream call.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value    any
	tags     []string
	gens     []uint64
	storedAt time.Time
}

// Store is a tag-aware in-memory cache.
type Store struct {
	ttl time.Duration

	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64

	group singleflight.Group
}

// New creates a Store. A non-positive ttl disables time-based expiry;
// entries then live until a tag they depend on is invalidated.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached value for key. It misses when the key is unknown,
// the entry expired, or any tag generation advanced since the entry was set.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && time.Since(e.storedAt) > s.ttl {
		return nil, false
	}
	for i, tag := range e.tags {
		if s.gens[tag] != e.gens[i] {
			return nil, false
		}
	}
	return e.value, true
}

// Set stores value under key, recording the current generation of each tag.
func (s *Store) Set(key string, value any, tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gens := make([]uint64, len(tags))
	for i, tag := range tags {
		gens[i] = s.gens[tag]
	}
	s.entries[key] = entry{
		value:    value,
		tags:     tags,
		gens:     gens,
		storedAt: time.Now(),
	}
}

// Invalidate marks every entry associated with the given tags as stale by
// advancing the tag generations. Entries are not eagerly deleted; they miss
// on the next Get and get overwritten by the refetch.
func (s *Store) Invalidate(tags ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		s.gens[tag]++
	}
}

// Do returns the cached value for key or runs fetch to produce it, storing
// the result under the given tags. Concurrent calls for the same key share a
// single fetch. Fetch errors are returned to every waiter and nothing is
// cached.
func (s *Store) Do(ctx context.Context, key string, tags []string, fetch func(context.Context) (any, error)) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A racing caller may have repopulated the entry while this one
		// waited on the flight lock.
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, v, tags...)
		return v, nil
	})
	return v, err
}
