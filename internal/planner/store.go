// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package planner

import (
	"sync"
	"time"
)

type storeEntry struct {
	result *Result
	expiry time.Time
}

// Store keeps run results for a limited time, so they can be exported after the
// result page was rendered.
type Store struct {
	ttl time.Duration

	mu      sync.RWMutex
	results map[string]storeEntry
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		results: make(map[string]storeEntry),
	}
}

func (s *Store) Add(result *Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = storeEntry{result: result, expiry: time.Now().Add(s.ttl)}
}

// Get returns the result for id unless it is unknown or expired.
func (s *Store) Get(id string) (*Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.results[id]
	if !ok || time.Now().After(entry.expiry) {
		return nil, false
	}
	return entry.result, true
}

// Purge drops all expired results and returns how many were removed.
func (s *Store) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, entry := range s.results {
		if now.After(entry.expiry) {
			delete(s.results, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
