// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"strings"
	"sync"
	"time"
)

type cacheKey struct {
	Provider string
	Address  string
}

type cacheEntry struct {
	Coordinate Coordinate
	Expiry     time.Time
}

type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

// Search returns the coordinates for address, answering from the cache while the
// entry is fresh. Addresses that differ only in case or surrounding whitespace share
// one entry.
func (c *CachedGeocoder) Search(ctx context.Context, address string) (Coordinate, error) {
	key := newKey(c.coder.Name(), address)

	c.mu.RLock()
	entry, ok := c.cache[key]
	if ok && time.Now().Before(entry.Expiry) {
		coords := entry.Coordinate
		c.mu.RUnlock()
		coords.CacheHit = true
		return coords, nil
	}
	c.mu.RUnlock()

	coords, err := c.coder.Search(ctx, address)
	if err != nil {
		return coords, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if !coords.Found {
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Coordinate: coords,
		Expiry:     time.Now().Add(ttl),
	}

	return coords, nil
}

// Purge drops all expired entries and returns how many were removed.
func (c *CachedGeocoder) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0
	for key, entry := range c.cache {
		if now.After(entry.Expiry) {
			delete(c.cache, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached entries, expired or not.
func (c *CachedGeocoder) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func newKey(provider, address string) cacheKey {
	return cacheKey{
		Provider: provider,
		Address:  strings.ToLower(strings.TrimSpace(address)),
	}
}
