// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/outfit-planner/internal/logger"
)

type cacheKey struct {
	KeyHash  string
	Location string
	Days     int
	End      string
}

type cacheEntry struct {
	History *History
	Expiry  time.Time
}

// CachedProvider memoizes successful lookups of another Provider for a fixed TTL.
// Failed lookups are never cached.
type CachedProvider struct {
	provider Provider
	ttl      time.Duration
	log      *logger.Logger

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedProvider(provider Provider, ttl time.Duration, log *logger.Logger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		ttl:      ttl,
		log:      log,
		cache:    make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedProvider) Name() string {
	return c.provider.Name()
}

func (c *CachedProvider) RequiresKey() bool {
	return c.provider.RequiresKey()
}

func (c *CachedProvider) History(ctx context.Context, query Query) (*History, error) {
	key := newCacheKey(query, time.Now())

	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.Expiry) {
		c.log.Debug("weather history served from cache", slog.String("location", query.Location),
			slog.Duration("expires_in", time.Until(entry.Expiry).Round(time.Second)))
		hist := *entry.History
		hist.CacheHit = true
		return &hist, nil
	}

	hist, err := c.provider.History(ctx, query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{History: hist, Expiry: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return hist, nil
}

// Purge drops all expired entries and returns how many were removed.
func (c *CachedProvider) Purge() int {
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
func (c *CachedProvider) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// newCacheKey only keeps a hash of the API key, so the credential is not held in
// memory for the lifetime of the entry.
func newCacheKey(query Query, now time.Time) cacheKey {
	sum := sha256.Sum256([]byte(query.APIKey))
	_, end := query.Window(now)
	return cacheKey{
		KeyHash:  hex.EncodeToString(sum[:]),
		Location: strings.ToLower(strings.TrimSpace(query.Location)),
		Days:     query.Days,
		End:      end.Format(DateFormat),
	}
}
