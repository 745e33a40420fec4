// ============================================================================
// vera - front end for the vera language
// ============================================================================
//
// Package:     cache
// Description: Source-keyed cache for parse and token results
// Author:      Mike Stoffels
// Created:     2026-10-02
// License:     MIT
// ============================================================================

// Package cache provides an in-memory TTL cache and a source-keyed layer for
// engine results.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/msto63/vera/foundation/vera"
	"github.com/msto63/vera/foundation/vera/token"
)

// SourceCache caches engine results keyed by a hash of the source text.
// Only successful results are stored; errors are cheap to reproduce.
type SourceCache struct {
	cache *Cache
}

// NewSourceCache creates a source cache. A non-positive TTL or size falls
// back to DefaultConfig.
func NewSourceCache(ttl time.Duration, maxItems int) *SourceCache {
	return &SourceCache{cache: New(Config{MaxItems: maxItems, TTL: ttl})}
}

// SourceKey returns the cache key for source under the given namespace
func SourceKey(namespace, source string) string {
	hash := sha256.Sum256([]byte(source))
	return namespace + ":" + hex.EncodeToString(hash[:])
}

// GetParse returns a cached parse result
func (c *SourceCache) GetParse(source string) (*vera.Result, bool) {
	if val, ok := c.cache.Get(SourceKey("parse", source)); ok {
		if res, ok := val.(*vera.Result); ok {
			return res, true
		}
	}
	return nil, false
}

// SetParse caches a parse result
func (c *SourceCache) SetParse(source string, res *vera.Result) {
	if res == nil {
		return
	}
	c.cache.Set(SourceKey("parse", source), res)
}

// GetTokens returns a cached token stream
func (c *SourceCache) GetTokens(source string) ([]token.Token, bool) {
	if val, ok := c.cache.Get(SourceKey("tokens", source)); ok {
		if toks, ok := val.([]token.Token); ok {
			return toks, true
		}
	}
	return nil, false
}

// SetTokens caches a token stream
func (c *SourceCache) SetTokens(source string, toks []token.Token) {
	c.cache.Set(SourceKey("tokens", source), toks)
}

// Stats returns cache statistics
func (c *SourceCache) Stats() map[string]interface{} {
	hits, misses, rate := c.cache.Stats()
	return map[string]interface{}{
		"size":     c.cache.Size(),
		"hits":     hits,
		"misses":   misses,
		"hit_rate": rate,
	}
}

// Clear drops all cached results
func (c *SourceCache) Clear() {
	c.cache.Clear()
}

// Close stops background cleanup
func (c *SourceCache) Close() {
	c.cache.Close()
}
