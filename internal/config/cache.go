package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the Redis response cache. The cache is mounted only
// on slow-changing public reads (restaurant info); availability answers
// and conflict checks are never cached because they must reflect the
// reservations table at call time.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // HTTP methods eligible for caching
	TTL          time.Duration
	KeyStrategy  string // which request parts form the cache key
	Prefix       string // Redis key namespace
	MaxBodyBytes int    // responses above this size are not stored
}

// LoadCacheConfig builds the cache settings from the environment; every
// variable is optional.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      optBool("CACHE_ENABLED", true),
		Methods:      parseMethods(optStr("CACHE_METHODS", "GET")),
		TTL:          optDuration("CACHE_TTL", 30*time.Second),
		KeyStrategy:  optStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       optStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: optInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
