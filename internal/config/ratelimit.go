package config

import "time"

// RateLimitConfig tunes the Redis token-bucket limiter. The limiter is
// mounted globally; its main job is keeping the unauthenticated booking
// surface from being hammered, so the defaults are generous enough for
// normal staff usage.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size (burst)
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // how often tokens are added
	TTL            time.Duration // idle bucket expiry in Redis
	KeyStrategy    string        // which request parts form the bucket key
	Prefix         string        // Redis key namespace
	Debug          bool
}

// LoadRateLimitConfig builds the limiter settings from the environment.
// Every knob is optional; the zero-config default is 60 requests burst,
// refilled one per second, keyed by ip+user+route.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        optBool("RATE_LIMIT_ENABLED", true),
		Capacity:       optInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   optInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: optDuration("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            optDuration("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    optStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         optStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          optBool("RATE_LIMIT_DEBUG", false),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// Buckets must outlive several refill cycles or idle clients lose
	// their accumulated tokens.
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}
