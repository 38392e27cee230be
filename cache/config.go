package cache

import "time"

// Config represents cache store configuration
type Config struct {
	// CleanupInterval is how often go-cache sweeps for expired entries.
	// Ready assets never expire on their own, so the sweep only matters
	// when a TTL is configured.
	CleanupInterval time.Duration `yaml:"cleanup_interval"`

	// TTL is an optional expiration for cached assets; 0 keeps entries
	// until they are explicitly unloaded
	TTL time.Duration `yaml:"ttl"`
}

// DefaultConfig returns the default cache store configuration
func DefaultConfig() Config {
	return Config{
		CleanupInterval: 10 * time.Minute,
		TTL:             0,
	}
}
