package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/status-im/asset-loader/backoff"
	"github.com/status-im/asset-loader/cache"
	"github.com/status-im/asset-loader/fetch"
)

// LoaderConfig configures the dispatch loop
type LoaderConfig struct {
	// MaxParallelJobs bounds the number of simultaneously outstanding
	// network operations
	MaxParallelJobs int `yaml:"max_parallel_jobs"`

	// TickInterval is the dispatch loop's tick period
	TickInterval time.Duration `yaml:"tick_interval"`
}

// DefaultLoaderConfig returns the default loader configuration
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		MaxParallelJobs: 10,
		TickInterval:    20 * time.Millisecond,
	}
}

// Config is the application configuration
type Config struct {
	// BasePath is prepended to relative resource URIs
	BasePath string `yaml:"base_path"`

	// Mirrors are alternate base URLs tried in order when the primary
	// address answers with a client-class failure
	Mirrors []string `yaml:"mirrors"`

	Loader LoaderConfig   `yaml:"loader"`
	Retry  backoff.Policy `yaml:"retry"`
	Fetch  fetch.Options  `yaml:"fetch"`
	Cache  cache.Config   `yaml:"cache"`
}

// DefaultConfig returns a configuration with every section defaulted
func DefaultConfig() *Config {
	return &Config{
		Loader: DefaultLoaderConfig(),
		Retry:  backoff.DefaultPolicy(),
		Fetch:  fetch.DefaultOptions(),
		Cache:  cache.DefaultConfig(),
	}
}

// LoadConfig reads the yaml configuration at path, filling missing
// sections with defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Loader.MaxParallelJobs <= 0 {
		c.Loader.MaxParallelJobs = DefaultLoaderConfig().MaxParallelJobs
	}
	if c.Loader.TickInterval <= 0 {
		c.Loader.TickInterval = DefaultLoaderConfig().TickInterval
	}
	if c.Retry.MinDelay <= 0 || c.Retry.MaxDelay <= c.Retry.MinDelay {
		c.Retry = backoff.DefaultPolicy()
	}
	if c.Fetch.RequestTimeout <= 0 {
		c.Fetch.RequestTimeout = fetch.DefaultOptions().RequestTimeout
	}
	if c.Fetch.ConnectionTimeout <= 0 {
		c.Fetch.ConnectionTimeout = fetch.DefaultOptions().ConnectionTimeout
	}
}
