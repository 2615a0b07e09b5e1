// Package config provides typed application configuration loaded from a
// YAML file with GRAPHCHAT_* environment variable overrides.
package config

import "sync"

var (
	mu      sync.RWMutex
	current *Config
)

// Init loads the configuration and stores it as the process-wide config.
// Safe to call multiple times; each call reloads from disk and environment.
func Init() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	mu.Lock()
	current = cfg
	mu.Unlock()
	return nil
}

// Get returns the process-wide configuration. Returns defaults if Init has
// not been called.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil {
		cfg := NewDefaultConfig()
		return &cfg
	}
	return current
}

// Set replaces the process-wide configuration. Intended for tests.
func Set(cfg *Config) {
	mu.Lock()
	current = cfg
	mu.Unlock()
}

// Reset clears the process-wide configuration so the next Get returns
// defaults. Intended for tests.
func Reset() {
	mu.Lock()
	current = nil
	mu.Unlock()
}
