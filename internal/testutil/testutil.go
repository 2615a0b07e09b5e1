// Package testutil provides testing utilities for isolated test environments.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chiheye/LLMGraphChat/internal/config"
)

// TestEnv provides an isolated test environment with its own config directory.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
}

// NewTestEnv creates an isolated test environment. It uses environment
// variables to override all paths, ensuring complete isolation even when
// tests run in parallel across packages. Cleanup is automatic via t.Cleanup.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	configDir := filepath.Join(t.TempDir(), "config")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create test config dir: %v", err)
	}

	// These env vars override viper settings via AutomaticEnv()
	t.Setenv("GRAPHCHAT_CONFIG_DIR", configDir)
	t.Setenv("GRAPHCHAT_LOG_FILE", filepath.Join(configDir, "graphchat.log"))

	config.Reset()
	if err := config.Init(); err != nil {
		t.Fatalf("failed to initialize test config: %v", err)
	}

	env := &TestEnv{
		t:         t,
		ConfigDir: configDir,
	}

	t.Cleanup(func() {
		config.Reset()
	})

	return env
}

// WriteConfig writes a config.yaml with the given content into the test
// environment's config directory and reloads the process-wide config.
func (e *TestEnv) WriteConfig(content string) {
	e.t.Helper()

	path := filepath.Join(e.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write test config file: %v", err)
	}

	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to reload test config: %v", err)
	}
}
