package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("Server.HTTPPort = %d, want 8080", cfg.Server.HTTPPort)
	}
	if cfg.Server.HTTPBind != "127.0.0.1" {
		t.Errorf("Server.HTTPBind = %q, want %q", cfg.Server.HTTPBind, "127.0.0.1")
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM.Model = %q, want %q", cfg.LLM.Model, "gpt-4o-mini")
	}
	if cfg.Graph.ResultLimit != 50 {
		t.Errorf("Graph.ResultLimit = %d, want 50", cfg.Graph.ResultLimit)
	}
	if cfg.Graph.FallbackLabel != "Person" {
		t.Errorf("Graph.FallbackLabel = %q, want %q", cfg.Graph.FallbackLabel, "Person")
	}
	if !reflect.DeepEqual(cfg.Graph.AmbiguousRelationships, []string{"妻子"}) {
		t.Errorf("Graph.AmbiguousRelationships = %v, want [妻子]", cfg.Graph.AmbiguousRelationships)
	}
	if err := Validate(&cfg); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing config file falls back to defaults", func(t *testing.T) {
		t.Setenv("GRAPHCHAT_CONFIG_DIR", t.TempDir())

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Server.HTTPPort != DefaultServerHTTPPort {
			t.Errorf("Server.HTTPPort = %d, want default %d", cfg.Server.HTTPPort, DefaultServerHTTPPort)
		}
	})

	t.Run("config file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := "log_level: debug\nserver:\n  http_port: 9090\ngraph:\n  result_limit: 10\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Setenv("GRAPHCHAT_CONFIG_DIR", dir)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
		}
		if cfg.Server.HTTPPort != 9090 {
			t.Errorf("Server.HTTPPort = %d, want 9090", cfg.Server.HTTPPort)
		}
		if cfg.Graph.ResultLimit != 10 {
			t.Errorf("Graph.ResultLimit = %d, want 10", cfg.Graph.ResultLimit)
		}
		if cfg.LLM.Model != DefaultLLMModel {
			t.Errorf("LLM.Model = %q, want default %q", cfg.LLM.Model, DefaultLLMModel)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: debug\n"), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Setenv("GRAPHCHAT_CONFIG_DIR", dir)
		t.Setenv("GRAPHCHAT_LOG_LEVEL", "error")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.LogLevel != "error" {
			t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
		}
	})

	t.Run("invalid values fail validation", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: loud\n"), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}
		t.Setenv("GRAPHCHAT_CONFIG_DIR", dir)

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation error")
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too low", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"port too high", func(c *Config) { c.Server.HTTPPort = 70000 }},
		{"negative shutdown", func(c *Config) { c.Server.ShutdownTimeout = -1 }},
		{"zero rate limit", func(c *Config) { c.LLM.RateLimit = 0 }},
		{"zero result limit", func(c *Config) { c.Graph.ResultLimit = 0 }},
		{"empty fallback label", func(c *Config) { c.Graph.FallbackLabel = "" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(&cfg)
			if err := Validate(&cfg); err == nil {
				t.Error("Validate() error = nil, want error")
			}
		})
	}
}

func TestGetAndReset(t *testing.T) {
	t.Setenv("GRAPHCHAT_CONFIG_DIR", t.TempDir())

	Reset()
	t.Cleanup(Reset)

	if got := Get(); got.Server.HTTPPort != DefaultServerHTTPPort {
		t.Errorf("Get() before Init should return defaults, port = %d", got.Server.HTTPPort)
	}

	if err := Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := Get(); got == nil {
		t.Fatal("Get() = nil after Init")
	}

	custom := NewDefaultConfig()
	custom.Server.HTTPPort = 9999
	Set(&custom)
	if got := Get(); got.Server.HTTPPort != 9999 {
		t.Errorf("Get() after Set, port = %d, want 9999", got.Server.HTTPPort)
	}
}
