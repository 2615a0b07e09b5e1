package config

import "fmt"

// Validate checks a configuration for values that would break startup.
func Validate(cfg *Config) error {
	if cfg.Server.HTTPPort < 1 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port %d; must be between 1 and 65535", cfg.Server.HTTPPort)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid server.shutdown_timeout %d; must not be negative", cfg.Server.ShutdownTimeout)
	}
	if cfg.LLM.RateLimit < 1 {
		return fmt.Errorf("invalid llm.rate_limit %d; must be at least 1", cfg.LLM.RateLimit)
	}
	if cfg.Graph.ResultLimit < 1 {
		return fmt.Errorf("invalid graph.result_limit %d; must be at least 1", cfg.Graph.ResultLimit)
	}
	if cfg.Graph.FallbackLabel == "" {
		return fmt.Errorf("invalid graph.fallback_label; must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q; must be one of debug, info, warn, error", cfg.LogLevel)
	}
	return nil
}
