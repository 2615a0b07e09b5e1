package config

// Config is the root configuration structure for the application.
// Database and LLM credentials are not configured here; they arrive with
// each request.
type Config struct {
	LogLevel string       `yaml:"log_level" mapstructure:"log_level"`
	LogFile  string       `yaml:"log_file" mapstructure:"log_file"`
	Server   ServerConfig `yaml:"server" mapstructure:"server"`
	LLM      LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Graph    GraphConfig  `yaml:"graph" mapstructure:"graph"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	HTTPPort        int    `yaml:"http_port" mapstructure:"http_port"`
	HTTPBind        string `yaml:"http_bind" mapstructure:"http_bind"`
	ShutdownTimeout int    `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"` // seconds
}

// LLMConfig holds defaults for the synthesis provider. The per-request
// model name, key, and base URL override these.
type LLMConfig struct {
	Model     string `yaml:"model" mapstructure:"model"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per minute
}

// GraphConfig holds query behavior settings.
type GraphConfig struct {
	ResultLimit            int      `yaml:"result_limit" mapstructure:"result_limit"`
	FallbackLabel          string   `yaml:"fallback_label" mapstructure:"fallback_label"`
	AmbiguousRelationships []string `yaml:"ambiguous_relationships,flow" mapstructure:"ambiguous_relationships"`
}
