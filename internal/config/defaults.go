package config

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "" // empty disables file logging

	DefaultServerHTTPPort        = 8080
	DefaultServerHTTPBind        = "127.0.0.1"
	DefaultServerShutdownTimeout = 30

	DefaultLLMModel     = "gpt-4o-mini"
	DefaultLLMRateLimit = 60

	DefaultGraphResultLimit   = 50
	DefaultGraphFallbackLabel = "Person"
)

// DefaultAmbiguousRelationships lists relationship types whose direction is
// semantically meaningless and always matched undirected. 妻子 ("wife") is
// the canonical case: either endpoint may be the subject.
var DefaultAmbiguousRelationships = []string{"妻子"}

// NewDefaultConfig returns a Config populated with every default value.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Server: ServerConfig{
			HTTPPort:        DefaultServerHTTPPort,
			HTTPBind:        DefaultServerHTTPBind,
			ShutdownTimeout: DefaultServerShutdownTimeout,
		},
		LLM: LLMConfig{
			Model:     DefaultLLMModel,
			RateLimit: DefaultLLMRateLimit,
		},
		Graph: GraphConfig{
			ResultLimit:            DefaultGraphResultLimit,
			FallbackLabel:          DefaultGraphFallbackLabel,
			AmbiguousRelationships: append([]string(nil), DefaultAmbiguousRelationships...),
		},
	}
}
