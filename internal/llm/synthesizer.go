// Package llm synthesizes Cypher queries from conversation history using an
// OpenAI-compatible chat completion endpoint. Synthesis never fails past its
// contract boundary: any provider or parse failure resolves to a fixed
// fallback query so the turn can proceed.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// DefaultModel is used when neither the request nor the config names one.
const DefaultModel = "gpt-4o-mini"

// DefaultFallbackLabel is the node label in the fallback query when none is
// configured.
const DefaultFallbackLabel = "Person"

// FallbackQuery renders the fixed default query over the given label. It is
// executed when synthesis cannot produce a usable query.
func FallbackQuery(label string) string {
	if label == "" {
		label = DefaultFallbackLabel
	}
	return "MATCH (n:" + label + ") RETURN n LIMIT 25"
}

// completionTemperature keeps query generation near-deterministic.
const completionTemperature = 0.1

// Message roles, mirroring the chat completion wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Credentials carries caller-supplied provider settings for one request.
type Credentials struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SynthesizedQuery is the structured outcome of one synthesis call.
type SynthesizedQuery struct {
	QueryText   string
	Explanation string
}

// CompleteFunc performs one non-streaming chat completion and returns the
// reply in whichever shape the provider produced. Injected in tests.
type CompleteFunc func(ctx context.Context, creds Credentials, req openai.ChatCompletionRequest) (Response, error)

// Synthesizer turns conversation history plus schema context into a Cypher
// query via a single chat completion call.
type Synthesizer struct {
	logger        *slog.Logger
	limiter       *rate.Limiter
	complete      CompleteFunc
	resultLimit   int
	defaultModel  string
	fallbackLabel string
}

// Option configures the Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// WithCompleteFunc replaces the completion transport. Used by tests.
func WithCompleteFunc(fn CompleteFunc) Option {
	return func(s *Synthesizer) {
		s.complete = fn
	}
}

// WithRequestsPerMinute bounds outbound completion calls.
func WithRequestsPerMinute(rpm int) Option {
	return func(s *Synthesizer) {
		if rpm > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(float64(rpm)/60.0), rpm)
		}
	}
}

// WithResultLimit sets the entity cap advertised in the system prompt.
func WithResultLimit(limit int) Option {
	return func(s *Synthesizer) {
		s.resultLimit = limit
	}
}

// WithDefaultModel sets the model used when a request does not name one.
func WithDefaultModel(model string) Option {
	return func(s *Synthesizer) {
		if model != "" {
			s.defaultModel = model
		}
	}
}

// WithFallbackLabel sets the node label of the fallback query.
func WithFallbackLabel(label string) Option {
	return func(s *Synthesizer) {
		if label != "" {
			s.fallbackLabel = label
		}
	}
}

// NewSynthesizer creates a synthesizer with the default OpenAI transport.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		logger:        slog.Default(),
		complete:      openaiComplete,
		resultLimit:   DefaultResultLimit,
		defaultModel:  DefaultModel,
		fallbackLabel: DefaultFallbackLabel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize sends the conversation (system prompt prepended) to the model
// and parses the reply into a SynthesizedQuery. All failure paths resolve to
// the fallback query with the failure reason as the explanation.
func (s *Synthesizer) Synthesize(ctx context.Context, messages []Message, systemPrompt string, creds Credentials) SynthesizedQuery {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return s.fallback("rate limit wait interrupted: " + err.Error())
		}
	}

	model := creds.Model
	if model == "" {
		model = s.defaultModel
	}

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	chatMessages = append(chatMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: completionTemperature,
		Stream:      false,
	}

	resp, err := s.complete(ctx, creds, req)
	if err != nil {
		s.logger.Warn("completion call failed, using fallback query", "model", model, "error", err)
		return s.fallback("the language model could not be reached: " + err.Error())
	}

	query, err := ParseQuery(resp.Flatten())
	if err != nil {
		s.logger.Warn("could not parse model response, using fallback query", "model", model, "error", err)
		return s.fallback("the model response could not be parsed into a query")
	}

	return query
}

// fallback returns the canonical default query with the given reason.
func (s *Synthesizer) fallback(reason string) SynthesizedQuery {
	return SynthesizedQuery{
		QueryText:   FallbackQuery(s.fallbackLabel),
		Explanation: "Showing a sample of the graph instead; " + reason + ".",
	}
}

// openaiComplete is the production transport: one non-streaming chat
// completion against the caller's endpoint and key.
func openaiComplete(ctx context.Context, creds Credentials, req openai.ChatCompletionRequest) (Response, error) {
	cfg := openai.DefaultConfig(creds.APIKey)
	if creds.BaseURL != "" {
		cfg.BaseURL = creds.BaseURL
	}
	client := openai.NewClientWithConfig(cfg)

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("chat completion failed; %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("no response choices returned")
	}

	return DirectResponse(resp.Choices[0].Message.Content), nil
}
