// Package chat coordinates one request/response turn: schema introspection,
// query synthesis, execution with repair, result normalization, and reply
// composition. Past input validation a turn never fails hard; every error
// degrades to a reply-only response carrying a diagnostic message.
package chat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chiheye/LLMGraphChat/internal/diag"
	"github.com/chiheye/LLMGraphChat/internal/graphdb"
	"github.com/chiheye/LLMGraphChat/internal/llm"
	"github.com/chiheye/LLMGraphChat/internal/normalize"
	"github.com/chiheye/LLMGraphChat/internal/repair"
	"github.com/chiheye/LLMGraphChat/internal/schema"
)

// TurnRequest is one inbound chat turn with per-request credentials.
type TurnRequest struct {
	ConversationHistory []llm.Message `json:"conversationHistory"`
	UserText            string        `json:"userText"`
	LLMAPIKey           string        `json:"llmApiKey"`
	LLMBaseURL          string        `json:"llmBaseUrl,omitempty"`
	ModelName           string        `json:"modelName,omitempty"`
	DBURI               string        `json:"dbUri"`
	DBUsername          string        `json:"dbUsername"`
	DBPassword          string        `json:"dbPassword"`
}

// TurnResponse is the outcome of one turn. Graph and Table are mutually
// exclusive; both are absent when the turn degraded to a reply-only answer.
type TurnResponse struct {
	ReplyText   string           `json:"replyText"`
	Graph       *normalize.Graph `json:"graph,omitempty"`
	Table       *normalize.Table `json:"table,omitempty"`
	Diagnostics []string         `json:"diagnostics,omitempty"`
}

// ValidationError reports a missing required request field. It is the only
// error kind that crosses the orchestrator boundary.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// RunnerSource hands out query runners bound to one database endpoint.
// *graphdb.Manager satisfies it; tests substitute fakes to drive turns
// without a database.
type RunnerSource interface {
	Runner(cfg graphdb.Config) graphdb.Runner
}

// Orchestrator wires the pipeline components together for HandleTurn.
type Orchestrator struct {
	runners     RunnerSource
	synthesizer *llm.Synthesizer
	engine      *repair.Engine
	logger      *slog.Logger
	resultLimit int
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithResultLimit sets the entity cap advertised to the model.
func WithResultLimit(limit int) Option {
	return func(o *Orchestrator) {
		o.resultLimit = limit
	}
}

// NewOrchestrator creates an orchestrator over the given components.
func NewOrchestrator(runners RunnerSource, synthesizer *llm.Synthesizer, engine *repair.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runners:     runners,
		synthesizer: synthesizer,
		engine:      engine,
		logger:      slog.Default(),
		resultLimit: llm.DefaultResultLimit,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleTurn runs one full turn. It returns an error only for input
// validation failures; all later failures resolve to a reply-only response.
func (o *Orchestrator) HandleTurn(ctx context.Context, req TurnRequest) (resp *TurnResponse, err error) {
	if vErr := validate(req); vErr != nil {
		return nil, vErr
	}

	// Past validation a turn must always produce a reply.
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("turn panicked", "panic", r)
			resp = &TurnResponse{
				ReplyText: "Something went wrong while answering; please try again.",
			}
			err = nil
		}
	}()

	runner := o.runners.Runner(graphdb.Config{
		URI:      req.DBURI,
		Username: req.DBUsername,
		Password: req.DBPassword,
	})

	introspector := schema.NewIntrospector(runner, schema.WithLogger(o.logger))
	desc := introspector.GetSchema(ctx)

	var diags []diag.Diagnostic
	if len(desc.NodeLabels) == 0 {
		diags = append(diags, diag.New("schema", "no schema context available; synthesis proceeds unguided"))
	}

	messages := append(append([]llm.Message(nil), req.ConversationHistory...), llm.Message{
		Role:    llm.RoleUser,
		Content: req.UserText,
	})

	systemPrompt := llm.BuildSystemPrompt(desc, o.resultLimit)
	query := o.synthesizer.Synthesize(ctx, messages, systemPrompt, llm.Credentials{
		APIKey:  req.LLMAPIKey,
		BaseURL: req.LLMBaseURL,
		Model:   req.ModelName,
	})
	o.logger.Info("query synthesized", "query", query.QueryText)

	raw, executed, repairDiags, execErr := o.engine.Execute(ctx, query.QueryText, func(ctx context.Context, q string) (*normalize.RawResult, error) {
		return runner.Run(ctx, q, nil)
	})
	diags = append(diags, repairDiags...)
	if execErr != nil {
		o.logger.Warn("query execution failed", "query", executed, "error", execErr)
		diags = append(diags, diag.New("execute", "%s", execErr))
		return &TurnResponse{
			ReplyText:   composeErrorReply(query.Explanation, execErr),
			Diagnostics: diag.Strings(diags),
		}, nil
	}

	resp = &TurnResponse{}

	if table := normalize.ToTable(executed, raw.Records); table != nil {
		resp.Table = table
	} else {
		graph, dropped := normalize.ToGraph(raw)
		if dropped > 0 {
			diags = append(diags, diag.New("normalize",
				fmt.Sprintf("%d relationships referenced nodes absent from the result and were dropped", dropped)))
		}
		if len(graph.Links) == 0 && len(raw.Relationships) > 0 {
			if added := normalize.RecoverLinks(graph, raw.Relationships); added > 0 {
				diags = append(diags, diag.New("normalize",
					fmt.Sprintf("%d links recovered by direct id matching", added)))
			}
		}
		resp.Graph = graph
	}

	resp.ReplyText = composeReply(query.Explanation, resp.Graph, resp.Table)
	resp.Diagnostics = diag.Strings(diags)
	return resp, nil
}

// validate checks the presence of every required field. Nothing is contacted
// before validation passes.
func validate(req TurnRequest) error {
	switch {
	case req.LLMAPIKey == "":
		return &ValidationError{Field: "llmApiKey"}
	case req.DBURI == "":
		return &ValidationError{Field: "dbUri"}
	case req.DBUsername == "":
		return &ValidationError{Field: "dbUsername"}
	case req.DBPassword == "":
		return &ValidationError{Field: "dbPassword"}
	case req.UserText == "":
		return &ValidationError{Field: "userText"}
	}
	return nil
}
