// Package repair executes a synthesized query with a bounded sequence of
// mechanical rewrites applied on failure or empty results. Repairs are
// immediate, ordered, and capped; database connectivity and syntax errors
// are not repaired and propagate to the caller.
package repair

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/chiheye/LLMGraphChat/internal/diag"
	"github.com/chiheye/LLMGraphChat/internal/normalize"
	"github.com/chiheye/LLMGraphChat/internal/rewrite"
)

// PlaceholderRelType labels the synthetic relationship inserted when the
// real one could not be returned by the database.
const PlaceholderRelType = "RELATED_TO"

// ExecuteFunc runs one query against the database.
type ExecuteFunc func(ctx context.Context, query string) (*normalize.RawResult, error)

// Engine applies the repair sequence. AmbiguousLabels lists relationship
// types whose direction is semantically meaningless; their directed patterns
// are always rewritten to undirected before the first execution.
type Engine struct {
	logger          *slog.Logger
	ambiguousLabels []string
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithAmbiguousLabels sets the relationship types that are always matched
// without direction.
func WithAmbiguousLabels(labels []string) Option {
	return func(e *Engine) {
		e.ambiguousLabels = labels
	}
}

// NewEngine creates a repair engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs the query with the repair sequence:
//
//  1. Force ambiguous relationship types undirected, then execute directly.
//  2. On a relationship-shape error, retry with relationship columns
//     stripped from the return clause and synthesize a placeholder
//     relationship between the first two nodes. A second failure is fatal
//     and reports the original error.
//  3. On success with zero nodes and a directed pattern, retry once with
//     the direction reversed, then once with the direction stripped. The
//     first retry that yields nodes wins; each retry replaces the prior
//     result entirely.
//
// The executed query text is returned alongside the result so callers can
// report what actually ran.
func (e *Engine) Execute(ctx context.Context, query string, exec ExecuteFunc) (*normalize.RawResult, string, []diag.Diagnostic, error) {
	var diags []diag.Diagnostic

	rewritten := rewrite.ForceUndirected(query, e.ambiguousLabels)
	if rewritten != query {
		diags = append(diags, diag.New("repair", "ambiguous relationship type matched without direction"))
		query = rewritten
	}

	raw, err := exec(ctx, query)
	if err != nil {
		if !isRelationshipShapeError(err) {
			return nil, query, diags, err
		}

		e.logger.Warn("relationship shape mismatch, retrying with node columns only", "error", err)
		stripped := rewrite.StripRelationshipColumn(query)
		retried, retryErr := exec(ctx, stripped)
		if retryErr != nil {
			// Fatal: report the original failure, not the retry's.
			return nil, query, diags, err
		}
		added := attachPlaceholder(retried)
		if added {
			diags = append(diags, diag.New("repair",
				"relationship columns were dropped; a placeholder relationship links the first two nodes"))
		}
		return retried, stripped, diags, nil
	}

	if len(raw.Nodes) > 0 || !rewrite.HasDirectedPattern(query) {
		return raw, query, diags, nil
	}

	// Empty result with a directed pattern: reversal first, undirection
	// second, nothing after that.
	reversed := rewrite.ReverseDirection(query)
	if retried, retryErr := exec(ctx, reversed); retryErr == nil && len(retried.Nodes) > 0 {
		diags = append(diags, diag.New("repair", "query returned results after reversing relationship direction"))
		return retried, reversed, diags, nil
	}

	undirected := rewrite.StripDirection(query)
	if retried, retryErr := exec(ctx, undirected); retryErr == nil && len(retried.Nodes) > 0 {
		diags = append(diags, diag.New("repair", "query returned results after removing relationship direction"))
		return retried, undirected, diags, nil
	}

	diags = append(diags, diag.New("repair", "no results for the query or its direction variants"))
	return raw, query, diags, nil
}

// attachPlaceholder links the first two nodes with a synthetic relationship
// when the result has nodes but no relationships. Returns whether one was
// added.
func attachPlaceholder(raw *normalize.RawResult) bool {
	if len(raw.Relationships) > 0 || len(raw.Nodes) < 2 {
		return false
	}
	raw.Relationships = append(raw.Relationships, normalize.RawRelationship{
		ID:          uuid.NewString(),
		Type:        PlaceholderRelType,
		StartNodeID: raw.Nodes[0].ID,
		EndNodeID:   raw.Nodes[1].ID,
		Properties:  map[string]any{"synthetic": true},
	})
	return true
}

// isRelationshipShapeError recognizes execution failures caused by the
// result shape lacking relationship identity fields. The check is textual
// because the driver surfaces these as generic errors.
func isRelationshipShapeError(err error) bool {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "relationship") {
		return false
	}
	return strings.Contains(msg, "identity") ||
		strings.Contains(msg, "start") ||
		strings.Contains(msg, "end") ||
		strings.Contains(msg, "element id")
}
