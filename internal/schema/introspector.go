// Package schema introspects a Neo4j database for the labels, relationship
// types, and sampled property keys used to ground query synthesis. Schema
// context is an enrichment, not a requirement: every database failure here
// degrades to an empty descriptor instead of failing the caller.
package schema

import (
	"context"
	"log/slog"
	"sort"

	"github.com/chiheye/LLMGraphChat/internal/graphdb"
)

// Descriptor summarizes the introspected schema. NodeLabels and
// RelationshipTypes never contain duplicates.
type Descriptor struct {
	NodeLabels        []string            `json:"nodeLabels"`
	RelationshipTypes []string            `json:"relationshipTypes"`
	NodeProperties    map[string][]string `json:"nodeProperties,omitempty"`
}

// Introspector reads schema information through a Runner.
type Introspector struct {
	runner graphdb.Runner
	logger *slog.Logger
}

// Option configures the Introspector.
type Option func(*Introspector)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Introspector) {
		i.logger = logger
	}
}

// NewIntrospector creates an introspector over the given runner.
func NewIntrospector(runner graphdb.Runner, opts ...Option) *Introspector {
	i := &Introspector{
		runner: runner,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// GetSchema retrieves labels, relationship types, and per-label sampled
// properties. On any database error it returns an empty descriptor with
// non-nil slices and logs the cause.
func (i *Introspector) GetSchema(ctx context.Context) Descriptor {
	desc := Descriptor{
		NodeLabels:        []string{},
		RelationshipTypes: []string{},
	}

	labels, err := i.stringColumn(ctx, "CALL db.labels() YIELD label RETURN label", "label")
	if err != nil {
		i.logger.Warn("schema introspection failed, continuing without schema", "error", err)
		return desc
	}
	desc.NodeLabels = labels

	relTypes, err := i.stringColumn(ctx,
		"CALL db.relationshipTypes() YIELD relationshipType RETURN relationshipType",
		"relationshipType")
	if err != nil {
		i.logger.Warn("relationship type introspection failed", "error", err)
		return Descriptor{NodeLabels: []string{}, RelationshipTypes: []string{}}
	}
	desc.RelationshipTypes = relTypes

	desc.NodeProperties = i.sampleProperties(ctx, labels)

	return desc
}

// GetNodeProperties samples one entity per label and reports the property
// keys observed on it. A label with no instances yields an empty list.
func (i *Introspector) GetNodeProperties(ctx context.Context) map[string][]string {
	labels, err := i.stringColumn(ctx, "CALL db.labels() YIELD label RETURN label", "label")
	if err != nil {
		i.logger.Warn("label listing failed", "error", err)
		return map[string][]string{}
	}
	return i.sampleProperties(ctx, labels)
}

// sampleProperties fetches one node per label, bounded to a single result,
// and records the property keys it carries. This is a best-effort sample,
// not a full schema scan.
func (i *Introspector) sampleProperties(ctx context.Context, labels []string) map[string][]string {
	props := make(map[string][]string, len(labels))
	for _, label := range labels {
		props[label] = []string{}

		raw, err := i.runner.Run(ctx, "MATCH (n:`"+label+"`) RETURN n LIMIT 1", nil)
		if err != nil {
			i.logger.Debug("property sampling failed for label", "label", label, "error", err)
			continue
		}
		if len(raw.Nodes) == 0 {
			continue
		}

		keys := make([]string, 0, len(raw.Nodes[0].Properties))
		for key := range raw.Nodes[0].Properties {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		props[label] = keys
	}
	return props
}

// stringColumn runs a single-column query and returns its deduplicated
// string values in result order.
func (i *Introspector) stringColumn(ctx context.Context, cypher, field string) ([]string, error) {
	raw, err := i.runner.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}

	values := []string{}
	seen := make(map[string]bool)
	for _, record := range raw.Records {
		s, ok := record.Fields[field].(string)
		if !ok || s == "" || seen[s] {
			continue
		}
		seen[s] = true
		values = append(values, s)
	}
	return values, nil
}
