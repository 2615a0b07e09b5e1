package graphdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/chiheye/LLMGraphChat/internal/normalize"
)

// Runner executes one Cypher query and returns the collected result.
// The concrete implementation is backed by the shared driver; tests provide
// fakes.
type Runner interface {
	Run(ctx context.Context, cypher string, params map[string]any) (*normalize.RawResult, error)
}

// executor runs queries through the manager's shared driver, one session per
// call.
type executor struct {
	manager *Manager
	config  Config
}

// Run executes the query and collects every entity and record from the
// result. The session is closed on every exit path; the underlying pool
// stays open for reuse.
func (e *executor) Run(ctx context.Context, cypher string, params map[string]any) (*normalize.RawResult, error) {
	driver, err := e.manager.Driver(ctx, e.config)
	if err != nil {
		return nil, err
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("query failed; %w", err)
	}

	raw := &normalize.RawResult{}
	for result.Next(ctx) {
		record := result.Record()
		rec := normalize.Record{
			Keys:   append([]string(nil), record.Keys...),
			Fields: make(map[string]any, len(record.Keys)),
		}
		for i, key := range record.Keys {
			value := record.Values[i]
			collectEntities(raw, value)
			rec.Fields[key] = flattenValue(value)
		}
		raw.Records = append(raw.Records, rec)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("result iteration failed; %w", err)
	}

	return raw, nil
}

// collectEntities appends any nodes and relationships contained in the value
// to the raw result. Paths contribute both their nodes and relationships.
func collectEntities(raw *normalize.RawResult, value any) {
	switch v := value.(type) {
	case neo4j.Node:
		raw.Nodes = append(raw.Nodes, toRawNode(v))
	case neo4j.Relationship:
		raw.Relationships = append(raw.Relationships, toRawRelationship(v))
	case neo4j.Path:
		for _, n := range v.Nodes {
			raw.Nodes = append(raw.Nodes, toRawNode(n))
		}
		for _, r := range v.Relationships {
			raw.Relationships = append(raw.Relationships, toRawRelationship(r))
		}
	case []any:
		for _, item := range v {
			collectEntities(raw, item)
		}
	}
}

// flattenValue turns entity values into their property maps so the
// normalizer never sees driver types. Scalars pass through unchanged.
func flattenValue(value any) any {
	switch v := value.(type) {
	case neo4j.Node:
		return v.Props
	case neo4j.Relationship:
		return v.Props
	case neo4j.Path:
		return pathSummary(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = flattenValue(item)
		}
		return out
	default:
		return v
	}
}

func pathSummary(p neo4j.Path) string {
	return "path(" + strconv.Itoa(len(p.Nodes)) + " nodes, " +
		strconv.Itoa(len(p.Relationships)) + " relationships)"
}

func toRawNode(n neo4j.Node) normalize.RawNode {
	return normalize.RawNode{
		ID:         n.ElementId,
		Labels:     n.Labels,
		Properties: n.Props,
	}
}

func toRawRelationship(r neo4j.Relationship) normalize.RawRelationship {
	return normalize.RawRelationship{
		ID:          r.ElementId,
		Type:        r.Type,
		StartNodeID: r.StartElementId,
		EndNodeID:   r.EndElementId,
		Properties:  r.Props,
	}
}
