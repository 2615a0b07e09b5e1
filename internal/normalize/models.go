// Package normalize converts raw graph query results into the canonical
// node/link structure used for visualization, or into a flat table when the
// query projects scalar values instead of whole entities.
package normalize

// RawNode is a node as returned by the graph database, prior to
// deduplication and index assignment.
type RawNode struct {
	ID         string
	Labels     []string
	Properties map[string]any
}

// RawRelationship is a relationship as returned by the graph database.
// Endpoint ids reference RawNode ids; dangling references are dropped
// during normalization rather than treated as errors.
type RawRelationship struct {
	ID          string
	Type        string
	StartNodeID string
	EndNodeID   string
	Properties  map[string]any
}

// Record is one result row keyed by return-clause field names. Entity-valued
// cells are flattened to their property maps before they reach this package,
// so values here are scalars, maps, or slices only.
type Record struct {
	Keys   []string
	Fields map[string]any
}

// RawResult is the full result of one query execution: every entity
// encountered in any record, plus the records themselves for tabular output.
type RawResult struct {
	Nodes         []RawNode
	Relationships []RawRelationship
	Records       []Record
}

// GraphNode is a deduplicated node in the canonical graph. Label is the
// node's first label, or "Node" when it has none.
type GraphNode struct {
	ID         string         `json:"id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// GraphLink connects two canonical nodes by their positions in Graph.Nodes.
type GraphLink struct {
	Source     int            `json:"source"`
	Target     int            `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// Graph is the canonical, index-addressed graph structure. Every link's
// Source and Target are valid positions in Nodes.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Table is the alternative normalized form for scalar projections.
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}
