package schema

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/chiheye/LLMGraphChat/internal/normalize"
)

// fakeRunner answers queries from a map keyed by query prefix.
type fakeRunner struct {
	results map[string]*normalize.RawResult
	err     error
	queries []string
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) (*normalize.RawResult, error) {
	f.queries = append(f.queries, cypher)
	if f.err != nil {
		return nil, f.err
	}
	for prefix, result := range f.results {
		if strings.HasPrefix(cypher, prefix) {
			return result, nil
		}
	}
	return &normalize.RawResult{}, nil
}

func stringRecords(field string, values ...string) []normalize.Record {
	records := make([]normalize.Record, 0, len(values))
	for _, v := range values {
		records = append(records, normalize.Record{
			Keys:   []string{field},
			Fields: map[string]any{field: v},
		})
	}
	return records
}

func TestGetSchema(t *testing.T) {
	t.Run("collects labels, types, and sampled properties", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]*normalize.RawResult{
			"CALL db.labels()": {
				Records: stringRecords("label", "Person", "Movie"),
			},
			"CALL db.relationshipTypes()": {
				Records: stringRecords("relationshipType", "ACTED_IN"),
			},
			"MATCH (n:`Person`)": {
				Nodes: []normalize.RawNode{{
					ID:         "a",
					Labels:     []string{"Person"},
					Properties: map[string]any{"name": "Alice", "born": 1984},
				}},
			},
		}}

		desc := NewIntrospector(runner).GetSchema(context.Background())

		if !reflect.DeepEqual(desc.NodeLabels, []string{"Person", "Movie"}) {
			t.Errorf("NodeLabels = %v, want [Person Movie]", desc.NodeLabels)
		}
		if !reflect.DeepEqual(desc.RelationshipTypes, []string{"ACTED_IN"}) {
			t.Errorf("RelationshipTypes = %v, want [ACTED_IN]", desc.RelationshipTypes)
		}
		if !reflect.DeepEqual(desc.NodeProperties["Person"], []string{"born", "name"}) {
			t.Errorf("NodeProperties[Person] = %v, want sorted [born name]", desc.NodeProperties["Person"])
		}
		if !reflect.DeepEqual(desc.NodeProperties["Movie"], []string{}) {
			t.Errorf("NodeProperties[Movie] = %v, want empty list", desc.NodeProperties["Movie"])
		}
	})

	t.Run("deduplicates label listing", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]*normalize.RawResult{
			"CALL db.labels()": {
				Records: stringRecords("label", "Person", "Person", "Movie"),
			},
		}}

		desc := NewIntrospector(runner).GetSchema(context.Background())
		if !reflect.DeepEqual(desc.NodeLabels, []string{"Person", "Movie"}) {
			t.Errorf("NodeLabels = %v, want [Person Movie]", desc.NodeLabels)
		}
	})

	t.Run("database outage yields empty descriptor", func(t *testing.T) {
		runner := &fakeRunner{err: errors.New("dial tcp: connection refused")}

		desc := NewIntrospector(runner).GetSchema(context.Background())

		if desc.NodeLabels == nil || len(desc.NodeLabels) != 0 {
			t.Errorf("NodeLabels = %v, want empty non-nil slice", desc.NodeLabels)
		}
		if desc.RelationshipTypes == nil || len(desc.RelationshipTypes) != 0 {
			t.Errorf("RelationshipTypes = %v, want empty non-nil slice", desc.RelationshipTypes)
		}
	})

	t.Run("sampling failure degrades to empty property list", func(t *testing.T) {
		runner := &fakeRunner{results: map[string]*normalize.RawResult{
			"CALL db.labels()": {
				Records: stringRecords("label", "Ghost"),
			},
			"CALL db.relationshipTypes()": {},
		}}

		desc := NewIntrospector(runner).GetSchema(context.Background())
		if !reflect.DeepEqual(desc.NodeProperties["Ghost"], []string{}) {
			t.Errorf("NodeProperties[Ghost] = %v, want empty list", desc.NodeProperties["Ghost"])
		}
	})
}

func TestGetNodeProperties(t *testing.T) {
	runner := &fakeRunner{results: map[string]*normalize.RawResult{
		"CALL db.labels()": {
			Records: stringRecords("label", "Person"),
		},
		"MATCH (n:`Person`)": {
			Nodes: []normalize.RawNode{{
				ID:         "a",
				Properties: map[string]any{"name": "Alice"},
			}},
		},
	}}

	props := NewIntrospector(runner).GetNodeProperties(context.Background())
	if !reflect.DeepEqual(props["Person"], []string{"name"}) {
		t.Errorf("props[Person] = %v, want [name]", props["Person"])
	}
}
