package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/chiheye/LLMGraphChat/internal/normalize"
)

func TestComposeReply(t *testing.T) {
	t.Run("graph result with explanation", func(t *testing.T) {
		graph := &normalize.Graph{
			Nodes: []normalize.GraphNode{{ID: "a"}, {ID: "b"}},
			Links: []normalize.GraphLink{{Source: 0, Target: 1, Type: "KNOWS"}},
		}

		got := composeReply("People who know Alice.", graph, nil)

		if !strings.HasPrefix(got, "People who know Alice.") {
			t.Errorf("reply should lead with the explanation: %q", got)
		}
		if !strings.Contains(got, "Found 2 nodes and 1 relationships.") {
			t.Errorf("reply missing counts: %q", got)
		}
		if !strings.Contains(got, "visualization") {
			t.Errorf("reply missing visualization note: %q", got)
		}
	})

	t.Run("empty graph omits visualization note", func(t *testing.T) {
		got := composeReply("", &normalize.Graph{}, nil)
		if !strings.Contains(got, "Found 0 nodes and 0 relationships.") {
			t.Errorf("reply missing counts: %q", got)
		}
		if strings.Contains(got, "visualization") {
			t.Errorf("empty graph should not advertise a visualization: %q", got)
		}
	})

	t.Run("table result renders rows", func(t *testing.T) {
		table := &normalize.Table{
			Columns: []string{"name"},
			Rows:    []map[string]any{{"name": "Alice"}, {"name": "Bob"}},
		}

		got := composeReply("", nil, table)

		if !strings.Contains(got, "The query returned 2 rows.") {
			t.Errorf("reply missing row count: %q", got)
		}
		if !strings.Contains(got, "| Alice |") {
			t.Errorf("reply missing rendered table: %q", got)
		}
	})

	t.Run("nothing at all", func(t *testing.T) {
		got := composeReply("", nil, nil)
		if got != "The query completed but returned no data." {
			t.Errorf("reply = %q", got)
		}
	})
}

func TestComposeErrorReply(t *testing.T) {
	got := composeErrorReply("Looking for Alice.", errors.New("connection refused"))

	if !strings.HasPrefix(got, "Looking for Alice.") {
		t.Errorf("reply should lead with the explanation: %q", got)
	}
	if !strings.Contains(got, "could not be executed") || !strings.Contains(got, "connection refused") {
		t.Errorf("reply missing error detail: %q", got)
	}
}
