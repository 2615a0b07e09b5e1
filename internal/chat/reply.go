package chat

import (
	"fmt"
	"strings"

	"github.com/chiheye/LLMGraphChat/internal/normalize"
)

// tableReplyRows caps the rows rendered inline in reply text.
const tableReplyRows = 10

// composeReply builds the user-facing answer: the model's explanation,
// followed by either the rendered table or a count summary, plus a note when
// a visualization exists.
func composeReply(explanation string, graph *normalize.Graph, table *normalize.Table) string {
	var parts []string
	if strings.TrimSpace(explanation) != "" {
		parts = append(parts, strings.TrimSpace(explanation))
	}

	switch {
	case table != nil:
		parts = append(parts, fmt.Sprintf("The query returned %d rows.", len(table.Rows)))
		if rendered := normalize.RenderTable(table, tableReplyRows); rendered != "" {
			parts = append(parts, rendered)
		}
	case graph != nil:
		parts = append(parts, fmt.Sprintf("Found %d nodes and %d relationships.",
			len(graph.Nodes), len(graph.Links)))
		if len(graph.Nodes) > 0 {
			parts = append(parts, "A graph visualization of the result has been generated.")
		}
	}

	if len(parts) == 0 {
		return "The query completed but returned no data."
	}
	return strings.Join(parts, "\n\n")
}

// composeErrorReply builds the reply for a fatal execution error. The
// conversation continues on the next turn; only this answer is degraded.
func composeErrorReply(explanation string, err error) string {
	var parts []string
	if strings.TrimSpace(explanation) != "" {
		parts = append(parts, strings.TrimSpace(explanation))
	}
	parts = append(parts, "The query could not be executed against the database: "+err.Error())
	return strings.Join(parts, "\n\n")
}
