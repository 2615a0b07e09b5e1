package llm

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chiheye/LLMGraphChat/internal/schema"
)

// DefaultResultLimit caps the number of primary entities the model is asked
// to return per query.
const DefaultResultLimit = 50

// BuildSystemPrompt renders the schema-grounded system message for query
// synthesis. It lists known labels with their sampled properties and known
// relationship types, then fixes the answer contract: a focused Cypher query
// returning whole entities, capped in volume, delivered as a bare JSON
// object with cypherQuery and explanation fields.
func BuildSystemPrompt(desc schema.Descriptor, resultLimit int) string {
	if resultLimit <= 0 {
		resultLimit = DefaultResultLimit
	}

	var b strings.Builder
	b.WriteString("You translate user questions into Cypher queries for a Neo4j database.\n\n")

	if len(desc.NodeLabels) > 0 {
		b.WriteString("Node labels in this database:\n")
		for _, label := range desc.NodeLabels {
			b.WriteString("- " + label)
			if props := desc.NodeProperties[label]; len(props) > 0 {
				sorted := append([]string(nil), props...)
				sort.Strings(sorted)
				b.WriteString(" (properties: " + strings.Join(sorted, ", ") + ")")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(desc.RelationshipTypes) > 0 {
		b.WriteString("Relationship types in this database:\n")
		for _, rel := range desc.RelationshipTypes {
			b.WriteString("- " + rel + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Rules:\n")
	b.WriteString("- Keep the query focused on the question; do not return the whole graph.\n")
	b.WriteString("- Cap results with LIMIT " + strconv.Itoa(resultLimit) + " unless the question asks for a count.\n")
	b.WriteString("- Prefer returning whole nodes and relationships with their properties over individual fields.\n")
	b.WriteString("- Relationship direction in the data may not match the phrasing of the question; ")
	b.WriteString("when unsure, match the relationship without a direction.\n")
	b.WriteString("- Respond with only a JSON object of the form ")
	b.WriteString(`{"cypherQuery": "...", "explanation": "..."}` + ". No prose, no code fences.\n")

	return b.String()
}
