package llm

import (
	"strings"
	"testing"

	"github.com/chiheye/LLMGraphChat/internal/schema"
)

func TestBuildSystemPrompt(t *testing.T) {
	desc := schema.Descriptor{
		NodeLabels:        []string{"Person", "Movie"},
		RelationshipTypes: []string{"ACTED_IN"},
		NodeProperties: map[string][]string{
			"Person": {"born", "name"},
		},
	}

	prompt := BuildSystemPrompt(desc, 50)

	t.Run("lists labels with sampled properties", func(t *testing.T) {
		if !strings.Contains(prompt, "- Person (properties: born, name)") {
			t.Errorf("prompt missing Person properties:\n%s", prompt)
		}
		if !strings.Contains(prompt, "- Movie\n") {
			t.Errorf("prompt missing Movie label:\n%s", prompt)
		}
	})

	t.Run("lists relationship types", func(t *testing.T) {
		if !strings.Contains(prompt, "- ACTED_IN") {
			t.Errorf("prompt missing relationship type:\n%s", prompt)
		}
	})

	t.Run("advertises the result limit", func(t *testing.T) {
		if !strings.Contains(prompt, "LIMIT 50") {
			t.Errorf("prompt missing limit rule:\n%s", prompt)
		}
	})

	t.Run("fixes the JSON answer contract", func(t *testing.T) {
		if !strings.Contains(prompt, `{"cypherQuery": "...", "explanation": "..."}`) {
			t.Errorf("prompt missing answer contract:\n%s", prompt)
		}
	})

	t.Run("empty descriptor still states the rules", func(t *testing.T) {
		p := BuildSystemPrompt(schema.Descriptor{}, 0)
		if strings.Contains(p, "Node labels in this database") {
			t.Errorf("empty descriptor should omit label section:\n%s", p)
		}
		if !strings.Contains(p, "LIMIT 50") {
			t.Errorf("zero limit should fall back to default:\n%s", p)
		}
	})
}
