package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedBlockPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	queryLiteralPattern = regexp.MustCompile(
		`(?i)cypherQuery["']?\s*[:=]\s*["']((?:[^"'\\]|\\.)+)["']`)
)

// structuredAnswer is the JSON shape the model is instructed to reply with.
type structuredAnswer struct {
	CypherQuery string `json:"cypherQuery"`
	Explanation string `json:"explanation"`
}

// ParseQuery extracts a synthesized query from an LLM reply body. Strategies
// are tried in order until one yields a non-empty query string:
//
//  1. parse the whole body as JSON
//  2. parse the contents of a fenced code block
//  3. parse the first {...} span found anywhere in the body
//  4. pull a cypherQuery: "..." literal straight out of the text
//
// An error is returned only when every strategy fails.
func ParseQuery(body string) (SynthesizedQuery, error) {
	trimmed := strings.TrimSpace(body)

	if q, ok := parseJSONAnswer(trimmed); ok {
		return q, nil
	}

	if m := fencedBlockPattern.FindStringSubmatch(trimmed); m != nil {
		if q, ok := parseJSONAnswer(strings.TrimSpace(m[1])); ok {
			return q, nil
		}
	}

	if span := firstJSONSpan(trimmed); span != "" {
		if q, ok := parseJSONAnswer(span); ok {
			return q, nil
		}
	}

	if m := queryLiteralPattern.FindStringSubmatch(trimmed); m != nil {
		query := unescapeLiteral(m[1])
		if query != "" {
			return SynthesizedQuery{
				QueryText:   query,
				Explanation: "",
			}, nil
		}
	}

	return SynthesizedQuery{}, fmt.Errorf("no usable query in model response")
}

// parseJSONAnswer attempts a strict JSON decode of the candidate text.
// Returns ok only when the decoded object carries a non-empty query.
func parseJSONAnswer(candidate string) (SynthesizedQuery, bool) {
	var answer structuredAnswer
	if err := json.Unmarshal([]byte(candidate), &answer); err != nil {
		return SynthesizedQuery{}, false
	}
	if strings.TrimSpace(answer.CypherQuery) == "" {
		return SynthesizedQuery{}, false
	}
	return SynthesizedQuery{
		QueryText:   strings.TrimSpace(answer.CypherQuery),
		Explanation: answer.Explanation,
	}, true
}

// firstJSONSpan returns the first brace-balanced {...} span in s, tracking
// string literals and escapes so braces inside values do not miscount.
// Returns "" when no opening brace closes.
func firstJSONSpan(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func unescapeLiteral(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return strings.TrimSpace(s)
}
