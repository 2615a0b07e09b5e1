// Package rewrite provides mechanical, rule-based Cypher query rewrites used
// by the repair engine. Each rule is a pure string transformation, named and
// testable on its own, so new rewrites can be added without touching the
// orchestration logic.
package rewrite

import (
	"regexp"
	"strings"
)

// relationshipPattern matches a relationship segment of a Cypher pattern:
// the arrow (or plain dash) on each side of the bracketed relationship.
var relationshipPattern = regexp.MustCompile(`(<-|-)\[([^\]]*)\](->|-)`)

// relationshipVarPattern captures a relationship variable name from a
// bracketed relationship, with or without a type: [r:KNOWS] or [r].
var relationshipVarPattern = regexp.MustCompile(`\[\s*(\w+)\s*(?::[^\]]*)?\]`)

// returnListPattern isolates the return list from the clauses that may
// follow it.
var returnListPattern = regexp.MustCompile(`(?is)\b(return)\b(.*?)(\border\b|\blimit\b|\bskip\b|$)`)

// HasDirectedPattern reports whether the query contains at least one
// directed relationship pattern.
func HasDirectedPattern(query string) bool {
	for _, m := range relationshipPattern.FindAllStringSubmatch(query, -1) {
		if m[1] == "<-" || m[3] == "->" {
			return true
		}
	}
	return false
}

// ReverseDirection flips every directed relationship pattern in the query.
// Undirected patterns are left unchanged.
func ReverseDirection(query string) string {
	return relationshipPattern.ReplaceAllStringFunc(query, func(m string) string {
		sub := relationshipPattern.FindStringSubmatch(m)
		left, body, right := sub[1], sub[2], sub[3]
		switch {
		case left == "-" && right == "->":
			return "<-[" + body + "]-"
		case left == "<-" && right == "-":
			return "-[" + body + "]->"
		default:
			return m
		}
	})
}

// StripDirection removes the direction from every relationship pattern in
// the query, producing undirected matches. Already-undirected patterns are
// unchanged, so the rule is idempotent.
func StripDirection(query string) string {
	return relationshipPattern.ReplaceAllStringFunc(query, func(m string) string {
		sub := relationshipPattern.FindStringSubmatch(m)
		return "-[" + sub[2] + "]-"
	})
}

// ForceUndirected strips direction from relationship patterns whose type is
// one of the given labels, leaving all other patterns untouched. Used for
// relationship types whose direction is semantically ambiguous. Idempotent.
func ForceUndirected(query string, labels []string) string {
	if len(labels) == 0 {
		return query
	}
	return relationshipPattern.ReplaceAllStringFunc(query, func(m string) string {
		sub := relationshipPattern.FindStringSubmatch(m)
		body := sub[2]
		for _, label := range labels {
			if strings.Contains(body, ":"+label) {
				return "-[" + body + "]-"
			}
		}
		return m
	})
}

// StripRelationshipColumn removes relationship variables from the query's
// return list, leaving only node columns. Used when execution fails because
// the result shape lacks relationship identity fields. A query without a
// return clause or without relationship variables is returned unchanged.
func StripRelationshipColumn(query string) string {
	vars := relationshipVariables(query)
	if len(vars) == 0 {
		return query
	}

	return returnListPattern.ReplaceAllStringFunc(query, func(m string) string {
		sub := returnListPattern.FindStringSubmatch(m)
		keyword, list, tail := sub[1], sub[2], sub[3]

		items := strings.Split(list, ",")
		kept := make([]string, 0, len(items))
		for _, item := range items {
			trimmed := strings.TrimSpace(item)
			name := trimmed
			if i := strings.IndexAny(trimmed, " .("); i >= 0 {
				name = trimmed[:i]
			}
			if vars[name] && name == trimmed {
				continue
			}
			kept = append(kept, trimmed)
		}
		if len(kept) == 0 {
			// Never emit an empty return list.
			return m
		}
		out := keyword + " " + strings.Join(kept, ", ")
		if tail != "" {
			out += " " + tail
		}
		return out
	})
}

// relationshipVariables collects the relationship variable names declared in
// the query's match patterns.
func relationshipVariables(query string) map[string]bool {
	vars := make(map[string]bool)
	for _, m := range relationshipVarPattern.FindAllStringSubmatch(query, -1) {
		vars[m[1]] = true
	}
	return vars
}
