package llm

import "strings"

// ResponseKind tags the shape an LLM reply arrived in. Providers behind
// OpenAI-compatible endpoints are not consistent: some return one message
// body, some return stream-style chunks even for non-streaming requests, and
// some return the structured object directly.
type ResponseKind int

const (
	// KindDirect is a single text body.
	KindDirect ResponseKind = iota
	// KindChunkSequence is a sequence of text fragments to concatenate.
	KindChunkSequence
	// KindStructured already carries the parsed query and explanation.
	KindStructured
)

// Response is the tagged union over the reply shapes. Exactly one of the
// variant fields is meaningful for a given Kind.
type Response struct {
	Kind      ResponseKind
	Text      string
	Fragments []string
	Query     *SynthesizedQuery
}

// DirectResponse wraps a single text body.
func DirectResponse(text string) Response {
	return Response{Kind: KindDirect, Text: text}
}

// ChunkResponse wraps stream-style text fragments.
func ChunkResponse(fragments []string) Response {
	return Response{Kind: KindChunkSequence, Fragments: fragments}
}

// StructuredResponse wraps an already-parsed query.
func StructuredResponse(query SynthesizedQuery) Response {
	return Response{Kind: KindStructured, Query: &query}
}

// Flatten normalizes any variant to a single text body for the downstream
// parser. Structured responses render back to their JSON-equivalent text so
// one parser handles every shape.
func (r Response) Flatten() string {
	switch r.Kind {
	case KindChunkSequence:
		return strings.Join(r.Fragments, "")
	case KindStructured:
		if r.Query == nil {
			return ""
		}
		return `{"cypherQuery":` + quoteJSON(r.Query.QueryText) +
			`,"explanation":` + quoteJSON(r.Query.Explanation) + `}`
	default:
		return r.Text
	}
}

func quoteJSON(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, c := range s {
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
