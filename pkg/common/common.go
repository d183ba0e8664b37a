package common

// SpanSource identifies which extraction layer produced a span.
// It is diagnostic only and never influences resolution.
type SpanSource string

const (
	SpanSourceRule  SpanSource = "rule"
	SpanSourceModel SpanSource = "model"
)

// LabelPerson is the entity category the pipeline keeps. Spans carrying
// any other label are discarded before merging.
const LabelPerson = "PESSOA"

// Span is a labeled candidate mention inside one document. Start and End
// are half-open character offsets into the document's original text.
// Spans are created once by the extractor; merging produces new spans
// rather than mutating existing ones.
type Span struct {
	Text       string     `json:"text"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	Source     SpanSource `json:"source,omitempty"`
}

// Occurrence records one appearance of a grouped person within a document.
type Occurrence struct {
	Start      int
	End        int
	Confidence float64
}

// Identity represents one resolved person. CanonicalName is the longest
// surface form seen so far; Variants holds every raw string that has
// resolved to this identity. Identity records are owned by the resolver
// and mutated in place as new variants merge in.
type Identity struct {
	CanonicalName string   `json:"canonical_name"`
	Variants      []string `json:"variants"`
}

// Segment is a contiguous slice of a document attributed to one speaker.
// Speaker is empty when no person tag opens the segment, in which case
// the segment contributes nothing to the graph.
type Segment struct {
	Speaker  string   `json:"speaker"`
	Mentions []string `json:"mentions"`
	Text     string   `json:"text"`
}

// Node is one canonical identity in the mention graph.
type Node struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Edge is a directed speaker-to-mentioned edge. Weight is the cumulative
// mention count and is always >= 1 for an existing edge.
type Edge struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Weight int `json:"weight"`
}
