package ner

import (
	"context"
	"strings"
	"testing"

	"github.com/parlagraph/parlagraph/pkg/common"
)

// substringClassifier labels every full occurrence of name in its input.
type substringClassifier struct {
	name  string
	calls int
}

func (c *substringClassifier) Classify(
	_ context.Context,
	text string,
) ([]common.Span, error) {
	c.calls++
	var spans []common.Span
	for off := 0; ; {
		idx := strings.Index(text[off:], c.name)
		if idx < 0 {
			break
		}
		start := off + idx
		spans = append(spans, common.Span{
			Text:       c.name,
			Start:      start,
			End:        start + len(c.name),
			Label:      common.LabelPerson,
			Confidence: 0.9,
			Source:     common.SpanSourceModel,
		})
		off = start + len(c.name)
	}
	return spans, nil
}

func TestWindowedClassifyRebasesAndDedupes(t *testing.T) {
	// 90 runes with "Maria" at rune offsets 10, 27 and 60. The second
	// occurrence straddles the first 30-rune window and is only seen
	// whole by the second chunk.
	filler := strings.Repeat("é", 10)
	text := filler + "Maria" + strings.Repeat("é", 12) + "Maria" +
		strings.Repeat("é", 28) + "Maria" + strings.Repeat("é", 20)

	fake := &substringClassifier{name: "Maria"}
	w := NewWindowed(fake, 30, 10)

	spans, err := w.Classify(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %v", len(spans), spans)
	}
	for i, s := range spans {
		if text[s.Start:s.End] != "Maria" {
			t.Errorf("span %d offsets select %q, want %q", i, text[s.Start:s.End], "Maria")
		}
		if i > 0 && spans[i-1].Start >= s.Start {
			t.Errorf("spans not sorted by start: %v", spans)
		}
	}
	if fake.calls < 2 {
		t.Errorf("expected multiple chunk requests, got %d", fake.calls)
	}
}

func TestWindowedClassifyEmpty(t *testing.T) {
	w := NewWindowed(&substringClassifier{name: "x"}, 0, -1)
	spans, err := w.Classify(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spans != nil {
		t.Fatalf("expected no spans, got %v", spans)
	}
}

func TestWindowedClassifyShortInputSingleChunk(t *testing.T) {
	fake := &substringClassifier{name: "Ana"}
	w := NewWindowed(fake, DefaultWindow, DefaultOverlap)

	spans, err := w.Classify(context.Background(), "fala de Ana hoje")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected 1 chunk request, got %d", fake.calls)
	}
	if len(spans) != 1 || spans[0].Start != 8 || spans[0].End != 11 {
		t.Fatalf("unexpected spans: %v", spans)
	}
}
