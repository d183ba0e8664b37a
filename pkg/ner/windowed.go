package ner

import (
	"context"
	"sort"

	"github.com/parlagraph/parlagraph/pkg/common"
)

const (
	// DefaultWindow is the chunk size, in runes, fed to the underlying
	// classifier per request.
	DefaultWindow = 1000
	// DefaultOverlap is how many runes consecutive chunks share, so that
	// entities sitting on a chunk boundary are seen whole by at least
	// one request.
	DefaultOverlap = 200
)

// Windowed wraps a TokenClassifier that can only handle bounded inputs
// and drives it over arbitrarily long documents with an overlapping
// sliding window. Span offsets are rebased to the full document and
// duplicates from the overlap regions are collapsed.
type Windowed struct {
	classifier TokenClassifier
	window     int
	overlap    int
}

// NewWindowed creates a sliding-window driver around classifier.
// Non-positive window or overlap values fall back to the defaults;
// an overlap >= window is clamped so the window always advances.
func NewWindowed(classifier TokenClassifier, window, overlap int) *Windowed {
	if window <= 0 {
		window = DefaultWindow
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	if overlap >= window {
		overlap = window / 2
	}
	return &Windowed{
		classifier: classifier,
		window:     window,
		overlap:    overlap,
	}
}

// Classify runs the wrapped classifier over text chunk by chunk and
// returns the merged spans, sorted by start offset. Chunk boundaries
// always fall on rune boundaries.
func (w *Windowed) Classify(
	ctx context.Context,
	text string,
) ([]common.Span, error) {
	if text == "" {
		return nil, nil
	}

	// Byte offset of every rune start, plus the end sentinel, so chunks
	// can be sliced without splitting a multi-byte rune.
	offsets := make([]int, 0, len(text)+1)
	for i := range text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	runeCount := len(offsets) - 1

	step := w.window - w.overlap

	type spanKey struct {
		start int
		end   int
	}
	seen := make(map[spanKey]int)
	var spans []common.Span

	for start := 0; start < runeCount; start += step {
		end := start + w.window
		if end > runeCount {
			end = runeCount
		}
		base := offsets[start]
		chunk := text[base:offsets[end]]

		found, err := w.classifier.Classify(ctx, chunk)
		if err != nil {
			return nil, err
		}

		for _, s := range found {
			s.Start += base
			s.End += base
			s.Text = text[s.Start:s.End]

			key := spanKey{start: s.Start, end: s.End}
			if idx, ok := seen[key]; ok {
				if s.Confidence > spans[idx].Confidence {
					spans[idx].Confidence = s.Confidence
				}
				continue
			}
			seen[key] = len(spans)
			spans = append(spans, s)
		}

		if end == runeCount {
			break
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return spans, nil
}
