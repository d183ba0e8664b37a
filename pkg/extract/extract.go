package extract

import (
	"context"
	"sort"
	"unicode"

	"github.com/parlagraph/parlagraph/pkg/common"
	"github.com/parlagraph/parlagraph/pkg/ner"
)

// Extractor combines the rule-based header patterns with a token
// classification model and post-processes the union into a clean,
// non-overlapping span list.
type Extractor struct {
	model ner.TokenClassifier
}

// New creates an Extractor. A nil model is allowed; extraction then
// relies on the rule patterns alone.
func New(model ner.TokenClassifier) *Extractor {
	return &Extractor{model: model}
}

// Extract returns the person mentions found in text, sorted by start
// offset. Model and rule spans are pooled, non-person labels dropped,
// adjacent fragments merged, and identical spans deduplicated keeping
// the highest confidence.
func (e *Extractor) Extract(
	ctx context.Context,
	text string,
) ([]common.Span, error) {
	var spans []common.Span

	if e.model != nil {
		found, err := e.model.Classify(ctx, text)
		if err != nil {
			return nil, err
		}
		spans = append(spans, found...)
	}
	spans = append(spans, RuleSpans(text)...)

	persons := spans[:0]
	for _, s := range spans {
		if s.Label == common.LabelPerson {
			persons = append(persons, s)
		}
	}

	merged := MergeAdjacent(persons)
	return DedupeSpans(merged), nil
}

// isUpper reports whether s contains at least one cased rune and no
// lowercase runes. Subword models tend to split all-caps transcript
// names into more fragments than mixed-case prose, so uppercase spans
// get a slightly more permissive merge.
func isUpper(s string) bool {
	hasCased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasCased = true
		}
	}
	return hasCased
}

// MergeAdjacent joins span fragments that the classifier split apart.
// Two passes: the first joins overlapping or touching spans of the same
// label (a one-character gap requires an all-caps side), the second
// joins any remaining same-label spans separated by exactly one
// character. Merged spans keep the minimum confidence and the first
// fragment's source.
func MergeAdjacent(spans []common.Span) []common.Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]common.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var merged []common.Span
	for _, s := range sorted {
		if len(merged) == 0 {
			merged = append(merged, s)
			continue
		}
		last := &merged[len(merged)-1]

		join := s.Label == last.Label &&
			s.Start <= last.End+1 &&
			(isUpper(s.Text) || isUpper(last.Text) || s.Start <= last.End)
		if !join {
			merged = append(merged, s)
			continue
		}

		if overlap := last.End - s.Start; overlap >= 0 {
			if overlap < len(s.Text) {
				last.Text += s.Text[overlap:]
			}
		} else {
			last.Text += " " + s.Text
		}
		if s.End > last.End {
			last.End = s.End
		}
		if s.Confidence < last.Confidence {
			last.Confidence = s.Confidence
		}
	}

	var joined []common.Span
	for _, s := range merged {
		if len(joined) == 0 {
			joined = append(joined, s)
			continue
		}
		last := &joined[len(joined)-1]
		if s.Label == last.Label && s.Start-last.End == 1 {
			last.Text += " " + s.Text
			last.End = s.End
			if s.Confidence < last.Confidence {
				last.Confidence = s.Confidence
			}
			continue
		}
		joined = append(joined, s)
	}
	return joined
}

// DedupeSpans removes spans with identical offsets, keeping the highest
// confidence one, and returns the survivors sorted by start offset.
func DedupeSpans(spans []common.Span) []common.Span {
	if len(spans) == 0 {
		return nil
	}

	sorted := make([]common.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	type key struct {
		start int
		end   int
	}
	seen := make(map[key]struct{}, len(sorted))
	unique := sorted[:0]
	for _, s := range sorted {
		k := key{start: s.Start, end: s.End}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		unique = append(unique, s)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		if unique[i].Start != unique[j].Start {
			return unique[i].Start < unique[j].Start
		}
		return unique[i].End < unique[j].End
	})
	return unique
}
