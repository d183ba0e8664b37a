package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/parlagraph/parlagraph/pkg/common"
)

// Brazilian plenary transcripts open every speech with a header such as
// "O SR. PRESIDENTE (Rodrigo Pacheco. Bloco/DEM - MG)" or
// "A SRA. SORAYA THRONICKE (Bloco/UNIÃO - MS)". The headers are fully
// regular, so they are extracted by rule with confidence 1.0 instead of
// being left to the model.
var (
	presidentRe = regexp.MustCompile(
		`(?i)(?:\bO\s+SR\.|\bA\s+SRA\.)\s+PRESIDENTE\s+\(([^.)]+)\.\s*(?:[^/]+/)?([A-Z]+)\s*-\s*([A-Z]{2})\)`,
	)
	speakerRe = regexp.MustCompile(
		`(?i)(?:\bO\s+SR\.|\bA\s+SRA\.)\s+((?:[A-ZÀ-Ú]+\.?\s+)*[A-ZÀ-Ú]+)\s+\((?:[^/]+/)?([A-Z]+)\s*-\s*([A-Z]{2})\)`,
	)
)

// RuleSpans extracts speech-header mentions from text. The president
// pattern runs first; a later match that overlaps an earlier one is
// dropped. Span offsets cover the whole header, while the span text is
// rebuilt as "name party-state" so downstream grouping sees a clean
// surface form.
func RuleSpans(text string) []common.Span {
	var spans []common.Span
	var taken [][2]int

	overlaps := func(start, end int) bool {
		for _, t := range taken {
			if start < t[1] && t[0] < end {
				return true
			}
		}
		return false
	}

	for _, m := range presidentRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if overlaps(start, end) {
			continue
		}
		name := strings.TrimSpace(text[m[2]:m[3]])
		party := strings.TrimSpace(text[m[4]:m[5]])
		state := strings.TrimSpace(text[m[6]:m[7]])

		spans = append(spans, common.Span{
			Text:       fmt.Sprintf("Presidente %s %s-%s", name, party, state),
			Start:      start,
			End:        end,
			Label:      common.LabelPerson,
			Confidence: 1.0,
			Source:     common.SpanSourceRule,
		})
		taken = append(taken, [2]int{start, end})
	}

	for _, m := range speakerRe.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		if overlaps(start, end) {
			continue
		}
		name := strings.TrimSpace(text[m[2]:m[3]])
		party := strings.TrimSpace(text[m[4]:m[5]])
		state := strings.TrimSpace(text[m[6]:m[7]])

		spans = append(spans, common.Span{
			Text:       fmt.Sprintf("%s %s-%s", name, party, state),
			Start:      start,
			End:        end,
			Label:      common.LabelPerson,
			Confidence: 1.0,
			Source:     common.SpanSourceRule,
		})
		taken = append(taken, [2]int{start, end})
	}

	return spans
}
