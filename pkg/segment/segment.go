// Package segment splits annotated transcripts into speeches and
// attributes each speech to a speaker.
//
// Input is the annotated text produced by the extraction step, where
// person mentions are preceded by <PESSOA:name> tags. Only the open
// tags matter here; close tags are ignored.
package segment

import (
	"regexp"
	"strings"

	"github.com/parlagraph/parlagraph/pkg/common"
	"github.com/parlagraph/parlagraph/pkg/resolver"
)

// boundaryRe matches the start of a speaker introduction. A split
// happens at every match start, so the introduction itself opens the
// new speech.
var boundaryRe = regexp.MustCompile(
	`(?i)\b(?:O|A)\s+SR(?:A)?\.\s+(?:PRESIDENTE|DEPUTADO|DEPUTADA|SENADOR|SENADORA|DR|DRA|[A-ZÀ-Ú]+(?:\.\s*)?)\b`,
)

var personTagRe = regexp.MustCompile(`<PESSOA:([^>]+)>`)

// Segmenter splits annotated documents into speeches and resolves the
// tagged names through a shared identity resolver.
type Segmenter struct {
	resolver *resolver.Resolver
}

// New creates a Segmenter backed by r. All documents of a corpus must
// go through the same resolver so variants merge across documents.
func New(r *resolver.Resolver) *Segmenter {
	return &Segmenter{resolver: r}
}

// Split cuts text at every speaker-introduction boundary and returns
// the trimmed pieces. Whitespace-only pieces are dropped.
func Split(text string) []string {
	var pieces []string
	appendPiece := func(s string) {
		if t := strings.TrimSpace(s); t != "" {
			pieces = append(pieces, t)
		}
	}

	prev := 0
	for _, loc := range boundaryRe.FindAllStringIndex(text, -1) {
		appendPiece(text[prev:loc[0]])
		prev = loc[0]
	}
	appendPiece(text[prev:])
	return pieces
}

// Segment splits annotated text into speeches and attributes each one.
// The first person tag in a speech names the speaker; the remaining
// tags become mentions, resolved, de-duplicated in first-seen order and
// excluding the speaker. A speech without tags gets an empty speaker
// and is kept only so callers can account for procedural text.
func (s *Segmenter) Segment(text string) []common.Segment {
	var segments []common.Segment
	for _, piece := range Split(text) {
		seg := common.Segment{Text: piece}

		tags := personTagRe.FindAllStringSubmatch(piece, -1)
		if len(tags) > 0 {
			seg.Speaker = s.resolver.Resolve(tags[0][1])

			seen := make(map[string]struct{})
			for _, tag := range tags[1:] {
				canonical := s.resolver.Resolve(tag[1])
				if canonical == "" || canonical == seg.Speaker {
					continue
				}
				if _, ok := seen[canonical]; ok {
					continue
				}
				seen[canonical] = struct{}{}
				seg.Mentions = append(seg.Mentions, canonical)
			}
		}

		segments = append(segments, seg)
	}
	return segments
}
