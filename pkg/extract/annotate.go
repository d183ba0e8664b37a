package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/parlagraph/parlagraph/pkg/common"
)

var openTagRe = regexp.MustCompile(`<PESSOA:([^>]+)>`)

const closeTag = "</PESSOA>"

// Annotate wraps every grouped occurrence in text with
// <PESSOA:name>...</PESSOA> tags, where name is the group's display
// name. Tags are inserted back to front so recorded offsets stay valid
// during insertion.
func Annotate(text string, grouped Grouped) string {
	type tagPos struct {
		pos    int
		isOpen bool
		name   string
	}

	var positions []tagPos
	for name, occs := range grouped {
		for _, occ := range occs {
			if occ.Start < 0 || occ.End > len(text) || occ.Start >= occ.End {
				continue
			}
			positions = append(positions, tagPos{pos: occ.Start, isOpen: true, name: name})
			positions = append(positions, tagPos{pos: occ.End, isOpen: false, name: name})
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.pos != b.pos {
			return a.pos > b.pos
		}
		// At a shared boundary the open tag is inserted first so the
		// close tag of the preceding entity lands before it.
		if a.isOpen != b.isOpen {
			return a.isOpen
		}
		return a.name > b.name
	})

	annotated := text
	for _, p := range positions {
		var tag string
		if p.isOpen {
			tag = "<PESSOA:" + p.name + ">"
		} else {
			tag = closeTag
		}
		annotated = annotated[:p.pos] + tag + annotated[p.pos:]
	}
	return annotated
}

// Parse strips annotation tags from annotated text, returning the plain
// text and one span per tagged region. Span offsets index the plain
// text; span text is the group name carried in the tag, not the tagged
// surface form. Stray close tags are ignored and an unclosed tag runs
// to the end of the document.
func Parse(annotated string) (string, []common.Span) {
	type open struct {
		name  string
		start int
	}

	var plain strings.Builder
	var spans []common.Span
	var stack []open

	i := 0
	for i < len(annotated) {
		if strings.HasPrefix(annotated[i:], closeTag) {
			if n := len(stack); n > 0 {
				top := stack[n-1]
				stack = stack[:n-1]
				spans = append(spans, common.Span{
					Text:       top.name,
					Start:      top.start,
					End:        plain.Len(),
					Label:      common.LabelPerson,
					Confidence: 1.0,
				})
			}
			i += len(closeTag)
			continue
		}
		if loc := openTagRe.FindStringSubmatchIndex(annotated[i:]); loc != nil && loc[0] == 0 {
			name := annotated[i+loc[2] : i+loc[3]]
			stack = append(stack, open{name: name, start: plain.Len()})
			i += loc[1]
			continue
		}
		plain.WriteByte(annotated[i])
		i++
	}

	for n := len(stack); n > 0; n-- {
		top := stack[n-1]
		spans = append(spans, common.Span{
			Text:       top.name,
			Start:      top.start,
			End:        plain.Len(),
			Label:      common.LabelPerson,
			Confidence: 1.0,
		})
	}

	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End < spans[j].End
	})
	return plain.String(), spans
}
