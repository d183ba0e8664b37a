package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/parlagraph/parlagraph/pkg/common"
	"github.com/parlagraph/parlagraph/pkg/resolver"
)

// groupThreshold is the token-set similarity two surface forms need to
// land in the same group within a single document.
const groupThreshold = 85

var groupPunctRe = regexp.MustCompile(`[.,;:!?()"\\]`)

// normalizeForGrouping lowercases, strips punctuation and collapses
// whitespace. Unlike the resolver's key normalization it keeps accents
// and honorifics: within one document the same person tends to appear
// under near-identical surface forms, so light normalization is enough.
func normalizeForGrouping(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = groupPunctRe.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

func similarNames(a, b string) bool {
	na := normalizeForGrouping(a)
	nb := normalizeForGrouping(b)
	if na == "" || nb == "" {
		return false
	}
	return resolver.TokenSetRatio(na, nb) >= groupThreshold
}

// Grouped maps a group's display name to every place it occurs in one
// document. The display name is the longest surface form in the group.
type Grouped map[string][]common.Occurrence

// GroupPersons clusters person spans from a single document. Spans are
// visited longest-first so the longest surface form claims the group
// name; each following span joins the first existing group it is
// similar to, or opens a new one. A joining span that is at least as
// long as the group name takes it over.
func GroupPersons(spans []common.Span) Grouped {
	sorted := make([]common.Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].Text) != len(sorted[j].Text) {
			return len(sorted[i].Text) > len(sorted[j].Text)
		}
		return sorted[i].Text < sorted[j].Text
	})

	grouped := make(map[string][]common.Occurrence)
	var order []string
	nameMap := make(map[string]string)

	appendOccurrence := func(name string, occ common.Occurrence) {
		for _, existing := range grouped[name] {
			if existing == occ {
				return
			}
		}
		grouped[name] = append(grouped[name], occ)
	}

	for _, s := range sorted {
		raw := s.Text
		if raw == "" {
			continue
		}
		occ := common.Occurrence{
			Start:      s.Start,
			End:        s.End,
			Confidence: math.Round(s.Confidence*1e4) / 1e4,
		}

		if canonical, ok := nameMap[raw]; ok {
			appendOccurrence(canonical, occ)
			continue
		}

		matched := false
		for i, canonical := range order {
			if _, live := grouped[canonical]; !live {
				continue
			}
			if !similarNames(raw, canonical) {
				continue
			}

			chosen := canonical
			if len(raw) >= len(canonical) {
				chosen = raw
			}
			if chosen != canonical {
				moved := grouped[canonical]
				delete(grouped, canonical)
				order[i] = chosen
				for _, p := range moved {
					appendOccurrence(chosen, p)
				}
				for k, v := range nameMap {
					if v == canonical {
						nameMap[k] = chosen
					}
				}
				nameMap[canonical] = chosen
			}

			appendOccurrence(chosen, occ)
			nameMap[raw] = chosen
			matched = true
			break
		}

		if !matched {
			grouped[raw] = []common.Occurrence{occ}
			order = append(order, raw)
			nameMap[raw] = raw
		}
	}

	out := make(Grouped, len(grouped))
	for name, occs := range grouped {
		sort.SliceStable(occs, func(i, j int) bool {
			if occs[i].Start != occs[j].Start {
				return occs[i].Start < occs[j].Start
			}
			return occs[i].End < occs[j].End
		})
		out[name] = occs
	}
	return out
}

// MarshalJSON renders the groups as {"name": [[start, end, confidence],
// ...]} with names ordered longest-first, then alphabetically, and
// occurrences by start offset. The ordering keeps output files diffable
// across runs.
func (g Grouped) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteByte('[')
		for j, occ := range g[name] {
			if j > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(&buf, "[%d,%d,%g]", occ.Start, occ.End, occ.Confidence)
		}
		buf.WriteByte(']')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the format produced by MarshalJSON. A trailing
// confidence element may be omitted, in which case it defaults to zero.
func (g *Grouped) UnmarshalJSON(data []byte) error {
	var raw map[string][][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Grouped, len(raw))
	for name, tuples := range raw {
		occs := make([]common.Occurrence, 0, len(tuples))
		for _, t := range tuples {
			if len(t) < 2 {
				return fmt.Errorf("occurrence for %q needs at least start and end", name)
			}
			occ := common.Occurrence{Start: int(t[0]), End: int(t[1])}
			if len(t) > 2 {
				occ.Confidence = t[2]
			}
			occs = append(occs, occ)
		}
		out[name] = occs
	}
	*g = out
	return nil
}
