// Package resolver clusters raw person-name mentions into canonical
// identities. Name variants produced by transcript conventions (honorifics,
// party/state suffixes, partial names, reordered tokens) are folded onto a
// shared identity record; ambiguous matches are parked in a conflict set so
// they can never be silently absorbed into the wrong cluster.
package resolver

import (
	"sort"
	"sync"

	"github.com/parlagraph/parlagraph/pkg/common"
	"github.com/parlagraph/parlagraph/pkg/logger"
)

const (
	// matchThreshold is the minimum token-set similarity for two
	// normalized keys to be considered the same person.
	matchThreshold = 85

	// confidenceMargin is how far the best candidate must sit above the
	// runner-up before a multi-candidate match is trusted.
	confidenceMargin = 10
)

type record struct {
	canonical string
	variants  map[string]struct{}
}

func (r *record) addVariant(raw string) {
	r.variants[raw] = struct{}{}
	r.canonical = longestVariant(r.variants)
}

// longestVariant picks the longest string in the set; ties break
// lexicographically so repeated runs converge on the same canonical form.
func longestVariant(variants map[string]struct{}) string {
	best := ""
	for v := range variants {
		if len(v) > len(best) || (len(v) == len(best) && v < best) {
			best = v
		}
	}
	return best
}

// Resolver maps raw names to canonical identities for one processing
// session. It is safe for concurrent use; all mutation happens behind a
// single lock, which keeps variant merging and conflict detection
// race-free when document extraction runs in parallel.
type Resolver struct {
	mu        sync.Mutex
	byKey     map[string]*record
	conflicts map[string]struct{}
}

// New creates an empty resolver. One resolver instance covers one corpus
// run; state is never shared across runs.
func New() *Resolver {
	return &Resolver{
		byKey:     make(map[string]*record),
		conflicts: make(map[string]struct{}),
	}
}

// Resolve returns the canonical name for a raw mention, creating or
// merging identity records as needed. Every branch is total: malformed
// input degrades to returning the raw name unchanged, never an error.
func (r *Resolver) Resolve(raw string) string {
	if raw == "" {
		return raw
	}

	key := Normalize(raw)
	if key == "" {
		return raw
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, conflicted := r.conflicts[key]; conflicted {
		return raw
	}

	if rec, ok := r.byKey[key]; ok {
		rec.variants[raw] = struct{}{}
		if len(raw) > len(rec.canonical) {
			rec.canonical = raw
		}
		return rec.canonical
	}

	candidates := r.findCandidates(key)

	switch {
	case len(candidates) == 0:
		rec := &record{
			canonical: raw,
			variants:  map[string]struct{}{raw: {}},
		}
		r.byKey[key] = rec
		return raw

	case len(candidates) == 1:
		return r.merge(key, raw, candidates[0].rec)

	default:
		if candidates[0].score-candidates[1].score >= confidenceMargin {
			return r.merge(key, raw, candidates[0].rec)
		}
		logger.Debug("ambiguous identity match, keeping name distinct",
			"name", raw, "key", key,
			"top", candidates[0].key, "second", candidates[1].key)
		r.conflicts[key] = struct{}{}
		return raw
	}
}

type candidate struct {
	key   string
	rec   *record
	score int
}

// findCandidates scores key against every non-conflicted existing key and
// returns the distinct identities scoring at or above the threshold, best
// first. Multiple keys aliasing the same record count once, at their best
// score. Keys are visited in sorted order so near-ties resolve identically
// across runs.
func (r *Resolver) findCandidates(key string) []candidate {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best := make(map[*record]candidate)
	for _, existing := range keys {
		if _, conflicted := r.conflicts[existing]; conflicted {
			continue
		}
		score := TokenSetRatio(key, existing)
		if score < matchThreshold {
			continue
		}
		rec := r.byKey[existing]
		if prev, ok := best[rec]; !ok || score > prev.score {
			best[rec] = candidate{key: existing, rec: rec, score: score}
		}
	}

	candidates := make([]candidate, 0, len(best))
	for _, c := range best {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].key < candidates[j].key
	})
	return candidates
}

func (r *Resolver) merge(key, raw string, rec *record) string {
	rec.addVariant(raw)
	r.byKey[key] = rec
	return rec.canonical
}

// Identities returns a snapshot of all resolved identities, sorted by
// canonical name. Variant lists are sorted copies.
func (r *Resolver) Identities() []common.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[*record]bool)
	identities := make([]common.Identity, 0, len(r.byKey))
	for _, rec := range r.byKey {
		if seen[rec] {
			continue
		}
		seen[rec] = true
		variants := make([]string, 0, len(rec.variants))
		for v := range rec.variants {
			variants = append(variants, v)
		}
		sort.Strings(variants)
		identities = append(identities, common.Identity{
			CanonicalName: rec.canonical,
			Variants:      variants,
		})
	}
	sort.Slice(identities, func(i, j int) bool {
		return identities[i].CanonicalName < identities[j].CanonicalName
	})
	return identities
}

// Conflicts returns the normalized keys parked as unresolvable, sorted.
func (r *Resolver) Conflicts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys := make([]string, 0, len(r.conflicts))
	for k := range r.conflicts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
