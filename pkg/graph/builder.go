package graph

import (
	"github.com/parlagraph/parlagraph/pkg/resolver"
	"github.com/parlagraph/parlagraph/pkg/segment"
)

// Builder folds annotated documents into one MentionGraph.
//
// Building is two-phase. While documents are added their names are
// resolved once, which lets the shared resolver absorb every variant in
// the corpus. The graph itself is folded when Graph is called: by then
// canonical names are stable, so a person first seen under a short
// variant ("Soraya") and later under a longer one ("SORAYA THRONICKE")
// lands on a single node instead of one per transient canonical.
type Builder struct {
	segmenter *segment.Segmenter
	docs      []string
}

// NewBuilder creates a Builder whose segments resolve through r.
func NewBuilder(r *resolver.Resolver) *Builder {
	return &Builder{segmenter: segment.New(r)}
}

// AddDocument registers one annotated document. Its tagged names are
// resolved immediately so later documents can merge into them. Add
// documents in sorted file-name order to keep builds reproducible.
func (b *Builder) AddDocument(annotated string) {
	b.docs = append(b.docs, annotated)
	b.segmenter.Segment(annotated)
}

// Graph segments the registered documents a second time, now with the
// full corpus variant set behind every resolution, and folds the
// attributed speeches into a fresh MentionGraph.
func (b *Builder) Graph() *MentionGraph {
	g := NewMentionGraph()
	for _, annotated := range b.docs {
		for _, seg := range b.segmenter.Segment(annotated) {
			g.AddSegment(seg)
		}
	}
	return g
}
