package pipeline

import (
	"context"

	"github.com/parlagraph/parlagraph/pkg/graph"
	loaderio "github.com/parlagraph/parlagraph/pkg/loader/io"
	"github.com/parlagraph/parlagraph/pkg/logger"
	"github.com/parlagraph/parlagraph/pkg/resolver"
)

// BuildCorpusGraph folds every annotated transcript in dir into a single
// mention graph. Documents are consumed in sorted filename order so the
// resolver sees names in a stable sequence; a document that cannot be
// read is logged and skipped.
func BuildCorpusGraph(ctx context.Context, dir string) (*graph.MentionGraph, error) {
	corpus := loaderio.NewDirLoader(loaderio.NewDirLoaderParams{
		Dir:       dir,
		Extension: AnnotatedSuffix,
	})
	docs, err := corpus.List(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("building mention graph", "documents", len(docs), "input", dir)

	builder := graph.NewBuilder(resolver.New())
	for _, doc := range docs {
		text, err := corpus.Text(ctx, doc)
		if err != nil {
			logger.Error("skipping document", "document", doc.Name, "error", err)
			continue
		}
		builder.AddDocument(text)
	}

	g := builder.Graph()
	logger.Info("mention graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())
	return g, nil
}
