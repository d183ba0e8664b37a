// Package pipeline wires the extraction, annotation and graph stages
// over whole transcript corpora.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"golang.org/x/sync/errgroup"

	"github.com/parlagraph/parlagraph/pkg/extract"
	loaderio "github.com/parlagraph/parlagraph/pkg/loader/io"
	"github.com/parlagraph/parlagraph/pkg/logger"
	"github.com/parlagraph/parlagraph/pkg/ner"
)

const (
	// AnnotatedSuffix marks files holding tagged transcript text.
	AnnotatedSuffix = ".annotated.txt"
	// GroupedSuffix marks the per-document grouped-entity JSON files.
	GroupedSuffix = ".grouped_entities.json"

	defaultParallelism = 4
)

// AnnotateParams configures one corpus annotation run.
type AnnotateParams struct {
	InputDir  string `validate:"required"`
	OutputDir string `validate:"required"`

	// Classifier is the optional model collaborator. Without it only
	// the rule patterns find mentions.
	Classifier ner.TokenClassifier

	// Parallelism bounds concurrent document annotation. Annotation has
	// no shared state, unlike the graph build, so documents can be
	// processed in parallel safely.
	Parallelism int
}

// AnnotateResult counts the outcome of an annotation run.
type AnnotateResult struct {
	Processed int
	Skipped   int
}

// AnnotateCorpus extracts person mentions from every transcript in
// InputDir and writes a grouped-entity JSON plus an annotated text file
// per document into OutputDir. A document that fails is logged and
// skipped; only resource-level failures abort the run.
func AnnotateCorpus(ctx context.Context, params AnnotateParams) (AnnotateResult, error) {
	var result AnnotateResult
	if err := validator.New().Struct(params); err != nil {
		return result, err
	}
	parallelism := params.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
		return result, err
	}

	corpus := loaderio.NewDirLoader(loaderio.NewDirLoaderParams{
		Dir:          params.InputDir,
		SkipSuffixes: []string{AnnotatedSuffix},
	})
	docs, err := corpus.List(ctx)
	if err != nil {
		return result, err
	}
	logger.Info("annotating corpus", "documents", len(docs), "input", params.InputDir)

	extractor := extract.New(params.Classifier)

	var mu sync.Mutex
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, doc := range docs {
		d := doc
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
			}

			text, err := corpus.Text(gCtx, d)
			if err == nil {
				err = annotateDocument(gCtx, extractor, d.Name, text, params.OutputDir)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Error("skipping document", "document", d.Name, "error", err)
				result.Skipped++
				return nil
			}
			result.Processed++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	logger.Info("annotation finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
	)
	return result, nil
}

func annotateDocument(
	ctx context.Context,
	extractor *extract.Extractor,
	name string,
	text string,
	outputDir string,
) error {
	spans, err := extractor.Extract(ctx, text)
	if err != nil {
		return err
	}
	grouped := extract.GroupPersons(spans)

	base := strings.TrimSuffix(name, filepath.Ext(name))

	data, err := json.MarshalIndent(grouped, "", "    ")
	if err != nil {
		return err
	}
	groupedPath := filepath.Join(outputDir, base+GroupedSuffix)
	if err := os.WriteFile(groupedPath, data, 0o644); err != nil {
		return err
	}

	annotated := extract.Annotate(text, grouped)
	annotatedPath := filepath.Join(outputDir, base+AnnotatedSuffix)
	if err := os.WriteFile(annotatedPath, []byte(annotated), 0o644); err != nil {
		return err
	}

	logger.Debug("annotated document",
		"document", name,
		"groups", len(grouped),
	)
	return nil
}
