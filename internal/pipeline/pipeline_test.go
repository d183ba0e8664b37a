package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parlagraph/parlagraph/pkg/extract"
)

const sessionText = "O SR. PRESIDENTE (João Silva. PT - SP) declarou aberta a sessão. " +
	"O SR. PRESIDENTE (João Silva. PT - SP) agradeceu."

func TestAnnotateCorpus(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(inputDir, "sessao1.txt"), []byte(sessionText), 0o644); err != nil {
		t.Fatal(err)
	}
	// A leftover annotated file in the input directory is not a raw
	// transcript and must not be picked up.
	if err := os.WriteFile(filepath.Join(inputDir, "old.annotated.txt"), []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := AnnotateCorpus(context.Background(), AnnotateParams{
		InputDir:  inputDir,
		OutputDir: outputDir,
	})
	if err != nil {
		t.Fatalf("AnnotateCorpus: %v", err)
	}
	if result.Processed != 1 || result.Skipped != 0 {
		t.Fatalf("result = %+v, want 1 processed, 0 skipped", result)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "sessao1.grouped_entities.json"))
	if err != nil {
		t.Fatalf("grouped file: %v", err)
	}
	var grouped extract.Grouped
	if err := json.Unmarshal(data, &grouped); err != nil {
		t.Fatalf("grouped json: %v", err)
	}
	occs, ok := grouped["João Silva"]
	if !ok {
		t.Fatalf("grouped = %v, want a João Silva group", grouped)
	}
	if len(occs) != 2 {
		t.Errorf("occurrences = %v, want 2", occs)
	}

	annotated, err := os.ReadFile(filepath.Join(outputDir, "sessao1.annotated.txt"))
	if err != nil {
		t.Fatalf("annotated file: %v", err)
	}
	if !strings.Contains(string(annotated), "<PESSOA:João Silva>") {
		t.Errorf("annotated output missing tag: %q", annotated)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "old.annotated.txt")); !os.IsNotExist(err) {
		t.Errorf("stale annotated input was processed")
	}
}

func TestAnnotateCorpusValidatesParams(t *testing.T) {
	if _, err := AnnotateCorpus(context.Background(), AnnotateParams{OutputDir: "x"}); err == nil {
		t.Error("expected validation error for missing input dir")
	}
	if _, err := AnnotateCorpus(context.Background(), AnnotateParams{InputDir: "x"}); err == nil {
		t.Error("expected validation error for missing output dir")
	}
}

func TestBuildCorpusGraphFromAnnotatedFiles(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(inputDir, "sessao1.txt"), []byte(sessionText), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := AnnotateCorpus(context.Background(), AnnotateParams{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}); err != nil {
		t.Fatalf("AnnotateCorpus: %v", err)
	}

	g, err := BuildCorpusGraph(context.Background(), outputDir)
	if err != nil {
		t.Fatalf("BuildCorpusGraph: %v", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("node count = %d, nodes = %v", g.NodeCount(), g.Nodes())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("edge count = %d, edges = %v", g.EdgeCount(), g.Edges())
	}
}
