// Package gexffile stores mention graphs as GEXF files in a directory.
package gexffile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/store"
)

const (
	idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	idLength   = 12
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9à-üÀ-Ü._-]+`)

// Store persists graphs as "<name>_<id>.gexf" files under one directory.
type Store struct {
	dir string
}

// New creates the directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Save writes g as a new GEXF file and returns its record. The write
// goes through a temp file and rename so a failed save never leaves a
// truncated graph behind.
func (s *Store) Save(
	_ context.Context,
	name string,
	g *graph.MentionGraph,
) (store.GraphRecord, error) {
	id, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return store.GraphRecord{}, err
	}

	safeName := unsafeNameRe.ReplaceAllString(name, "-")
	if safeName == "" {
		safeName = "graph"
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s_%s.gexf", safeName, id))

	tmp, err := os.CreateTemp(s.dir, ".tmp-*.gexf")
	if err != nil {
		return store.GraphRecord{}, err
	}
	defer os.Remove(tmp.Name())

	if err := graph.EncodeGEXF(tmp, g); err != nil {
		tmp.Close()
		return store.GraphRecord{}, err
	}
	if err := tmp.Close(); err != nil {
		return store.GraphRecord{}, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return store.GraphRecord{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return store.GraphRecord{}, err
	}
	return store.GraphRecord{
		ID:        id,
		Name:      safeName,
		CreatedAt: info.ModTime(),
	}, nil
}

// Load reads back the graph stored under id.
func (s *Store) Load(ctx context.Context, id string) (*graph.MentionGraph, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		f, err := os.Open(s.path(rec))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return graph.DecodeGEXF(f)
	}
	return nil, store.ErrNotFound
}

// List enumerates the stored graphs, newest first.
func (s *Store) List(_ context.Context) ([]store.GraphRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var records []store.GraphRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".gexf") || strings.HasPrefix(name, ".") {
			continue
		}
		base := strings.TrimSuffix(name, ".gexf")
		sep := strings.LastIndex(base, "_")
		if sep <= 0 || sep == len(base)-1 {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		records = append(records, store.GraphRecord{
			ID:        base[sep+1:],
			Name:      base[:sep],
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

func (s *Store) path(rec store.GraphRecord) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.gexf", rec.Name, rec.ID))
}
