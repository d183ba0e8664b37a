// Package io loads transcript documents from a local directory.
package io

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/parlagraph/parlagraph/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// DirLoader reads a corpus from one directory on disk. File contents
// are cached after the first read; the graph build reads every document
// twice, so the cache halves the I/O.
type DirLoader struct {
	dir          string
	extension    string
	skipSuffixes []string

	cache   map[string]string
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewDirLoaderParams configures a DirLoader.
type NewDirLoaderParams struct {
	Dir string
	// Extension filters the listing, defaulting to ".txt".
	Extension string
	// SkipSuffixes drops files whose names end in any of the given
	// suffixes, e.g. ".annotated.txt" when listing raw transcripts.
	SkipSuffixes []string
}

// NewDirLoader creates a loader over params.Dir.
func NewDirLoader(params NewDirLoaderParams) *DirLoader {
	ext := params.Extension
	if ext == "" {
		ext = ".txt"
	}
	return &DirLoader{
		dir:          params.Dir,
		extension:    ext,
		skipSuffixes: params.SkipSuffixes,
		cache:        make(map[string]string),
	}
}

// List enumerates matching files sorted by name.
func (l *DirLoader) List(_ context.Context) ([]loader.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var docs []loader.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, l.extension) {
			continue
		}
		skip := false
		for _, suffix := range l.skipSuffixes {
			if strings.HasSuffix(name, suffix) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		docs = append(docs, loader.Document{
			Name: name,
			Path: filepath.Join(l.dir, name),
		})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// Text returns the document content. Results are cached, with
// concurrent first reads of the same file collapsed into one.
func (l *DirLoader) Text(_ context.Context, doc loader.Document) (string, error) {
	l.cacheMu.RLock()
	if cached, ok := l.cache[doc.Path]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(doc.Path, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[doc.Path]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		data, err := os.ReadFile(doc.Path)
		if err != nil {
			return nil, err
		}
		text := string(data)

		l.cacheMu.Lock()
		l.cache[doc.Path] = text
		l.cacheMu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}
