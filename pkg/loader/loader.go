// Package loader defines how transcript corpora are enumerated and read.
package loader

import "context"

// Document identifies one transcript in a corpus.
type Document struct {
	Name string // base name, defines corpus processing order
	Path string
}

// DocumentLoader enumerates and reads the documents of one corpus.
// List returns documents sorted by name, because corpus processing
// order affects identity resolution and must be reproducible.
type DocumentLoader interface {
	List(ctx context.Context) ([]Document, error)
	Text(ctx context.Context, doc Document) (string, error)
}
