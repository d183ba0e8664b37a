// Package store persists built mention graphs and lists them back.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/parlagraph/parlagraph/pkg/graph"
)

// ErrNotFound is returned when the requested graph does not exist.
var ErrNotFound = errors.New("graph not found")

// GraphRecord is the stored metadata of one persisted graph.
type GraphRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GraphStore persists mention graphs under generated IDs.
type GraphStore interface {
	Save(ctx context.Context, name string, g *graph.MentionGraph) (GraphRecord, error)
	Load(ctx context.Context, id string) (*graph.MentionGraph, error)
	List(ctx context.Context) ([]GraphRecord, error)
}
