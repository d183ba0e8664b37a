// Package pgx stores mention graphs in PostgreSQL.
package pgx

import (
	"context"
	"errors"
	"sync"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/parlagraph/parlagraph/pkg/graph"
	"github.com/parlagraph/parlagraph/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

const bootstrapDDL = `
CREATE TABLE IF NOT EXISTS graphs (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS graph_nodes (
	graph_id TEXT NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
	node_id  INTEGER NOT NULL,
	label    TEXT NOT NULL,
	PRIMARY KEY (graph_id, node_id)
);
CREATE TABLE IF NOT EXISTS graph_edges (
	graph_id TEXT NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
	source   INTEGER NOT NULL,
	target   INTEGER NOT NULL,
	weight   INTEGER NOT NULL,
	PRIMARY KEY (graph_id, source, target)
);`

// GraphDBStore implements store.GraphStore on PostgreSQL. Writes are
// serialized with a mutex since graph saves touch three tables.
type GraphDBStore struct {
	conn   pgxIConn
	dbLock sync.Mutex
}

// NewGraphDBStoreWithConnection wraps an existing connection or pool
// and creates the schema when it is missing.
func NewGraphDBStoreWithConnection(
	ctx context.Context,
	conn pgxIConn,
) (*GraphDBStore, error) {
	if _, err := conn.Exec(ctx, bootstrapDDL); err != nil {
		return nil, err
	}
	return &GraphDBStore{conn: conn}, nil
}

// Save writes g transactionally under a fresh ID.
func (s *GraphDBStore) Save(
	ctx context.Context,
	name string,
	g *graph.MentionGraph,
) (store.GraphRecord, error) {
	s.dbLock.Lock()
	defer s.dbLock.Unlock()

	id, err := gonanoid.New()
	if err != nil {
		return store.GraphRecord{}, err
	}
	createdAt := time.Now().UTC()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return store.GraphRecord{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO graphs (id, name, created_at) VALUES ($1, $2, $3)`,
		id, name, createdAt,
	)
	if err != nil {
		return store.GraphRecord{}, err
	}

	for _, n := range g.Nodes() {
		_, err = tx.Exec(ctx,
			`INSERT INTO graph_nodes (graph_id, node_id, label) VALUES ($1, $2, $3)`,
			id, n.ID, n.Label,
		)
		if err != nil {
			return store.GraphRecord{}, err
		}
	}
	for _, e := range g.Edges() {
		_, err = tx.Exec(ctx,
			`INSERT INTO graph_edges (graph_id, source, target, weight) VALUES ($1, $2, $3, $4)`,
			id, e.Source, e.Target, e.Weight,
		)
		if err != nil {
			return store.GraphRecord{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return store.GraphRecord{}, err
	}
	return store.GraphRecord{ID: id, Name: name, CreatedAt: createdAt}, nil
}

// Load rebuilds the graph stored under id.
func (s *GraphDBStore) Load(ctx context.Context, id string) (*graph.MentionGraph, error) {
	var name string
	err := s.conn.QueryRow(ctx,
		`SELECT name FROM graphs WHERE id = $1`, id,
	).Scan(&name)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	g := graph.NewMentionGraph()

	rows, err := s.conn.Query(ctx,
		`SELECT node_id, label FROM graph_nodes WHERE graph_id = $1 ORDER BY node_id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var nodeID int
		var label string
		if err := rows.Scan(&nodeID, &label); err != nil {
			return nil, err
		}
		g.SetNode(nodeID, label)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.conn.Query(ctx,
		`SELECT source, target, weight FROM graph_edges WHERE graph_id = $1 ORDER BY source, target`, id,
	)
	if err != nil {
		return nil, err
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var source, target, weight int
		if err := edgeRows.Scan(&source, &target, &weight); err != nil {
			return nil, err
		}
		g.SetEdge(source, target, weight)
	}
	if err := edgeRows.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// List returns the stored graph records, newest first.
func (s *GraphDBStore) List(ctx context.Context) ([]store.GraphRecord, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT id, name, created_at FROM graphs ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []store.GraphRecord
	for rows.Next() {
		var rec store.GraphRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
