// Package persistence saves and restores graph snapshots. Three backends
// are available: a JSON file, a Neo4j database holding the graph as nodes
// and relationships, and a PostgreSQL table of JSON snapshots.
package persistence

import (
	"context"

	"socialgraph/backend/internal/graph"
	"socialgraph/backend/pkg/config"
	"socialgraph/backend/pkg/errors"
)

// ErrNoSnapshot is wrapped into the load error when a store holds nothing yet
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store persists whole-graph snapshots. Every error a Store returns is a
// PersistenceFailure.
type Store interface {
	Save(ctx context.Context, snap *graph.Snapshot) error
	Load(ctx context.Context) (*graph.Snapshot, error)
	Close(ctx context.Context) error
	Name() string
}

// Open builds the store selected by cfg. It returns nil, nil when
// snapshots are disabled.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.SnapshotBackend {
	case config.BackendNone:
		return nil, nil
	case config.BackendFile:
		return NewFileStore(cfg.SnapshotPath), nil
	case config.BackendNeo4j:
		store, err := OpenNeo4j(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendPostgres:
		store, err := OpenPostgres(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.NewConfigValidationFailed("SNAPSHOT_BACKEND", "unknown backend "+cfg.SnapshotBackend)
	}
}

// IsEmpty reports whether err only says that nothing has been saved yet
func IsEmpty(err error) bool {
	return errors.Is(err, ErrNoSnapshot)
}
