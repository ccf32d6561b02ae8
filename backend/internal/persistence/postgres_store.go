package persistence

import (
	"context"
	"encoding/json"
	"time"

	"socialgraph/backend/internal/graph"
	"socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PostgresSchema creates the snapshot table. It is safe to run repeatedly.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS graph_snapshots (
	id          UUID PRIMARY KEY,
	version     INTEGER NOT NULL,
	saved_at    TIMESTAMPTZ NOT NULL,
	accounts    INTEGER NOT NULL,
	items       INTEGER NOT NULL,
	body        JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS graph_snapshots_saved_at_idx ON graph_snapshots (saved_at DESC);
`

// snapshotsKept is how many snapshots survive each save
const snapshotsKept = 10

// PostgresStore appends snapshots as JSONB rows and loads the newest one
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// OpenPostgres connects, verifies the connection and bootstraps the schema
func OpenPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, errors.NewPersistenceFailure("parse postgres config", err)
	}

	cfg.MaxConns = 4
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.NewPersistenceFailure("connect to postgres", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewPersistenceFailure("ping postgres", err)
	}

	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		pool.Close()
		return nil, errors.NewPersistenceFailure("bootstrap postgres schema", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: logger.Named("persistence.postgres"),
	}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

// Close shuts down the connection pool
func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

// Save inserts snap and prunes all but the newest snapshots
func (s *PostgresStore) Save(ctx context.Context, snap *graph.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return errors.NewPersistenceFailure("encode snapshot", err)
	}

	err = pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_snapshots (id, version, saved_at, accounts, items, body)
			 VALUES ($1::text::uuid, $2, $3, $4, $5, $6)`,
			snap.ID, snap.Version, snap.SavedAt, len(snap.Accounts), len(snap.Items), body,
		); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM graph_snapshots
			 WHERE id NOT IN (SELECT id FROM graph_snapshots ORDER BY saved_at DESC LIMIT $1)`,
			snapshotsKept,
		)
		return err
	})
	if err != nil {
		return errors.NewPersistenceFailure("save snapshot to postgres", err)
	}

	s.logger.Info("Snapshot saved",
		zap.String("snapshot_id", snap.ID),
		zap.Int("bytes", len(body)),
	)
	return nil
}

// Load returns the newest stored snapshot
func (s *PostgresStore) Load(ctx context.Context) (*graph.Snapshot, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM graph_snapshots ORDER BY saved_at DESC LIMIT 1`,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.NewPersistenceFailure("load snapshot from postgres", ErrNoSnapshot)
		}
		return nil, errors.NewPersistenceFailure("load snapshot from postgres", err)
	}

	var snap graph.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, errors.NewPersistenceFailure("decode snapshot", err)
	}
	return &snap, nil
}
