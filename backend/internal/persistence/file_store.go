package persistence

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"socialgraph/backend/internal/graph"
	"socialgraph/backend/pkg/errors"
	"socialgraph/backend/pkg/logger"

	"go.uber.org/zap"
)

// FileStore keeps the latest snapshot as an indented JSON document
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a store bound to path. The file is created on the
// first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.Named("persistence.file"),
	}
}

func (s *FileStore) Name() string { return "file" }

// Path returns the file the store writes to
func (s *FileStore) Path() string { return s.path }

// Save writes snap to a temporary file next to the target and renames it
// into place, so a crash never leaves a half-written snapshot behind.
func (s *FileStore) Save(ctx context.Context, snap *graph.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return errors.NewPersistenceFailure("save snapshot", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.NewPersistenceFailure("encode snapshot", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewPersistenceFailure("create snapshot directory", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.NewPersistenceFailure("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewPersistenceFailure("write snapshot", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewPersistenceFailure("sync snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewPersistenceFailure("close snapshot", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.NewPersistenceFailure("replace snapshot", err)
	}

	s.logger.Info("Snapshot saved",
		zap.String("path", s.path),
		zap.String("snapshot_id", snap.ID),
		zap.Int("bytes", len(data)),
	)
	return nil
}

// Load reads the snapshot file. A missing file is reported as ErrNoSnapshot.
func (s *FileStore) Load(ctx context.Context) (*graph.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewPersistenceFailure("load snapshot", err)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewPersistenceFailure("load snapshot", ErrNoSnapshot)
		}
		return nil, errors.NewPersistenceFailure("read snapshot", err)
	}

	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewPersistenceFailure("decode snapshot", err)
	}
	return &snap, nil
}

func (s *FileStore) Close(context.Context) error { return nil }
