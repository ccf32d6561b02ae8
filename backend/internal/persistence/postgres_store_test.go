package persistence

import (
	"context"
	"os"
	"testing"

	"socialgraph/backend/internal/graph"
	"socialgraph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestPostgresStore requires a running PostgreSQL instance.
// Set POSTGRES_TEST_URL to run it.
func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	ctx := context.Background()
	store, err := OpenPostgres(ctx, url)
	require.NoError(t, err)
	defer store.Close(ctx)

	_, err = store.pool.Exec(ctx, `TRUNCATE graph_snapshots`)
	require.NoError(t, err)

	_, err = store.Load(ctx)
	assert.True(t, IsEmpty(err))

	g := sampleGraph(t)
	first := g.Save()
	require.NoError(t, store.Save(ctx, first))

	_, err = g.CreatePost("bob", "later")
	require.NoError(t, err)
	second := g.Save()
	require.NoError(t, store.Save(ctx, second))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)
	assert.Equal(t, second.Items, loaded.Items)

	dst := graph.New(zap.NewNop())
	require.NoError(t, dst.Load(loaded))
	assert.Equal(t, g.Stats(), dst.Stats())
}

func TestOpenPostgres_BadConfig(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "postgres://%zz")
	assert.ErrorIs(t, err, errors.ErrPersistence)
}
