package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"socialgraph/backend/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRecordHelpers(t *testing.T) {
	saved := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	record := &neo4j.Record{
		Keys:   []string{"id", "handle", "count", "missing", "saved_at"},
		Values: []interface{}{int64(7), "alice", 3, nil, saved.Format(time.RFC3339Nano)},
	}

	assert.Equal(t, 7, getIntFromRecord(record, "id"))
	assert.Equal(t, 3, getIntFromRecord(record, "count"))
	assert.Equal(t, 0, getIntFromRecord(record, "missing"))
	assert.Equal(t, 0, getIntFromRecord(record, "handle"))
	assert.Equal(t, "alice", getStringFromRecord(record, "handle"))
	assert.Equal(t, "", getStringFromRecord(record, "nope"))
	assert.True(t, saved.Equal(getTimeFromRecord(record, "saved_at")))
	assert.True(t, getTimeFromRecord(record, "handle").IsZero())
}

func TestItemParamsRoundTripThroughRecords(t *testing.T) {
	snap := sampleGraph(t).Save()

	for i, param := range itemParams(snap.Items) {
		fields := param.(map[string]interface{})
		record := &neo4j.Record{}
		for k, v := range fields {
			record.Keys = append(record.Keys, k)
			record.Values = append(record.Values, v)
		}
		assert.Equal(t, snap.Items[i], itemFromRecord(record))
	}

	for i, param := range accountParams(snap.Accounts) {
		fields := param.(map[string]interface{})
		record := &neo4j.Record{}
		for k, v := range fields {
			record.Keys = append(record.Keys, k)
			record.Values = append(record.Values, v)
		}
		assert.Equal(t, snap.Accounts[i], accountFromRecord(record))
	}

	meta := snapshotParams(snap)
	record := &neo4j.Record{
		Keys:   []string{"id", "version", "saved_at", "last_account_id", "last_content_id"},
		Values: []interface{}{meta["id"], meta["version"], meta["savedAt"], meta["lastAccountID"], meta["lastContentID"]},
	}
	decoded := snapshotFromRecord(record)
	assert.Equal(t, snap.ID, decoded.ID)
	assert.Equal(t, snap.LastContentID, decoded.LastContentID)
	assert.True(t, snap.SavedAt.Equal(decoded.SavedAt))
}

// TestNeo4jStore_RoundTrip requires a running Neo4j instance.
// Set NEO4J_TEST_URI (and NEO4J_USER, NEO4J_PASSWORD) to run it.
func TestNeo4jStore_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	uri := os.Getenv("NEO4J_TEST_URI")
	if uri == "" {
		t.Skip("NEO4J_TEST_URI not set")
	}

	ctx := context.Background()
	store, err := OpenNeo4j(ctx, uri, os.Getenv("NEO4J_USER"), os.Getenv("NEO4J_PASSWORD"))
	require.NoError(t, err)
	defer store.Close(ctx)

	src := sampleGraph(t)
	snap := src.Save()
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Accounts, loaded.Accounts)
	assert.Equal(t, snap.Items, loaded.Items)

	dst := graph.New(zap.NewNop())
	require.NoError(t, dst.Load(loaded))
	assert.Equal(t, src.Stats(), dst.Stats())
}
