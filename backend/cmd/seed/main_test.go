package main

import (
	"testing"
	"unicode/utf8"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/internal/graph"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPopulate(t *testing.T) {
	g := graph.New(zap.NewNop())

	top, err := populate(g, gofakeit.New(99), 12, 30)
	require.NoError(t, err)

	stats := g.Stats()
	assert.Equal(t, 12, stats.Accounts)
	assert.Equal(t, 30, stats.Posts+countRemovedPosts(g.Save()))
	assert.Equal(t, stats.MostEndorsedContentID, top)

	// the generated graph survives a save/load cycle unchanged
	restored := graph.New(zap.NewNop())
	require.NoError(t, restored.Load(g.Save()))
	assert.Equal(t, stats, restored.Stats())
}

func TestPopulate_IsDeterministicPerSeed(t *testing.T) {
	a := graph.New(zap.NewNop())
	b := graph.New(zap.NewNop())
	_, err := populate(a, gofakeit.New(5), 5, 10)
	require.NoError(t, err)
	_, err = populate(b, gofakeit.New(5), 5, 10)
	require.NoError(t, err)

	assert.Equal(t, a.Save().Items, b.Save().Items)
}

func TestPopulate_NoAccounts(t *testing.T) {
	top, err := populate(graph.New(zap.NewNop()), gofakeit.New(1), 0, 10)
	require.NoError(t, err)
	assert.Zero(t, top)
}

func TestFakeHandleAndMessage(t *testing.T) {
	faker := gofakeit.New(3)
	for i := 0; i < 200; i++ {
		h := fakeHandle(faker, i*1000)
		assert.LessOrEqual(t, utf8.RuneCountInString(h), constants.MaxHandleLength)
		assert.NotContains(t, h, " ")

		m := fakeMessage(faker)
		assert.NotEmpty(t, m)
		assert.LessOrEqual(t, utf8.RuneCountInString(m), constants.MaxMessageLength)
	}
}

func countRemovedPosts(snap *graph.Snapshot) int {
	n := 0
	for _, item := range snap.Items {
		if item.Kind == graph.KindTombstone && item.Replaced == graph.KindPost {
			n++
		}
	}
	return n
}
