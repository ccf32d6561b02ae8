package format

import (
	"testing"

	"socialgraph/backend/internal/graph"

	"github.com/stretchr/testify/assert"
)

func TestAccount(t *testing.T) {
	got := Account(graph.AccountSummary{ID: 3, Handle: "alice", Description: "hi there", PostCount: 2, EndorsementCount: 5})
	assert.Equal(t, "ID: 3\nHandle: alice\nDescription: hi there\nPost count: 2\nEndorsement count: 5", got)
}

func TestPost(t *testing.T) {
	tests := []struct {
		name string
		post graph.RenderedPost
		want string
	}{
		{
			name: "post",
			post: graph.RenderedPost{ID: 1, Kind: graph.KindPost, AuthorHandle: "alice", Message: "hello", Endorsements: 2, Comments: 1},
			want: "ID: 1\nAccount: alice\nNo. endorsements: 2 | No. comments: 1\nhello",
		},
		{
			name: "endorsement",
			post: graph.RenderedPost{ID: 4, Kind: graph.KindEndorsement, AuthorHandle: "bob", Message: "EP: hello"},
			want: "EP@bob: EP: hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Post(tt.post))
		})
	}
}

func TestStats(t *testing.T) {
	assert.Equal(t, "Accounts: 0\nPosts: 0 | Comments: 0 | Endorsements: 0\nRemoved: 0", Stats(graph.Stats{}))

	got := Stats(graph.Stats{Accounts: 2, Posts: 1, Comments: 1, Endorsements: 1, MostEndorsedContentID: 2, MostEndorsedAccountID: 2})
	assert.Contains(t, got, "Most endorsed post: 2")
	assert.Contains(t, got, "Most endorsed account: 2")
}
