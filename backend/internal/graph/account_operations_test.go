package graph

import (
	"strings"
	"testing"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount_HandleValidation(t *testing.T) {
	tests := []struct {
		name    string
		handle  string
		wantErr error
	}{
		{name: "simple handle", handle: "alice"},
		{name: "exactly 30 characters", handle: strings.Repeat("a", 30)},
		{name: "multibyte characters count once", handle: strings.Repeat("é", 30)},
		{name: "empty", handle: "", wantErr: errors.ErrInvalidHandle},
		{name: "31 characters", handle: strings.Repeat("a", 31), wantErr: errors.ErrInvalidHandle},
		{name: "inner space", handle: "al ice", wantErr: errors.ErrInvalidHandle},
		{name: "tab", handle: "alice\t", wantErr: errors.ErrInvalidHandle},
		{name: "newline", handle: "\nalice", wantErr: errors.ErrInvalidHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t)
			id, err := g.CreateAccount(tt.handle, "")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 0, g.AccountCount())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, id)
		})
	}
}

func TestCreateAccount_DistinctIDsAndDuplicates(t *testing.T) {
	g := newTestGraph(t)

	a, err := g.CreateAccount("alice", "first")
	require.NoError(t, err)
	b, err := g.CreateAccount("bob", "")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	before := g.Accounts()
	_, err = g.CreateAccount("alice", "again")
	assert.ErrorIs(t, err, errors.ErrHandleTaken)

	var taken *errors.ErrHandleInUse
	require.ErrorAs(t, err, &taken)
	assert.Equal(t, "alice", taken.Handle)
	assert.Equal(t, before, g.Accounts())

	// A failed attempt does not consume an id.
	c, err := g.CreateAccount("carol", "")
	require.NoError(t, err)
	assert.Equal(t, 3, c)
}

func TestRemoveAccount_FreesHandleButNotID(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.CreateAccount("alice", "")
	require.NoError(t, err)

	require.NoError(t, g.RemoveAccount("alice"))
	assert.Equal(t, 0, g.AccountCount())

	id, err := g.CreateAccount("alice", "")
	require.NoError(t, err)
	assert.Equal(t, 2, id)

	assert.ErrorIs(t, g.RemoveAccount("nobody"), errors.ErrAccountNotFound)
	assert.ErrorIs(t, g.RemoveAccountByID(1), errors.ErrAccountNotFound)
	require.NoError(t, g.RemoveAccountByID(2))
}

func TestRemoveAccount_TombstonesAuthoredContent(t *testing.T) {
	g := scenarioGraph(t)
	_, err := g.CreateAccount("carol", "")
	require.NoError(t, err)
	// carol endorses alice's post and replies to bob's comment
	_, err = g.Endorse("carol", 1)
	require.NoError(t, err)
	_, err = g.CreateComment("carol", 2, "nice")
	require.NoError(t, err)

	alice, err := g.Summary("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, alice.EndorsementCount)

	require.NoError(t, g.RemoveAccount("alice"))

	// alice's post 1 and endorsement 3 are gone, and so is carol's
	// endorsement 4 of post 1.
	for _, id := range []int{1, 3, 4} {
		item, err := g.Item(id)
		require.NoError(t, err)
		assert.Equal(t, KindTombstone, item.Kind, "item %d", id)
		assert.Equal(t, constants.RemovedMessage, item.Message)
	}

	// bob's comment survives under the tombstone; it lost alice's endorsement
	comment, err := g.Item(2)
	require.NoError(t, err)
	assert.Equal(t, KindComment, comment.Kind)
	assert.Equal(t, 1, comment.ParentID)

	bob, err := g.Summary("bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.PostCount)
	assert.Equal(t, 0, bob.EndorsementCount)

	carol, err := g.Summary("carol")
	require.NoError(t, err)
	assert.Equal(t, 1, carol.PostCount)

	_, err = g.Summary("alice")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	requireConsistent(t, g)
}

func TestRemoveAccount_SelfEndorsement(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.CreateAccount("alice", "")
	require.NoError(t, err)
	post, err := g.CreatePost("alice", "me")
	require.NoError(t, err)
	_, err = g.Endorse("alice", post)
	require.NoError(t, err)

	require.NoError(t, g.RemoveAccount("alice"))
	assert.Equal(t, 2, g.LiveCount(KindTombstone))
	requireConsistent(t, g)
}

func TestRenameHandle(t *testing.T) {
	g := scenarioGraph(t)

	assert.ErrorIs(t, g.RenameHandle("alice", "bob"), errors.ErrHandleTaken)
	assert.ErrorIs(t, g.RenameHandle("alice", "alice"), errors.ErrHandleTaken)
	assert.ErrorIs(t, g.RenameHandle("alice", "a l"), errors.ErrInvalidHandle)
	assert.ErrorIs(t, g.RenameHandle("zed", "zed2"), errors.ErrAccountNotFound)

	require.NoError(t, g.RenameHandle("alice", "alicia"))

	post, err := g.Item(1)
	require.NoError(t, err)
	assert.Equal(t, "alicia", post.AuthorHandle)
	endorsement, err := g.Item(3)
	require.NoError(t, err)
	assert.Equal(t, "alicia", endorsement.AuthorHandle)
	comment, err := g.Item(2)
	require.NoError(t, err)
	assert.Equal(t, "bob", comment.AuthorHandle)

	_, err = g.Summary("alice")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	summary, err := g.Summary("alicia")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ID)

	// the old handle is free again
	_, err = g.CreateAccount("alice", "")
	require.NoError(t, err)
	requireConsistent(t, g)
}

func TestRenameHandle_LeavesTombstonesAlone(t *testing.T) {
	g := scenarioGraph(t)
	require.NoError(t, g.Delete(1))
	require.NoError(t, g.RenameHandle("alice", "alicia"))

	post, err := g.Item(1)
	require.NoError(t, err)
	assert.Equal(t, KindTombstone, post.Kind)
	assert.Empty(t, post.AuthorHandle)
}

func TestUpdateDescriptionAndSummary(t *testing.T) {
	g := newTestGraph(t)
	id, err := g.CreateAccount("alice", "old")
	require.NoError(t, err)

	require.NoError(t, g.UpdateDescription("alice", "new"))
	assert.ErrorIs(t, g.UpdateDescription("bob", "x"), errors.ErrAccountNotFound)

	summary, err := g.Summary("alice")
	require.NoError(t, err)
	assert.Equal(t, AccountSummary{ID: id, Handle: "alice", Description: "new"}, summary)

	byID, err := g.SummaryByID(id)
	require.NoError(t, err)
	assert.Equal(t, summary, byID)

	_, err = g.SummaryByID(99)
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
}
