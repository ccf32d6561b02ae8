package graph

import (
	"strings"
	"testing"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_Validation(t *testing.T) {
	g := newTestGraph(t)
	_, err := g.CreateAccount("alice", "")
	require.NoError(t, err)

	_, err = g.CreatePost("alice", "")
	assert.ErrorIs(t, err, errors.ErrInvalidContent)
	_, err = g.CreatePost("alice", strings.Repeat("x", 101))
	assert.ErrorIs(t, err, errors.ErrInvalidContent)
	// message rules are checked before the account
	_, err = g.CreatePost("nobody", "")
	assert.ErrorIs(t, err, errors.ErrInvalidContent)
	_, err = g.CreatePost("nobody", "hi")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)

	id, err := g.CreatePost("alice", strings.Repeat("x", 100))
	require.NoError(t, err)
	assert.Equal(t, 1, id, "failed attempts must not consume ids")

	summary, err := g.Summary("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PostCount)
}

func TestCreateComment_Validation(t *testing.T) {
	g := scenarioGraph(t)

	_, err := g.CreateComment("bob", 1, "")
	assert.ErrorIs(t, err, errors.ErrInvalidContent)
	_, err = g.CreateComment("nobody", 1, "x")
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	_, err = g.CreateComment("bob", 99, "x")
	assert.ErrorIs(t, err, errors.ErrTargetNotFound)
	_, err = g.CreateComment("bob", 3, "x")
	assert.ErrorIs(t, err, errors.ErrNotActionable)

	require.NoError(t, g.Delete(1))
	_, err = g.CreateComment("bob", 1, "x")
	assert.ErrorIs(t, err, errors.ErrTargetNotFound)

	// replying to a comment is fine, even under a tombstone
	id, err := g.CreateComment("alice", 2, "reply")
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	item, err := g.Item(id)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: 4, Kind: KindComment, AuthorID: 1, AuthorHandle: "alice", Message: "reply", ParentID: 2}, item)
}

func TestEndorse(t *testing.T) {
	g := scenarioGraph(t)

	alice, _ := g.Summary("alice")
	bob, _ := g.Summary("bob")
	assert.Equal(t, 0, alice.EndorsementCount)
	assert.Equal(t, 1, bob.EndorsementCount)
	assert.Equal(t, 1, alice.PostCount, "endorsements authored are not posts")

	item, err := g.Item(3)
	require.NoError(t, err)
	assert.Equal(t, KindEndorsement, item.Kind)
	assert.Equal(t, 2, item.TargetID)
	assert.Equal(t, constants.EndorsementPrefix+"hi", item.Message)

	_, err = g.Endorse("nobody", 1)
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)
	_, err = g.Endorse("bob", 42)
	assert.ErrorIs(t, err, errors.ErrTargetNotFound)

	_, err = g.Endorse("bob", 3)
	assert.ErrorIs(t, err, errors.ErrNotActionable)
	var na *errors.ErrEndorsementNotActionable
	require.ErrorAs(t, err, &na)
	assert.Equal(t, 3, na.ID)
}

func TestEndorse_EndorsementNeverActionable(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		g := fakeGraph(t, seed, 8, 80)
		handles := g.Accounts()
		require.NotEmpty(t, handles)

		for _, item := range g.Save().Items {
			if item.Kind != KindEndorsement {
				continue
			}
			for _, acc := range handles {
				_, err := g.Endorse(acc.Handle, item.ID)
				assert.ErrorIs(t, err, errors.ErrNotActionable)
			}
		}
		requireConsistent(t, g)
	}
}

func TestDelete_ScenarioKeepsReplies(t *testing.T) {
	g := scenarioGraph(t)

	require.NoError(t, g.Delete(1))

	post, err := g.Item(1)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: 1, Kind: KindTombstone, Message: constants.RemovedMessage, Replaced: KindPost}, post)

	comment, err := g.Item(2)
	require.NoError(t, err)
	assert.Equal(t, KindComment, comment.Kind)
	assert.Equal(t, 1, comment.ParentID)

	children, err := g.Children(1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, children)

	alice, _ := g.Summary("alice")
	assert.Equal(t, 0, alice.PostCount)
	bob, _ := g.Summary("bob")
	assert.Equal(t, 1, bob.EndorsementCount, "endorsement of the surviving reply stays")

	assert.ErrorIs(t, g.Delete(1), errors.ErrContentNotFound)
	assert.ErrorIs(t, g.Delete(77), errors.ErrContentNotFound)
	requireConsistent(t, g)
}

func TestDelete_TombstonesEndorsementsOfTarget(t *testing.T) {
	g := scenarioGraph(t)
	_, err := g.CreateAccount("carol", "")
	require.NoError(t, err)
	e4, err := g.Endorse("carol", 2)
	require.NoError(t, err)
	e5, err := g.Endorse("bob", 2)
	require.NoError(t, err)
	other, err := g.Endorse("carol", 1)
	require.NoError(t, err)

	bob, _ := g.Summary("bob")
	require.Equal(t, 3, bob.EndorsementCount)

	require.NoError(t, g.Delete(2))

	for _, id := range []int{2, 3, e4, e5} {
		item, err := g.Item(id)
		require.NoError(t, err)
		assert.Equal(t, KindTombstone, item.Kind, "item %d", id)
	}
	kept, err := g.Item(other)
	require.NoError(t, err)
	assert.Equal(t, KindEndorsement, kept.Kind)

	bob, _ = g.Summary("bob")
	assert.Equal(t, 0, bob.EndorsementCount)
	assert.Equal(t, 0, bob.PostCount)
	alice, _ := g.Summary("alice")
	assert.Equal(t, 1, alice.EndorsementCount)
	requireConsistent(t, g)
}

func TestDelete_Endorsement(t *testing.T) {
	g := scenarioGraph(t)

	require.NoError(t, g.Delete(3))

	bob, _ := g.Summary("bob")
	assert.Equal(t, 0, bob.EndorsementCount)
	alice, _ := g.Summary("alice")
	assert.Equal(t, 1, alice.PostCount)

	item, err := g.Item(3)
	require.NoError(t, err)
	assert.Equal(t, KindEndorsement, item.Replaced)
	assert.Zero(t, item.TargetID)

	// the endorsed comment can be endorsed again
	id, err := g.Endorse("alice", 2)
	require.NoError(t, err)
	assert.Equal(t, 4, id)
	requireConsistent(t, g)
}

func TestDelete_CommentKeepsItsReplies(t *testing.T) {
	g := scenarioGraph(t)
	reply, err := g.CreateComment("alice", 2, "answer")
	require.NoError(t, err)

	require.NoError(t, g.Delete(2))

	item, err := g.Item(2)
	require.NoError(t, err)
	assert.Equal(t, KindTombstone, item.Kind)
	assert.Equal(t, 1, item.ParentID, "comment tombstones stay in the tree")

	children, err := g.Children(2)
	require.NoError(t, err)
	assert.Equal(t, []int{reply}, children)

	rp, err := g.Render(1)
	require.NoError(t, err)
	assert.Equal(t, 0, rp.Comments, "tombstoned replies are not counted")
	requireConsistent(t, g)
}

func TestRandomActivityKeepsCountersConsistent(t *testing.T) {
	for seed := int64(10); seed < 20; seed++ {
		g := fakeGraph(t, seed, 6, 120)
		requireConsistent(t, g)

		for _, acc := range g.Accounts() {
			if acc.ID%2 == 0 {
				require.NoError(t, g.RemoveAccountByID(acc.ID))
			}
		}
		requireConsistent(t, g)
	}
}
