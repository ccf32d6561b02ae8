package graph

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	return New(zap.NewNop())
}

// scenarioGraph builds: alice(1), bob(2); post 1 by alice, comment 2 by bob
// on 1, endorsement 3 by alice of 2.
func scenarioGraph(t *testing.T) *Graph {
	t.Helper()
	g := newTestGraph(t)

	alice, err := g.CreateAccount("alice", "")
	require.NoError(t, err)
	require.Equal(t, 1, alice)
	bob, err := g.CreateAccount("bob", "")
	require.NoError(t, err)
	require.Equal(t, 2, bob)

	post, err := g.CreatePost("alice", "hello")
	require.NoError(t, err)
	require.Equal(t, 1, post)
	comment, err := g.CreateComment("bob", post, "hi")
	require.NoError(t, err)
	require.Equal(t, 2, comment)
	endorsement, err := g.Endorse("alice", comment)
	require.NoError(t, err)
	require.Equal(t, 3, endorsement)

	return g
}

// fakeGraph populates a graph with random but valid activity
func fakeGraph(t *testing.T, seed int64, accounts, actions int) *Graph {
	t.Helper()
	faker := gofakeit.New(seed)
	g := newTestGraph(t)

	handles := make([]string, 0, accounts)
	for i := 0; i < accounts; i++ {
		h := fmt.Sprintf("%s%d", faker.LetterN(8), i)
		_, err := g.CreateAccount(h, faker.Sentence(4))
		require.NoError(t, err)
		handles = append(handles, h)
	}

	var targets []int
	for i := 0; i < actions; i++ {
		h := handles[faker.Number(0, len(handles)-1)]
		switch {
		case len(targets) == 0 || faker.Number(0, 3) == 0:
			id, err := g.CreatePost(h, fakeMessage(faker))
			require.NoError(t, err)
			targets = append(targets, id)
		case faker.Bool():
			id, err := g.CreateComment(h, targets[faker.Number(0, len(targets)-1)], fakeMessage(faker))
			if err == nil {
				targets = append(targets, id)
			}
		default:
			_, _ = g.Endorse(h, targets[faker.Number(0, len(targets)-1)])
		}
		if faker.Number(0, 9) == 0 {
			_ = g.Delete(faker.Number(1, i+1))
		}
	}
	return g
}

func fakeMessage(faker *gofakeit.Faker) string {
	msg := []rune(faker.Sentence(6))
	if len(msg) > 100 {
		msg = msg[:100]
	}
	return string(msg)
}

// requireConsistent recomputes every counter from content and compares
func requireConsistent(t *testing.T, g *Graph) {
	t.Helper()
	_, _, err := build(g.Save())
	require.NoError(t, err)
}
