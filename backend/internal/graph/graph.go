// Package graph holds the in-memory social content graph: accounts, posts,
// comments and endorsements sharing one content id space, with tombstones
// left in place of deleted content.
//
// A Graph is safe to share between goroutines. Every exported method takes
// the graph's single lock for its whole duration, and every mutating method
// validates all of its preconditions before it changes anything.
package graph

import (
	"sync"

	"socialgraph/backend/pkg/logger"

	"go.uber.org/zap"
)

// Graph owns the identity registry and the content store
type Graph struct {
	mu       sync.Mutex
	accounts *registry
	content  *contentStore
	logger   *zap.Logger
}

// New creates an empty graph. A nil logger falls back to the global one.
func New(log *zap.Logger) *Graph {
	if log == nil {
		log = logger.Named("graph")
	}
	g := &Graph{logger: log}
	g.reset()
	return g
}

func (g *Graph) reset() {
	g.accounts = newRegistry()
	g.content = newContentStore(g.accounts)
}

// Erase clears all accounts and content and resets both id counters
func (g *Graph) Erase() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reset()
	g.logger.Info("Graph erased")
}

// idCounter hands out strictly increasing ids starting at 1
type idCounter struct {
	last int
}

func (c *idCounter) next() int {
	c.last++
	return c.last
}

// restore moves the counter forward to at least last
func (c *idCounter) restore(last int) {
	if last > c.last {
		c.last = last
	}
}
