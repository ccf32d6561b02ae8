package graph

import (
	"fmt"
	"strings"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/errors"
)

// ============================================================================
// Rendering Operations
// ============================================================================

// Render returns the structured rendering of any known id, tombstones
// included
func (g *Graph) Render(id int) (RenderedPost, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	item, ok := g.content.items[id]
	if !ok {
		return RenderedPost{}, errors.NewContentNotFound(id)
	}
	return g.render(item), nil
}

func (g *Graph) render(item *Item) RenderedPost {
	rp := RenderedPost{
		ID:           item.ID,
		Kind:         item.Kind,
		AuthorHandle: item.AuthorHandle,
		Message:      item.Message,
	}
	if author, ok := g.accounts.byID[item.AuthorID]; item.Live() && ok {
		rp.AuthorEndorsementCount = author.EndorsementCount
		rp.AuthorPostCount = author.PostCount
	}
	if item.Kind != KindEndorsement {
		rp.Endorsements = g.content.liveEndorsements(item.ID)
		rp.Comments = g.content.liveReplies(item.ID)
	}
	return rp
}

// Lines is the individual text rendering of a post. Endorsements render on
// a single line.
func (p RenderedPost) Lines() []string {
	if p.Kind == KindEndorsement {
		return []string{"EP@" + p.AuthorHandle + ": " + p.Message}
	}
	return []string{
		fmt.Sprintf("ID: %d", p.ID),
		"Account: " + p.AuthorHandle,
		fmt.Sprintf("No. endorsements: %d | No. comments: %d", p.Endorsements, p.Comments),
		p.Message,
	}
}

// Subtree walks the reply tree rooted at id depth-first in preorder,
// visiting siblings in ascending id order. Tombstoned comments are visited
// so that replies under them stay reachable.
func (g *Graph) Subtree(id int) ([]TreeNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	item, ok := g.content.items[id]
	if !ok || !item.Live() {
		return nil, errors.NewContentNotFound(id)
	}
	if item.Kind == KindEndorsement {
		return nil, errors.NewNotActionable(id, "expanded into a reply tree")
	}

	var nodes []TreeNode
	g.walk(item, 0, &nodes)
	return nodes, nil
}

func (g *Graph) walk(item *Item, depth int, nodes *[]TreeNode) {
	children := g.content.replies[item.ID]
	*nodes = append(*nodes, TreeNode{
		Depth:      depth,
		Post:       g.render(item),
		HasReplies: len(children) > 0,
	})
	for _, cid := range children {
		g.walk(g.content.items[cid], depth+1, nodes)
	}
}

// RenderSubtree returns the text rendering of the reply tree rooted at id.
// Each reply's first line carries the "| > " branch marker, its lines are
// indented four spaces per level below the root, and a "|" connector
// follows any node with replies.
func (g *Graph) RenderSubtree(id int) (string, error) {
	nodes, err := g.Subtree(id)
	if err != nil {
		return "", err
	}
	return FormatTree(nodes), nil
}

// FormatTree lays out preorder tree nodes as indented text
func FormatTree(nodes []TreeNode) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		base := ""
		if n.Depth > 0 {
			base = strings.Repeat(constants.TreeIndent, n.Depth-1)
		}
		for j, line := range n.Post.Lines() {
			if j > 0 {
				b.WriteByte('\n')
			}
			switch {
			case n.Depth == 0:
			case j == 0:
				b.WriteString(base + constants.TreeBranch)
			default:
				b.WriteString(base + constants.TreeIndent)
			}
			b.WriteString(line)
		}
		if n.HasReplies {
			b.WriteByte('\n')
			b.WriteString(strings.Repeat(constants.TreeIndent, n.Depth) + constants.TreeConnector)
		}
	}
	return b.String()
}
