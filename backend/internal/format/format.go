// Package format turns graph views into display text.
package format

import (
	"fmt"
	"strings"

	"socialgraph/backend/internal/graph"
)

// Account renders an account summary, one field per line
func Account(a graph.AccountSummary) string {
	return strings.Join([]string{
		fmt.Sprintf("ID: %d", a.ID),
		"Handle: " + a.Handle,
		"Description: " + a.Description,
		fmt.Sprintf("Post count: %d", a.PostCount),
		fmt.Sprintf("Endorsement count: %d", a.EndorsementCount),
	}, "\n")
}

// Post renders a single post, comment, endorsement or tombstone
func Post(p graph.RenderedPost) string {
	return strings.Join(p.Lines(), "\n")
}

// Tree renders preorder subtree nodes
func Tree(nodes []graph.TreeNode) string {
	return graph.FormatTree(nodes)
}

// Stats renders the analytics counters as a short report
func Stats(s graph.Stats) string {
	lines := []string{
		fmt.Sprintf("Accounts: %d", s.Accounts),
		fmt.Sprintf("Posts: %d | Comments: %d | Endorsements: %d", s.Posts, s.Comments, s.Endorsements),
		fmt.Sprintf("Removed: %d", s.Tombstones),
	}
	if s.MostEndorsedContentID != 0 {
		lines = append(lines, fmt.Sprintf("Most endorsed post: %d", s.MostEndorsedContentID))
	}
	if s.MostEndorsedAccountID != 0 {
		lines = append(lines, fmt.Sprintf("Most endorsed account: %d", s.MostEndorsedAccountID))
	}
	return strings.Join(lines, "\n")
}
