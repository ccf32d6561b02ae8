package graph

// ============================================================================
// Analytics Operations
// ============================================================================

// LiveCount counts the items currently of the given kind. For KindTombstone
// it counts removed items.
func (g *Graph) LiveCount(kind Kind) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.countKind(kind)
}

func (g *Graph) countKind(kind Kind) int {
	n := 0
	for _, item := range g.content.items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

// AccountCount returns the number of live accounts
func (g *Graph) AccountCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.accounts.byID)
}

// MostEndorsedContent returns the live post or comment with the most live
// endorsements, lowest id on ties. ok is false when there is no live post
// or comment.
func (g *Graph) MostEndorsedContent() (id int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.mostEndorsedContent()
}

func (g *Graph) mostEndorsedContent() (int, bool) {
	best, bestCount, found := 0, -1, false
	for _, item := range g.content.sorted() {
		if !item.Actionable() {
			continue
		}
		if n := g.content.liveEndorsements(item.ID); n > bestCount {
			best, bestCount, found = item.ID, n, true
		}
	}
	return best, found
}

// MostEndorsedAccount returns the live account with the highest
// endorsement count, lowest id on ties. ok is false when there are no
// accounts.
func (g *Graph) MostEndorsedAccount() (id int, ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.mostEndorsedAccount()
}

func (g *Graph) mostEndorsedAccount() (int, bool) {
	best, bestCount, found := 0, -1, false
	for _, acc := range g.accounts.sorted() {
		if acc.EndorsementCount > bestCount {
			best, bestCount, found = acc.ID, acc.EndorsementCount, true
		}
	}
	return best, found
}

// Stats returns every analytics counter from a single read of the graph
func (g *Graph) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Stats{
		Accounts:     len(g.accounts.byID),
		Posts:        g.countKind(KindPost),
		Comments:     g.countKind(KindComment),
		Endorsements: g.countKind(KindEndorsement),
		Tombstones:   g.countKind(KindTombstone),
	}
	s.MostEndorsedContentID, _ = g.mostEndorsedContent()
	s.MostEndorsedAccountID, _ = g.mostEndorsedAccount()
	return s
}
