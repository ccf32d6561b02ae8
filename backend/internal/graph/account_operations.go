package graph

import (
	"go.uber.org/zap"
)

// ============================================================================
// Account Operations
// ============================================================================

// CreateAccount registers a new account and returns its id. description may
// be empty.
func (g *Graph) CreateAccount(handle, description string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.accounts.checkAvailable(handle); err != nil {
		return 0, err
	}

	acc := g.accounts.add(handle, description)
	g.logger.Info("Account created",
		zap.Int("account_id", acc.ID),
		zap.String("handle", handle),
	)
	return acc.ID, nil
}

// RemoveAccount removes the live account holding handle and tombstones
// everything it authored
func (g *Graph) RemoveAccount(handle string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, err := g.accounts.byHandleOrErr(handle)
	if err != nil {
		return err
	}
	g.removeAccount(acc)
	return nil
}

// RemoveAccountByID removes the live account with the given id and
// tombstones everything it authored
func (g *Graph) RemoveAccountByID(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, err := g.accounts.byIDOrErr(id)
	if err != nil {
		return err
	}
	g.removeAccount(acc)
	return nil
}

func (g *Graph) removeAccount(acc *Account) {
	tombstoned := 0
	for _, id := range g.content.authoredBy(acc.ID) {
		item := g.content.items[id]
		// A self-endorsement may already be gone with its target.
		if !item.Live() {
			continue
		}
		tombstoned += len(g.content.remove(item))
	}
	g.accounts.remove(acc)

	g.logger.Info("Account removed",
		zap.Int("account_id", acc.ID),
		zap.String("handle", acc.Handle),
		zap.Int("tombstoned", tombstoned),
	)
}

// RenameHandle moves an account from oldHandle to newHandle and rewrites the
// author handle on every live item it authored
func (g *Graph) RenameHandle(oldHandle, newHandle string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.accounts.checkAvailable(newHandle); err != nil {
		return err
	}
	acc, err := g.accounts.byHandleOrErr(oldHandle)
	if err != nil {
		return err
	}

	g.accounts.rename(acc, newHandle)
	rewritten := 0
	for _, id := range g.content.authoredBy(acc.ID) {
		g.content.items[id].AuthorHandle = newHandle
		rewritten++
	}

	g.logger.Info("Handle renamed",
		zap.Int("account_id", acc.ID),
		zap.String("old_handle", oldHandle),
		zap.String("new_handle", newHandle),
		zap.Int("items_rewritten", rewritten),
	)
	return nil
}

// UpdateDescription overwrites the description of the account holding handle
func (g *Graph) UpdateDescription(handle, description string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, err := g.accounts.byHandleOrErr(handle)
	if err != nil {
		return err
	}
	acc.Description = description

	g.logger.Debug("Description updated", zap.Int("account_id", acc.ID))
	return nil
}

// Summary returns the account holding handle
func (g *Graph) Summary(handle string) (AccountSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, err := g.accounts.byHandleOrErr(handle)
	if err != nil {
		return AccountSummary{}, err
	}
	return summarize(acc), nil
}

// SummaryByID returns the account with the given id
func (g *Graph) SummaryByID(id int) (AccountSummary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acc, err := g.accounts.byIDOrErr(id)
	if err != nil {
		return AccountSummary{}, err
	}
	return summarize(acc), nil
}

// Accounts lists every live account in ascending id order
func (g *Graph) Accounts() []AccountSummary {
	g.mu.Lock()
	defer g.mu.Unlock()

	accs := g.accounts.sorted()
	out := make([]AccountSummary, 0, len(accs))
	for _, acc := range accs {
		out = append(out, summarize(acc))
	}
	return out
}
