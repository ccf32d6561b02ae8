package graph

import (
	"socialgraph/backend/pkg/errors"

	"go.uber.org/zap"
)

// ============================================================================
// Content Operations
// ============================================================================

// CreatePost stores an original post by handle and returns its id
func (g *Graph) CreatePost(handle, message string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := validateMessage(message); err != nil {
		return 0, err
	}
	author, err := g.accounts.byHandleOrErr(handle)
	if err != nil {
		return 0, err
	}

	item := g.content.addPost(author, message)
	g.logger.Info("Post created",
		zap.Int("content_id", item.ID),
		zap.Int("account_id", author.ID),
	)
	return item.ID, nil
}

// CreateComment stores a reply by handle to the post or comment parentID
// and returns its id
func (g *Graph) CreateComment(handle string, parentID int, message string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := validateMessage(message); err != nil {
		return 0, err
	}
	author, err := g.accounts.byHandleOrErr(handle)
	if err != nil {
		return 0, err
	}
	parent, err := g.content.actionable(parentID, "commented")
	if err != nil {
		return 0, err
	}

	item := g.content.addComment(author, parent, message)
	g.logger.Info("Comment created",
		zap.Int("content_id", item.ID),
		zap.Int("parent_id", parentID),
		zap.Int("account_id", author.ID),
	)
	return item.ID, nil
}

// Endorse stores an endorsement by handle of the post or comment targetID
// and returns its id. Endorsements themselves cannot be endorsed; callers
// cite the original target instead.
func (g *Graph) Endorse(handle string, targetID int) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	author, err := g.accounts.byHandleOrErr(handle)
	if err != nil {
		return 0, err
	}
	target, err := g.content.actionable(targetID, "endorsed")
	if err != nil {
		return 0, err
	}

	item := g.content.addEndorsement(author, target)
	g.logger.Info("Endorsement created",
		zap.Int("content_id", item.ID),
		zap.Int("target_id", targetID),
		zap.Int("account_id", author.ID),
	)
	return item.ID, nil
}

// Delete replaces a live post, comment or endorsement with a tombstone.
// Endorsements of the deleted item are tombstoned too; replies are kept and
// now hang under the tombstone.
func (g *Graph) Delete(id int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	item, err := g.content.live(id)
	if err != nil {
		return err
	}

	kind := item.Kind
	removed := g.content.remove(item)
	g.logger.Info("Content deleted",
		zap.Int("content_id", id),
		zap.String("kind", string(kind)),
		zap.Int("endorsements_removed", len(removed)-1),
	)
	return nil
}

// Item returns a copy of the item stored under id, tombstones included
func (g *Graph) Item(id int) (Item, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	item, ok := g.content.items[id]
	if !ok {
		return Item{}, errors.NewContentNotFound(id)
	}
	return *item, nil
}

// Children returns the ids of the comments directly under id, tombstoned
// ones included, in ascending order
func (g *Graph) Children(id int) ([]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.content.items[id]; !ok {
		return nil, errors.NewContentNotFound(id)
	}
	return append([]int(nil), g.content.replies[id]...), nil
}
