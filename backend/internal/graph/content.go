package graph

import (
	"sort"
	"unicode/utf8"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/errors"
)

// counterSink receives the per-account counter changes caused by content
// mutations. The registry implements it.
type counterSink interface {
	adjustPostCount(accountID, delta int)
	adjustEndorsementCount(accountID, delta int)
}

// contentStore owns every content item, keyed by its id. Deleted items are
// overwritten in place by tombstones so the id keeps resolving.
type contentStore struct {
	items map[int]*Item
	ids   idCounter

	// replies maps a parent id to the ids of comments (and comment
	// tombstones) under it; endorsements maps a target id to the ids of
	// endorsements that were made of it. Both stay in ascending order
	// because ids are allocated increasingly.
	replies      map[int][]int
	endorsements map[int][]int

	counters counterSink
}

func newContentStore(counters counterSink) *contentStore {
	return &contentStore{
		items:        make(map[int]*Item),
		replies:      make(map[int][]int),
		endorsements: make(map[int][]int),
		counters:     counters,
	}
}

// validateMessage enforces the post/comment message rules
func validateMessage(message string) error {
	n := utf8.RuneCountInString(message)
	if n == 0 {
		return errors.NewInvalidContent(n, "message cannot be empty")
	}
	if n > constants.MaxMessageLength {
		return errors.NewInvalidContent(n, "message longer than 100 characters")
	}
	return nil
}

// actionable resolves id to a live post or comment that can be replied to or
// endorsed. action names the attempted operation for the error.
func (c *contentStore) actionable(id int, action string) (*Item, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, errors.NewTargetNotFound(id)
	}
	switch item.Kind {
	case KindPost, KindComment:
		return item, nil
	case KindEndorsement:
		return nil, errors.NewNotActionable(id, action)
	default:
		return nil, errors.NewTargetNotFound(id)
	}
}

// live resolves id to a post, comment or endorsement that is not a tombstone
func (c *contentStore) live(id int) (*Item, error) {
	item, ok := c.items[id]
	if !ok || !item.Live() {
		return nil, errors.NewContentNotFound(id)
	}
	return item, nil
}

func (c *contentStore) insert(item *Item) {
	c.items[item.ID] = item
	if item.inTree() {
		c.replies[item.ParentID] = append(c.replies[item.ParentID], item.ID)
	}
	if item.Kind == KindEndorsement {
		c.endorsements[item.TargetID] = append(c.endorsements[item.TargetID], item.ID)
	}
}

func (c *contentStore) addPost(author *Account, message string) *Item {
	item := &Item{
		ID:           c.ids.next(),
		Kind:         KindPost,
		AuthorID:     author.ID,
		AuthorHandle: author.Handle,
		Message:      message,
	}
	c.insert(item)
	c.counters.adjustPostCount(author.ID, 1)
	return item
}

func (c *contentStore) addComment(author *Account, parent *Item, message string) *Item {
	item := &Item{
		ID:           c.ids.next(),
		Kind:         KindComment,
		AuthorID:     author.ID,
		AuthorHandle: author.Handle,
		Message:      message,
		ParentID:     parent.ID,
	}
	c.insert(item)
	c.counters.adjustPostCount(author.ID, 1)
	return item
}

func (c *contentStore) addEndorsement(author *Account, target *Item) *Item {
	item := &Item{
		ID:           c.ids.next(),
		Kind:         KindEndorsement,
		AuthorID:     author.ID,
		AuthorHandle: author.Handle,
		Message:      constants.EndorsementPrefix + target.Message,
		TargetID:     target.ID,
	}
	c.insert(item)
	c.counters.adjustEndorsementCount(target.AuthorID, 1)
	return item
}

// remove replaces a live item with a tombstone and settles counters.
// Endorsements of a removed post or comment go with it; replies stay.
// It returns the ids of every item tombstoned, the item itself last.
func (c *contentStore) remove(item *Item) []int {
	var removed []int
	switch item.Kind {
	case KindPost, KindComment:
		for _, eid := range c.endorsements[item.ID] {
			e := c.items[eid]
			if e.Kind != KindEndorsement {
				continue
			}
			tombstone(e)
			c.counters.adjustEndorsementCount(item.AuthorID, -1)
			removed = append(removed, eid)
		}
		c.counters.adjustPostCount(item.AuthorID, -1)
	case KindEndorsement:
		if target, ok := c.items[item.TargetID]; ok && target.Actionable() {
			c.counters.adjustEndorsementCount(target.AuthorID, -1)
		}
	}
	tombstone(item)
	return append(removed, item.ID)
}

func tombstone(item *Item) {
	item.Replaced = item.Kind
	item.Kind = KindTombstone
	item.AuthorID = 0
	item.AuthorHandle = ""
	item.Message = constants.RemovedMessage
	item.TargetID = 0
}

// liveEndorsements counts the live endorsements targeting id
func (c *contentStore) liveEndorsements(id int) int {
	n := 0
	for _, eid := range c.endorsements[id] {
		if c.items[eid].Kind == KindEndorsement {
			n++
		}
	}
	return n
}

// liveReplies counts the live comments directly under id
func (c *contentStore) liveReplies(id int) int {
	n := 0
	for _, cid := range c.replies[id] {
		if c.items[cid].Kind == KindComment {
			n++
		}
	}
	return n
}

// authoredBy returns the ids of live items by accountID in ascending order
func (c *contentStore) authoredBy(accountID int) []int {
	var ids []int
	for id, item := range c.items {
		if item.Live() && item.AuthorID == accountID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// sorted returns every item, tombstones included, in ascending id order
func (c *contentStore) sorted() []*Item {
	out := make([]*Item, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
