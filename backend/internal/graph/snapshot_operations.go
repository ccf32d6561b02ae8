package graph

import (
	"fmt"
	"sort"
	"time"

	"socialgraph/backend/internal/constants"
	"socialgraph/backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================================
// Snapshot Operations
// ============================================================================

// Snapshot is the complete graph state handed to a persistence store.
// Accounts and items are in ascending id order; items include tombstones.
type Snapshot struct {
	Version       int       `json:"version"`
	ID            string    `json:"id"`
	SavedAt       time.Time `json:"saved_at"`
	LastAccountID int       `json:"last_account_id"`
	LastContentID int       `json:"last_content_id"`
	Accounts      []Account `json:"accounts"`
	Items         []Item    `json:"items"`
}

// Save captures the full graph state
func (g *Graph) Save() *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := &Snapshot{
		Version:       constants.SnapshotVersion,
		ID:            uuid.New().String(),
		SavedAt:       time.Now().UTC(),
		LastAccountID: g.accounts.ids.last,
		LastContentID: g.content.ids.last,
		Accounts:      make([]Account, 0, len(g.accounts.byID)),
		Items:         make([]Item, 0, len(g.content.items)),
	}
	for _, acc := range g.accounts.sorted() {
		snap.Accounts = append(snap.Accounts, *acc)
	}
	for _, item := range g.content.sorted() {
		snap.Items = append(snap.Items, *item)
	}
	return snap
}

// Load replaces the graph state with snap. The snapshot is validated in full
// first; a rejected snapshot leaves the graph as it was.
func (g *Graph) Load(snap *Snapshot) error {
	accounts, content, err := build(snap)
	if err != nil {
		return errors.NewPersistenceFailure("load snapshot", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.accounts = accounts
	g.content = content
	g.logger.Info("Snapshot loaded",
		zap.String("snapshot_id", snap.ID),
		zap.Int("accounts", len(snap.Accounts)),
		zap.Int("items", len(snap.Items)),
	)
	return nil
}

// build constructs a detached registry and content store from snap,
// checking every structural rule on the way
func build(snap *Snapshot) (*registry, *contentStore, error) {
	if snap == nil {
		return nil, nil, ErrInvalidSnapshot{Field: "snapshot", Reason: "is nil"}
	}
	if snap.Version != constants.SnapshotVersion {
		return nil, nil, ErrInvalidSnapshot{Field: "version", Reason: fmt.Sprintf("unsupported version %d", snap.Version)}
	}

	reg := newRegistry()
	for i, acc := range snap.Accounts {
		if acc.ID <= 0 {
			return nil, nil, ErrInvalidSnapshot{Field: fmt.Sprintf("accounts[%d].id", i), Reason: "must be positive"}
		}
		if _, dup := reg.byID[acc.ID]; dup {
			return nil, nil, ErrInvalidSnapshot{Field: fmt.Sprintf("accounts[%d].id", i), Reason: fmt.Sprintf("duplicate id %d", acc.ID)}
		}
		if err := reg.checkAvailable(acc.Handle); err != nil {
			return nil, nil, ErrInvalidSnapshot{Field: fmt.Sprintf("accounts[%d].handle", i), Reason: err.Error()}
		}
		stored := acc
		reg.insert(&stored)
		reg.ids.restore(acc.ID)
	}
	reg.ids.restore(snap.LastAccountID)

	items := append([]Item(nil), snap.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })

	// Counters are recomputed from content and must match what was stored.
	derived := &countTally{posts: map[int]int{}, endorsements: map[int]int{}}
	content := newContentStore(reg)
	for i := range items {
		item := items[i]
		if err := checkItem(reg, content, &item); err != nil {
			return nil, nil, ErrInvalidSnapshot{Field: fmt.Sprintf("items[%d]", i), Reason: err.Error()}
		}
		content.insert(&item)
		content.ids.restore(item.ID)
		switch item.Kind {
		case KindPost, KindComment:
			derived.adjustPostCount(item.AuthorID, 1)
		case KindEndorsement:
			derived.adjustEndorsementCount(content.items[item.TargetID].AuthorID, 1)
		}
	}
	content.ids.restore(snap.LastContentID)

	for _, acc := range reg.byID {
		if acc.PostCount != derived.posts[acc.ID] || acc.EndorsementCount != derived.endorsements[acc.ID] {
			return nil, nil, ErrInvalidSnapshot{
				Field:  fmt.Sprintf("account %d counters", acc.ID),
				Reason: fmt.Sprintf("stored %d/%d, content implies %d/%d", acc.PostCount, acc.EndorsementCount, derived.posts[acc.ID], derived.endorsements[acc.ID]),
			}
		}
	}
	return reg, content, nil
}

// checkItem validates one snapshot item against the accounts and the items
// loaded before it. References always point at lower ids, so items are
// checked in ascending id order.
func checkItem(reg *registry, content *contentStore, item *Item) error {
	if item.ID <= 0 {
		return fmt.Errorf("id must be positive")
	}
	if _, dup := content.items[item.ID]; dup {
		return fmt.Errorf("duplicate id %d", item.ID)
	}
	if !item.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", item.Kind)
	}

	if item.Kind == KindTombstone {
		if item.AuthorID != 0 || item.AuthorHandle != "" {
			return fmt.Errorf("tombstone %d carries an author", item.ID)
		}
		if item.Message != constants.RemovedMessage {
			return fmt.Errorf("tombstone %d keeps a message", item.ID)
		}
		if item.TargetID != 0 {
			return fmt.Errorf("tombstone %d keeps a target", item.ID)
		}
		switch item.Replaced {
		case KindPost, KindEndorsement:
			return nil
		case KindComment:
			return checkParent(content, item)
		default:
			return fmt.Errorf("tombstone %d replaces unknown kind %q", item.ID, item.Replaced)
		}
	}

	author, ok := reg.byID[item.AuthorID]
	if !ok {
		return fmt.Errorf("author %d is not a live account", item.AuthorID)
	}
	if author.Handle != item.AuthorHandle {
		return fmt.Errorf("author handle %q does not match account %d (%q)", item.AuthorHandle, author.ID, author.Handle)
	}

	switch item.Kind {
	case KindPost:
		return validateMessage(item.Message)
	case KindComment:
		if err := validateMessage(item.Message); err != nil {
			return err
		}
		return checkParent(content, item)
	default:
		target, ok := content.items[item.TargetID]
		if !ok || !target.Actionable() {
			return fmt.Errorf("endorsement target %d is not a live post or comment", item.TargetID)
		}
		if item.Message != constants.EndorsementPrefix+target.Message {
			return fmt.Errorf("endorsement %d does not quote target %d", item.ID, target.ID)
		}
		return nil
	}
}

func checkParent(content *contentStore, item *Item) error {
	parent, ok := content.items[item.ParentID]
	if !ok {
		return fmt.Errorf("parent %d does not exist", item.ParentID)
	}
	if parent.Kind == KindEndorsement || (parent.Kind == KindTombstone && parent.Replaced == KindEndorsement) {
		return fmt.Errorf("parent %d is an endorsement", item.ParentID)
	}
	return nil
}

// countTally collects counters while a snapshot is rebuilt
type countTally struct {
	posts        map[int]int
	endorsements map[int]int
}

func (t *countTally) adjustPostCount(accountID, delta int) {
	t.posts[accountID] += delta
}

func (t *countTally) adjustEndorsementCount(accountID, delta int) {
	t.endorsements[accountID] += delta
}

// ErrInvalidSnapshot names the snapshot field that failed validation on Load
type ErrInvalidSnapshot struct {
	Field  string
	Reason string
}

func (e ErrInvalidSnapshot) Error() string {
	return fmt.Sprintf("invalid snapshot: %s - %s", e.Field, e.Reason)
}
