package graph

// ============================================================================
// Content Graph Types
// ============================================================================

// Kind tags the variant held by a content Item
type Kind string

const (
	KindPost        Kind = "post"
	KindComment     Kind = "comment"
	KindEndorsement Kind = "endorsement"
	KindTombstone   Kind = "tombstone"
)

// Valid reports whether k is one of the four content kinds
func (k Kind) Valid() bool {
	switch k {
	case KindPost, KindComment, KindEndorsement, KindTombstone:
		return true
	}
	return false
}

// Account represents a live account in the registry
type Account struct {
	ID               int    `json:"id"`
	Handle           string `json:"handle"`
	Description      string `json:"description"`
	PostCount        int    `json:"post_count"`        // live posts and comments authored
	EndorsementCount int    `json:"endorsement_count"` // live endorsements received
}

// Item is one entry in the shared content id space.
//
// ParentID is set on comments and kept on tombstones that replaced a
// comment, so replies under removed content stay attached to the tree.
// TargetID is set on endorsements only. Replaced records the kind a
// tombstone stands in for.
type Item struct {
	ID           int    `json:"id"`
	Kind         Kind   `json:"kind"`
	AuthorID     int    `json:"author_id,omitempty"`
	AuthorHandle string `json:"author_handle,omitempty"`
	Message      string `json:"message"`
	ParentID     int    `json:"parent_id,omitempty"`
	TargetID     int    `json:"target_id,omitempty"`
	Replaced     Kind   `json:"replaced,omitempty"`
}

// Live reports whether the item has not been replaced by a tombstone
func (i *Item) Live() bool {
	return i.Kind != KindTombstone
}

// Actionable reports whether the item can be replied to or endorsed
func (i *Item) Actionable() bool {
	return i.Kind == KindPost || i.Kind == KindComment
}

// inTree reports whether the item hangs under a parent in a reply tree
func (i *Item) inTree() bool {
	return i.Kind == KindComment || (i.Kind == KindTombstone && i.Replaced == KindComment)
}

// AccountSummary is the read-only view of an account handed to presentation code
type AccountSummary struct {
	ID               int    `json:"id"`
	Handle           string `json:"handle"`
	Description      string `json:"description"`
	PostCount        int    `json:"post_count"`
	EndorsementCount int    `json:"endorsement_count"`
}

// RenderedPost is the structured rendering of a single content item.
// Author counters are zero for tombstones.
type RenderedPost struct {
	ID                     int    `json:"id"`
	Kind                   Kind   `json:"kind"`
	AuthorHandle           string `json:"author_handle"`
	AuthorEndorsementCount int    `json:"author_endorsement_count"`
	AuthorPostCount        int    `json:"author_post_count"`
	Message                string `json:"message"`
	Endorsements           int    `json:"endorsements"` // live endorsements of this item
	Comments               int    `json:"comments"`     // live direct replies to this item
}

// TreeNode is one visited node of a reply subtree, in preorder
type TreeNode struct {
	Depth      int          `json:"depth"`
	Post       RenderedPost `json:"post"`
	HasReplies bool         `json:"has_replies"`
}

// Stats aggregates the analytics counters in one consistent read.
// The most-endorsed ids are zero when there is nothing to rank.
type Stats struct {
	Accounts              int `json:"accounts"`
	Posts                 int `json:"posts"`
	Comments              int `json:"comments"`
	Endorsements          int `json:"endorsements"`
	Tombstones            int `json:"tombstones"`
	MostEndorsedContentID int `json:"most_endorsed_content_id,omitempty"`
	MostEndorsedAccountID int `json:"most_endorsed_account_id,omitempty"`
}
