package constants

// Account constants
const (
	// MaxHandleLength is the maximum number of characters in an account handle
	MaxHandleLength = 30
)

// Content constants
const (
	// MaxMessageLength is the maximum number of characters in a post or comment
	MaxMessageLength = 100

	// EndorsementPrefix is prepended to the endorsed message
	EndorsementPrefix = "EP: "

	// RemovedMessage replaces the message of deleted content
	RemovedMessage = "The original content was removed from the system and is no longer available."
)

// Rendering constants
const (
	// TreeIndent is the indentation added per reply depth
	TreeIndent = "    "

	// TreeBranch marks the first line of a reply
	TreeBranch = "| > "

	// TreeConnector follows a node that has replies
	TreeConnector = "|"
)

// Snapshot constants
const (
	// SnapshotVersion is the format version written into every snapshot
	SnapshotVersion = 1
)
