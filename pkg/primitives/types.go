package primitives

// HashCode represents a hash value computed for fast comparisons or lookups,
// e.g. for page identities used as cache keys.
type HashCode uint64

// TableID uniquely identifies a table within a process. It is derived from
// the canonical absolute path of the table's backing file, so repeated
// constructions over the same path yield the same identity. It is not
// persisted and must not be relied on across process restarts.
type TableID uint64

// PageNumber represents a zero-based page number within a table file.
type PageNumber uint64

// SlotID represents a slot number within a page.
type SlotID uint16

// Sentinel values for invalid/unset identifiers.
const (
	InvalidTableID TableID = 0
)

// PageID is the identity of a single page: the table it belongs to and its
// page number within that table. Implementations must provide structural
// (value-based) equality and hashing because page IDs are used as cache keys.
type PageID interface {
	// GetTableID returns the table this page belongs to.
	GetTableID() TableID

	// PageNo returns the page number within the table.
	PageNo() PageNumber

	// Serialize returns a canonical byte representation of this page ID.
	Serialize() []byte

	// Equals checks structural equality with another page ID.
	Equals(other PageID) bool

	// String returns a string representation.
	String() string

	// HashCode returns a hash code for this page ID.
	HashCode() HashCode
}
