// Package page defines the page abstraction shared by table files and the
// page store: page identity, the Page and DbFile interfaces, page access
// permissions and the process-wide page size.
package page

import (
	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/tuple"
)

const (
	// PageSize is the fixed size of every on-disk page in bytes. It is a
	// process-wide constant shared by all tables: page i of a table file
	// occupies the byte range [i*PageSize, (i+1)*PageSize).
	PageSize = 4096
)

// Page is a fixed-size block of a table file materialized in memory. A Page
// is an ephemeral view decoded from raw bytes on read; it is never owned
// long-term by the table file.
type Page interface {
	// GetID returns the identity of this page.
	GetID() *PageDescriptor

	// GetPageData serializes the page back into its PageSize-byte raw form.
	GetPageData() []byte

	// IsDirty returns the transaction that last modified this page, or nil
	// if the page is clean.
	IsDirty() *transaction.TransactionID

	// MarkDirty marks the page dirty for a transaction, or clean if dirty is
	// false.
	MarkDirty(dirty bool, tid *transaction.TransactionID)

	// Iterator returns an iterator over the page's live tuples in slot order.
	Iterator() tuple.Iterator
}
