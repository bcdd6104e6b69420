package page

import (
	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/primitives"
	"heapdb/pkg/tuple"
)

// DbFile is a database file that stores tuples on fixed-size pages and is
// addressed by page identity. It is the unit the page store resolves a table
// ID to when it needs to pull a page from disk.
type DbFile interface {
	// ReadPage performs the physical read of one page. Callers normally go
	// through the page store instead, which adds caching and locking.
	ReadPage(pid *PageDescriptor) (Page, error)

	// WritePage persists a page at the location given by its identity.
	WritePage(p Page) error

	// AddTuple inserts a tuple on behalf of a transaction and returns the
	// modified pages.
	AddTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]Page, error)

	// DeleteTuple removes a tuple on behalf of a transaction and returns the
	// modified page.
	DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) (Page, error)

	// GetID returns the table identifier of this file.
	GetID() primitives.TableID

	// GetTupleDesc returns the schema of tuples stored in this file.
	GetTupleDesc() *tuple.TupleDescription
}

// Permissions is the access level requested when fetching a page.
type Permissions int

const (
	// ReadOnly requests shared access to a page.
	ReadOnly Permissions = iota
	// ReadWrite requests exclusive access to a page.
	ReadWrite
)

func (p Permissions) String() string {
	if p == ReadWrite {
		return "READ_WRITE"
	}
	return "READ_ONLY"
}

// PageFetcher is the cache/lock manager boundary consumed by table scans.
// GetPage returns the requested page after acquiring the appropriate lock for
// the transaction; it may block the caller while a conflicting lock is held,
// and it fails with a transaction-aborted error when the transaction is
// chosen as a deadlock victim. Implementations own lock lifetime: locks are
// released per transaction, never by the scan that acquired them.
type PageFetcher interface {
	GetPage(tid *transaction.TransactionID, pid *PageDescriptor, perm Permissions) (Page, error)
}
