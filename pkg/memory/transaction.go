package memory

import (
	"time"

	"heapdb/pkg/storage/page"
)

// TransactionInfo tracks the per-transaction state the page store needs:
// which pages the transaction has touched and with what permission, and which
// of them it has dirtied.
type TransactionInfo struct {
	startTime   time.Time
	lockedPages map[page.PageKey]page.Permissions
	dirtyPages  map[page.PageKey]bool
}

func newTransactionInfo() *TransactionInfo {
	return &TransactionInfo{
		startTime:   time.Now(),
		lockedPages: make(map[page.PageKey]page.Permissions),
		dirtyPages:  make(map[page.PageKey]bool),
	}
}

// StartTime returns when the page store first saw this transaction.
func (ti *TransactionInfo) StartTime() time.Time {
	return ti.startTime
}

// LockedPageCount returns how many pages the transaction has accessed.
func (ti *TransactionInfo) LockedPageCount() int {
	return len(ti.lockedPages)
}
