// Package lock implements page-granularity shared/exclusive locking with
// FIFO wait queues and waits-for deadlock detection. Locks are keyed by the
// structural PageKey of a page identity, never by pointer identity, so two
// descriptors for the same page always contend for the same lock.
package lock

import (
	"time"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/storage/page"
)

type LockType int

const (
	SharedLock LockType = iota
	ExclusiveLock
)

func (lt LockType) String() string {
	if lt == ExclusiveLock {
		return "EXCLUSIVE"
	}
	return "SHARED"
}

// Lock records one granted lock on a page.
type Lock struct {
	TID       *transaction.TransactionID
	LockType  LockType
	GrantTime time.Time
}

func NewLock(tid *transaction.TransactionID, lockType LockType) *Lock {
	return &Lock{
		TID:       tid,
		LockType:  lockType,
		GrantTime: time.Now(),
	}
}

// LockRequest is one pending entry in a page's wait queue.
type LockRequest struct {
	TID      *transaction.TransactionID
	LockType LockType
}

func NewLockRequest(tid *transaction.TransactionID, lockType LockType) *LockRequest {
	return &LockRequest{
		TID:      tid,
		LockType: lockType,
	}
}

// LockTable tracks granted locks in both directions: which transactions hold
// locks on a page, and which pages a transaction has locked.
type LockTable struct {
	pageLocks        map[page.PageKey][]*Lock
	transactionLocks map[*transaction.TransactionID]map[page.PageKey]LockType
}

func NewLockTable() *LockTable {
	return &LockTable{
		pageLocks:        make(map[page.PageKey][]*Lock),
		transactionLocks: make(map[*transaction.TransactionID]map[page.PageKey]LockType),
	}
}

// HasSufficientLock reports whether tid already holds a lock on the page that
// satisfies the requested type: an exclusive lock satisfies everything, a
// shared lock satisfies a shared request.
func (lt *LockTable) HasSufficientLock(tid *transaction.TransactionID, key page.PageKey, reqType LockType) bool {
	pages, exists := lt.transactionLocks[tid]
	if !exists {
		return false
	}

	held, locked := pages[key]
	if !locked {
		return false
	}

	if held == ExclusiveLock {
		return true
	}
	return held == SharedLock && reqType == SharedLock
}

// HasLockType reports whether tid holds exactly the given lock type on the page.
func (lt *LockTable) HasLockType(tid *transaction.TransactionID, key page.PageKey, lockType LockType) bool {
	if pages, exists := lt.transactionLocks[tid]; exists {
		if held, locked := pages[key]; locked {
			return held == lockType
		}
	}
	return false
}

// AddLock records a granted lock.
func (lt *LockTable) AddLock(tid *transaction.TransactionID, key page.PageKey, lockType LockType) {
	lt.pageLocks[key] = append(lt.pageLocks[key], NewLock(tid, lockType))

	if lt.transactionLocks[tid] == nil {
		lt.transactionLocks[tid] = make(map[page.PageKey]LockType)
	}
	lt.transactionLocks[tid][key] = lockType
}

// UpgradeLock promotes tid's shared lock on the page to exclusive.
func (lt *LockTable) UpgradeLock(tid *transaction.TransactionID, key page.PageKey) {
	for _, l := range lt.pageLocks[key] {
		if l.TID == tid {
			l.LockType = ExclusiveLock
			break
		}
	}
	lt.transactionLocks[tid][key] = ExclusiveLock
}

// GetPageLocks returns the locks currently granted on the page.
func (lt *LockTable) GetPageLocks(key page.PageKey) []*Lock {
	return lt.pageLocks[key]
}

// IsPageLocked reports whether any lock is held on the page.
func (lt *LockTable) IsPageLocked(key page.PageKey) bool {
	return len(lt.pageLocks[key]) > 0
}

// ReleaseLock drops tid's lock on one page.
func (lt *LockTable) ReleaseLock(tid *transaction.TransactionID, key page.PageKey) {
	if locks, exists := lt.pageLocks[key]; exists {
		remaining := locks[:0]
		for _, l := range locks {
			if l.TID != tid {
				remaining = append(remaining, l)
			}
		}
		if len(remaining) > 0 {
			lt.pageLocks[key] = remaining
		} else {
			delete(lt.pageLocks, key)
		}
	}

	if pages, exists := lt.transactionLocks[tid]; exists {
		delete(pages, key)
		if len(pages) == 0 {
			delete(lt.transactionLocks, tid)
		}
	}
}

// ReleaseAllLocks drops every lock held by tid and returns the affected pages
// so the caller can wake their wait queues.
func (lt *LockTable) ReleaseAllLocks(tid *transaction.TransactionID) []page.PageKey {
	pages, exists := lt.transactionLocks[tid]
	if !exists {
		return nil
	}

	released := make([]page.PageKey, 0, len(pages))
	for key := range pages {
		released = append(released, key)
	}

	for _, key := range released {
		lt.ReleaseLock(tid, key)
	}
	return released
}

// LockedPages returns the pages tid currently holds locks on.
func (lt *LockTable) LockedPages(tid *transaction.TransactionID) []page.PageKey {
	pages, exists := lt.transactionLocks[tid]
	if !exists {
		return nil
	}

	keys := make([]page.PageKey, 0, len(pages))
	for key := range pages {
		keys = append(keys, key)
	}
	return keys
}
