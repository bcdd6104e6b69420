package lock

import (
	"sync"
	"time"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/dberr"
	"heapdb/pkg/storage/page"
)

// LockManager manages page-level locks for transactions: acquisition with
// retry and exponential backoff, shared-to-exclusive upgrades, and deadlock
// detection through the dependency graph. Lock lifetime is tied to the
// transaction: locks are released by Commit/Abort via UnlockAllPages, never
// by the iterators that caused their acquisition.
type LockManager struct {
	depGraph   *DependencyGraph
	mutex      sync.RWMutex
	waitQueue  *WaitQueue
	lockTable  *LockTable
	retryLimit int
}

const defaultRetryLimit = 100

func NewLockManager() *LockManager {
	return NewLockManagerWithRetryLimit(defaultRetryLimit)
}

// NewLockManagerWithRetryLimit bounds how many acquisition attempts a waiter
// makes before giving up.
func NewLockManagerWithRetryLimit(retryLimit int) *LockManager {
	if retryLimit <= 0 {
		retryLimit = defaultRetryLimit
	}
	return &LockManager{
		depGraph:   NewDependencyGraph(),
		waitQueue:  NewWaitQueue(),
		lockTable:  NewLockTable(),
		retryLimit: retryLimit,
	}
}

// LockPage acquires a lock on the page for tid, blocking (with backoff) while
// a conflicting lock is held. A shared lock is acquired unless exclusive is
// true. Fails with a TransactionAborted error when tid is chosen as a
// deadlock victim or when the retry budget runs out.
func (lm *LockManager) LockPage(tid *transaction.TransactionID, pid *page.PageDescriptor, exclusive bool) error {
	if tid == nil {
		return dberr.New(dberr.KindInvalidArgument, "transaction ID cannot be nil")
	}

	lockType := SharedLock
	if exclusive {
		lockType = ExclusiveLock
	}
	key := pid.Key()

	lm.mutex.RLock()
	if lm.lockTable.HasSufficientLock(tid, key, lockType) {
		lm.mutex.RUnlock()
		return nil
	}
	lm.mutex.RUnlock()

	return lm.attemptToAcquireLock(tid, key, lockType)
}

// attemptToAcquireLock is the acquisition loop: grant immediately when
// possible, upgrade when tid is the sole holder of a shared lock, otherwise
// enqueue, check for deadlock, back off and retry.
func (lm *LockManager) attemptToAcquireLock(tid *transaction.TransactionID, key page.PageKey, lockType LockType) error {
	const maxRetryDelay = 50 * time.Millisecond
	baseDelay := time.Millisecond
	queued := false

	for attempt := range lm.retryLimit {
		lm.mutex.Lock()

		if lm.lockTable.HasSufficientLock(tid, key, lockType) {
			lm.mutex.Unlock()
			return nil
		}

		if lockType == ExclusiveLock && lm.lockTable.HasLockType(tid, key, SharedLock) {
			if lm.canUpgradeLock(tid, key) {
				lm.lockTable.UpgradeLock(tid, key)
				lm.mutex.Unlock()
				return nil
			}
		}

		if lm.canGrantImmediately(tid, key, lockType) {
			lm.grantLock(tid, key, lockType)
			lm.depGraph.RemoveTransaction(tid)
			lm.mutex.Unlock()
			return nil
		}

		if !queued {
			lm.waitQueue.Add(tid, key, lockType)
			lm.updateDependencies(tid, key, lockType)
			queued = true
		}

		if lm.depGraph.HasCycle() {
			lm.waitQueue.RemoveRequest(tid, key)
			lm.depGraph.RemoveTransaction(tid)
			lm.mutex.Unlock()
			return dberr.New(dberr.KindTransactionAborted,
				"deadlock detected for transaction %d", tid.ID())
		}

		lm.mutex.Unlock()
		time.Sleep(lm.calculateRetryDelay(attempt, baseDelay, maxRetryDelay))
	}

	lm.mutex.Lock()
	lm.waitQueue.RemoveRequest(tid, key)
	lm.depGraph.RemoveTransaction(tid)
	lm.mutex.Unlock()

	return dberr.New(dberr.KindTransactionAborted,
		"transaction %d timed out waiting for lock on page %v", tid.ID(), key)
}

// canGrantImmediately checks lock compatibility: an exclusive request needs
// no other holder at all, a shared request tolerates other shared holders.
func (lm *LockManager) canGrantImmediately(tid *transaction.TransactionID, key page.PageKey, lockType LockType) bool {
	locks := lm.lockTable.GetPageLocks(key)
	if len(locks) == 0 {
		return true
	}

	for _, l := range locks {
		if l.TID == tid {
			continue
		}
		if lockType == ExclusiveLock || l.LockType == ExclusiveLock {
			return false
		}
	}
	return true
}

func (lm *LockManager) grantLock(tid *transaction.TransactionID, key page.PageKey, lockType LockType) {
	lm.lockTable.AddLock(tid, key, lockType)
	lm.waitQueue.RemoveRequest(tid, key)
}

// canUpgradeLock: a shared lock can be upgraded only when tid is the sole
// holder on the page.
func (lm *LockManager) canUpgradeLock(tid *transaction.TransactionID, key page.PageKey) bool {
	for _, l := range lm.lockTable.GetPageLocks(key) {
		if l.TID != tid {
			return false
		}
	}
	return true
}

// updateDependencies adds waits-for edges for every conflicting holder: an
// exclusive request conflicts with all holders, a shared request only with
// exclusive holders.
func (lm *LockManager) updateDependencies(tid *transaction.TransactionID, key page.PageKey, lockType LockType) {
	for _, l := range lm.lockTable.GetPageLocks(key) {
		if l.TID == tid {
			continue
		}
		if lockType == ExclusiveLock || l.LockType == ExclusiveLock {
			lm.depGraph.AddEdge(tid, l.TID)
		}
	}
}

// calculateRetryDelay grows the delay exponentially every 5 attempts, capped
// at maxDelay.
func (lm *LockManager) calculateRetryDelay(attemptNumber int, baseDelay, maxDelay time.Duration) time.Duration {
	exponentialFactor := min(attemptNumber/5, 5)
	return min(baseDelay*time.Duration(1<<uint(exponentialFactor)), maxDelay)
}

// UnlockPage releases tid's lock on one page and wakes its wait queue.
func (lm *LockManager) UnlockPage(tid *transaction.TransactionID, pid *page.PageDescriptor) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	key := pid.Key()
	lm.lockTable.ReleaseLock(tid, key)
	lm.depGraph.RemoveTransaction(tid)
	lm.processWaitQueue(key)
}

// UnlockAllPages releases every lock held by tid, typically at commit or
// abort, then wakes the wait queues of all affected pages.
func (lm *LockManager) UnlockAllPages(tid *transaction.TransactionID) {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	released := lm.lockTable.ReleaseAllLocks(tid)
	lm.depGraph.RemoveTransaction(tid)
	lm.waitQueue.RemoveAllForTransaction(tid)

	for _, key := range released {
		lm.processWaitQueue(key)
	}
}

// processWaitQueue grants as many pending requests on the page as
// compatibility allows, in FIFO order.
func (lm *LockManager) processWaitQueue(key page.PageKey) {
	for _, request := range lm.waitQueue.GetRequests(key) {
		if lm.canGrantImmediately(request.TID, key, request.LockType) {
			lm.grantLock(request.TID, key, request.LockType)
		}
	}
}

// IsPageLocked reports whether any transaction holds a lock on the page.
func (lm *LockManager) IsPageLocked(pid *page.PageDescriptor) bool {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	return lm.lockTable.IsPageLocked(pid.Key())
}

// HoldsLock reports whether tid holds any lock on the page.
func (lm *LockManager) HoldsLock(tid *transaction.TransactionID, pid *page.PageDescriptor) bool {
	lm.mutex.RLock()
	defer lm.mutex.RUnlock()

	key := pid.Key()
	return lm.lockTable.HasSufficientLock(tid, key, SharedLock) ||
		lm.lockTable.HasLockType(tid, key, ExclusiveLock)
}
