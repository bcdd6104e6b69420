package lock

import (
	"slices"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/storage/page"
)

// WaitQueue maintains the FIFO queue of pending lock requests per page plus a
// reverse index from transaction to the pages it is waiting for. The FIFO
// order decides who is granted next when a lock frees up; the reverse index
// makes transaction cleanup cheap.
type WaitQueue struct {
	pageWaitQueue      map[page.PageKey][]*LockRequest
	transactionWaiting map[*transaction.TransactionID][]page.PageKey
}

func NewWaitQueue() *WaitQueue {
	return &WaitQueue{
		pageWaitQueue:      make(map[page.PageKey][]*LockRequest),
		transactionWaiting: make(map[*transaction.TransactionID][]page.PageKey),
	}
}

// Add enqueues a request for (tid, page), keeping FIFO order. Adding a
// request that is already queued is a no-op.
func (wq *WaitQueue) Add(tid *transaction.TransactionID, key page.PageKey, lockType LockType) {
	if wq.isQueued(tid, key) {
		return
	}

	wq.pageWaitQueue[key] = append(wq.pageWaitQueue[key], NewLockRequest(tid, lockType))
	wq.transactionWaiting[tid] = append(wq.transactionWaiting[tid], key)
}

// RemoveRequest drops the (tid, page) request from both structures. Called
// when the request is granted, times out or is cancelled.
func (wq *WaitQueue) RemoveRequest(tid *transaction.TransactionID, key page.PageKey) {
	if queue, exists := wq.pageWaitQueue[key]; exists {
		newQueue := slices.DeleteFunc(slices.Clone(queue), func(req *LockRequest) bool {
			return req.TID == tid
		})
		if len(newQueue) > 0 {
			wq.pageWaitQueue[key] = newQueue
		} else {
			delete(wq.pageWaitQueue, key)
		}
	}

	if pages, exists := wq.transactionWaiting[tid]; exists {
		newPages := slices.DeleteFunc(slices.Clone(pages), func(k page.PageKey) bool {
			return k == key
		})
		if len(newPages) > 0 {
			wq.transactionWaiting[tid] = newPages
		} else {
			delete(wq.transactionWaiting, tid)
		}
	}
}

// RemoveAllForTransaction drops every pending request of tid, e.g. when the
// transaction aborts or is picked as a deadlock victim.
func (wq *WaitQueue) RemoveAllForTransaction(tid *transaction.TransactionID) {
	for _, key := range slices.Clone(wq.transactionWaiting[tid]) {
		wq.RemoveRequest(tid, key)
	}
}

// GetRequests returns the pending requests for a page in FIFO order.
func (wq *WaitQueue) GetRequests(key page.PageKey) []*LockRequest {
	return slices.Clone(wq.pageWaitQueue[key])
}

func (wq *WaitQueue) isQueued(tid *transaction.TransactionID, key page.PageKey) bool {
	return slices.ContainsFunc(wq.pageWaitQueue[key], func(req *LockRequest) bool {
		return req.TID == tid
	})
}
