// Package memory implements the page store: the cache and lock manager that
// sits between table scans and the physical table files. All page access goes
// through PageStore.GetPage, which acquires the page lock for the requesting
// transaction and serves the page from cache or disk.
package memory

import (
	"sync"

	"go.uber.org/zap"

	"heapdb/pkg/concurrency/lock"
	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/dberr"
	"heapdb/pkg/logging"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
	"heapdb/pkg/tuple"
)

// PageStore manages cached pages and page locks on behalf of transactions.
// It implements page.PageFetcher. Lock lifetime is transaction-scoped: locks
// acquired through GetPage are held until CommitTransaction or
// AbortTransaction releases them, never by the iterator or caller that
// triggered the fetch.
type PageStore struct {
	tableManager *TableManager
	lockManager  *lock.LockManager
	cache        PageCache
	transactions map[*transaction.TransactionID]*TransactionInfo
	mutex        sync.RWMutex
	logger       *zap.Logger
}

// NewPageStore creates a page store with its own lock manager.
func NewPageStore(tm *TableManager, cache PageCache) *PageStore {
	return NewPageStoreWithLockManager(tm, cache, lock.NewLockManager())
}

// NewPageStoreWithLockManager creates a page store around an existing lock
// manager, e.g. one configured with a custom retry limit.
func NewPageStoreWithLockManager(tm *TableManager, cache PageCache, lm *lock.LockManager) *PageStore {
	return &PageStore{
		tableManager: tm,
		lockManager:  lm,
		cache:        cache,
		transactions: make(map[*transaction.TransactionID]*TransactionInfo),
		logger:       logging.WithComponent("pagestore"),
	}
}

// GetPage returns the requested page after acquiring the matching lock for
// the transaction: shared for ReadOnly, exclusive for ReadWrite. The call may
// block while a conflicting lock is held and fails with a
// transaction-aborted error when tid is picked as a deadlock victim. The page
// is served from cache when possible, otherwise read from the table file and
// admitted to the cache.
func (p *PageStore) GetPage(tid *transaction.TransactionID, pid *page.PageDescriptor, perm page.Permissions) (page.Page, error) {
	if pid == nil {
		return nil, dberr.New(dberr.KindInvalidArgument, "page descriptor cannot be nil")
	}

	if err := p.lockManager.LockPage(tid, pid, perm == page.ReadWrite); err != nil {
		return nil, dberr.Wrap(err, dberr.KindTransactionAborted, "GetPage", "memory")
	}

	p.trackPageAccess(tid, pid, perm)

	if cached, hit := p.cache.Get(pid); hit {
		pageCacheHits.Inc()
		return cached, nil
	}
	pageCacheMisses.Inc()

	dbFile, err := p.tableManager.GetDbFile(pid.GetTableID())
	if err != nil {
		return nil, dberr.Wrap(err, dberr.KindNotFound, "GetPage", "memory")
	}

	pg, err := dbFile.ReadPage(pid)
	if err != nil {
		return nil, err
	}
	pageReads.Inc()

	p.logger.Debug("page read from disk",
		zap.Uint64("table_id", uint64(pid.GetTableID())),
		zap.Uint64("page_no", uint64(pid.PageNo())))

	p.cache.Put(pid, pg)
	return pg, nil
}

// InsertTuple adds a tuple to the table within the transaction and marks the
// modified pages dirty.
func (p *PageStore) InsertTuple(tid *transaction.TransactionID, tableID primitives.TableID, t *tuple.Tuple) error {
	dbFile, err := p.tableManager.GetDbFile(tableID)
	if err != nil {
		return err
	}

	modifiedPages, err := dbFile.AddTuple(tid, t)
	if err != nil {
		return err
	}

	p.markPagesAsDirty(tid, modifiedPages)
	return nil
}

// DeleteTuple removes a tuple from its table within the transaction. The
// tuple must carry a record ID locating it.
func (p *PageStore) DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) error {
	if t == nil {
		return dberr.New(dberr.KindInvalidArgument, "tuple cannot be nil")
	}
	if t.RecordID == nil {
		return dberr.New(dberr.KindInvalidArgument, "tuple has no record ID")
	}

	dbFile, err := p.tableManager.GetDbFile(t.RecordID.PageID.GetTableID())
	if err != nil {
		return err
	}

	modifiedPage, err := dbFile.DeleteTuple(tid, t)
	if err != nil {
		return err
	}

	p.markPagesAsDirty(tid, []page.Page{modifiedPage})
	return nil
}

// CommitTransaction flushes the transaction's dirty pages, forgets the
// transaction and releases all of its locks. Committing an unknown
// transaction only releases locks and succeeds.
func (p *PageStore) CommitTransaction(tid *transaction.TransactionID) error {
	if tid == nil {
		return dberr.New(dberr.KindInvalidArgument, "transaction ID cannot be nil")
	}

	p.mutex.Lock()
	txInfo, exists := p.transactions[tid]
	if !exists {
		p.mutex.Unlock()
		p.lockManager.UnlockAllPages(tid)
		return nil
	}

	dirtyKeys := make([]page.PageKey, 0, len(txInfo.dirtyPages))
	for key := range txInfo.dirtyPages {
		dirtyKeys = append(dirtyKeys, key)
	}
	p.mutex.Unlock()

	for _, key := range dirtyKeys {
		if err := p.flushPage(page.NewPageDescriptor(key.TableID, key.PageNo)); err != nil {
			return dberr.Wrap(err, dberr.KindIOFailure, "CommitTransaction", "memory")
		}
	}

	p.mutex.Lock()
	delete(p.transactions, tid)
	p.mutex.Unlock()

	p.lockManager.UnlockAllPages(tid)
	transactionsCommitted.Inc()

	p.logger.Debug("transaction committed", zap.Int64("tx_id", tid.ID()))
	return nil
}

// AbortTransaction discards the transaction's dirty pages from the cache,
// forgets the transaction and releases all of its locks. Dropped pages are
// re-read from disk on next access, which restores their last flushed state.
func (p *PageStore) AbortTransaction(tid *transaction.TransactionID) error {
	if tid == nil {
		return dberr.New(dberr.KindInvalidArgument, "transaction ID cannot be nil")
	}

	p.mutex.Lock()
	txInfo, exists := p.transactions[tid]
	if !exists {
		p.mutex.Unlock()
		p.lockManager.UnlockAllPages(tid)
		return nil
	}

	for key := range txInfo.dirtyPages {
		p.cache.Remove(page.NewPageDescriptor(key.TableID, key.PageNo))
	}
	delete(p.transactions, tid)
	p.mutex.Unlock()

	p.lockManager.UnlockAllPages(tid)
	transactionsAborted.Inc()

	p.logger.Debug("transaction aborted", zap.Int64("tx_id", tid.ID()))
	return nil
}

// ActiveTransactions returns the number of transactions the store is
// currently tracking.
func (p *PageStore) ActiveTransactions() int {
	p.mutex.RLock()
	defer p.mutex.RUnlock()
	return len(p.transactions)
}

// HoldsLock reports whether the transaction holds a lock on the page.
func (p *PageStore) HoldsLock(tid *transaction.TransactionID, pid *page.PageDescriptor) bool {
	return p.lockManager.HoldsLock(tid, pid)
}

// Close flushes the dirty pages of all tracked transactions and shuts the
// cache down.
func (p *PageStore) Close() error {
	p.mutex.RLock()
	dirtyKeys := make([]page.PageKey, 0)
	for _, txInfo := range p.transactions {
		for key := range txInfo.dirtyPages {
			dirtyKeys = append(dirtyKeys, key)
		}
	}
	p.mutex.RUnlock()

	for _, key := range dirtyKeys {
		if err := p.flushPage(page.NewPageDescriptor(key.TableID, key.PageNo)); err != nil {
			return dberr.Wrap(err, dberr.KindIOFailure, "Close", "memory")
		}
	}

	p.cache.Close()
	return nil
}

// flushPage writes a page to its table file if it is cached and dirty, then
// marks it clean.
func (p *PageStore) flushPage(pid *page.PageDescriptor) error {
	pg, exists := p.cache.Get(pid)
	if !exists {
		return nil
	}
	if pg.IsDirty() == nil {
		return nil
	}

	dbFile, err := p.tableManager.GetDbFile(pid.GetTableID())
	if err != nil {
		return err
	}

	if err := dbFile.WritePage(pg); err != nil {
		return err
	}
	pg.MarkDirty(false, nil)
	p.cache.Put(pid, pg)
	return nil
}

func (p *PageStore) trackPageAccess(tid *transaction.TransactionID, pid *page.PageDescriptor, perm page.Permissions) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	txInfo := p.transactions[tid]
	if txInfo == nil {
		txInfo = newTransactionInfo()
		p.transactions[tid] = txInfo
	}
	txInfo.lockedPages[pid.Key()] = perm
}

func (p *PageStore) markPagesAsDirty(tid *transaction.TransactionID, pages []page.Page) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	txInfo := p.transactions[tid]
	if txInfo == nil {
		txInfo = newTransactionInfo()
		p.transactions[tid] = txInfo
	}

	for _, pg := range pages {
		pg.MarkDirty(true, tid)
		p.cache.Put(pg.GetID(), pg)
		txInfo.dirtyPages[pg.GetID().Key()] = true
	}
}
