package heap

import (
	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/dberr"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
	"heapdb/pkg/tuple"
)

// scanState is the lifecycle state of a file scan.
type scanState int

const (
	// scanUnopened: created or closed, no position. HasNext and Next fail.
	scanUnopened scanState = iota
	// scanScanning: positioned within the file, tuples may remain.
	scanScanning
	// scanExhausted: every tuple has been delivered.
	scanExhausted
)

// HeapFileIterator is a lazy sequential scan over every tuple of a HeapFile
// on behalf of one transaction. Pages are fetched one at a time with
// read-only permission through the page fetcher, which takes the page lock
// for the transaction; the iterator itself never releases locks, not even on
// Close, because lock lifetime belongs to the transaction.
//
// The page count is snapshotted at Open. Pages appended to the file during a
// scan are not picked up until Rewind or a new scan.
type HeapFileIterator struct {
	file        *HeapFile
	tid         *transaction.TransactionID
	fetcher     page.PageFetcher
	state       scanState
	currentPage int64
	numPages    int64
	pageIter    *HeapPageIterator
}

// NewHeapFileIterator creates an unopened scan. No I/O happens until Open.
func NewHeapFileIterator(file *HeapFile, tid *transaction.TransactionID, fetcher page.PageFetcher) *HeapFileIterator {
	return &HeapFileIterator{
		file:        file,
		tid:         tid,
		fetcher:     fetcher,
		state:       scanUnopened,
		currentPage: -1,
	}
}

// Open positions the scan at the first tuple of the file. A file with no
// pages, or only empty pages, opens directly into the exhausted state.
func (it *HeapFileIterator) Open() error {
	it.numPages = int64(it.file.NumPages())
	it.currentPage = -1
	it.pageIter = nil
	it.state = scanScanning
	return it.moveToNextPage()
}

// HasNext reports whether another tuple remains. Calling it on an unopened
// iterator is an error, not a false.
func (it *HeapFileIterator) HasNext() (bool, error) {
	switch it.state {
	case scanUnopened:
		return false, dberr.New(dberr.KindPreconditionViolation, "iterator not opened")
	case scanExhausted:
		return false, nil
	}

	if it.pageIter == nil {
		return false, nil
	}
	return it.pageIter.HasNext()
}

// Next returns the next tuple. Past the last tuple it fails with an
// end-of-sequence error, never a nil tuple.
func (it *HeapFileIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberr.New(dberr.KindEndOfSequence, "no more tuples in file")
	}

	t, err := it.pageIter.Next()
	if err != nil {
		return nil, err
	}

	// Advance eagerly past empty pages so the next HasNext is a cheap check.
	pageHasNext, err := it.pageIter.HasNext()
	if err != nil {
		return nil, err
	}
	if !pageHasNext {
		if err := it.moveToNextPage(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Rewind restarts the scan from the first tuple. Locks already held by the
// transaction stay held; pages are re-fetched through the page store, which
// serves them from cache.
func (it *HeapFileIterator) Rewind() error {
	if err := it.Close(); err != nil {
		return err
	}
	return it.Open()
}

// Close returns the iterator to the unopened state. It releases no locks;
// those belong to the transaction and are released at commit or abort.
func (it *HeapFileIterator) Close() error {
	if it.pageIter != nil {
		it.pageIter.Close()
		it.pageIter = nil
	}
	it.state = scanUnopened
	it.currentPage = -1
	return nil
}

// moveToNextPage advances to the next page holding at least one tuple,
// fetching each page through the page store. Fetch and decode errors abort
// the scan and propagate; in particular a transaction-aborted error from the
// lock manager is never masked. Running past the last page transitions to
// exhausted.
func (it *HeapFileIterator) moveToNextPage() error {
	for {
		it.currentPage++
		if it.currentPage >= it.numPages {
			it.pageIter = nil
			it.state = scanExhausted
			return nil
		}

		pid := page.NewPageDescriptor(it.file.GetID(), primitives.PageNumber(it.currentPage))
		pg, err := it.fetcher.GetPage(it.tid, pid, page.ReadOnly)
		if err != nil {
			it.state = scanExhausted
			return err
		}

		heapPage, ok := pg.(*HeapPage)
		if !ok {
			it.state = scanExhausted
			return dberr.New(dberr.KindIOFailure,
				"page %v is not a heap page", pid)
		}

		it.pageIter = newPageIterator(heapPage)
		if err := it.pageIter.Open(); err != nil {
			it.state = scanExhausted
			return err
		}

		hasNext, err := it.pageIter.HasNext()
		if err != nil {
			it.state = scanExhausted
			return err
		}
		if hasNext {
			return nil
		}
	}
}
