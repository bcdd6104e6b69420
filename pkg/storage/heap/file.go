package heap

import (
	"errors"
	"io"
	"os"
	"sync"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/dberr"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
	"heapdb/pkg/tuple"
)

// HeapFile is a table file: an array of fixed-size pages in a single OS file,
// where page i occupies the byte range [i*PageSize, (i+1)*PageSize). The
// table ID is derived deterministically from the canonical file path, so two
// HeapFile values over the same file agree on identity across processes.
//
// A HeapFile never retains an open file handle; every physical read opens,
// reads and closes. It also never caches pages or takes locks, that is the
// page store's job.
type HeapFile struct {
	path      primitives.Filepath
	tupleDesc *tuple.TupleDescription
	tableID   primitives.TableID
	pageCount primitives.PageNumber
	mutex     sync.RWMutex
}

// NewHeapFile creates a heap file over the given path. The backing file does
// not have to exist; an absent or empty file is a valid table with zero
// pages. The page count is captured here and only changes via Refresh.
func NewHeapFile(path primitives.Filepath, td *tuple.TupleDescription) (*HeapFile, error) {
	if td == nil {
		return nil, dberr.New(dberr.KindInvalidArgument, "tuple description cannot be nil")
	}

	canonical, err := path.Canonical()
	if err != nil {
		return nil, dberr.Wrap(err, dberr.KindInvalidArgument, "NewHeapFile", "heap")
	}

	hf := &HeapFile{
		path:      canonical,
		tupleDesc: td,
		tableID:   canonical.Hash(),
	}

	count, err := hf.countPages()
	if err != nil {
		return nil, err
	}
	hf.pageCount = count
	return hf, nil
}

// GetID returns the table identifier, a deterministic function of the
// canonical file path.
func (hf *HeapFile) GetID() primitives.TableID {
	return hf.tableID
}

// GetTupleDesc returns the schema of tuples stored in this file.
func (hf *HeapFile) GetTupleDesc() *tuple.TupleDescription {
	return hf.tupleDesc
}

// FilePath returns the canonical path of the backing file.
func (hf *HeapFile) FilePath() primitives.Filepath {
	return hf.path
}

// NumPages returns the page count captured at construction or the last
// Refresh. A file whose size is not a multiple of the page size counts its
// trailing partial page.
func (hf *HeapFile) NumPages() primitives.PageNumber {
	hf.mutex.RLock()
	defer hf.mutex.RUnlock()
	return hf.pageCount
}

// Refresh re-reads the backing file's size and updates the page count.
// Callers that suspect the file grew or shrank underneath them use this to
// resynchronize.
func (hf *HeapFile) Refresh() error {
	count, err := hf.countPages()
	if err != nil {
		return err
	}

	hf.mutex.Lock()
	hf.pageCount = count
	hf.mutex.Unlock()
	return nil
}

// ReadPage performs the physical read of one page and decodes it. The page
// identity must belong to this table and lie inside the current page count.
// A trailing partial page reads as if zero-padded to the full page size.
func (hf *HeapFile) ReadPage(pid *page.PageDescriptor) (page.Page, error) {
	if pid == nil {
		return nil, dberr.New(dberr.KindInvalidArgument, "page descriptor cannot be nil")
	}
	if pid.GetTableID() != hf.tableID {
		return nil, dberr.New(dberr.KindInvalidArgument,
			"page %v does not belong to table %d", pid, hf.tableID)
	}
	if pid.PageNo() >= hf.NumPages() {
		return nil, dberr.New(dberr.KindInvalidArgument,
			"page number %d out of range [0, %d)", pid.PageNo(), hf.NumPages())
	}

	f, err := os.Open(string(hf.path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dberr.Wrap(err, dberr.KindNotFound, "ReadPage", "heap")
		}
		return nil, dberr.Wrap(err, dberr.KindIOFailure, "ReadPage", "heap")
	}
	defer f.Close()

	data := make([]byte, page.PageSize)
	offset := int64(pid.PageNo()) * page.PageSize
	n, err := f.ReadAt(data, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, dberr.Wrap(err, dberr.KindIOFailure, "ReadPage", "heap")
	}
	if n == 0 {
		return nil, dberr.New(dberr.KindIOFailure,
			"page %d is past the end of file %s", pid.PageNo(), hf.path).
			WithOp("ReadPage", "heap")
	}

	return NewHeapPage(pid, data, hf.tupleDesc)
}

// WritePage is not supported in this milestone.
func (hf *HeapFile) WritePage(p page.Page) error {
	return dberr.New(dberr.KindNotImplemented, "WritePage is not implemented for heap files")
}

// AddTuple is not supported in this milestone.
func (hf *HeapFile) AddTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]page.Page, error) {
	return nil, dberr.New(dberr.KindNotImplemented, "AddTuple is not implemented for heap files")
}

// DeleteTuple is not supported in this milestone.
func (hf *HeapFile) DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) (page.Page, error) {
	return nil, dberr.New(dberr.KindNotImplemented, "DeleteTuple is not implemented for heap files")
}

// Scan returns a lazy sequential iterator over every tuple in the file on
// behalf of tid. Construction does no I/O; pages are fetched one at a time
// through the given fetcher as iteration proceeds.
func (hf *HeapFile) Scan(tid *transaction.TransactionID, fetcher page.PageFetcher) *HeapFileIterator {
	return NewHeapFileIterator(hf, tid, fetcher)
}

// countPages stats the backing file and converts its size to pages, rounding
// up. An absent file is zero pages.
func (hf *HeapFile) countPages() (primitives.PageNumber, error) {
	info, err := os.Stat(string(hf.path))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, dberr.Wrap(err, dberr.KindIOFailure, "countPages", "heap")
	}

	size := info.Size()
	return primitives.PageNumber((size + page.PageSize - 1) / page.PageSize), nil
}
