package memory

import (
	"sync"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/dberr"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
	"heapdb/pkg/tuple"
)

// mockPage is a minimal page.Page for store tests.
type mockPage struct {
	pid     *page.PageDescriptor
	dirtier *transaction.TransactionID
	mutex   sync.Mutex
}

func newMockPage(pid *page.PageDescriptor) *mockPage {
	return &mockPage{pid: pid}
}

func (mp *mockPage) GetID() *page.PageDescriptor { return mp.pid }

func (mp *mockPage) GetPageData() []byte { return make([]byte, page.PageSize) }

func (mp *mockPage) IsDirty() *transaction.TransactionID {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()
	return mp.dirtier
}

func (mp *mockPage) MarkDirty(dirty bool, tid *transaction.TransactionID) {
	mp.mutex.Lock()
	defer mp.mutex.Unlock()
	if dirty {
		mp.dirtier = tid
	} else {
		mp.dirtier = nil
	}
}

func (mp *mockPage) Iterator() tuple.Iterator { return nil }

// mockDbFile is a page.DbFile that serves synthetic pages and counts calls.
type mockDbFile struct {
	tableID    primitives.TableID
	tupleDesc  *tuple.TupleDescription
	mutex      sync.Mutex
	readCount  int
	writeCount int
	readErr    error
}

func newMockDbFile(tableID primitives.TableID) *mockDbFile {
	return &mockDbFile{tableID: tableID}
}

func (mf *mockDbFile) ReadPage(pid *page.PageDescriptor) (page.Page, error) {
	mf.mutex.Lock()
	defer mf.mutex.Unlock()

	if mf.readErr != nil {
		return nil, mf.readErr
	}
	mf.readCount++
	return newMockPage(pid), nil
}

func (mf *mockDbFile) WritePage(p page.Page) error {
	mf.mutex.Lock()
	defer mf.mutex.Unlock()
	mf.writeCount++
	return nil
}

func (mf *mockDbFile) AddTuple(tid *transaction.TransactionID, t *tuple.Tuple) ([]page.Page, error) {
	pid := page.NewPageDescriptor(mf.tableID, 0)
	return []page.Page{newMockPage(pid)}, nil
}

func (mf *mockDbFile) DeleteTuple(tid *transaction.TransactionID, t *tuple.Tuple) (page.Page, error) {
	return nil, dberr.New(dberr.KindNotImplemented, "not supported by mock")
}

func (mf *mockDbFile) GetID() primitives.TableID { return mf.tableID }

func (mf *mockDbFile) GetTupleDesc() *tuple.TupleDescription { return mf.tupleDesc }

func (mf *mockDbFile) reads() int {
	mf.mutex.Lock()
	defer mf.mutex.Unlock()
	return mf.readCount
}

func (mf *mockDbFile) writes() int {
	mf.mutex.Lock()
	defer mf.mutex.Unlock()
	return mf.writeCount
}
