package heap

import (
	"heapdb/pkg/dberr"
	"heapdb/pkg/tuple"
)

// HeapPageIterator iterates over the live tuples of one HeapPage in slot
// order. It snapshots the page's tuples at Open, so concurrent page changes
// do not affect an iteration in flight.
type HeapPageIterator struct {
	page         *HeapPage
	tuples       []*tuple.Tuple
	currentIndex int
}

func newPageIterator(page *HeapPage) *HeapPageIterator {
	return &HeapPageIterator{
		page:         page,
		currentIndex: -1,
	}
}

func (it *HeapPageIterator) Open() error {
	it.tuples = it.page.GetTuples()
	it.currentIndex = -1
	return nil
}

func (it *HeapPageIterator) HasNext() (bool, error) {
	return it.currentIndex+1 < len(it.tuples), nil
}

func (it *HeapPageIterator) Next() (*tuple.Tuple, error) {
	hasNext, err := it.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, dberr.New(dberr.KindEndOfSequence, "no more tuples on page")
	}

	it.currentIndex++
	return it.tuples[it.currentIndex], nil
}

func (it *HeapPageIterator) Rewind() error {
	return it.Open()
}

func (it *HeapPageIterator) Close() error {
	it.tuples = nil
	it.currentIndex = -1
	return nil
}
