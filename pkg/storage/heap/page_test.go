package heap

import (
	"testing"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
	"heapdb/pkg/tuple"
	"heapdb/pkg/types"
)

func mustCreateTupleDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType, types.StringType}, []string{"id", "name"})
	if err != nil {
		t.Fatalf("Failed to create tuple desc: %v", err)
	}
	return td
}

func makeTestTuple(t *testing.T, td *tuple.TupleDescription, id int64, name string) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	if err := tup.SetField(0, types.NewIntField(id)); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	if err := tup.SetField(1, types.NewStringField(name)); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}
	return tup
}

func TestNewHeapPage(t *testing.T) {
	pageID := page.NewPageDescriptor(1, 2)
	td := mustCreateTupleDesc(t)

	tests := []struct {
		name          string
		data          []byte
		expectedError bool
	}{
		{"Valid page creation", make([]byte, page.PageSize), false},
		{"Data too small", make([]byte, page.PageSize-1), true},
		{"Data too large", make([]byte, page.PageSize+1), true},
		{"Empty data", []byte{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hp, err := NewHeapPage(pageID, tt.data, td)

			if tt.expectedError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if hp.GetID() != pageID {
				t.Errorf("Page must keep its identity")
			}
			if hp.GetNumEmptySlots() != hp.NumSlots() {
				t.Errorf("A zeroed page must be entirely empty")
			}
		})
	}
}

func TestHeapPageSlotCapacity(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, err := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := primitives.SlotID(page.PageSize / (td.GetSize() + SlotPointerSize))
	if hp.NumSlots() != expected {
		t.Errorf("Expected %d slots, got %d", expected, hp.NumSlots())
	}
}

func TestHeapPageAddTuple(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	tup := makeTestTuple(t, td, 1, "first")
	if err := hp.AddTuple(tup); err != nil {
		t.Fatalf("AddTuple failed: %v", err)
	}

	if tup.RecordID == nil {
		t.Fatalf("AddTuple must stamp a record ID")
	}
	if tup.RecordID.SlotNum != 0 {
		t.Errorf("First tuple must land in slot 0, got %d", tup.RecordID.SlotNum)
	}
	if hp.GetNumEmptySlots() != hp.NumSlots()-1 {
		t.Errorf("Expected one occupied slot")
	}

	got, err := hp.GetTupleAt(0)
	if err != nil {
		t.Fatalf("GetTupleAt failed: %v", err)
	}
	if !got.Equals(tup) {
		t.Errorf("Stored tuple differs from inserted tuple")
	}
}

func TestHeapPageAddTupleSchemaMismatch(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	otherDesc, _ := tuple.NewTupleDesc([]types.Type{types.BoolType}, nil)
	wrong := tuple.NewTuple(otherDesc)
	wrong.SetField(0, types.NewBoolField(true))

	if err := hp.AddTuple(wrong); err == nil {
		t.Errorf("Expected schema mismatch error")
	}
}

func TestHeapPageFillsUp(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	capacity := int(hp.NumSlots())
	for i := range capacity {
		if err := hp.AddTuple(makeTestTuple(t, td, int64(i), "row")); err != nil {
			t.Fatalf("AddTuple %d failed: %v", i, err)
		}
	}

	if hp.GetNumEmptySlots() != 0 {
		t.Fatalf("Page should be full")
	}
	if err := hp.AddTuple(makeTestTuple(t, td, 999, "overflow")); err == nil {
		t.Errorf("Expected error adding to a full page")
	}
}

func TestHeapPageDeleteTuple(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	tup := makeTestTuple(t, td, 1, "victim")
	if err := hp.AddTuple(tup); err != nil {
		t.Fatalf("AddTuple failed: %v", err)
	}

	if err := hp.DeleteTuple(tup); err != nil {
		t.Fatalf("DeleteTuple failed: %v", err)
	}
	if tup.RecordID != nil {
		t.Errorf("Deletion must clear the record ID")
	}
	if hp.GetNumEmptySlots() != hp.NumSlots() {
		t.Errorf("Page should be empty after deletion")
	}

	orphan := makeTestTuple(t, td, 2, "orphan")
	if err := hp.DeleteTuple(orphan); err == nil {
		t.Errorf("Expected error deleting a tuple without a record ID")
	}
}

func TestHeapPageDeleteForeignTuple(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)
	other, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 1), td)

	tup := makeTestTuple(t, td, 1, "elsewhere")
	if err := other.AddTuple(tup); err != nil {
		t.Fatalf("AddTuple failed: %v", err)
	}

	if err := hp.DeleteTuple(tup); err == nil {
		t.Errorf("Expected error deleting a tuple that lives on another page")
	}
}

func TestHeapPageDataRoundTrip(t *testing.T) {
	td := mustCreateTupleDesc(t)
	pid := page.NewPageDescriptor(1, 0)
	hp, _ := NewEmptyHeapPage(pid, td)

	inserted := make([]*tuple.Tuple, 0, 5)
	for i := range 5 {
		tup := makeTestTuple(t, td, int64(i), "row")
		if err := hp.AddTuple(tup); err != nil {
			t.Fatalf("AddTuple failed: %v", err)
		}
		inserted = append(inserted, tup)
	}

	data := hp.GetPageData()
	if len(data) != page.PageSize {
		t.Fatalf("Serialized page must be %d bytes, got %d", page.PageSize, len(data))
	}

	decoded, err := NewHeapPage(pid, data, td)
	if err != nil {
		t.Fatalf("Re-decoding failed: %v", err)
	}

	got := decoded.GetTuples()
	if len(got) != len(inserted) {
		t.Fatalf("Expected %d tuples after round trip, got %d", len(inserted), len(got))
	}
	for i, tup := range got {
		if !tup.Equals(inserted[i]) {
			t.Errorf("Tuple %d changed across the round trip", i)
		}
		if tup.RecordID == nil || tup.RecordID.SlotNum != primitives.SlotID(i) {
			t.Errorf("Tuple %d lost its slot placement", i)
		}
	}
}

func TestHeapPageCompact(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	keep := makeTestTuple(t, td, 0, "keep")
	drop := makeTestTuple(t, td, 1, "drop")
	last := makeTestTuple(t, td, 2, "last")
	for _, tup := range []*tuple.Tuple{keep, drop, last} {
		if err := hp.AddTuple(tup); err != nil {
			t.Fatalf("AddTuple failed: %v", err)
		}
	}

	if err := hp.DeleteTuple(drop); err != nil {
		t.Fatalf("DeleteTuple failed: %v", err)
	}

	reclaimed := hp.Compact()
	if reclaimed != int(td.GetSize()) {
		t.Errorf("Expected %d bytes reclaimed, got %d", td.GetSize(), reclaimed)
	}

	// Slot numbers survive compaction.
	if keep.RecordID.SlotNum != 0 {
		t.Errorf("Compaction must not move slot 0")
	}
	if last.RecordID.SlotNum != 2 {
		t.Errorf("Compaction must not renumber slot 2")
	}

	remaining := hp.GetTuples()
	if len(remaining) != 2 {
		t.Errorf("Expected 2 live tuples after compaction, got %d", len(remaining))
	}
}

func TestHeapPageIterator(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	for i := range 3 {
		if err := hp.AddTuple(makeTestTuple(t, td, int64(i), "iter")); err != nil {
			t.Fatalf("AddTuple failed: %v", err)
		}
	}

	it := hp.Iterator()
	if err := it.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	var seen []int64
	for {
		hasNext, err := it.HasNext()
		if err != nil {
			t.Fatalf("HasNext failed: %v", err)
		}
		if !hasNext {
			break
		}

		tup, err := it.Next()
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		field, _ := tup.GetField(0)
		seen = append(seen, field.(*types.IntField).Value)
	}

	if len(seen) != 3 {
		t.Fatalf("Expected 3 tuples, got %d", len(seen))
	}
	for i, v := range seen {
		if v != int64(i) {
			t.Errorf("Expected slot order, got %v", seen)
		}
	}

	if _, err := it.Next(); err == nil {
		t.Errorf("Next past the end must fail")
	}

	if err := it.Rewind(); err != nil {
		t.Fatalf("Rewind failed: %v", err)
	}
	hasNext, _ := it.HasNext()
	if !hasNext {
		t.Errorf("Rewound iterator must see tuples again")
	}
}

func TestHeapPageMarkDirty(t *testing.T) {
	td := mustCreateTupleDesc(t)
	hp, _ := NewEmptyHeapPage(page.NewPageDescriptor(1, 0), td)

	if hp.IsDirty() != nil {
		t.Errorf("A fresh page is clean")
	}

	tid := transaction.NewTransactionID()
	hp.MarkDirty(true, tid)
	if hp.IsDirty() != tid {
		t.Errorf("Expected the dirtying transaction")
	}

	hp.MarkDirty(false, nil)
	if hp.IsDirty() != nil {
		t.Errorf("Expected the page to be clean again")
	}
}
