// Package heap implements heap table files: unordered collections of tuples
// stored on fixed-size slotted pages, with transaction-scoped sequential
// scans that fetch every page through the page store.
package heap

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"

	"heapdb/pkg/concurrency/transaction"
	"heapdb/pkg/dberr"
	"heapdb/pkg/primitives"
	"heapdb/pkg/storage/page"
	"heapdb/pkg/tuple"
	"heapdb/pkg/types"
)

const (
	// SlotPointerSize is the size of each slot pointer: 2 bytes offset plus
	// 2 bytes length.
	SlotPointerSize = 4
	// MaxTupleSize is the largest row a slot pointer can address.
	MaxTupleSize = 65535
)

// SlotPointer locates one tuple within a page. An offset of 0 marks an empty
// slot; no tuple can legally start at offset 0 because the pointer array
// occupies the front of the page.
type SlotPointer struct {
	Offset uint16
	Length uint16
}

// HeapPage is a slotted page: a pointer array at the front, tuple data packed
// from the free space pointer onward. Slot numbers are stable across
// compaction, so record IDs survive space reclamation.
type HeapPage struct {
	pageID       *page.PageDescriptor
	tupleDesc    *tuple.TupleDescription
	tuples       []*tuple.Tuple
	slotPointers []SlotPointer
	numSlots     primitives.SlotID
	freeSpacePtr uint16
	dirtier      *transaction.TransactionID
	mutex        sync.RWMutex
}

// NewEmptyHeapPage creates a fully empty page for the given identity and
// schema, e.g. when a file grows by one page.
func NewEmptyHeapPage(pid *page.PageDescriptor, td *tuple.TupleDescription) (*HeapPage, error) {
	return NewHeapPage(pid, make([]byte, page.PageSize), td)
}

// NewHeapPage decodes raw page bytes into a HeapPage. The data must be
// exactly page.PageSize bytes.
func NewHeapPage(pid *page.PageDescriptor, data []byte, td *tuple.TupleDescription) (*HeapPage, error) {
	if len(data) != page.PageSize {
		return nil, dberr.New(dberr.KindInvalidArgument,
			"invalid page data size: expected %d, got %d", page.PageSize, len(data))
	}

	hp := &HeapPage{
		pageID:    pid,
		tupleDesc: td,
	}

	hp.numSlots = hp.maxSlots()
	hp.slotPointers = make([]SlotPointer, hp.numSlots)
	hp.tuples = make([]*tuple.Tuple, hp.numSlots)
	hp.freeSpacePtr = hp.headerSize()

	if err := hp.parsePageData(data); err != nil {
		return nil, err
	}
	return hp, nil
}

// GetID returns the identity of this page.
func (hp *HeapPage) GetID() *page.PageDescriptor {
	return hp.pageID
}

// IsDirty returns the transaction that last modified this page, or nil when
// the page is clean.
func (hp *HeapPage) IsDirty() *transaction.TransactionID {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.dirtier
}

// MarkDirty marks this page dirty for a transaction, or clean when dirty is
// false.
func (hp *HeapPage) MarkDirty(dirty bool, tid *transaction.TransactionID) {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if dirty {
		hp.dirtier = tid
	} else {
		hp.dirtier = nil
	}
}

// GetPageData serializes the page back into its PageSize-byte raw form:
// slot pointer array first, then tuple data at the recorded offsets.
func (hp *HeapPage) GetPageData() []byte {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	pageData := make([]byte, page.PageSize)

	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		offset := int(i) * SlotPointerSize
		binary.LittleEndian.PutUint16(pageData[offset:], hp.slotPointers[i].Offset)
		binary.LittleEndian.PutUint16(pageData[offset+2:], hp.slotPointers[i].Length)
	}

	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		if hp.slotPointers[i].Offset == 0 || hp.tuples[i] == nil {
			continue
		}

		tupleOffset := hp.slotPointers[i].Offset
		buffer := bytes.NewBuffer(pageData[tupleOffset:tupleOffset])

		for j := range hp.tupleDesc.NumFields() {
			field, err := hp.tuples[i].GetField(j)
			if err != nil || field == nil {
				continue
			}
			_ = field.Serialize(buffer)
		}
	}

	return pageData
}

// AddTuple places a tuple into the first empty slot and stamps its RecordID.
func (hp *HeapPage) AddTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	if !t.TupleDesc.Equals(hp.tupleDesc) {
		return dberr.New(dberr.KindInvalidArgument, "tuple schema does not match page schema")
	}

	slotIndex, err := hp.findFirstEmptySlot()
	if err != nil {
		return err
	}

	tupleSize := hp.tupleDesc.GetSize()
	if tupleSize > MaxTupleSize {
		return dberr.New(dberr.KindInvalidArgument,
			"tuple size %d exceeds maximum %d", tupleSize, MaxTupleSize)
	}

	if uint32(hp.freeSpacePtr)+tupleSize > page.PageSize {
		return dberr.New(dberr.KindPreconditionViolation, "no space left on this page")
	}

	newTupleOffset := hp.freeSpacePtr
	hp.freeSpacePtr += uint16(tupleSize)

	hp.slotPointers[slotIndex] = SlotPointer{
		Offset: newTupleOffset,
		Length: uint16(tupleSize),
	}

	hp.tuples[slotIndex] = t
	t.RecordID = tuple.NewRecordID(hp.pageID, slotIndex)
	return nil
}

// DeleteTuple clears the tuple's slot pointer. Space is not reclaimed until
// Compact runs.
func (hp *HeapPage) DeleteTuple(t *tuple.Tuple) error {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	recordID := t.RecordID
	if recordID == nil {
		return dberr.New(dberr.KindInvalidArgument, "tuple has no record ID")
	}

	if !hp.pageID.Equals(recordID.PageID) {
		return dberr.New(dberr.KindInvalidArgument, "tuple is not on this page")
	}

	slotIndex := recordID.SlotNum
	if !hp.isSlotUsed(slotIndex) {
		return dberr.New(dberr.KindNotFound, "tuple slot %d is already empty", slotIndex)
	}

	hp.slotPointers[slotIndex] = SlotPointer{}
	hp.tuples[slotIndex] = nil
	t.RecordID = nil
	return nil
}

// GetTuples returns the live tuples on this page in slot order.
func (hp *HeapPage) GetTuples() []*tuple.Tuple {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	tuples := make([]*tuple.Tuple, 0, hp.numSlots-hp.emptySlotCount())
	for _, t := range hp.tuples {
		if t != nil {
			tuples = append(tuples, t)
		}
	}
	return tuples
}

// GetTupleAt returns the tuple in the given slot, or nil for an empty slot.
func (hp *HeapPage) GetTupleAt(idx primitives.SlotID) (*tuple.Tuple, error) {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()

	if idx >= hp.numSlots {
		return nil, dberr.New(dberr.KindInvalidArgument,
			"slot index %d out of bounds [0, %d)", idx, hp.numSlots)
	}
	return hp.tuples[idx], nil
}

// GetNumEmptySlots returns the number of unoccupied slots.
func (hp *HeapPage) GetNumEmptySlots() primitives.SlotID {
	hp.mutex.RLock()
	defer hp.mutex.RUnlock()
	return hp.emptySlotCount()
}

// NumSlots returns the slot capacity of this page for its schema.
func (hp *HeapPage) NumSlots() primitives.SlotID {
	return hp.numSlots
}

// GetTupleDesc returns the schema of tuples on this page.
func (hp *HeapPage) GetTupleDesc() *tuple.TupleDescription {
	return hp.tupleDesc
}

// Iterator returns an iterator over the page's live tuples in slot order.
func (hp *HeapPage) Iterator() tuple.Iterator {
	return newPageIterator(hp)
}

// Compact repacks live tuples contiguously after the pointer array,
// reclaiming space left by deletions. Slot numbers do not change, so record
// IDs stay valid. Returns the number of bytes reclaimed.
func (hp *HeapPage) Compact() int {
	hp.mutex.Lock()
	defer hp.mutex.Unlock()

	type slotData struct {
		slotIndex primitives.SlotID
		data      []byte
	}

	var activeTuples []slotData
	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		if hp.slotPointers[i].Offset == 0 || hp.tuples[i] == nil {
			continue
		}

		buffer := &bytes.Buffer{}
		for j := range hp.tupleDesc.NumFields() {
			field, err := hp.tuples[i].GetField(j)
			if err != nil || field == nil {
				continue
			}
			_ = field.Serialize(buffer)
		}

		activeTuples = append(activeTuples, slotData{slotIndex: i, data: buffer.Bytes()})
	}

	freeBefore := int(page.PageSize) - int(hp.freeSpacePtr)

	hp.freeSpacePtr = hp.headerSize()
	for _, sd := range activeTuples {
		hp.slotPointers[sd.slotIndex] = SlotPointer{
			Offset: hp.freeSpacePtr,
			Length: uint16(len(sd.data)),
		}
		hp.freeSpacePtr += uint16(len(sd.data))
	}

	freeAfter := int(page.PageSize) - int(hp.freeSpacePtr)
	return freeAfter - freeBefore
}

// maxSlots returns how many tuples fit on a page for this schema, accounting
// for the slot pointer overhead per tuple.
func (hp *HeapPage) maxSlots() primitives.SlotID {
	tupleSize := hp.tupleDesc.GetSize()
	return primitives.SlotID(page.PageSize / (tupleSize + SlotPointerSize))
}

// headerSize returns the byte length of the slot pointer array.
func (hp *HeapPage) headerSize() uint16 {
	return uint16(hp.numSlots) * SlotPointerSize
}

// parsePageData rebuilds the slot pointer array and decodes every live tuple
// from the raw page bytes.
func (hp *HeapPage) parsePageData(data []byte) error {
	maxOffset := uint16(0)
	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		offset := int(i) * SlotPointerSize
		hp.slotPointers[i].Offset = binary.LittleEndian.Uint16(data[offset:])
		hp.slotPointers[i].Length = binary.LittleEndian.Uint16(data[offset+2:])

		if hp.slotPointers[i].Offset != 0 {
			endOffset := hp.slotPointers[i].Offset + hp.slotPointers[i].Length
			if endOffset > maxOffset {
				maxOffset = endOffset
			}
		}
	}

	hp.freeSpacePtr = max(maxOffset, hp.headerSize())

	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		if hp.slotPointers[i].Offset == 0 {
			continue
		}

		tupleOffset := hp.slotPointers[i].Offset
		tupleLength := hp.slotPointers[i].Length

		if int(tupleOffset)+int(tupleLength) > len(data) {
			return dberr.New(dberr.KindIOFailure,
				"invalid tuple at slot %d: offset %d + length %d exceeds page size",
				i, tupleOffset, tupleLength)
		}

		reader := bytes.NewReader(data[tupleOffset : tupleOffset+tupleLength])
		t, err := readTuple(reader, hp.tupleDesc)
		if err != nil {
			return dberr.Wrap(err, dberr.KindIOFailure, "parsePageData", "heap")
		}

		t.RecordID = tuple.NewRecordID(hp.pageID, i)
		hp.tuples[i] = t
	}

	return nil
}

func (hp *HeapPage) emptySlotCount() primitives.SlotID {
	emptySlots := primitives.SlotID(0)
	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		if hp.slotPointers[i].Offset == 0 {
			emptySlots++
		}
	}
	return emptySlots
}

func (hp *HeapPage) isSlotUsed(idx primitives.SlotID) bool {
	if idx >= hp.numSlots {
		return false
	}
	return hp.slotPointers[idx].Offset != 0
}

func (hp *HeapPage) findFirstEmptySlot() (primitives.SlotID, error) {
	for i := primitives.SlotID(0); i < hp.numSlots; i++ {
		if !hp.isSlotUsed(i) {
			return i, nil
		}
	}
	return 0, dberr.New(dberr.KindPreconditionViolation, "no empty slot available")
}

// readTuple decodes one row from a byte stream according to the schema.
func readTuple(reader io.Reader, td *tuple.TupleDescription) (*tuple.Tuple, error) {
	t := tuple.NewTuple(td)

	for j := range td.NumFields() {
		fieldType, err := td.TypeAtIndex(j)
		if err != nil {
			return nil, err
		}

		field, err := types.ParseField(reader, fieldType)
		if err != nil {
			return nil, err
		}

		if err := t.SetField(j, field); err != nil {
			return nil, err
		}
	}
	return t, nil
}
