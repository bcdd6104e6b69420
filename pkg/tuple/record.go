package tuple

import (
	"fmt"

	"heapdb/pkg/primitives"
)

// RecordID is a reference to a specific tuple slot on a specific page.
type RecordID struct {
	PageID  primitives.PageID // The page containing this tuple
	SlotNum primitives.SlotID // The slot number within the page
}

// NewRecordID creates a new RecordID.
func NewRecordID(pageID primitives.PageID, slotNum primitives.SlotID) *RecordID {
	return &RecordID{
		PageID:  pageID,
		SlotNum: slotNum,
	}
}

func (rid *RecordID) Equals(other *RecordID) bool {
	if other == nil {
		return false
	}
	return rid.PageID.Equals(other.PageID) && rid.SlotNum == other.SlotNum
}

func (rid *RecordID) String() string {
	return fmt.Sprintf("RecordID(page=%s, slot=%d)", rid.PageID.String(), rid.SlotNum)
}
