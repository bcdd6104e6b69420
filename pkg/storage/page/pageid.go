package page

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"heapdb/pkg/primitives"
)

// PageDescriptor is the identity of one page: (tableID, pageNo). It is a pure
// value type with structural equality and hashing, because it is the unit of
// page addressing and the key under which pages are cached and locked.
type PageDescriptor struct {
	tableID primitives.TableID
	pageNum primitives.PageNumber
}

// PageKey is the comparable value form of a PageDescriptor, suitable as a map
// key. Two descriptors for the same (table, page) always produce the same
// PageKey regardless of pointer identity.
type PageKey struct {
	TableID primitives.TableID
	PageNo  primitives.PageNumber
}

// NewPageDescriptor creates a new page descriptor.
func NewPageDescriptor(tableID primitives.TableID, pageNum primitives.PageNumber) *PageDescriptor {
	return &PageDescriptor{
		tableID: tableID,
		pageNum: pageNum,
	}
}

// GetTableID returns the table this page belongs to.
func (pd *PageDescriptor) GetTableID() primitives.TableID {
	return pd.tableID
}

// PageNo returns the page number within the table.
func (pd *PageDescriptor) PageNo() primitives.PageNumber {
	return pd.pageNum
}

// Key returns the comparable value form of this descriptor.
func (pd *PageDescriptor) Key() PageKey {
	return PageKey{TableID: pd.tableID, PageNo: pd.pageNum}
}

// Serialize returns the canonical 16-byte representation of this page ID.
func (pd *PageDescriptor) Serialize() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(pd.tableID))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(pd.pageNum))
	return buf
}

// Equals checks structural equality with another page ID.
func (pd *PageDescriptor) Equals(other primitives.PageID) bool {
	if other == nil {
		return false
	}
	return pd.tableID == other.GetTableID() && pd.pageNum == other.PageNo()
}

func (pd *PageDescriptor) String() string {
	return fmt.Sprintf("PageDescriptor(table=%d, page=%d)", pd.tableID, pd.pageNum)
}

// HashCode returns a hash code over the serialized identity.
func (pd *PageDescriptor) HashCode() primitives.HashCode {
	h := fnv.New64a()
	h.Write(pd.Serialize())
	return primitives.HashCode(h.Sum64())
}
