package tuple

import (
	"fmt"
	"strings"

	"heapdb/pkg/dberr"
	"heapdb/pkg/types"
)

// TupleDescription describes the schema of a tuple: an ordered, immutable
// list of field types with optional field names. Because every field type has
// a fixed width, a descriptor fixes the binary width of its rows.
type TupleDescription struct {
	// Types contains the data type of each field in order.
	Types []types.Type
	// FieldNames contains the name of each field (optional, may be nil).
	FieldNames []string
}

// NewTupleDesc creates a TupleDescription from field types and optional field
// names. If fieldNames is nil, fields are unnamed. The type sequence must be
// non-empty and, when names are given, the two sequences must have equal
// length.
func NewTupleDesc(fieldTypes []types.Type, fieldNames []string) (*TupleDescription, error) {
	if len(fieldTypes) < 1 {
		return nil, dberr.New(dberr.KindInvalidArgument, "must provide at least one field type")
	}

	typesCopy := make([]types.Type, len(fieldTypes))
	copy(typesCopy, fieldTypes)

	var namesCopy []string
	if fieldNames != nil {
		if len(fieldNames) != len(fieldTypes) {
			return nil, dberr.New(dberr.KindInvalidArgument,
				"field names length (%d) must match field types length (%d)",
				len(fieldNames), len(fieldTypes))
		}
		namesCopy = make([]string, len(fieldNames))
		copy(namesCopy, fieldNames)
	}

	return &TupleDescription{
		Types:      typesCopy,
		FieldNames: namesCopy,
	}, nil
}

// NumFields returns the number of fields in this descriptor.
func (td *TupleDescription) NumFields() int {
	return len(td.Types)
}

// GetFieldName returns the name of the ith field, or the empty string if the
// schema carries no names.
func (td *TupleDescription) GetFieldName(i int) (string, error) {
	if i < 0 || i >= len(td.Types) {
		return "", dberr.New(dberr.KindInvalidArgument,
			"field index %d out of bounds [0, %d)", i, len(td.Types))
	}

	if td.FieldNames == nil {
		return "", nil
	}

	return td.FieldNames[i], nil
}

// TypeAtIndex returns the type of the ith field.
func (td *TupleDescription) TypeAtIndex(i int) (types.Type, error) {
	if i < 0 || i >= len(td.Types) {
		return 0, dberr.New(dberr.KindInvalidArgument,
			"field index %d out of bounds [0, %d)", i, len(td.Types))
	}
	return td.Types[i], nil
}

// GetSize returns the fixed row width in bytes: the sum of all field type
// sizes.
func (td *TupleDescription) GetSize() uint32 {
	var size uint32
	for _, fieldType := range td.Types {
		size += fieldType.Size()
	}
	return size
}

// FindFieldIndex locates a field by name with a case-sensitive linear search.
// The first match wins when names are duplicated.
func (td *TupleDescription) FindFieldIndex(fieldName string) (int, error) {
	for i := range td.Types {
		name, _ := td.GetFieldName(i)
		if name == fieldName {
			return i, nil
		}
	}
	return -1, dberr.New(dberr.KindNotFound, "column %s not found", fieldName)
}

// Equals checks structural equality of two descriptors: same field count and
// the same type at every position. Field names are not compared; descriptors
// differing only by field aliasing are join-compatible and therefore equal.
func (td *TupleDescription) Equals(other *TupleDescription) bool {
	if other == nil {
		return false
	}

	if len(td.Types) != len(other.Types) {
		return false
	}

	for i, fieldType := range td.Types {
		if fieldType != other.Types[i] {
			return false
		}
	}
	return true
}

// String returns "Type1(name1),Type2(name2),..." with "null" for unnamed
// fields.
func (td *TupleDescription) String() string {
	var parts []string

	for i, fieldType := range td.Types {
		fieldName := "null"
		if td.FieldNames != nil && i < len(td.FieldNames) {
			fieldName = td.FieldNames[i]
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", fieldType.String(), fieldName))
	}

	return strings.Join(parts, ",")
}

// Combine merges two descriptors into one holding td1's fields followed by
// td2's fields, preserving order. If either is nil the other is returned.
func Combine(td1, td2 *TupleDescription) *TupleDescription {
	if td1 == nil && td2 == nil {
		return nil
	}
	if td1 == nil {
		return td2
	}
	if td2 == nil {
		return td1
	}

	newTypes := make([]types.Type, 0, len(td1.Types)+len(td2.Types))
	newTypes = append(newTypes, td1.Types...)
	newTypes = append(newTypes, td2.Types...)

	var newFieldNames []string
	if td1.FieldNames != nil || td2.FieldNames != nil {
		newFieldNames = make([]string, 0, len(newTypes))
		newFieldNames = append(newFieldNames, namesOrBlanks(td1)...)
		newFieldNames = append(newFieldNames, namesOrBlanks(td2)...)
	}

	combined, _ := NewTupleDesc(newTypes, newFieldNames)
	return combined
}

func namesOrBlanks(td *TupleDescription) []string {
	if td.FieldNames != nil {
		return td.FieldNames
	}
	return make([]string, len(td.Types))
}
