package tuple

import (
	"strings"

	"heapdb/pkg/dberr"
	"heapdb/pkg/types"
)

// Tuple represents one row of field values conforming to a TupleDescription.
type Tuple struct {
	TupleDesc *TupleDescription // Schema of this tuple
	fields    []types.Field     // The actual field values
	RecordID  *RecordID         // Where this tuple is stored (nil if unplaced)
}

// NewTuple creates an empty tuple with the given schema.
func NewTuple(td *TupleDescription) *Tuple {
	return &Tuple{
		TupleDesc: td,
		fields:    make([]types.Field, td.NumFields()),
	}
}

// SetField assigns the ith field. The field's type must match the schema.
func (t *Tuple) SetField(i int, field types.Field) error {
	if i < 0 || i >= len(t.fields) {
		return dberr.New(dberr.KindInvalidArgument,
			"field index %d out of bounds [0, %d)", i, len(t.fields))
	}

	expectedType, _ := t.TupleDesc.TypeAtIndex(i)
	if field.Type() != expectedType {
		return dberr.New(dberr.KindInvalidArgument,
			"field type mismatch: expected %v, got %v", expectedType, field.Type())
	}

	t.fields[i] = field
	return nil
}

// GetField returns the value of the ith field.
func (t *Tuple) GetField(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, dberr.New(dberr.KindInvalidArgument,
			"field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

// String renders the tuple as tab-separated field values.
func (t *Tuple) String() string {
	parts := make([]string, 0, len(t.fields))
	for _, field := range t.fields {
		if field != nil {
			parts = append(parts, field.String())
		} else {
			parts = append(parts, "null")
		}
	}
	return strings.Join(parts, "\t")
}

// Equals checks that two tuples have equal schemas and pairwise-equal fields.
// RecordIDs are not compared; two copies of the same row at different
// locations are equal.
func (t *Tuple) Equals(other *Tuple) bool {
	if other == nil {
		return false
	}
	if !t.TupleDesc.Equals(other.TupleDesc) {
		return false
	}
	for i, field := range t.fields {
		otherField := other.fields[i]
		if field == nil || otherField == nil {
			if field != otherField {
				return false
			}
			continue
		}
		if !field.Equals(otherField) {
			return false
		}
	}
	return true
}

// Clone creates a deep copy of this tuple without its RecordID.
func (t *Tuple) Clone() (*Tuple, error) {
	newTup := NewTuple(t.TupleDesc)

	for i := range t.TupleDesc.NumFields() {
		field, err := t.GetField(i)
		if err != nil {
			return nil, err
		}
		if field == nil {
			continue
		}
		if err := newTup.SetField(i, field); err != nil {
			return nil, err
		}
	}

	return newTup, nil
}

// CombineTuples concatenates two tuples into one whose schema is the
// combination of both schemas, t1's fields first.
func CombineTuples(t1, t2 *Tuple) (*Tuple, error) {
	if t1 == nil || t2 == nil {
		return nil, dberr.New(dberr.KindInvalidArgument, "cannot combine nil tuples")
	}

	newTuple := NewTuple(Combine(t1.TupleDesc, t2.TupleDesc))

	if err := t1.copyFieldsTo(newTuple, 0); err != nil {
		return nil, err
	}
	if err := t2.copyFieldsTo(newTuple, t1.TupleDesc.NumFields()); err != nil {
		return nil, err
	}

	return newTuple, nil
}

func (t *Tuple) copyFieldsTo(target *Tuple, startIndex int) error {
	for i := range t.TupleDesc.NumFields() {
		field, err := t.GetField(i)
		if err != nil {
			return err
		}
		if field == nil {
			continue
		}
		if err := target.SetField(startIndex+i, field); err != nil {
			return err
		}
	}
	return nil
}
