package types

import (
	"io"
	"strconv"

	"heapdb/pkg/primitives"
)

// BoolField represents a boolean field serialized as a single byte.
type BoolField struct {
	Value bool
}

func NewBoolField(value bool) *BoolField {
	return &BoolField{Value: value}
}

func (f *BoolField) Serialize(w io.Writer) error {
	b := []byte{0}
	if f.Value {
		b[0] = 1
	}
	_, err := w.Write(b)
	return err
}

// Compare supports equality predicates only; ordering booleans is undefined
// and yields false.
func (f *BoolField) Compare(op primitives.Predicate, other Field) (bool, error) {
	otherField, ok := other.(*BoolField)
	if !ok {
		return false, nil
	}

	switch op {
	case primitives.Equals:
		return f.Value == otherField.Value, nil
	case primitives.NotEqual:
		return f.Value != otherField.Value, nil
	default:
		return false, nil
	}
}

func (f *BoolField) Type() Type {
	return BoolType
}

func (f *BoolField) String() string {
	return strconv.FormatBool(f.Value)
}

func (f *BoolField) Equals(other Field) bool {
	otherField, ok := other.(*BoolField)
	if !ok {
		return false
	}
	return f.Value == otherField.Value
}

func (f *BoolField) Hash() (primitives.HashCode, error) {
	if f.Value {
		return fnvHash([]byte{1}), nil
	}
	return fnvHash([]byte{0}), nil
}
