package types

import (
	"encoding/binary"
	"io"
	"math"
	"strconv"

	"heapdb/pkg/primitives"
)

// FloatField represents a 64-bit IEEE 754 floating point field.
type FloatField struct {
	Value float64
}

func NewFloatField(value float64) *FloatField {
	return &FloatField{Value: value}
}

func (f *FloatField) Serialize(w io.Writer) error {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, math.Float64bits(f.Value))
	_, err := w.Write(bytes)
	return err
}

func (f *FloatField) Compare(op primitives.Predicate, other Field) (bool, error) {
	otherField, ok := other.(*FloatField)
	if !ok {
		return false, nil
	}
	return compareOrdered(f.Value, otherField.Value, op), nil
}

func (f *FloatField) Type() Type {
	return FloatType
}

func (f *FloatField) String() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}

func (f *FloatField) Equals(other Field) bool {
	otherField, ok := other.(*FloatField)
	if !ok {
		return false
	}
	return f.Value == otherField.Value
}

func (f *FloatField) Hash() (primitives.HashCode, error) {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, math.Float64bits(f.Value))
	return fnvHash(bytes), nil
}
