package types

import (
	"encoding/binary"
	"io"
	"strings"

	"heapdb/pkg/primitives"
)

// StringField represents a string field with a fixed on-disk width.
// Values longer than StringMaxSize are truncated at construction.
type StringField struct {
	Value string
}

func NewStringField(value string) *StringField {
	if len(value) > StringMaxSize {
		value = value[:StringMaxSize]
	}
	return &StringField{Value: value}
}

// Compare performs a lexicographic comparison against another StringField.
// Like tests substring containment.
func (s *StringField) Compare(op primitives.Predicate, other Field) (bool, error) {
	otherStringField, ok := other.(*StringField)
	if !ok {
		return false, nil
	}

	if op == primitives.Like {
		return strings.Contains(s.Value, otherStringField.Value), nil
	}

	return compareOrdered(s.Value, otherStringField.Value, op), nil
}

// Serialize writes the string in its fixed-width form:
// a 4-byte big-endian length, the payload, then zero padding to StringMaxSize.
func (s *StringField) Serialize(w io.Writer) error {
	length := min(len(s.Value), StringMaxSize)

	lengthBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthBytes, uint32(length))

	if _, err := w.Write(lengthBytes); err != nil {
		return err
	}

	if _, err := w.Write([]byte(s.Value[:length])); err != nil {
		return err
	}

	padding := make([]byte, StringMaxSize-length)
	_, err := w.Write(padding)
	return err
}

func (s *StringField) Type() Type {
	return StringType
}

func (s *StringField) String() string {
	return s.Value
}

func (s *StringField) Equals(other Field) bool {
	otherField, ok := other.(*StringField)
	if !ok {
		return false
	}
	return s.Value == otherField.Value
}

func (s *StringField) Hash() (primitives.HashCode, error) {
	return fnvHash([]byte(s.Value)), nil
}
