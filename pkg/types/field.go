package types

import (
	"io"

	"heapdb/pkg/primitives"
)

// Field is a single typed value within a tuple.
type Field interface {
	// Serialize writes the field's fixed-width binary form to w.
	Serialize(w io.Writer) error

	// Compare applies op between this field and other. Comparing fields of
	// different concrete types yields false, not an error.
	Compare(op primitives.Predicate, other Field) (bool, error)

	// Type returns the field's type identifier.
	Type() Type

	String() string

	Equals(other Field) bool

	// Hash returns a hash of the field's value.
	Hash() (primitives.HashCode, error)
}
