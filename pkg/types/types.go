// Package types implements the fixed-width field type system used by the
// storage layer. Every type serializes to a fixed number of bytes so that a
// schema has a fixed row width.
package types

// StringMaxSize is the fixed payload capacity of a string field in bytes.
// Strings serialize as a 4-byte length prefix followed by StringMaxSize bytes
// of payload (padded), so every string field occupies the same width on disk.
const StringMaxSize = 128

// Type identifies a field type.
type Type int

const (
	IntType Type = iota
	StringType
	BoolType
	FloatType
)

// Size returns the serialized width of a field of this type in bytes.
// Returns 0 for unknown types.
func (t Type) Size() uint32 {
	switch t {
	case IntType:
		return 8
	case StringType:
		return 4 + StringMaxSize
	case BoolType:
		return 1
	case FloatType:
		return 8
	default:
		return 0
	}
}

func (t Type) String() string {
	switch t {
	case IntType:
		return "INT_TYPE"
	case StringType:
		return "STRING_TYPE"
	case BoolType:
		return "BOOL_TYPE"
	case FloatType:
		return "FLOAT_TYPE"
	default:
		return "UNKNOWN_TYPE"
	}
}
