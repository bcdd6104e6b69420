package types

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// ParseField reads one serialized field of the given type from r.
// It dispatches to the type-specific parser; the number of bytes consumed is
// always fieldType.Size().
func ParseField(r io.Reader, fieldType Type) (Field, error) {
	switch fieldType {
	case IntType:
		return parseIntField(r)
	case StringType:
		return parseStringField(r)
	case BoolType:
		return parseBoolField(r)
	case FloatType:
		return parseFloatField(r)
	default:
		return nil, fmt.Errorf("unsupported field type: %v", fieldType)
	}
}

func parseIntField(r io.Reader) (*IntField, error) {
	bytes, err := readBytes(r, 8)
	if err != nil {
		return nil, err
	}
	return NewIntField(int64(binary.BigEndian.Uint64(bytes))), nil
}

// parseStringField reads the 4-byte length prefix, the payload and the
// padding, consuming exactly StringType.Size() bytes.
func parseStringField(r io.Reader) (*StringField, error) {
	lengthBytes, err := readBytes(r, 4)
	if err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBytes)
	if length > StringMaxSize {
		return nil, fmt.Errorf("string length %d exceeds maximum %d", length, StringMaxSize)
	}

	payload, err := readBytes(r, StringMaxSize)
	if err != nil {
		return nil, err
	}

	return NewStringField(string(payload[:length])), nil
}

func parseBoolField(r io.Reader) (*BoolField, error) {
	b, err := readBytes(r, 1)
	if err != nil {
		return nil, err
	}
	return NewBoolField(b[0] != 0), nil
}

func parseFloatField(r io.Reader) (*FloatField, error) {
	bytes, err := readBytes(r, 8)
	if err != nil {
		return nil, err
	}
	return NewFloatField(math.Float64frombits(binary.BigEndian.Uint64(bytes))), nil
}
