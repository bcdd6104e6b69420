package types

import (
	"cmp"
	"hash/fnv"
	"io"

	"heapdb/pkg/primitives"
)

// compareOrdered performs a comparison between two ordered values using the
// given predicate. Like is not meaningful for ordered scalars and returns
// false.
func compareOrdered[T cmp.Ordered](a, b T, op primitives.Predicate) bool {
	switch op {
	case primitives.Equals:
		return a == b
	case primitives.LessThan:
		return a < b
	case primitives.GreaterThan:
		return a > b
	case primitives.LessThanOrEqual:
		return a <= b
	case primitives.GreaterThanOrEqual:
		return a >= b
	case primitives.NotEqual:
		return a != b
	default:
		return false
	}
}

// fnvHash computes an FNV-1a hash of the given byte slice.
func fnvHash(data []byte) primitives.HashCode {
	h := fnv.New64a()
	_, _ = h.Write(data)
	return primitives.HashCode(h.Sum64())
}

// readBytes reads exactly size bytes from the reader.
func readBytes(r io.Reader, size uint32) ([]byte, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
