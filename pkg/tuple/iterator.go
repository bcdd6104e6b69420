package tuple

// Iterator is the open/next protocol shared by every tuple sequence in the
// storage layer, from single-page cursors to whole-table scans.
type Iterator interface {
	// Open primes the iterator. Other methods fail before Open is called.
	Open() error

	// HasNext reports whether another tuple remains.
	HasNext() (bool, error)

	// Next returns the next tuple. It fails once the sequence is exhausted.
	Next() (*Tuple, error)

	// Rewind restarts the sequence from the beginning.
	Rewind() error

	// Close releases the iterator's cursor state. The iterator can be
	// reopened afterwards.
	Close() error
}
