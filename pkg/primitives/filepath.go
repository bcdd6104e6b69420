package primitives

import (
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Filepath is a type-safe wrapper around file paths used throughout the
// storage layer. Table identity is derived from it, so code that constructs a
// table file should canonicalize the path first (see Canonical).
type Filepath string

// Canonical returns the canonicalized absolute form of the path: absolute,
// lexically cleaned. Two spellings of the same location (e.g. "./a/../a/t.dat"
// and "a/t.dat" from the same working directory) canonicalize to the same
// value, which keeps the derived TableID stable within a process.
func (f Filepath) Canonical() (Filepath, error) {
	abs, err := filepath.Abs(string(f))
	if err != nil {
		return "", err
	}
	return Filepath(filepath.Clean(abs)), nil
}

// Hash derives the TableID for this path using xxhash64. The hash is
// deterministic and documented so that identity is reproducible and testable
// across runs of the same process image; it is not a persistent identity.
func (f Filepath) Hash() TableID {
	return TableID(xxhash.Sum64String(string(f)))
}

// String converts the Filepath to a standard string.
func (f Filepath) String() string {
	return string(f)
}

// Dir returns the directory portion of the file path.
func (f Filepath) Dir() string {
	return filepath.Dir(string(f))
}

// Base returns the last element of the path (the filename).
func (f Filepath) Base() string {
	return filepath.Base(string(f))
}

// Join concatenates path elements to this path and returns a new Filepath.
func (f Filepath) Join(elem ...string) Filepath {
	parts := append([]string{string(f)}, elem...)
	return Filepath(filepath.Join(parts...))
}

// Exists checks whether the file exists on the filesystem.
func (f Filepath) Exists() bool {
	_, err := os.Stat(string(f))
	return err == nil
}

// IsEmpty checks whether the filepath is an empty string.
func (f Filepath) IsEmpty() bool {
	return string(f) == ""
}

// Stat returns file information from the filesystem.
func (f Filepath) Stat() (os.FileInfo, error) {
	return os.Stat(string(f))
}
