// Package archive validates downloaded LHA archives and extracts their
// contents into a destination directory without letting any entry escape it.
//
// The container format parser sits behind the Reader interface so the
// extraction logic can be exercised with synthetic archives in tests and the
// parser swapped without touching the safety checks.
package archive

// Reader enumerates the data-bearing entries of one opened archive.
// Directory-only members are not listed; they are implied by the file paths.
type Reader interface {
	// List returns the declared entry paths in archive order. Paths may use
	// a foreign separator convention (backslashes).
	List() ([]string, error)

	// Read returns the decompressed payload of the entry with the given
	// declared path.
	Read(name string) ([]byte, error)
}

// OpenFunc opens a byte buffer as an archive. It is called only after the
// buffer passed Validate.
type OpenFunc func(data []byte) (Reader, error)
