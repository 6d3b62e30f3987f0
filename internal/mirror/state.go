// Package mirror implements the incremental sync engine: it decides per
// catalog entry what changed since the last run and what must be
// re-downloaded, and orchestrates the metadata, archive, and cover passes.
package mirror

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// MetadataFile is the cached wiki page stored in each entry directory.
const MetadataFile = "wikidata.txt"

// FetchState classifies one entry's metadata fetch against the local cache.
type FetchState int

const (
	// Unfetched is the initial state before any network activity.
	Unfetched FetchState = iota

	// FetchedUnchanged: fetched bytes are identical to the cached ones.
	FetchedUnchanged

	// FetchedUpdated: fetched bytes differ, cache was rewritten.
	FetchedUpdated

	// FetchedNew: no cache existed, one was written.
	FetchedNew

	// FetchFailed: network error or link extraction failure; the entry is
	// skipped for this run.
	FetchFailed
)

func (s FetchState) String() string {
	switch s {
	case Unfetched:
		return "unfetched"
	case FetchedUnchanged:
		return "unchanged"
	case FetchedUpdated:
		return "updated"
	case FetchedNew:
		return "new"
	case FetchFailed:
		return "failed"
	default:
		return fmt.Sprintf("FetchState(%d)", int(s))
	}
}

// CompareAndStore classifies freshly fetched metadata against the cache file
// in dir and persists it when it differs. The comparison is an opaque
// byte-for-byte equality check; an unchanged fetch leaves the cache file
// completely untouched.
func CompareAndStore(dir string, fetched []byte) (FetchState, error) {
	path := filepath.Join(dir, MetadataFile)

	cached, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.WriteFile(path, fetched, 0o644); err != nil {
			return Unfetched, fmt.Errorf("writing metadata cache: %w", err)
		}
		return FetchedNew, nil

	case err != nil:
		return Unfetched, fmt.Errorf("reading metadata cache: %w", err)

	case bytes.Equal(cached, fetched):
		return FetchedUnchanged, nil

	default:
		if err := os.WriteFile(path, fetched, 0o644); err != nil {
			return Unfetched, fmt.Errorf("rewriting metadata cache: %w", err)
		}
		return FetchedUpdated, nil
	}
}
