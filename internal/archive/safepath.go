package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// PathEscapeError reports an archive entry whose resolved output path falls
// outside the destination root: a traversal attempt or a broken archive.
type PathEscapeError struct {
	Root string
	Path string
}

func (e *PathEscapeError) Error() string {
	return fmt.Sprintf("path %q resolves outside destination %q", e.Path, e.Root)
}

// ResolveWithin joins candidate onto root, canonicalizes the result, and
// verifies it stays inside root. It returns the canonical absolute output
// path or a *PathEscapeError.
//
// Containment is decided componentwise via filepath.Rel, never by raw string
// prefix: "/data/foo-evil" must not pass against root "/data/foo". Symlinks
// in already-existing path components are resolved first so a link pointing
// out of the tree cannot smuggle a write past the check.
func ResolveWithin(root, candidate string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving destination root: %w", err)
	}
	canonRoot, err := canonicalize(absRoot)
	if err != nil {
		return "", fmt.Errorf("canonicalizing destination root: %w", err)
	}

	joined := filepath.Join(absRoot, filepath.FromSlash(candidate))
	canon, err := canonicalize(joined)
	if err != nil {
		return "", fmt.Errorf("canonicalizing %q: %w", candidate, err)
	}

	rel, err := filepath.Rel(canonRoot, canon)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &PathEscapeError{Root: canonRoot, Path: candidate}
	}

	return canon, nil
}

// canonicalize resolves symlinks in the longest existing prefix of path and
// reattaches the not-yet-existing remainder. path must already be absolute
// and lexically clean.
func canonicalize(path string) (string, error) {
	suffix := ""
	for p := path; ; {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(resolved, suffix), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}

		parent := filepath.Dir(p)
		if parent == p {
			return "", err
		}
		suffix = filepath.Join(filepath.Base(p), suffix)
		p = parent
	}
}
