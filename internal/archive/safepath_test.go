package archive

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestResolveWithin_Inside(t *testing.T) {
	root := t.TempDir()

	tests := []string{
		"a.txt",
		"sub/b.bin",
		"sub/./c",
		"deep/nested/tree/file.mod",
	}

	for _, rel := range tests {
		got, err := ResolveWithin(root, rel)
		if err != nil {
			t.Errorf("ResolveWithin(%q, %q): unexpected error %v", root, rel, err)
			continue
		}
		canonRoot, _ := filepath.EvalSymlinks(root)
		want := filepath.Join(canonRoot, filepath.FromSlash(rel))
		if got != want {
			t.Errorf("ResolveWithin(%q) = %q, want %q", rel, got, want)
		}
	}
}

func TestResolveWithin_Escape(t *testing.T) {
	root := t.TempDir()

	tests := []string{
		"../evil.txt",
		"../../evil.txt",
		"sub/../../evil.txt",
		"a/b/../../../evil",
		"..",
	}

	for _, rel := range tests {
		_, err := ResolveWithin(root, rel)
		var escape *PathEscapeError
		if !errors.As(err, &escape) {
			t.Errorf("ResolveWithin(%q, %q): expected PathEscapeError, got %v", root, rel, err)
		}
	}
}

func TestResolveWithin_NoStringPrefixConfusion(t *testing.T) {
	// "/data/foo-evil" satisfies a naive string-prefix test against
	// "/data/foo"; the componentwise check must reject it.
	base := t.TempDir()
	root := filepath.Join(base, "foo")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveWithin(root, "../foo-evil/file.txt")
	var escape *PathEscapeError
	if !errors.As(err, &escape) {
		t.Errorf("expected PathEscapeError for sibling directory, got %v", err)
	}
}

func TestResolveWithin_SymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks not reliable on windows")
	}

	base := t.TempDir()
	root := filepath.Join(base, "root")
	outside := filepath.Join(base, "outside")
	for _, dir := range []string{root, outside} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Fatal(err)
	}

	_, err := ResolveWithin(root, "link/escaped.txt")
	var escape *PathEscapeError
	if !errors.As(err, &escape) {
		t.Errorf("expected PathEscapeError through symlink, got %v", err)
	}
}
