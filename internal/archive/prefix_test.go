package archive

import (
	"reflect"
	"strings"
	"testing"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		declared string
		want     []string
	}{
		{"a.txt", []string{"a.txt"}},
		{"root/sub/b.bin", []string{"root", "sub", "b.bin"}},
		{`root\sub\b.bin`, []string{"root", "sub", "b.bin"}},
		{"root//sub/./c", []string{"root", "sub", "c"}},
		{".", nil},
		{"", nil},
		{"/", nil},
	}

	for _, tt := range tests {
		if got := Segments(tt.declared); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Segments(%q) = %v, want %v", tt.declared, got, tt.want)
		}
	}
}

func TestCommonBase(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"shared base", []string{"root/a.txt", "root/sub/b.bin", "root"}, "root"},
		{"divergent first segment", []string{"root/a.txt", "other/b.bin"}, ""},
		{"windows separators", []string{`Game\mod.1`, `Game\mod.2`}, "Game"},
		{"single entry", []string{"Game/a.mod"}, "Game"},
		{"lone top-level file", []string{"a.mod"}, "a.mod"},
		{"empty list", nil, ""},
		{"already flat", []string{"a.txt", "sub/b.bin"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommonBase(tt.paths); got != tt.want {
				t.Errorf("CommonBase(%v) = %q, want %q", tt.paths, got, tt.want)
			}
		})
	}
}

// Stripping then recomputing must be a fixpoint: once the shared segment is
// gone, no further stripping may happen.
func TestCommonBase_Idempotent(t *testing.T) {
	paths := []string{"root/a.txt", "root/sub/b.bin"}

	base := CommonBase(paths)
	if base != "root" {
		t.Fatalf("expected base root, got %q", base)
	}

	var stripped []string
	for _, p := range paths {
		segs := Segments(p)
		stripped = append(stripped, strings.Join(segs[1:], "/"))
	}

	if again := CommonBase(stripped); again != "" {
		t.Errorf("re-normalizing stripped paths found base %q, want none", again)
	}
}
