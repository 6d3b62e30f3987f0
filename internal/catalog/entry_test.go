package catalog

import (
	"path/filepath"
	"testing"
)

func TestSortName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Zool", "Zool"},
		{"leading The", "The Game", "Game, The"},
		{"leading Der", "Der Clou!", "Clou!, Der"},
		{"leading Das", "Das Boot", "Boot, Das"},
		{"leading Les", "Les Manley", "Manley, Les"},
		{"leading Le", "Le Mans", "Mans, Le"},
		{"leading A", "A-Train", "A-Train"}, // no space, not an article
		{"leading A word", "A Prehistoric Tale", "Prehistoric Tale, A"},
		{"case insensitive article", "THE Chaos Engine", "Chaos Engine, THE"},
		{"colon substituted", "Turrican II: The Final Fight", "Turrican II ~ The Final Fight"},
		{"question mark substituted", "Where in the World?", "Where in the World_"},
		{"slash substituted", "Street Fighter/Turbo", "Street Fighter_Turbo"},
		{"game suffix stripped", "1990 (game)", "1990"},
		{"article after substitution", "The 7th Guest", "7th Guest, The"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SortName(tt.raw); got != tt.want {
				t.Errorf("SortName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNewEntry(t *testing.T) {
	root := filepath.Join("/", "mirror")

	e := NewEntry("The Chaos Engine", root)
	if e.RawName != "The Chaos Engine" {
		t.Errorf("RawName modified: %q", e.RawName)
	}
	if e.SortName != "Chaos Engine, The" {
		t.Errorf("unexpected SortName %q", e.SortName)
	}
	if e.Bucket != "c" {
		t.Errorf("expected bucket c, got %q", e.Bucket)
	}
	if want := filepath.Join(root, "c", "Chaos Engine, The"); e.Dir != want {
		t.Errorf("expected dir %q, got %q", want, e.Dir)
	}
}

func TestNewEntry_DigitBucket(t *testing.T) {
	tests := []struct {
		raw    string
		bucket string
	}{
		{"1990 (game)", "0-9"},
		{"688 Attack Sub", "0-9"},
		{"'Allo 'Allo", "0-9"},
		{"Zool", "z"},
		{"agony", "a"},
	}

	for _, tt := range tests {
		e := NewEntry(tt.raw, "/out")
		if e.Bucket != tt.bucket {
			t.Errorf("NewEntry(%q).Bucket = %q, want %q", tt.raw, e.Bucket, tt.bucket)
		}
	}
}

func TestNewEntry_DirInsideRoot(t *testing.T) {
	// Raw names with path separators must never produce a directory outside
	// the bucket folder.
	e := NewEntry("Evil/../../Escape", "/out")
	rel, err := filepath.Rel("/out", e.Dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		t.Errorf("directory %q escapes output root", e.Dir)
	}
}
