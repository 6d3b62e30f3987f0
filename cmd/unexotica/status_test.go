package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{"seconds", 45 * time.Second, "45s"},
		{"one minute", 1 * time.Minute, "1m"},
		{"minutes", 5 * time.Minute, "5m"},
		{"one hour", 1 * time.Hour, "1h"},
		{"hours and minutes", 3*time.Hour + 30*time.Minute, "3h 30m"},
		{"one day", 24 * time.Hour, "1d"},
		{"days and hours", 3*24*time.Hour + 5*time.Hour, "3d 5h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.want {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.want)
			}
		})
	}
}

// makeTitle fabricates a mirrored title directory with the requested files.
func makeTitle(t *testing.T, root, bucket, name string, archive, cover bool) {
	t.Helper()
	dir := filepath.Join(root, bucket, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "wikidata.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if archive {
		if err := os.WriteFile(filepath.Join(dir, "archive.lha"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if cover {
		if err := os.WriteFile(filepath.Join(dir, "Cover.png"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanMirror(t *testing.T) {
	root := t.TempDir()
	makeTitle(t, root, "t", "Turrican", true, true)
	makeTitle(t, root, "t", "Turrican 2", true, false)
	makeTitle(t, root, "z", "Zool", false, false)

	// Directories without a metadata cache are not titles.
	if err := os.MkdirAll(filepath.Join(root, "t", "random-junk"), 0o755); err != nil {
		t.Fatal(err)
	}

	s, err := scanMirror(root)
	if err != nil {
		t.Fatalf("scanMirror: %v", err)
	}

	if s.Titles != 3 {
		t.Errorf("Titles = %d, want 3", s.Titles)
	}
	if s.Archives != 2 {
		t.Errorf("Archives = %d, want 2", s.Archives)
	}
	if s.Covers != 1 {
		t.Errorf("Covers = %d, want 1", s.Covers)
	}
	if got := s.Buckets["t"].Titles; got != 2 {
		t.Errorf("bucket t Titles = %d, want 2", got)
	}
	if got := s.Buckets["z"].Archives; got != 0 {
		t.Errorf("bucket z Archives = %d, want 0", got)
	}
}

func TestScanMirror_MissingRoot(t *testing.T) {
	s, err := scanMirror(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("scanMirror: %v", err)
	}
	if s.Titles != 0 {
		t.Errorf("Titles = %d, want 0", s.Titles)
	}
}

func TestPrintStatus_EmptyMirror(t *testing.T) {
	var buf bytes.Buffer

	printStatus(&buf, "/tmp/mirror", &mirrorSummary{Buckets: map[string]bucketStats{}})

	output := buf.String()
	if !strings.Contains(output, "UnExoticA Mirror Status") {
		t.Error("expected header in output")
	}
	if !strings.Contains(output, "Last run:     Never") {
		t.Error("expected 'Never' for last run time")
	}
	if !strings.Contains(output, "Nothing mirrored yet") {
		t.Error("expected empty-mirror hint")
	}
}

func TestPrintStatus_WithTitles(t *testing.T) {
	root := t.TempDir()
	makeTitle(t, root, "t", "Turrican", true, true)

	s, err := scanMirror(root)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	printStatus(&buf, root, s)

	output := buf.String()
	if !strings.Contains(output, "Titles:    1") {
		t.Errorf("expected 1 title in output:\n%s", output)
	}
	if !strings.Contains(output, "Archives:  1") {
		t.Errorf("expected 1 archive in output:\n%s", output)
	}
	if strings.Contains(output, "Nothing mirrored yet") {
		t.Errorf("should not show empty-mirror hint:\n%s", output)
	}
	if !strings.Contains(output, "ago") {
		t.Errorf("expected last-run timestamp:\n%s", output)
	}
}
