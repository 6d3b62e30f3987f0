package exotica

import (
	"errors"
	"testing"
)

const sampleWikitext = `{{Infobox Game
|title=A-10 Tank Killer
|developer=Dynamix
|file=media/audio/UnExoticA/Game/Riley_Mark/A-10_Tank_Killer.lha|size=123456
|boxscan=A10tankkiller boxscan.jpg
}}
Some article text.
`

func TestExtractArchiveLink(t *testing.T) {
	got, err := ExtractArchiveLink(sampleWikitext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "media/audio/UnExoticA/Game/Riley_Mark/A-10_Tank_Killer.lha"; got != want {
		t.Errorf("ExtractArchiveLink() = %q, want %q", got, want)
	}
}

func TestExtractArchiveLink_Missing(t *testing.T) {
	_, err := ExtractArchiveLink("|file=not_an_archive.zip|")
	var extractErr *LinkExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected LinkExtractionError, got %v", err)
	}
	if extractErr.Field != "archive" {
		t.Errorf("unexpected field %q", extractErr.Field)
	}
}

func TestExtractCoverLink(t *testing.T) {
	got, err := ExtractCoverLink(sampleWikitext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "A10tankkiller boxscan.jpg"; got != want {
		t.Errorf("ExtractCoverLink() = %q, want %q", got, want)
	}
}

func TestExtractCoverLink_PNGAndBlank(t *testing.T) {
	got, err := ExtractCoverLink("|boxscan=BlankBoxscan.png\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != BlankCover {
		t.Errorf("ExtractCoverLink() = %q, want %q", got, BlankCover)
	}
}

func TestExtractCoverLink_Missing(t *testing.T) {
	_, err := ExtractCoverLink("no links here")
	var extractErr *LinkExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected LinkExtractionError, got %v", err)
	}
}
