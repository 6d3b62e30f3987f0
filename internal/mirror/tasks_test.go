package mirror

import (
	"path/filepath"
	"testing"
)

func TestCoverTask_Ext(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"Turrican_2_cover.png", ".png"},
		{"Shadow_of_the_Beast.jpg", ".jpg"},
		{"weird_scan.webp", CoverUnknownExt},
		{"no_extension", CoverUnknownExt},
	}
	for _, tt := range tests {
		task := CoverTask{FileName: tt.fileName}
		if got := task.Ext(); got != tt.want {
			t.Errorf("Ext(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}

func TestTaskFilenames(t *testing.T) {
	at := ArchiveTask{FileLink: "media/audio/UnExoticA/Game/Huelsbeck_Chris/Turrican.lha", Dir: "/mirror/t/Turrican"}
	if got, want := at.Filename(), filepath.Join("/mirror/t/Turrican", ArchiveFile); got != want {
		t.Errorf("archive Filename() = %q, want %q", got, want)
	}

	ct := CoverTask{FileName: "Turrican_cover.jpg", Dir: "/mirror/t/Turrican"}
	if got, want := ct.Filename(), filepath.Join("/mirror/t/Turrican", "Cover.jpg"); got != want {
		t.Errorf("cover Filename() = %q, want %q", got, want)
	}
}

func TestIsCDDALink(t *testing.T) {
	tests := []struct {
		link string
		want bool
	}{
		{"media/audio/UnExoticA/Game/Various/Liberation_CDDA.lha", true},
		{"media/audio/UnExoticA/Game/Huelsbeck_Chris/Turrican.lha", false},
		// The marker is the literal "_CDDA"; a leading "CDDA_" does not count.
		{"media/audio/UnExoticA/Game/Various/CDDA_Collection.lha", false},
		{"media/audio/UnExoticA/Game/Various/Beneath_A_Steel_Sky_CDDA.lha", true},
	}
	for _, tt := range tests {
		if got := IsCDDALink(tt.link); got != tt.want {
			t.Errorf("IsCDDALink(%q) = %v, want %v", tt.link, got, tt.want)
		}
	}
}
