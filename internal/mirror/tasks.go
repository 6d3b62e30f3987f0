package mirror

import (
	"os"
	"path/filepath"
	"strings"
)

// ArchiveFile is the fixed local name of a downloaded module archive. Its
// presence on disk is the sole completion marker; there is no checksum
// verification.
const ArchiveFile = "archive.lha"

// CoverBase is the fixed local base name of a downloaded box scan; the
// extension is taken from the source link.
const CoverBase = "Cover"

// CoverUnknownExt is used when the source link has an unrecognized file
// type. The file is kept rather than rejected.
const CoverUnknownExt = ".unknown"

// coverExts are the recognized box scan file types.
var coverExts = []string{".png", ".jpg"}

// ArchiveTask schedules one module archive download. Created during the
// metadata pass, consumed by the archive download pass.
type ArchiveTask struct {
	// FileLink is the archive path extracted from the wiki page.
	FileLink string

	// Dir is the catalog entry's directory.
	Dir string

	// Title is the entry's raw name, for logging.
	Title string
}

// Filename returns the local target path.
func (t ArchiveTask) Filename() string {
	return filepath.Join(t.Dir, ArchiveFile)
}

// CoverTask schedules one box scan download.
type CoverTask struct {
	// FileName is the wiki file name extracted from the page.
	FileName string

	// Dir is the catalog entry's directory.
	Dir string

	// Title is the entry's raw name, for logging.
	Title string
}

// Ext returns the local file extension for the cover: the source link's
// suffix when recognized, CoverUnknownExt otherwise.
func (t CoverTask) Ext() string {
	for _, ext := range coverExts {
		if strings.HasSuffix(t.FileName, ext) {
			return ext
		}
	}
	return CoverUnknownExt
}

// Filename returns the local target path.
func (t CoverTask) Filename() string {
	return filepath.Join(t.Dir, CoverBase+t.Ext())
}

// fileExists reports whether a completion marker file is present.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsCDDALink reports whether an archive link points at a CD audio rip of a
// CD32 game, the reserved category the skip-cdda option excludes.
func IsCDDALink(link string) bool {
	return strings.Contains(link, "_CDDA")
}
