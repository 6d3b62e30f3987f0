package exotica

import (
	"fmt"
	"regexp"
)

// Wiki infobox fields carrying the download locations.
var (
	archiveLinkPattern = regexp.MustCompile(`\|file=(.*\.lha)\|`)
	coverLinkPattern   = regexp.MustCompile(`\|boxscan=(.*\.(jpg|png))`)
)

// BlankCover is the placeholder file name the wiki uses when a title has no
// box scan; it must not be downloaded.
const BlankCover = "BlankBoxscan.png"

// LinkExtractionError reports that an expected field was absent from fetched
// wiki text. It is distinct from a network failure: the fetch succeeded but
// the page does not look like a title page.
type LinkExtractionError struct {
	Field string
}

func (e *LinkExtractionError) Error() string {
	return fmt.Sprintf("no %s link found in wiki text", e.Field)
}

// ExtractArchiveLink pulls the module archive path out of raw wiki text.
func ExtractArchiveLink(wikitext string) (string, error) {
	m := archiveLinkPattern.FindStringSubmatch(wikitext)
	if m == nil {
		return "", &LinkExtractionError{Field: "archive"}
	}
	return m[1], nil
}

// ExtractCoverLink pulls the box-scan file name out of raw wiki text. The
// returned name may be BlankCover.
func ExtractCoverLink(wikitext string) (string, error) {
	m := coverLinkPattern.FindStringSubmatch(wikitext)
	if m == nil {
		return "", &LinkExtractionError{Field: "cover"}
	}
	return m[1], nil
}
