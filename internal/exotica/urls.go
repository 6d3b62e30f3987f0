// Package exotica wraps HTTP access to the exotica.org.uk wiki and file
// server: URL construction, polite rate limiting, and extraction of download
// links from raw wiki page text.
package exotica

import (
	"net/url"
	"strings"
)

// Production endpoints. Overridable through config for tests and staging
// mirrors.
const (
	DefaultBaseURL  = "https://www.exotica.org.uk"
	DefaultFilesURL = "https://files.exotica.org.uk"
)

// IndexPage is the wiki page listing every title in the collection.
const IndexPage = "UnExoticA/Games_By_Title/ALL"

// PageURL returns the raw-wikitext URL for a wiki page title. MediaWiki page
// titles use underscores in place of spaces; the raw title is otherwise used
// verbatim, disambiguation suffix included.
func PageURL(baseURL, rawTitle string) string {
	q := url.Values{}
	q.Set("title", strings.ReplaceAll(rawTitle, " ", "_"))
	q.Set("action", "raw")
	return baseURL + "/mediawiki/index.php?" + q.Encode()
}

// IndexURL returns the raw-wikitext URL of the title index page.
func IndexURL(baseURL string) string {
	return PageURL(baseURL, IndexPage)
}

// ArchiveURL returns the file-server URL for an archive link extracted from
// a wiki page, e.g. "media/audio/UnExoticA/Game/Riley_Mark/A-10_Tank_Killer.lha".
func ArchiveURL(filesURL, fileLink string) string {
	q := url.Values{}
	q.Set("file", "exotica/"+fileLink)
	return filesURL + "/?" + q.Encode()
}

// CoverURL returns the direct-download URL for an uploaded wiki file, using
// MediaWiki's Special:Redirect endpoint.
func CoverURL(baseURL, fileName string) string {
	return baseURL + "/wiki/Special:Redirect/file/" + url.PathEscape(fileName)
}
