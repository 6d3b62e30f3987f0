// Package catalog models the UnExoticA game catalog: the entries listed on
// the wiki index page and the local directory layout derived from them.
package catalog

import (
	"path/filepath"
	"strings"
)

// BucketOther is the bucket for titles that do not start with a-z.
const BucketOther = "0-9"

// Entry represents one cataloged game title.
//
// RawName is the identifier exactly as it appears on the wiki index and is
// the only field that may be used to build lookup URLs. Two wiki entries can
// differ only by a disambiguation suffix (e.g. "1990" vs "1990 (game)"), so
// normalizing it would make them collide.
type Entry struct {
	// RawName is the unmodified wiki page title.
	RawName string

	// SortName is the directory-safe, article-reordered display name.
	SortName string

	// Bucket is the single-letter grouping directory ("a".."z" or "0-9").
	Bucket string

	// Dir is the absolute output directory for this entry:
	// outputRoot/Bucket/SortName.
	Dir string
}

// Leading articles that get moved to the end of the sort name, longest
// token first so "LES " never half-matches as "LE ". German "Die" is
// deliberately absent: it is too often the verb "[to] die" in game titles.
var leadingArticles = []string{"THE ", "DER ", "DAS ", "LES ", "LE ", "A "}

// NewEntry derives an Entry from a raw wiki title. It is a pure function of
// its inputs and performs no I/O.
func NewEntry(rawName, outputRoot string) Entry {
	sortName := SortName(rawName)

	bucket := BucketOther
	if first := firstLower(sortName); first >= 'a' && first <= 'z' {
		bucket = string(first)
	}

	return Entry{
		RawName:  rawName,
		SortName: sortName,
		Bucket:   bucket,
		Dir:      filepath.Join(outputRoot, bucket, sortName),
	}
}

// SortName converts a raw wiki title into a name that is safe as a single
// path segment and sorts naturally: filesystem-hostile characters are
// substituted, the " (game)" disambiguation suffix is dropped, and a
// recognized leading article is moved to the tail ("The Game" -> "Game, The").
func SortName(rawName string) string {
	name := strings.NewReplacer(":", " ~", "?", "_", "/", "_").Replace(rawName)
	name = strings.ReplaceAll(name, " (game)", "")

	upper := strings.ToUpper(name)
	for _, article := range leadingArticles {
		if strings.HasPrefix(upper, article) {
			// Keep the article's original casing, drop its trailing space.
			name = name[len(article):] + ", " + name[:len(article)-1]
			break
		}
	}

	return name
}

func firstLower(s string) byte {
	if s == "" {
		return 0
	}
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}
