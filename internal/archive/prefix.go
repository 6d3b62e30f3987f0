package archive

import (
	"path"
	"strings"
)

// Segments splits a declared archive path into its components. Backslash
// separators (archives repacked on Windows carry those) are converted first,
// then the path is cleaned so "." and empty components disappear.
func Segments(declared string) []string {
	cleaned := path.Clean(strings.ReplaceAll(declared, `\`, "/"))
	if cleaned == "." || cleaned == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(cleaned, "/"), "/")
}

// CommonBase returns the top-level path segment shared by every declared
// entry path, or "" when the entries do not all start with the same segment.
// Archives commonly wrap their payload in one redundant folder; stripping it
// gives a flat dump since the destination directory already identifies the
// title. Stripping is all-or-nothing: a single divergent entry disables it
// for the whole archive.
func CommonBase(declared []string) string {
	base := ""
	for _, name := range declared {
		segs := Segments(name)
		if len(segs) == 0 {
			return ""
		}
		switch {
		case base == "":
			base = segs[0]
		case segs[0] != base:
			return ""
		}
	}
	return base
}
