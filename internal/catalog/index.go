package catalog

import (
	"bufio"
	"strings"
)

// Markers bounding the auto-generated title listing on the index page.
const (
	indexBeginMarker = "<!-- BEGIN AUTO:INDEX -->"
	indexEndMarker   = "<!-- END AUTO:INDEX -->"
)

// ParseIndex scans the raw wikitext of the "Games By Title" index page and
// returns the raw title names listed between the index markers. Lines outside
// the marker region and lines that are not table rows linking to a title
// (prefix "|[[") are ignored.
func ParseIndex(text string) []string {
	var titles []string

	collecting := false
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == indexBeginMarker {
			collecting = true
			continue
		}
		if line == indexEndMarker {
			break
		}
		if !collecting || !strings.HasPrefix(line, "|[[") {
			continue
		}

		// Row format: |[[Title]]|...other columns...
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			continue
		}
		title := strings.NewReplacer("[", "", "]", "").Replace(fields[1])
		if title != "" {
			titles = append(titles, title)
		}
	}

	return titles
}
