package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/the-real-tokai/unexotica-mirror/internal/config"
	"github.com/the-real-tokai/unexotica-mirror/internal/mirror"
)

var statusDestination string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the local mirror",
	Long: `Status walks the local mirror tree and reports, per alphabetical
bucket, how many titles are present and which of them have their
archive and box scan on disk.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	statusCmd.Flags().StringVarP(&statusDestination, "destination", "d", "", "mirror root directory (overrides config)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	root := cfg.Mirror.Destination
	if statusDestination != "" {
		root = statusDestination
	}

	summary, err := scanMirror(root)
	if err != nil {
		return fmt.Errorf("scanning mirror: %w", err)
	}

	printStatus(os.Stdout, root, summary)
	return nil
}

// bucketStats counts per-bucket completeness.
type bucketStats struct {
	Titles   int
	Archives int
	Covers   int
}

// mirrorSummary aggregates the scan of one mirror tree.
type mirrorSummary struct {
	Buckets  map[string]bucketStats
	Titles   int
	Archives int
	Covers   int

	// NewestMetadata is the most recent metadata cache mtime, the closest
	// thing the tree has to a "last run" timestamp.
	NewestMetadata time.Time
}

// scanMirror walks root two levels deep (bucket, then title) and checks each
// title directory for the metadata cache, the archive, and a box scan. A
// missing root is reported as an empty mirror, not an error.
func scanMirror(root string) (*mirrorSummary, error) {
	summary := &mirrorSummary{Buckets: make(map[string]bucketStats)}

	buckets, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return summary, nil
	}
	if err != nil {
		return nil, err
	}

	for _, bucket := range buckets {
		if !bucket.IsDir() {
			continue
		}

		titles, err := os.ReadDir(filepath.Join(root, bucket.Name()))
		if err != nil {
			return nil, err
		}

		stats := bucketStats{}
		for _, title := range titles {
			if !title.IsDir() {
				continue
			}
			dir := filepath.Join(root, bucket.Name(), title.Name())

			meta, err := os.Stat(filepath.Join(dir, mirror.MetadataFile))
			if err != nil {
				// Not a mirrored title directory.
				continue
			}
			stats.Titles++
			if meta.ModTime().After(summary.NewestMetadata) {
				summary.NewestMetadata = meta.ModTime()
			}

			if _, err := os.Stat(filepath.Join(dir, mirror.ArchiveFile)); err == nil {
				stats.Archives++
			}
			for _, ext := range []string{".png", ".jpg"} {
				if _, err := os.Stat(filepath.Join(dir, mirror.CoverBase+ext)); err == nil {
					stats.Covers++
					break
				}
			}
		}

		if stats.Titles > 0 {
			summary.Buckets[bucket.Name()] = stats
			summary.Titles += stats.Titles
			summary.Archives += stats.Archives
			summary.Covers += stats.Covers
		}
	}

	return summary, nil
}

// printStatus outputs the mirror summary to the given writer.
func printStatus(w io.Writer, root string, s *mirrorSummary) {
	_, _ = fmt.Fprintln(w, "UnExoticA Mirror Status")
	_, _ = fmt.Fprintln(w, "=======================")
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "Mirror root:  %s\n", root)
	if s.NewestMetadata.IsZero() {
		_, _ = fmt.Fprintln(w, "Last run:     Never")
	} else {
		ago := time.Since(s.NewestMetadata).Round(time.Second)
		_, _ = fmt.Fprintf(w, "Last run:     %s (%s ago)\n",
			s.NewestMetadata.Format("2006-01-02 15:04:05"),
			formatDuration(ago))
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, "Summary")
	_, _ = fmt.Fprintln(w, "-------")
	_, _ = fmt.Fprintf(w, "Titles:    %d\n", s.Titles)
	_, _ = fmt.Fprintf(w, "Archives:  %d\n", s.Archives)
	_, _ = fmt.Fprintf(w, "Box scans: %d\n", s.Covers)

	if len(s.Buckets) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Bucket  Titles  Archives  Box scans")

		names := make([]string, 0, len(s.Buckets))
		for name := range s.Buckets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b := s.Buckets[name]
			_, _ = fmt.Fprintf(w, "%-6s  %6d  %8d  %9d\n", name, b.Titles, b.Archives, b.Covers)
		}
	}

	if s.Titles == 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "Nothing mirrored yet. Run 'unexotica mirror' to get started.")
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		mins := int(d.Minutes()) % 60
		if mins > 0 {
			return fmt.Sprintf("%dh %dm", hours, mins)
		}
		return fmt.Sprintf("%dh", hours)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}
