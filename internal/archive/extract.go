package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Report summarizes one extraction.
type Report struct {
	// CommonBase is the stripped top-level segment, "" when none was shared.
	CommonBase string

	// Written lists the absolute paths of files written, in archive order.
	Written []string

	// Skipped counts entries with no path components left after stripping
	// (the base directory marker itself).
	Skipped int
}

// Extractor streams every entry of an archive to disk. It composes the
// validator, the prefix normalizer, and the path safety resolver; the
// container parsing itself is delegated to the OpenFunc.
type Extractor struct {
	open   OpenFunc
	logger *slog.Logger
}

// NewExtractor creates an Extractor that opens archives with open.
func NewExtractor(open OpenFunc, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{open: open, logger: logger}
}

// Extract validates data as an archive and writes its entries under destRoot.
//
// The first entry whose resolved path escapes destRoot aborts the whole
// extraction with a *PathEscapeError: one hostile entry invalidates trust in
// the archive. Entries written before the abort remain on disk; extraction is
// not transactional.
func (e *Extractor) Extract(data []byte, destRoot string) (*Report, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	r, err := e.open(data)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	names, err := r.List()
	if err != nil {
		return nil, fmt.Errorf("listing archive entries: %w", err)
	}

	report := &Report{CommonBase: CommonBase(names)}
	if report.CommonBase != "" {
		e.logger.Debug("stripping common base", "base", report.CommonBase, "dest", destRoot)
	}

	for _, name := range names {
		segs := Segments(name)
		if report.CommonBase != "" && len(segs) > 0 && segs[0] == report.CommonBase {
			segs = segs[1:]
		}
		if len(segs) == 0 {
			// The entry was the base directory marker itself.
			e.logger.Debug("skipping directory marker", "entry", name)
			report.Skipped++
			continue
		}

		outPath, err := ResolveWithin(destRoot, filepath.Join(segs...))
		if err != nil {
			e.logger.Error("rejecting archive entry", "entry", name, "dest", destRoot, "error", err)
			return report, err
		}

		payload, err := r.Read(name)
		if err != nil {
			return report, fmt.Errorf("reading entry %q: %w", name, err)
		}

		if dir := filepath.Dir(outPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return report, fmt.Errorf("creating directory %s: %w", dir, err)
			}
		}

		if err := os.WriteFile(outPath, payload, 0o644); err != nil {
			return report, fmt.Errorf("writing %s: %w", outPath, err)
		}
		e.logger.Info("extracted", "entry", name, "path", outPath, "size", len(payload))
		report.Written = append(report.Written, outPath)
	}

	return report, nil
}
