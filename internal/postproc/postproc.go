// Package postproc shells out to optional external tools after downloads:
// lossless JPEG re-encoding and, on macOS, Finder tagging of directories
// whose archive needs manual attention. Every call here is best-effort; the
// outcome is logged and deliberately never propagated as an error.
package postproc

import (
	"context"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// execCommand is swapped out in tests.
var execCommand = exec.CommandContext

// OptimizeCover shrinks a downloaded box scan in place with jpegoptim.
// Non-JPEG files are left alone; a missing tool or a failed run is logged
// and ignored.
func OptimizeCover(ctx context.Context, path string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if !strings.HasSuffix(path, ".jpg") {
		return
	}

	logger.Info("optimizing box scan", "path", path)
	cmd := execCommand(ctx, "jpegoptim",
		"--totals", "--preserve", "--preserve-perms", "--strip-all", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		logger.Warn("could not optimize box scan", "path", path, "error", err,
			"output", strings.TrimSpace(string(out)))
	}
}

// FlagForReview marks a directory so a broken archive is visible later. On
// macOS this adds a red Finder tag via the `tag` tool; elsewhere it is a
// no-op. Failures are ignored.
func FlagForReview(ctx context.Context, dir string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if runtime.GOOS != "darwin" {
		return
	}

	cmd := execCommand(ctx, "tag", "-a", "Red", dir)
	if err := cmd.Run(); err != nil {
		logger.Debug("could not tag directory", "dir", dir, "error", err)
	}
}
