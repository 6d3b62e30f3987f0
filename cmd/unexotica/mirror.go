package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/the-real-tokai/unexotica-mirror/internal/config"
	"github.com/the-real-tokai/unexotica-mirror/internal/mirror"
	"github.com/the-real-tokai/unexotica-mirror/internal/tui"
)

var (
	destination string
	filter      string
	skipCDDA    bool
	quiet       bool // quiet disables TUI and shows plain log output
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Mirror the UnExoticA collection to a local directory",
	Long: `Mirror fetches the title index from the UnExoticA wiki and downloads,
per title, the wiki metadata, the music module archive, and the box scan.

Runs are incremental: metadata is compared byte-for-byte against the
local cache, and archives and covers already on disk are never fetched
again. By default only a handful of titles are processed as a courtesy
to the volunteer-run servers; narrow the filter (or widen it explicitly)
to mirror more.

When running in a terminal, a TUI progress display is shown by default.
Use --quiet to disable the TUI and show plain log output instead.`,
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")
	mirrorCmd.Flags().StringVarP(&destination, "destination", "d", "", "mirror root directory (overrides config)")
	mirrorCmd.Flags().StringVarP(&filter, "filter", "f", "", "title filter regexp, case-insensitive (overrides config)")
	mirrorCmd.Flags().BoolVar(&skipCDDA, "skip-cdda", false, "exclude CD audio rips of CD32 games")
	mirrorCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	mirrorCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable TUI, use plain log output")
}

func runMirror(cmd *cobra.Command, args []string) error {
	// Use TUI by default if stdout is a TTY and quiet mode is not enabled.
	useTUI := !quiet && term.IsTerminal(int(os.Stdout.Fd()))

	// Suppress plain logs in TUI mode unless verbose.
	var logOutput io.Writer = os.Stderr
	if useTUI && !verbose {
		logOutput = io.Discard
	}
	logger := setupLogger(logOutput, verbose)

	ctx, cancel := setupSignalHandler(logger)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Flags override the file.
	if destination != "" {
		cfg.Mirror.Destination = destination
	}
	if filter != "" {
		cfg.Mirror.Filter = filter
	}
	if skipCDDA {
		cfg.Mirror.SkipCDDA = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	var opts []mirror.Option
	var tuiRunner *tui.Runner
	if useTUI {
		tuiRunner = tui.NewRunner()
		if err := tuiRunner.Start(); err != nil {
			return fmt.Errorf("starting TUI: %w", err)
		}
		opts = append(opts, mirror.WithEvents(tuiRunner))
	}

	m, err := mirror.New(cfg, logger, opts...)
	if err != nil {
		return fmt.Errorf("creating mirrorer: %w", err)
	}

	result, runErr := m.Run(ctx)

	if tuiRunner != nil {
		tuiRunner.Done(runErr)
		tuiRunner.Wait()
	}

	if runErr != nil {
		return fmt.Errorf("mirror run failed: %w", runErr)
	}

	logger.Info("mirror run completed",
		"titles", result.Titles,
		"new", result.New,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"archives", result.ArchivesDownloaded,
		"covers", result.CoversDownloaded,
		"errors", len(result.Errors),
		"duration", result.Duration,
	)

	if len(result.Errors) > 0 {
		return fmt.Errorf("mirror run completed with %d errors", len(result.Errors))
	}
	return nil
}
