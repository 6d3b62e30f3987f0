package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
)

// Flag variables shared by the mirror and status commands.
var (
	configPath string
	verbose    bool
)

// setupLogger installs a colored slog handler as the process default and
// returns it. A nil output means stderr; in TUI mode the caller passes
// io.Discard so log lines do not tear the display.
func setupLogger(output io.Writer, verbose bool) *slog.Logger {
	if output == nil {
		output = os.Stderr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(tint.NewHandler(output, &tint.Options{
		Level: level,
	}))
	slog.SetDefault(logger)

	return logger
}

// setupSignalHandler returns a context canceled by SIGINT/SIGTERM. The first
// signal requests a graceful stop: the worker pool schedules no new
// downloads and in-flight file writes finish. After that the handler is
// removed, so a second signal terminates the process the usual way.
func setupSignalHandler(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing in-flight downloads...")
		signal.Stop(sigCh)
		cancel()
	}()

	return ctx, cancel
}
