package postproc

import (
	"context"
	"os/exec"
	"testing"
)

func TestOptimizeCover_OnlyJPEG(t *testing.T) {
	called := false
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		called = true
		return exec.CommandContext(ctx, "true")
	}
	defer func() { execCommand = exec.CommandContext }()

	OptimizeCover(context.Background(), "/mirror/z/Zool/Cover.png", nil)
	if called {
		t.Error("jpegoptim must not run for non-JPEG covers")
	}

	OptimizeCover(context.Background(), "/mirror/z/Zool/Cover.jpg", nil)
	if !called {
		t.Error("expected jpegoptim to run for JPEG covers")
	}
}

func TestOptimizeCover_FailureIsSwallowed(t *testing.T) {
	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	}
	defer func() { execCommand = exec.CommandContext }()

	// Must not panic or surface the failure.
	OptimizeCover(context.Background(), "/mirror/z/Zool/Cover.jpg", nil)
}
