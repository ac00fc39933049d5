package inference

import (
	"context"
	"os/exec"
	"time"
)

// Probe verifies the worker runtime is launchable without running any model.
// True only if `pythonPath --version` starts, finishes inside the timeout
// and exits zero. Never returns an error: any failure is just false.
func Probe(ctx context.Context, pythonPath string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, pythonPath, "--version")
	return cmd.Run() == nil
}
