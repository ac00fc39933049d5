package inference

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// Invocation describes a single worker launch. Immutable once built; never
// reused across requests.
type Invocation struct {
	PythonPath      string
	ScriptPath      string
	ModelPath       string
	AudioPath       string
	FeaturesPath    string
	SpectrogramPath string
	WorkingDir      string
	Timeout         time.Duration
}

// args builds the worker argument vector. Input flags are conditional; the
// model path and output format are always present.
func (inv Invocation) args() []string {
	args := []string{inv.ScriptPath}
	if inv.AudioPath != "" {
		args = append(args, "--audio-file", inv.AudioPath)
	}
	if inv.FeaturesPath != "" {
		args = append(args, "--features-file", inv.FeaturesPath)
	}
	if inv.SpectrogramPath != "" {
		args = append(args, "--spectrogram-file", inv.SpectrogramPath)
	}
	args = append(args, "--model-path", inv.ModelPath, "--output-format", "json")
	return args
}

// Invoke runs the inference worker once and returns its raw stdout. The
// configured timeout races process completion; on timeout the child is
// killed and reaped before this returns (Run waits for process exit, and
// WaitDelay bounds any straggling pipe copy). Failed invocations are never
// retried here; retry policy belongs to the caller.
func Invoke(ctx context.Context, inv Invocation) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.PythonPath, inv.args()...)
	cmd.Dir = inv.WorkingDir
	cmd.WaitDelay = 5 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &WorkerTimeoutError{Timeout: inv.Timeout}
	}
	if err != nil {
		exitCode := -1
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitCode = ee.ExitCode()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, &WorkerExecutionError{ExitCode: exitCode, Stderr: detail}
	}
	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, &WorkerExecutionError{ExitCode: 0, Stderr: "no output produced"}
	}
	return out, nil
}
