package inference

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeWorkerScript drops a shell script that stands in for the Python
// inference worker. The invoker runs it as `/bin/sh <script> <flags...>`.
func writeWorkerScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func testInvocation(script string, timeout time.Duration) Invocation {
	return Invocation{
		PythonPath: "/bin/sh",
		ScriptPath: script,
		ModelPath:  "/models/classifier.pth",
		AudioPath:  "/tmp/audio.wav",
		Timeout:    timeout,
	}
}

func TestInvocationArgs(t *testing.T) {
	inv := Invocation{
		PythonPath: "python3",
		ScriptPath: "inference.py",
		ModelPath:  "model.pth",
		AudioPath:  "a.wav",
	}
	require.Equal(t,
		[]string{"inference.py", "--audio-file", "a.wav", "--model-path", "model.pth", "--output-format", "json"},
		inv.args())

	inv.AudioPath = ""
	inv.FeaturesPath = "f.json"
	inv.SpectrogramPath = "s.npy"
	require.Equal(t,
		[]string{"inference.py", "--features-file", "f.json", "--spectrogram-file", "s.npy", "--model-path", "model.pth", "--output-format", "json"},
		inv.args())
}

func TestInvokeSuccess(t *testing.T) {
	script := writeWorkerScript(t, `echo '{"predictions":{"genre":{"label":"rock","confidence":0.9}}}'`)

	out, err := Invoke(context.Background(), testInvocation(script, 10*time.Second))
	require.NoError(t, err)
	require.JSONEq(t, `{"predictions":{"genre":{"label":"rock","confidence":0.9}}}`, string(out))
}

func TestInvokeNonZeroExit(t *testing.T) {
	script := writeWorkerScript(t, "echo 'model load failed' >&2\nexit 1")

	_, err := Invoke(context.Background(), testInvocation(script, 10*time.Second))
	var execErr *WorkerExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, 1, execErr.ExitCode)
	require.Equal(t, "model load failed", execErr.Stderr)
}

func TestInvokeEmptyOutput(t *testing.T) {
	script := writeWorkerScript(t, "exit 0")

	_, err := Invoke(context.Background(), testInvocation(script, 10*time.Second))
	var execErr *WorkerExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Equal(t, "no output produced", execErr.Stderr)
}

func TestInvokeTimeoutKillsWorker(t *testing.T) {
	script := writeWorkerScript(t, "exec sleep 30")

	start := time.Now()
	_, err := Invoke(context.Background(), testInvocation(script, 300*time.Millisecond))
	elapsed := time.Since(start)

	var timeoutErr *WorkerTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	require.Equal(t, 300*time.Millisecond, timeoutErr.Timeout)
	// returned promptly: process was killed and reaped, not waited out
	require.Less(t, elapsed, 3*time.Second)
}

func TestInvokeMissingExecutable(t *testing.T) {
	inv := testInvocation("/nonexistent/worker.sh", time.Second)
	inv.PythonPath = "/nonexistent/python"

	_, err := Invoke(context.Background(), inv)
	var execErr *WorkerExecutionError
	require.ErrorAs(t, err, &execErr)
}
