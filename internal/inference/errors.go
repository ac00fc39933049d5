package inference

import (
	"fmt"
	"time"
)

// InvalidInputError marks a request that is malformed before any work starts
// (undecodable audio payload, no usable input source). The HTTP layer maps it
// to a client-side rejection.
type InvalidInputError struct {
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// WorkerTimeoutError reports that the inference subprocess exceeded the
// configured bound and was killed.
type WorkerTimeoutError struct {
	Timeout time.Duration
}

func (e *WorkerTimeoutError) Error() string {
	return fmt.Sprintf("worker timed out after %s", e.Timeout)
}

// WorkerExecutionError reports a subprocess that exited non-zero or produced
// no output. Stderr carries whatever diagnostic text the worker printed.
type WorkerExecutionError struct {
	ExitCode int
	Stderr   string
}

func (e *WorkerExecutionError) Error() string {
	return "worker execution failed: " + e.Detail()
}

// Detail returns the stderr content if any, otherwise the exit status.
func (e *WorkerExecutionError) Detail() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return fmt.Sprintf("exit status %d", e.ExitCode)
}

// MalformedOutputError reports worker stdout that could not be parsed into
// the expected predictions shape.
type MalformedOutputError struct {
	Err error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed worker output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// ArtifactIOError reports a temp-file create or delete failure.
type ArtifactIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ArtifactIOError) Error() string {
	return fmt.Sprintf("artifact %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ArtifactIOError) Unwrap() error { return e.Err }
