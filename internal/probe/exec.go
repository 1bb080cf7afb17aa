package probe

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"worklog/internal/errors"
)

// runOutput executes a command with a hard deadline and returns its stdout.
// Timeouts and spawn failures come back as coded errors so callers can fall
// back rather than fail the tick.
func runOutput(ctx context.Context, timeout time.Duration, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return "", errors.Newf(errors.CodeTimeout, "%s timed out after %s", name, timeout)
	}
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeUnavailable, "%s failed: %s", name, stderr.String())
	}
	return stdout.String(), nil
}

// run executes a command with a hard deadline, discarding output.
func run(ctx context.Context, timeout time.Duration, name string, args ...string) error {
	_, err := runOutput(ctx, timeout, name, args...)
	return err
}
