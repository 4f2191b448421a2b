package build

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner executes a toolchain command and reports its exit status. The call
// blocks until the spawned process terminates.
type Runner interface {
	Run(ctx context.Context, command string) (int, error)
}

// ShellRunner executes commands through the system shell, streaming the
// child's output to the configured writers.
type ShellRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes command via `sh -c` and returns its exit status. A non-zero
// status is reported through the status value, not the error; the error is
// reserved for failures to spawn at all.
func (r *ShellRunner) Run(ctx context.Context, command string) (int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
