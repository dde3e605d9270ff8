package capability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// ShellRunner executes commands through the system shell and captures
// their standard output.  Standard error is passed through to the
// server's own stderr rather than sent over the wire.
type ShellRunner struct {
	Shell  string    // shell binary ("" = platform default)
	Stderr io.Writer // destination for command stderr (nil = os.Stderr)
}

// Run starts `<shell> -c command` (or `cmd.exe /C` on Windows), waits
// for it, and returns captured stdout.  Failure to start the shell is
// an error; a non-zero exit status is not.
func (r *ShellRunner) Run(ctx context.Context, command string) ([]byte, error) {
	cmd := r.build(ctx, command)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = r.stderr()

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	err := cmd.Wait()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return stdout.Bytes(), fmt.Errorf("wait for %s: %w", cmd.Path, err)
	}
	// Exit status is deliberately dropped: the response is whatever
	// reached stdout, matching the wire behavior clients expect.
	return stdout.Bytes(), nil
}

func (r *ShellRunner) build(ctx context.Context, command string) *exec.Cmd {
	shell := r.Shell
	if runtime.GOOS == "windows" {
		if shell == "" {
			shell = "cmd.exe"
		}
		return exec.CommandContext(ctx, shell, "/C", command)
	}
	if shell == "" {
		shell = "/bin/sh"
	}
	return exec.CommandContext(ctx, shell, "-c", command)
}

func (r *ShellRunner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}
