// Package capability defines what the server does with a received
// request.  The Runner abstraction decouples the connection worker
// from the underlying process-spawning mechanics, which keeps the
// worker loop testable without a real shell.
package capability

import "context"

// Runner executes one command and returns its captured standard
// output.  A non-nil error means the command could not be run at all;
// a command that starts but exits non-zero is not an error — whatever
// it wrote to stdout is still the response.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, command string) ([]byte, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, command string) ([]byte, error) {
	return f(ctx, command)
}
