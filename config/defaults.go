package config

import (
	"runtime"
	"time"
)

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags and environment variable loading.

const (
	// DefaultPort is the service port both sides assume when none is
	// given.
	DefaultPort = 8888

	// DefaultHost is the client's target when -h is omitted.
	DefaultHost = "127.0.0.1"

	// DefaultWaitTimeout bounds every server-side wait: the admission
	// loop's poll for new connections and a worker's wait for the next
	// request.  Expiry means "re-check and wait again", never teardown.
	DefaultWaitTimeout = 3 * time.Second

	// DefaultRequestBufSize is the server's receive buffer.  A command
	// must arrive within one buffer-worth of bytes to be recognized.
	DefaultRequestBufSize = 512

	// DefaultResponseBufSize is the client's per-chunk receive buffer
	// for streaming command output.
	DefaultResponseBufSize = 1024

	// DefaultDialTimeout caps each individual connect attempt while the
	// client walks its resolved address list.
	DefaultDialTimeout = 10 * time.Second

	// DefaultGracePeriod is how long the admission loop waits for
	// outstanding workers to report termination once it is shutting
	// down for a reason other than the count reaching zero.
	DefaultGracePeriod = 5 * time.Second
)

// DefaultShell returns the platform shell used to execute commands.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/sh"
}
