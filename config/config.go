// Package config defines the runtime configuration for the remsh
// server and client and provides parsing helpers for ports.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// ServerConfig holds every tuneable for one remshd process.
type ServerConfig struct {
	// ── Listening ────────────────────────────────────────────────────
	Port        int           // TCP port to listen on (0 = ephemeral)
	WaitTimeout time.Duration // bound on every admission/worker wait

	// ── Execution ────────────────────────────────────────────────────
	Shell          string // shell used to run commands ("" = platform default)
	RequestBufSize int    // receive buffer; a request must fit in one read

	// ── Output ───────────────────────────────────────────────────────
	Verbose     int
	MetricsAddr string // optional Prometheus/stats listener ("" = disabled)
}

// ClientConfig holds every tuneable for one remsh session.
type ClientConfig struct {
	// ── Connection ───────────────────────────────────────────────────
	Host    string
	Port    int
	Timeout time.Duration // per-candidate connect timeout

	// ── Execution ────────────────────────────────────────────────────
	Command    string // non-interactive single command ("" = interactive)
	BufSize    int    // response chunk size
	ShowPrompt bool   // print "$ " before each interactive read

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// NewServerConfig returns a ServerConfig populated with defaults.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           DefaultPort,
		WaitTimeout:    DefaultWaitTimeout,
		RequestBufSize: DefaultRequestBufSize,
	}
}

// NewClientConfig returns a ClientConfig populated with defaults.
func NewClientConfig() *ClientConfig {
	return &ClientConfig{
		Host:    DefaultHost,
		Port:    DefaultPort,
		Timeout: DefaultDialTimeout,
		BufSize: DefaultResponseBufSize,
	}
}

// ── Port parsing ─────────────────────────────────────────────────────

// ParsePort accepts a decimal string in 0–65535.  Port 0 is legal and
// means "any free port" in listen mode.
func ParsePort(spec string) (int, error) {
	port, err := strconv.ParseUint(spec, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("bad port %q: must be a decimal integer between 0 and 65535", spec)
	}
	return int(port), nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the server configuration is internally consistent.
func (c *ServerConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 0-65535", c.Port)
	}
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait timeout must be positive, got %v", c.WaitTimeout)
	}
	if c.RequestBufSize <= 1 {
		return fmt.Errorf("request buffer size must exceed 1 byte, got %d", c.RequestBufSize)
	}
	return nil
}

// Validate checks that the client configuration is internally consistent.
func (c *ClientConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host is required (use --help for usage)")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 0-65535", c.Port)
	}
	if c.BufSize <= 1 {
		return fmt.Errorf("buffer size must exceed 1 byte, got %d", c.BufSize)
	}
	return nil
}
