package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by the cmd/ entry points)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the REMSH_ prefix.

// LoadServerEnv overlays environment variables onto cfg.  Only set,
// parseable env vars override the existing value.  This should be
// called BEFORE CLI flag parsing so that flags take precedence.
func LoadServerEnv(cfg *ServerConfig) {
	if v, ok := envPort("REMSH_PORT"); ok {
		cfg.Port = v
	}
	if v := envInt("REMSH_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if v := os.Getenv("REMSH_SHELL"); v != "" {
		cfg.Shell = v
	}
	if v := os.Getenv("REMSH_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := envInt("REMSH_TIMEOUT"); v > 0 {
		cfg.WaitTimeout = secondsDuration(v)
	}
}

// LoadClientEnv overlays environment variables onto cfg.
func LoadClientEnv(cfg *ClientConfig) {
	if v := os.Getenv("REMSH_HOST"); v != "" {
		cfg.Host = v
	}
	if v, ok := envPort("REMSH_PORT"); ok {
		cfg.Port = v
	}
	if v := envInt("REMSH_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if v := envInt("REMSH_TIMEOUT"); v > 0 {
		cfg.Timeout = secondsDuration(v)
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envPort(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	port, err := ParsePort(v)
	if err != nil {
		return 0, false
	}
	return port, true
}

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
