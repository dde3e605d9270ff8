package main

import (
	"context"
	"errors"
	"strconv"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/Evryon/Operating-Systems-Remsh/util"
)

func TestRunHelp(t *testing.T) {
	err := run(context.Background(), []string{"--help"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestRunRejectsBadPort(t *testing.T) {
	for _, args := range [][]string{
		{"-p", "65536"},
		{"-p", "port"},
	} {
		if err := run(context.Background(), args); err == nil {
			t.Errorf("args %v: expected an error before connecting", args)
		}
	}
}

// TestParseConfigVerbosePrecedence checks that flags override the
// environment and that an env-set verbosity survives flag parsing.
func TestParseConfigVerbosePrecedence(t *testing.T) {
	t.Setenv("REMSH_VERBOSE", "3")

	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Verbose != 3 {
		t.Errorf("Verbose = %d after flag parse, want 3 from env", cfg.Verbose)
	}

	cfg, err = parseConfig([]string{"-vv"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Verbose != 2 {
		t.Errorf("Verbose = %d, want 2 (flags override env)", cfg.Verbose)
	}
}

func TestRunReportsConnectFailure(t *testing.T) {
	port, err := util.FindFreePort()
	if err != nil {
		t.Fatal(err)
	}

	args := []string{"-h", "127.0.0.1", "-p", strconv.Itoa(port), "-c", "echo unreachable"}
	if err := run(context.Background(), args); err == nil {
		t.Error("expected connect failure against a closed port")
	}
}
