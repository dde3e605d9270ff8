// Remshd is the remsh server: it listens for client connections,
// executes their shell commands, and streams the output back.  Once
// every connection has terminated, the server shuts itself down.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Evryon/Operating-Systems-Remsh/config"
	"github.com/Evryon/Operating-Systems-Remsh/internal/metrics"
	"github.com/Evryon/Operating-Systems-Remsh/internal/obs"
	"github.com/Evryon/Operating-Systems-Remsh/server"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X main.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "remshd: %v\n", err)
		os.Exit(1)
	}
}

// parseConfig layers flags over environment over defaults and returns
// the resulting config.  showHelp and showVersion report the two
// early-exit flags.
func parseConfig(args []string) (cfg *config.ServerConfig, showHelp, showVersion bool, err error) {
	cfg = config.NewServerConfig()
	config.LoadServerEnv(cfg)

	fs := flag.NewFlagSet("remshd", flag.ContinueOnError)

	var portSpec string
	fs.StringVarP(&portSpec, "port", "p", fmt.Sprint(cfg.Port), "Port to listen on (0-65535)")

	// Counted into a local: CountVarP zeroes its target at definition
	// time, which would wipe a REMSH_VERBOSE value already loaded.
	var verbosity int
	fs.CountVarP(&verbosity, "verbose", "v", "Print status messages (repeatable)")
	fs.StringVar(&cfg.Shell, "shell", cfg.Shell, "Shell used to run commands (default: platform shell)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address (disabled when empty)")

	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return nil, false, false, err
	}
	if showHelp {
		fs.Usage()
		return cfg, true, false, nil
	}
	if showVersion {
		return cfg, false, true, nil
	}

	if fs.Changed("verbose") {
		cfg.Verbose = verbosity
	}

	port, err := config.ParsePort(portSpec)
	if err != nil {
		return nil, false, false, err
	}
	cfg.Port = port

	if err := cfg.Validate(); err != nil {
		return nil, false, false, err
	}
	return cfg, false, false, nil
}

// run parses args and drives the server to completion.
func run(ctx context.Context, args []string) error {
	cfg, showHelp, showVersion, err := parseConfig(args)
	if err != nil {
		return err
	}
	if showHelp {
		return nil
	}
	if showVersion {
		fmt.Printf("remshd %s\n", version)
		return nil
	}

	// ── build components ─────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	logger.SetOutput(os.Stdout) // -v reports status on stdout

	stats := metrics.New()
	if cfg.MetricsAddr != "" {
		if err := obs.Register(prometheus.DefaultRegisterer, stats); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		go serveMetrics(cfg.MetricsAddr, stats, logger)
	}

	logger.Info("starting server ...")
	srv := server.New(cfg, nil, logger, stats)
	if err := srv.Listen(); err != nil {
		return err
	}
	logger.Info("service started at port %d", cfg.Port)

	return srv.Run(ctx)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `remshd – remote shell execution server v%s

Start a server that executes a user's shell commands when they
connect.  Clients can run non-interactively, closing the connection
after a batch job completes, or interactively until they terminate the
connection themselves.  Commands run under /bin/sh on Unix and cmd.exe
on Windows.  The server shuts down once every connection has ended.

Usage:
  remshd [-p port] [-v]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  remshd                                      Listen on 8888
  remshd -p 9000 -v                           Custom port, verbose status
  remshd --metrics-addr 127.0.0.1:9090        Expose Prometheus metrics
`)
}
