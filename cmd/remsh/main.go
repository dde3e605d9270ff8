// Remsh is the remote shell client: it connects to a remshd server
// and passes commands to be executed there, printing the output as it
// streams back.  Commands come from -c for a single batch run, or
// from an interactive prompt until the literal "exit".
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Evryon/Operating-Systems-Remsh/client"
	"github.com/Evryon/Operating-Systems-Remsh/config"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

var version = "1.0.0" //nolint:gochecknoglobals

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "remsh: %v\n", err)
		os.Exit(1)
	}
}

// parseConfig layers flags over environment over defaults and returns
// the resulting config.
func parseConfig(args []string) (*config.ClientConfig, error) {
	cfg := config.NewClientConfig()
	config.LoadClientEnv(cfg)

	fs := flag.NewFlagSet("remsh", flag.ContinueOnError)

	var portSpec string
	fs.StringVarP(&cfg.Host, "host", "h", cfg.Host, "Server host (name or numeric address)")
	fs.StringVarP(&portSpec, "port", "p", fmt.Sprint(cfg.Port), "Server port (0-65535)")
	fs.StringVarP(&cfg.Command, "command", "c", "", "Run a single command non-interactively")

	// Counted into a local: CountVarP zeroes its target at definition
	// time, which would wipe a REMSH_VERBOSE value already loaded.
	var verbosity int
	fs.CountVarP(&verbosity, "verbose", "v", "Print status messages (repeatable)")

	// -h is taken by --host, so help is reachable via --help only;
	// pflag reports it as ErrHelp from Parse.
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(fs)
		}
		return nil, err
	}

	if fs.Changed("verbose") {
		cfg.Verbose = verbosity
	}

	port, err := config.ParsePort(portSpec)
	if err != nil {
		return nil, err
	}
	cfg.Port = port

	// Prompt only when a human is actually typing.
	cfg.ShowPrompt = cfg.Command == "" && term.IsTerminal(int(os.Stdin.Fd()))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// run parses args and drives one client session.
func run(ctx context.Context, args []string) error {
	cfg, err := parseConfig(args)
	if err != nil {
		return err
	}

	logger := util.NewLogger(cfg.Verbose)
	logger.Info("starting client ...")

	return client.New(cfg, logger).Run(ctx)
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `remsh – remote shell client v%s

Connect to a remsh server and run shell commands there.  Commands are
executed by whatever the server's default shell is, normally /bin/sh.
Without -c the client prompts for commands until the literal "exit".

Usage:
  remsh [-h host] [-p port] [-c command] [-v]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  remsh                                       Interactive session to 127.0.0.1:8888
  remsh -h shell.example.com -p 9000          Interactive session to a remote host
  remsh -c "uname -a"                         Run one command and exit
`)
}
