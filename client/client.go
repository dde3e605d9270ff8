// Package client implements the remsh client session loop: connect
// once, then exchange sentinel-framed commands and responses either
// interactively or as a single non-interactive shot.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/Evryon/Operating-Systems-Remsh/config"
	rerrors "github.com/Evryon/Operating-Systems-Remsh/internal/errors"
	"github.com/Evryon/Operating-Systems-Remsh/internal/proto"
	"github.com/Evryon/Operating-Systems-Remsh/internal/session"
	"github.com/Evryon/Operating-Systems-Remsh/internal/transport"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// Client drives one session against a remshd server.  The session is
// strictly sequential: send a request, stream the full response, then
// read the next command.
type Client struct {
	Config *config.ClientConfig
	Dialer transport.Dialer
	Logger *util.Logger

	// Stdin/Stdout default to os.Stdin/os.Stdout when nil.
	Stdin  io.Reader
	Stdout io.Writer
}

// New returns a ready-to-run Client using the single-pass candidate
// dialer.
func New(cfg *config.ClientConfig, logger *util.Logger) *Client {
	return &Client{
		Config: cfg,
		Dialer: &transport.CandidateDialer{Timeout: cfg.Timeout, Logger: logger},
		Logger: logger,
	}
}

func (c *Client) stdin() io.Reader {
	if c.Stdin != nil {
		return c.Stdin
	}
	return os.Stdin
}

func (c *Client) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

// Run connects and executes either the configured one-shot command or
// the interactive loop, then shuts the session down in order.
func (c *Client) Run(ctx context.Context) error {
	addr := util.FormatAddr(c.Config.Host, c.Config.Port)
	c.Logger.Info("connecting to %s ...", addr)

	conn, err := c.Dialer.Dial(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", addr, err)
	}

	sess := session.New(conn, c.Logger)
	defer func() {
		c.Logger.Info("shutting down client")
		sess.Shutdown()
		sess.Close()
	}()

	if c.Config.Command != "" {
		return c.exchange(conn, c.Config.Command)
	}
	return c.interact(conn)
}

// interact prompts for commands line by line until EOF or the literal
// "exit", which ends the session locally without sending anything.
func (c *Client) interact(conn net.Conn) error {
	scanner := bufio.NewScanner(c.stdin())
	for {
		if c.Config.ShowPrompt {
			fmt.Fprint(c.stdout(), "$ ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		command := scanner.Text()
		if command == "exit" {
			return nil
		}
		if err := c.exchange(conn, command); err != nil {
			return err
		}
	}
}

// exchange sends one framed request and streams the response to
// stdout chunk by chunk as it arrives.
func (c *Client) exchange(conn net.Conn, command string) error {
	if err := proto.WriteMessage(conn, []byte(command)); err != nil {
		return rerrors.Wrap("write", conn.RemoteAddr().String(), err)
	}

	n, err := proto.CopyMessage(c.stdout(), conn, c.Config.BufSize)
	if err != nil {
		return rerrors.Wrap("read", conn.RemoteAddr().String(), err)
	}
	c.Logger.Info("received response from server of %d bytes", n)
	return nil
}
