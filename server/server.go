// Package server implements the remshd connection lifecycle: a
// listening admission loop that spawns one isolated worker per
// accepted connection, tracks the active-connection count through
// worker termination notifications, and shuts the whole process down
// once the count returns to zero.
package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Evryon/Operating-Systems-Remsh/config"
	"github.com/Evryon/Operating-Systems-Remsh/internal/capability"
	rerrors "github.com/Evryon/Operating-Systems-Remsh/internal/errors"
	"github.com/Evryon/Operating-Systems-Remsh/internal/metrics"
	"github.com/Evryon/Operating-Systems-Remsh/internal/session"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// Server owns the listening socket and the admission loop.
type Server struct {
	cfg    *config.ServerConfig
	runner capability.Runner
	log    *util.Logger
	stats  *metrics.Collector

	ln net.Listener
}

// New returns a Server ready to Listen.  A nil runner selects the
// platform shell; a nil stats collector disables statistics.
func New(cfg *config.ServerConfig, runner capability.Runner, logger *util.Logger, stats *metrics.Collector) *Server {
	if runner == nil {
		runner = &capability.ShellRunner{Shell: cfg.Shell}
	}
	return &Server{cfg: cfg, runner: runner, log: logger, stats: stats}
}

// Listen binds the configured port.  Bind failures are fatal startup
// conditions and are returned to the caller before any connection
// work happens.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return rerrors.Wrap("listen", addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.  With Port 0
// this is how callers learn the ephemeral port.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Run drives the admission loop until the last connection terminates
// or ctx is cancelled.  Each accepted connection gets its own worker
// goroutine; the only state shared with a worker is the termination
// channel it posts to on exit.  The active count lives entirely in
// this loop, so it needs no locking and can never be decremented
// below zero.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	defer s.ln.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conns := make(chan net.Conn)
	acceptErrs := make(chan error, 1)
	go s.acceptLoop(ctx, conns, acceptErrs)

	done := make(chan struct{})
	active := 0

	ticker := time.NewTicker(s.cfg.WaitTimeout)
	defer ticker.Stop()

	s.log.Info("listening on %s", s.ln.Addr())

	for {
		select {
		case conn := <-conns:
			sess := session.New(conn, s.log)
			s.log.Info("received connection from %s", sess)

			w := &worker{
				sess:    sess,
				runner:  s.runner,
				bufSize: s.cfg.RequestBufSize,
				idle:    s.cfg.WaitTimeout,
				done:    done,
				log:     s.log,
				stats:   s.stats,
			}
			go w.run(ctx)

			active++
			s.stats.ConnectionOpened()
			s.log.Info("active connections: %d", active)

		case <-done:
			active--
			s.stats.ConnectionClosed()
			s.log.Info("active connections: %d", active)
			if active == 0 {
				// The last worker has terminated: stop admitting and
				// shut the server down.
				s.log.Info("shutting down server")
				return nil
			}

		case err := <-acceptErrs:
			if rerrors.IsClosed(err) || ctx.Err() != nil {
				return s.drain(active, done)
			}
			s.drain(active, done)
			return err

		case <-ticker.C:
			// Bounded wait expired with no event: nothing to do but
			// wait again.
			s.log.Debug("admission wait timed out, %d active", active)

		case <-ctx.Done():
			return s.drain(active, done)
		}
	}
}

// acceptLoop feeds accepted connections to the admission loop.  It
// exits when the listener fails (including orderly close) or the
// context ends while a handoff is pending.
func (s *Server) acceptLoop(ctx context.Context, conns chan<- net.Conn, errs chan<- error) {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			errs <- rerrors.Wrap("accept", s.ln.Addr().String(), err)
			return
		}
		select {
		case conns <- conn:
		case <-ctx.Done():
			conn.Close()
			return
		}
	}
}

// drain reaps outstanding worker termination notifications so no
// worker is left blocked on its final send.  Workers notice the
// cancelled context within one bounded wait; the grace period caps
// how long a stuck one can hold up exit.
func (s *Server) drain(active int, done <-chan struct{}) error {
	if active == 0 {
		return nil
	}
	timer := time.NewTimer(config.DefaultGracePeriod)
	defer timer.Stop()

	for active > 0 {
		select {
		case <-done:
			active--
			s.stats.ConnectionClosed()
		case <-timer.C:
			s.log.Warn("gave up waiting on %d outstanding connections", active)
			return nil
		}
	}
	s.log.Info("shutting down server")
	return nil
}
