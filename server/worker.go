package server

import (
	"context"
	"io"
	"time"

	"github.com/Evryon/Operating-Systems-Remsh/internal/capability"
	rerrors "github.com/Evryon/Operating-Systems-Remsh/internal/errors"
	"github.com/Evryon/Operating-Systems-Remsh/internal/metrics"
	"github.com/Evryon/Operating-Systems-Remsh/internal/proto"
	"github.com/Evryon/Operating-Systems-Remsh/internal/session"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// worker owns one session exclusively from spawn to teardown.  It
// shares no memory with the admission loop; its entire external
// footprint is one send on done when it terminates.
type worker struct {
	sess    *session.Session
	runner  capability.Runner
	bufSize int
	idle    time.Duration
	done    chan<- struct{}
	log     *util.Logger
	stats   *metrics.Collector
}

// run reads requests, executes them, and writes responses until the
// peer disconnects or an I/O error ends the session.  Any failure is
// contained here: to the admission loop it is indistinguishable from
// a graceful close.
func (w *worker) run(ctx context.Context) {
	defer func() {
		w.log.Info("terminating connection from %s", w.sess)
		w.sess.Shutdown()
		w.sess.Close()
		w.done <- struct{}{}
	}()

	buf := make([]byte, w.bufSize)
	for {
		if err := w.sess.Conn.SetReadDeadline(time.Now().Add(w.idle)); err != nil {
			return
		}

		n, err := w.sess.Conn.Read(buf)
		if err != nil {
			switch {
			case rerrors.IsTimeout(err):
				// Nothing happened before the bound expired.  Idle
				// connections are not dropped; wait again unless the
				// server is shutting down.
				if ctx.Err() != nil {
					return
				}
				continue
			case err == io.EOF:
				// Graceful peer shutdown.
				return
			default:
				w.log.Debug("read from %s: %v", w.sess, err)
				w.stats.RecordError(err.Error())
				return
			}
		}
		if n == 0 {
			return
		}
		w.stats.BytesReceived(int64(n))

		// A request is whatever one read returned: commands are
		// assumed to fit the receive buffer, and anything larger is
		// executed truncated.  Preserved wire behavior, not a bug.
		request := proto.TrimSentinel(buf[:n])
		w.log.Verbose("read from client was: %s", request)

		output, err := w.runner.Run(ctx, string(request))
		if err != nil {
			w.log.Error("run command for %s: %v", w.sess, err)
			w.stats.RecordError(err.Error())
			return
		}
		w.stats.CommandExecuted()

		if err := proto.WriteMessage(w.sess.Conn, output); err != nil {
			w.log.Debug("write to %s: %v", w.sess, err)
			w.stats.RecordError(err.Error())
			return
		}
		w.stats.BytesSent(int64(len(output)) + 1)
	}
}
