// Package session represents one accepted connection's lifecycle: the
// connection handle plus best-effort peer diagnostics.  A session is
// owned by exactly one worker from accept to teardown, and the handle
// is closed exactly once, by that owner.
package session

import (
	"net"

	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// Session encapsulates one connection and its peer identity.
type Session struct {
	Conn net.Conn

	// Host and Service name the peer for diagnostics.  When reverse
	// resolution fails, they hold placeholder values.
	Host    string
	Service string

	Logger *util.Logger
}

// New binds conn into a Session, resolving the peer's host and service
// names.  Resolution failures are non-fatal and leave placeholders.
func New(conn net.Conn, logger *util.Logger) *Session {
	host, service := util.LookupPeer(conn.RemoteAddr())
	return &Session{
		Conn:    conn,
		Host:    host,
		Service: service,
		Logger:  logger,
	}
}

// String formats the peer as "host:service" for log lines.
func (s *Session) String() string {
	return s.Host + ":" + s.Service
}

// Shutdown performs an orderly bidirectional shutdown of the
// connection when the transport supports it.  Errors are ignored; a
// peer that vanished mid-session makes them unavoidable.
func (s *Session) Shutdown() {
	if tc, ok := s.Conn.(*net.TCPConn); ok {
		tc.CloseWrite() //nolint:errcheck
		tc.CloseRead()  //nolint:errcheck
	}
}

// Close releases the connection handle.
func (s *Session) Close() error {
	return s.Conn.Close()
}
