package util

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Placeholder peer names used when reverse resolution of a remote
// address fails.  Diagnostics keep working either way.
const (
	UnknownHost    = "UnknownHost"
	UnknownService = "UnknownPort"
)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// LookupPeer resolves a remote address into best-effort host and
// service strings for diagnostics.  Failures are downgraded to
// placeholder values, never errors.
func LookupPeer(addr net.Addr) (host, service string) {
	if addr == nil {
		return UnknownHost, UnknownService
	}
	ip, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return UnknownHost, UnknownService
	}
	host, service = ip, port

	names, err := net.LookupAddr(ip)
	if err == nil && len(names) > 0 {
		host = strings.TrimSuffix(names[0], ".")
	}
	return host, service
}

// FindFreePort returns an available TCP port on 127.0.0.1.
func FindFreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
