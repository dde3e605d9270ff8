package transport

import (
	"context"
	"net"
	"time"

	rerrors "github.com/Evryon/Operating-Systems-Remsh/internal/errors"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// CandidateDialer resolves a host to its full address list and makes a
// single pass over the candidates, connecting to the first that
// answers.  There is no retry or backoff: one attempt per candidate,
// then failure.
type CandidateDialer struct {
	Timeout time.Duration // per-candidate connect timeout (0 = resolver default)
	Logger  *util.Logger  // optional attempt-by-attempt diagnostics
}

// Dial resolves address's host part and tries each resolved address in
// order.  The returned error joins every candidate failure when none
// connects.
func (d *CandidateDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		return nil, rerrors.Wrap("dial", address, err)
	}

	candidates, err := net.DefaultResolver.LookupHost(ctx, host)
	if err != nil {
		return nil, rerrors.Wrap("resolve", host, err)
	}
	if len(candidates) == 0 {
		return nil, rerrors.Wrap("resolve", host, rerrors.ErrNoCandidates)
	}

	dialer := net.Dialer{Timeout: d.Timeout}
	var attempts []error
	for i, candidate := range candidates {
		target := net.JoinHostPort(candidate, port)
		d.verbose("\tattempt %d: %s ...", i+1, target)

		conn, err := dialer.DialContext(ctx, network, target)
		if err == nil {
			d.verbose("\tattempt %d: success", i+1)
			return conn, nil
		}
		d.verbose("\tattempt %d: failed", i+1)
		attempts = append(attempts, err)

		if ctx.Err() != nil {
			break
		}
	}

	attempts = append([]error{rerrors.ErrAllCandidatesFailed}, attempts...)
	return nil, rerrors.Wrap("dial", address, rerrors.Join(attempts...))
}

// Close is a no-op for stateless TCP dialers.
func (d *CandidateDialer) Close() error { return nil }

func (d *CandidateDialer) verbose(format string, args ...interface{}) {
	if d.Logger != nil {
		d.Logger.Verbose(format, args...)
	}
}
