// Package proto defines the wire framing shared by the remsh server
// and client.
//
// A message — request or response alike — is its raw payload bytes
// followed by exactly one sentinel byte (0x00).  There is no length
// prefix; the sentinel is the only boundary marker.  Receivers read in
// bounded chunks and accumulate until either the most recent chunk
// ends with the sentinel, or the stream reports EOF, in which case the
// message is complete with whatever bytes arrived.
//
// The payload itself must not contain the sentinel: binary output
// containing NUL bytes is truncated at the first chunk that happens to
// end with one.  This is a known limitation of the protocol, preserved
// for wire compatibility rather than silently fixed.
package proto

import (
	"bytes"
	"io"

	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// Sentinel terminates every message on the wire.
const Sentinel byte = 0x00

// DefaultChunkSize is the receive chunk size used when a caller passes
// a non-positive one.
const DefaultChunkSize = 1024

// WriteMessage sends payload followed by the sentinel in one Write
// call.  Receivers frame on a single read, so payload and sentinel
// must never reach the wire as separate segments.
func WriteMessage(w io.Writer, payload []byte) error {
	frame := make([]byte, len(payload)+1)
	copy(frame, payload)
	frame[len(payload)] = Sentinel
	_, err := w.Write(frame)
	return err
}

// ReadMessage receives one whole message from r, reading chunkSize
// bytes at a time, and returns the payload with the sentinel stripped.
// EOF before a sentinel completes the message with the bytes
// accumulated so far; any other error is fatal to the message.
func ReadMessage(r io.Reader, chunkSize int) ([]byte, error) {
	var msg bytes.Buffer
	_, err := CopyMessage(&msg, r, chunkSize)
	return msg.Bytes(), err
}

// CopyMessage streams one message from src to dst chunk by chunk,
// writing each chunk as it arrives and stripping the trailing
// sentinel.  It returns the number of payload bytes written.  Partial
// reads are normal; the message ends when a chunk's final byte is the
// sentinel or the stream reports EOF.
func CopyMessage(dst io.Writer, src io.Reader, chunkSize int) (int64, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var buf []byte
	if chunkSize <= util.DefaultBufSize {
		pooled := util.GetBuf()
		defer util.PutBuf(pooled)
		buf = (*pooled)[:chunkSize]
	} else {
		buf = make([]byte, chunkSize)
	}

	var written int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			last := chunk[n-1] == Sentinel
			if last {
				chunk = chunk[:n-1]
			}
			if len(chunk) > 0 {
				if _, werr := dst.Write(chunk); werr != nil {
					return written, werr
				}
				written += int64(len(chunk))
			}
			if last {
				return written, nil
			}
		}
		if err != nil {
			if err == io.EOF {
				// Peer closed before the sentinel: the message is
				// complete, possibly truncated.
				return written, nil
			}
			return written, err
		}
	}
}

// TrimSentinel strips at most one trailing sentinel from b.  The
// server applies it to a request received in a single read.
func TrimSentinel(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == Sentinel {
		return b[:n-1]
	}
	return b
}
