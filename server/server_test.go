package server

import (
	"context"
	"fmt"
	"io"
	"net"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Evryon/Operating-Systems-Remsh/config"
	"github.com/Evryon/Operating-Systems-Remsh/internal/capability"
	"github.com/Evryon/Operating-Systems-Remsh/internal/metrics"
	"github.com/Evryon/Operating-Systems-Remsh/internal/proto"
	"github.com/Evryon/Operating-Systems-Remsh/util"
)

// echoRunner answers every command with "out(<command>)\n" without
// touching a real shell.
var echoRunner = capability.RunnerFunc(func(ctx context.Context, command string) ([]byte, error) {
	return []byte(fmt.Sprintf("out(%s)\n", command)), nil
})

// startServer binds an ephemeral port, runs the admission loop in the
// background, and returns the dial address plus the Run result channel.
func startServer(t *testing.T, runner capability.Runner, stats *metrics.Collector) (string, chan error, context.CancelFunc) {
	t.Helper()

	cfg := config.NewServerConfig()
	cfg.Port = 0
	cfg.WaitTimeout = 200 * time.Millisecond
	require.NoError(t, cfg.Validate())

	srv := New(cfg, runner, util.NewLogger(0), stats)
	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx) }()

	addr := fmt.Sprintf("127.0.0.1:%d", srv.Addr().(*net.TCPAddr).Port)
	return addr, errCh, cancel
}

// sendCommand writes one framed request and reads one framed response.
func sendCommand(t *testing.T, conn net.Conn, command string) string {
	t.Helper()
	require.NoError(t, proto.WriteMessage(conn, []byte(command)))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	payload, err := proto.ReadMessage(conn, 256)
	require.NoError(t, err)
	return string(payload)
}

func waitForExit(t *testing.T, errCh chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
		return nil
	}
}

func TestRoundTrip(t *testing.T) {
	stats := metrics.New()
	addr, errCh, cancel := startServer(t, echoRunner, stats)
	defer cancel()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)

	got := sendCommand(t, conn, "echo hello")
	assert.Equal(t, "out(echo hello)\n", got)

	conn.Close()

	// Last connection gone: the server must shut itself down.
	require.NoError(t, waitForExit(t, errCh))
	assert.EqualValues(t, 0, stats.ActiveConnections())
	assert.EqualValues(t, 1, stats.TotalConnections())
	assert.EqualValues(t, 1, stats.CommandsExecuted())
}

func TestRoundTrip_RealShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test assumes a POSIX shell")
	}

	addr, errCh, cancel := startServer(t, nil, nil) // nil runner = real shell
	defer cancel()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)

	got := sendCommand(t, conn, "echo hello")
	assert.Equal(t, "hello\n", got)

	conn.Close()
	require.NoError(t, waitForExit(t, errCh))
}

func TestMultipleCommandsPerConnection(t *testing.T) {
	addr, errCh, cancel := startServer(t, echoRunner, nil)
	defer cancel()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)

	// Requests and responses stay strictly ordered on one connection.
	for i := 0; i < 5; i++ {
		cmd := fmt.Sprintf("cmd-%d", i)
		assert.Equal(t, fmt.Sprintf("out(%s)\n", cmd), sendCommand(t, conn, cmd))
	}

	conn.Close()
	require.NoError(t, waitForExit(t, errCh))
}

func TestConcurrentClients(t *testing.T) {
	stats := metrics.New()
	addr, errCh, cancel := startServer(t, echoRunner, stats)
	defer cancel()

	const clients = 8
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
			if !assert.NoError(t, err) {
				return
			}
			defer conn.Close()

			cmd := fmt.Sprintf("client-%d", i)
			assert.Equal(t, fmt.Sprintf("out(%s)\n", cmd), sendCommand(t, conn, cmd))
		}(i)
	}
	wg.Wait()

	require.NoError(t, waitForExit(t, errCh))
	assert.EqualValues(t, 0, stats.ActiveConnections(), "count must return to zero")
	assert.EqualValues(t, clients, stats.TotalConnections())
}

func TestGracefulHalfClose(t *testing.T) {
	addr, errCh, cancel := startServer(t, echoRunner, nil)
	defer cancel()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)

	// Shut down the write side without ever sending a request.
	require.NoError(t, conn.(*net.TCPConn).CloseWrite())

	// The worker must exit cleanly without a spurious response.
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	buf := make([]byte, 64)
	n, readErr := conn.Read(buf)
	assert.Zero(t, n, "no response bytes expected")
	assert.ErrorIs(t, readErr, io.EOF)

	conn.Close()
	require.NoError(t, waitForExit(t, errCh))
}

func TestIdleConnectionIsNotDropped(t *testing.T) {
	addr, errCh, cancel := startServer(t, echoRunner, nil)
	defer cancel()

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)

	// Stay idle across several wait expirations, then issue a command.
	time.Sleep(700 * time.Millisecond)
	assert.Equal(t, "out(still here)\n", sendCommand(t, conn, "still here"))

	conn.Close()
	require.NoError(t, waitForExit(t, errCh))
}

func TestWorkerFailureDoesNotAffectOthers(t *testing.T) {
	// A runner that fails for one marked command but serves the rest.
	runner := capability.RunnerFunc(func(ctx context.Context, command string) ([]byte, error) {
		if command == "poison" {
			return nil, fmt.Errorf("shell could not be started")
		}
		return []byte("ok\n"), nil
	})

	stats := metrics.New()
	addr, errCh, cancel := startServer(t, runner, stats)
	defer cancel()

	healthy, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer healthy.Close()

	poisoned, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)

	// The poisoned connection is torn down by its own worker.
	require.NoError(t, proto.WriteMessage(poisoned, []byte("poison")))
	poisoned.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, readErr := proto.ReadMessage(poisoned, 64)
	require.NoError(t, readErr) // EOF-before-sentinel reads as empty message
	poisoned.Close()

	// The healthy connection keeps working.
	assert.Equal(t, "ok\n", sendCommand(t, healthy, "date"))

	healthy.Close()
	require.NoError(t, waitForExit(t, errCh))
	assert.EqualValues(t, 1, stats.ErrorCount())
}

func TestContextCancelStopsServer(t *testing.T) {
	addr, errCh, cancel := startServer(t, echoRunner, nil)

	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	cancel()
	require.NoError(t, waitForExit(t, errCh))
}

func TestListenFailureIsFatal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.NewServerConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	srv := New(cfg, echoRunner, util.NewLogger(0), nil)
	require.Error(t, srv.Listen(), "bind to an occupied port must fail")
}
