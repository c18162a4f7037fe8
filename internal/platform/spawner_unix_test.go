//go:build !windows

package platform

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

func nextEvent(t *testing.T, p browser.Process) browser.ProcessEvent {
	t.Helper()
	select {
	case ev, ok := <-p.Events():
		require.True(t, ok, "events closed without an event")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no process event")
	}
	return browser.ProcessEvent{}
}

func TestSpawnExitCode(t *testing.T) {
	p, err := NewSpawner().Spawn(context.Background(), "/bin/sh", []string{"-c", "exit 3"})
	require.NoError(t, err)
	assert.Positive(t, p.PID())

	ev := nextEvent(t, p)
	assert.Equal(t, browser.ProcessExited, ev.Type)
	assert.Equal(t, 3, ev.ExitCode)

	_, ok := <-p.Events()
	assert.False(t, ok)
}

func TestSpawnSignal(t *testing.T) {
	p, err := NewSpawner().Spawn(context.Background(), "/bin/sh", []string{"-c", "sleep 30"})
	require.NoError(t, err)

	require.NoError(t, p.Signal())

	ev := nextEvent(t, p)
	assert.Equal(t, browser.ProcessExited, ev.Type)
}

func TestSignalAfterExit(t *testing.T) {
	p, err := NewSpawner().Spawn(context.Background(), "/bin/sh", []string{"-c", "exit 0"})
	require.NoError(t, err)

	ev := nextEvent(t, p)
	assert.Equal(t, browser.ProcessExited, ev.Type)

	assert.ErrorIs(t, p.Signal(), os.ErrProcessDone)
}

func TestSpawnMissingExecutable(t *testing.T) {
	_, err := NewSpawner().Spawn(context.Background(), "/nonexistent/browser", nil)
	assert.Error(t, err)
}

func TestSpawnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSpawner().Spawn(ctx, "/bin/sh", []string{"-c", "true"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyExit(t *testing.T) {
	now := time.Now()

	assert.Equal(t, browser.ProcessExited, classifyExit(nil, now).Type)

	ev := classifyExit(errors.New("copy stdout: broken pipe"), now)
	assert.Equal(t, browser.ProcessStartError, ev.Type)
	assert.Equal(t, -1, ev.ExitCode)

	err := exec.Command("/bin/sh", "-c", "exit 7").Run()
	ev = classifyExit(err, now)
	assert.Equal(t, browser.ProcessExited, ev.Type)
	assert.Equal(t, 7, ev.ExitCode)
}

func TestExecRunner(t *testing.T) {
	ctx := context.Background()

	out, err := ExecRunner{}.Run(ctx, "/bin/sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	_, err = ExecRunner{}.Run(ctx, "/bin/sh", "-c", "echo denied >&2; exit 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")

	tctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = ExecRunner{}.Run(tctx, "/bin/sh", "-c", "sleep 5")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
