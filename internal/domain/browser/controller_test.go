package browser

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/browserctl/internal/infrastructure/monitoring"
)

const (
	chromePath  = "/opt/google/chrome/chrome"
	firefoxPath = "/usr/bin/firefox"
)

type fixture struct {
	ctrl     *Controller
	platform *mockPlatform
	spawner  *fakeSpawner
	remover  *mockRemover
	hub      *Hub
	metrics  *monitoring.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	p := &mockPlatform{}
	p.On("Executable", Chrome).Return(chromePath, nil).Maybe()
	p.On("Executable", Firefox).Return(firefoxPath, nil).Maybe()

	f := &fixture{
		platform: p,
		spawner:  &fakeSpawner{},
		remover:  &mockRemover{},
		hub:      NewHub(32),
		metrics:  monitoring.NewMetrics(),
	}
	f.ctrl = NewController(f.platform, f.spawner, f.remover).
		WithMetrics(f.metrics).
		WithEvents(f.hub)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = f.ctrl.Shutdown(ctx)
		f.hub.Close()
	})
	return f
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestLaunch(t *testing.T) {
	ctx := context.Background()

	t.Run("inserts entry and forwards address verbatim", func(t *testing.T) {
		f := newFixture(t)
		addr := "https://example.com/a b?q=1&x=\"y\""

		inst, err := f.ctrl.Launch(ctx, Chrome, addr)
		require.NoError(t, err)

		assert.Equal(t, Chrome, inst.Kind)
		assert.True(t, inst.Running)
		assert.NotEmpty(t, inst.ID)
		assert.Equal(t, addr, inst.Address)
		assert.True(t, f.ctrl.Running(Chrome))
		assert.False(t, f.ctrl.Running(Firefox))

		calls := f.spawner.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, chromePath, calls[0].path)
		assert.Equal(t, []string{"--new-window", addr}, calls[0].args)
	})

	t.Run("firefox uses single dash flag", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ctrl.Launch(ctx, Firefox, "https://example.org")
		require.NoError(t, err)

		calls := f.spawner.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, firefoxPath, calls[0].path)
		assert.Equal(t, []string{"-new-window", "https://example.org"}, calls[0].args)
	})

	t.Run("second launch is rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.NoError(t, err)

		_, err = f.ctrl.Launch(ctx, Chrome, "https://b.test")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadyRunning)
		assert.Len(t, f.spawner.Calls(), 1)
	})

	t.Run("missing executable leaves table unchanged", func(t *testing.T) {
		p := &mockPlatform{}
		p.On("Executable", Chrome).Return("", fs.ErrNotExist)
		sp := &fakeSpawner{}
		ctrl := NewController(p, sp, &mockRemover{})

		_, err := ctrl.Launch(ctx, Chrome, "https://a.test")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutableNotFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.False(t, ctrl.Running(Chrome))
		assert.Empty(t, sp.Calls())
	})

	t.Run("spawn refusal leaves table unchanged", func(t *testing.T) {
		f := newFixture(t)
		f.spawner.err = errBoom

		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSpawnFailed)
		assert.ErrorIs(t, err, errBoom)
		assert.False(t, f.ctrl.Running(Chrome))

		var berr *Error
		require.True(t, errors.As(err, &berr))
		assert.Equal(t, OpLaunch, berr.Op)
		assert.Equal(t, Chrome, berr.Kind)
		assert.Contains(t, err.Error(), "launch chrome")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("unsupported kind", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ctrl.Launch(ctx, Kind("safari"), "https://a.test")
		assert.ErrorIs(t, err, ErrUnsupportedKind)
		assert.Empty(t, f.spawner.Calls())
	})
}

func TestLateStartErrorRetractsEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	events, cancel := f.hub.Subscribe()
	defer cancel()

	_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.NoError(t, err)
	first := f.spawner.Last()

	first.fail(errors.New("EACCES"))
	waitFor(t, func() bool { return !f.ctrl.Running(Chrome) })

	_, err = f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.NoError(t, err)
	assert.Len(t, f.spawner.Calls(), 2)

	var seen []EventType
	deadline := time.After(time.Second)
	for len(seen) < 3 {
		select {
		case ev := <-events:
			seen = append(seen, ev.Type)
		case <-deadline:
			t.Fatalf("events seen: %v", seen)
		}
	}
	assert.Equal(t, []EventType{EventLaunched, EventRetracted, EventLaunched}, seen)
}

func TestStaleStartErrorKeepsNewEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.NoError(t, err)
	first := f.spawner.Last()

	require.NoError(t, f.ctrl.Terminate(ctx, Chrome))

	_, err = f.ctrl.Launch(ctx, Chrome, "https://b.test")
	require.NoError(t, err)
	second := f.spawner.Last()

	// first already delivered its exit; a late event on a stale handle must
	// not touch the new entry.
	f.ctrl.handleProcessEvent(&entry{kind: Chrome, process: first}, ProcessEvent{Type: ProcessStartError, Err: errBoom})

	assert.True(t, f.ctrl.Running(Chrome))
	st := f.ctrl.Status()
	assert.Equal(t, second.PID(), st[0].PID)
}

func TestProcessExitKeepsEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ctrl.Launch(ctx, Firefox, "https://a.test")
	require.NoError(t, err)

	f.spawner.Last().exit(0)
	waitFor(t, func() bool { return f.ctrl.Status()[1].Exited })

	assert.True(t, f.ctrl.Running(Firefox))

	_, err = f.ctrl.Launch(ctx, Firefox, "https://a.test")
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, f.ctrl.Terminate(ctx, Firefox))
	assert.False(t, f.ctrl.Running(Firefox))
}

func TestProcessExitReaped(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.ctrl.WithReapOnExit(true)

	_, err := f.ctrl.Launch(ctx, Firefox, "https://a.test")
	require.NoError(t, err)

	f.spawner.Last().exit(0)
	waitFor(t, func() bool { return !f.ctrl.Running(Firefox) })

	_, err = f.ctrl.Launch(ctx, Firefox, "https://a.test")
	assert.NoError(t, err)
}

func TestTerminate(t *testing.T) {
	ctx := context.Background()

	t.Run("not running", func(t *testing.T) {
		f := newFixture(t)
		err := f.ctrl.Terminate(ctx, Chrome)
		assert.ErrorIs(t, err, ErrNotRunning)
	})

	t.Run("signals and removes", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.NoError(t, err)
		p := f.spawner.Last()

		require.NoError(t, f.ctrl.Terminate(ctx, Chrome))
		assert.Equal(t, 1, p.Signals())
		assert.False(t, f.ctrl.Running(Chrome))

		assert.ErrorIs(t, f.ctrl.Terminate(ctx, Chrome), ErrNotRunning)
	})

	t.Run("signal failure still removes entry", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.NoError(t, err)
		f.spawner.Last().signalErr = errBoom

		assert.NoError(t, f.ctrl.Terminate(ctx, Chrome))
		assert.False(t, f.ctrl.Running(Chrome))
	})

	t.Run("launch terminate launch", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.NoError(t, err)
		require.NoError(t, f.ctrl.Terminate(ctx, Chrome))
		_, err = f.ctrl.Launch(ctx, Chrome, "https://a.test")
		assert.NoError(t, err)
	})
}

func TestQueryAddress(t *testing.T) {
	ctx := context.Background()

	t.Run("not running never calls automation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ctrl.QueryAddress(ctx, Chrome)
		assert.ErrorIs(t, err, ErrNotRunning)
		f.platform.AssertNotCalled(t, "ActiveAddress", mock.Anything, mock.Anything)
	})

	t.Run("returns trimmed output", func(t *testing.T) {
		f := newFixture(t)
		f.platform.On("ActiveAddress", mock.Anything, Chrome).Return("https://example.com/\n", nil).Once()

		_, err := f.ctrl.Launch(ctx, Chrome, "https://example.com")
		require.NoError(t, err)

		addr, err := f.ctrl.QueryAddress(ctx, Chrome)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/", addr)
		assert.True(t, f.ctrl.Running(Chrome))
		f.platform.AssertExpectations(t)
	})

	t.Run("automation failure", func(t *testing.T) {
		f := newFixture(t)
		f.platform.On("ActiveAddress", mock.Anything, Firefox).Return("", errBoom).Once()

		_, err := f.ctrl.Launch(ctx, Firefox, "https://example.com")
		require.NoError(t, err)

		_, err = f.ctrl.QueryAddress(ctx, Firefox)
		assert.ErrorIs(t, err, ErrQueryFailed)
		assert.ErrorIs(t, err, errBoom)
		assert.True(t, f.ctrl.Running(Firefox))
	})
}

func TestResetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while running, no filesystem access", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.NoError(t, err)

		_, err = f.ctrl.ResetProfile(ctx, Chrome)
		assert.ErrorIs(t, err, ErrStillRunning)
		f.platform.AssertNotCalled(t, "ProfileDirs", mock.Anything)
		f.remover.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
	})

	t.Run("removes every resolved directory", func(t *testing.T) {
		f := newFixture(t)
		dirs := []string{"/p/abc.default", "/p/def.default-release"}
		f.platform.On("ProfileDirs", Firefox).Return(dirs, nil)
		f.remover.On("Remove", mock.Anything, dirs[0]).Return(Usage{Files: 2, Bytes: 10}, nil)
		f.remover.On("Remove", mock.Anything, dirs[1]).Return(Usage{Files: 3, Bytes: 5}, nil)

		res, err := f.ctrl.ResetProfile(ctx, Firefox)
		require.NoError(t, err)
		assert.Equal(t, dirs, res.Dirs)
		assert.Equal(t, 5, res.Files)
		assert.Equal(t, int64(15), res.Bytes)
		f.remover.AssertExpectations(t)
	})

	t.Run("no directory found", func(t *testing.T) {
		f := newFixture(t)
		f.platform.On("ProfileDirs", Firefox).Return([]string{}, nil)

		_, err := f.ctrl.ResetProfile(ctx, Firefox)
		assert.ErrorIs(t, err, ErrResetFailed)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("removal failure", func(t *testing.T) {
		f := newFixture(t)
		f.platform.On("ProfileDirs", Chrome).Return([]string{"/p/Default"}, nil)
		f.remover.On("Remove", mock.Anything, "/p/Default").Return(Usage{}, fs.ErrPermission)

		_, err := f.ctrl.ResetProfile(ctx, Chrome)
		assert.ErrorIs(t, err, ErrResetFailed)
		assert.ErrorIs(t, err, fs.ErrPermission)
	})

	t.Run("allowed after terminate", func(t *testing.T) {
		f := newFixture(t)
		f.platform.On("ProfileDirs", Chrome).Return([]string{"/p/Default"}, nil)
		f.remover.On("Remove", mock.Anything, "/p/Default").Return(Usage{Files: 1, Bytes: 1}, nil)

		_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
		require.NoError(t, err)
		require.NoError(t, f.ctrl.Terminate(ctx, Chrome))

		_, err = f.ctrl.ResetProfile(ctx, Chrome)
		assert.NoError(t, err)
	})
}

func TestConcurrentLaunchSameKind(t *testing.T) {
	f := newFixture(t)
	f.spawner.delay = 10 * time.Millisecond

	const n = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ctrl.Launch(context.Background(), Chrome, "https://a.test")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, ErrAlreadyRunning) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, rejected)
	assert.Len(t, f.spawner.Calls(), 1)
}

func TestKindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.platform.On("ProfileDirs", Firefox).Return([]string{"/p/x.default"}, nil)
	f.remover.On("Remove", mock.Anything, "/p/x.default").Return(Usage{}, nil)

	_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.NoError(t, err)

	_, err = f.ctrl.ResetProfile(ctx, Firefox)
	assert.NoError(t, err)

	_, err = f.ctrl.QueryAddress(ctx, Firefox)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)

	st := f.ctrl.Status()
	require.Len(t, st, 2)
	assert.Equal(t, Chrome, st[0].Kind)
	assert.False(t, st[0].Running)
	assert.Equal(t, Firefox, st[1].Kind)

	inst, err := f.ctrl.Launch(context.Background(), Firefox, "https://a.test")
	require.NoError(t, err)

	st = f.ctrl.Status()
	assert.False(t, st[0].Running)
	assert.True(t, st[1].Running)
	assert.Equal(t, inst.ID, st[1].ID)
	assert.Equal(t, inst.PID, st[1].PID)
}

func TestShutdownTerminatesAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.NoError(t, err)
	_, err = f.ctrl.Launch(ctx, Firefox, "https://a.test")
	require.NoError(t, err)

	sctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, f.ctrl.Shutdown(sctx))

	assert.False(t, f.ctrl.Running(Chrome))
	assert.False(t, f.ctrl.Running(Firefox))
}

func TestOperationMetrics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.NoError(t, err)
	_, err = f.ctrl.Launch(ctx, Chrome, "https://a.test")
	require.Error(t, err)

	snap := f.metrics.Snapshot()
	assert.Equal(t, 2, int(snap.TotalOperations))
	assert.Equal(t, 1, int(snap.FailedOps))
}
