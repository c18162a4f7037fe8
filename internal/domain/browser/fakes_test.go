package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// mockPlatform is a testify mock of Platform.
type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) Name() string { return "test" }

func (m *mockPlatform) Executable(kind Kind) (string, error) {
	args := m.Called(kind)
	return args.String(0), args.Error(1)
}

func (m *mockPlatform) LaunchArgs(kind Kind, address string) []string {
	flag := "--new-window"
	if kind == Firefox {
		flag = "-new-window"
	}
	return []string{flag, address}
}

func (m *mockPlatform) ActiveAddress(ctx context.Context, kind Kind) (string, error) {
	args := m.Called(ctx, kind)
	return args.String(0), args.Error(1)
}

func (m *mockPlatform) ProfileDirs(kind Kind) ([]string, error) {
	args := m.Called(kind)
	dirs, _ := args.Get(0).([]string)
	return dirs, args.Error(1)
}

// mockRemover is a testify mock of ProfileRemover.
type mockRemover struct {
	mock.Mock
}

func (m *mockRemover) Remove(ctx context.Context, dir string) (Usage, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).(Usage), args.Error(1)
}

// fakeProcess is driven by the test through exit and fail.
type fakeProcess struct {
	pid       int
	events    chan ProcessEvent
	once      sync.Once
	signalErr error

	mu      sync.Mutex
	signals int
}

func newFakeProcess(pid int) *fakeProcess {
	return &fakeProcess{pid: pid, events: make(chan ProcessEvent, 1)}
}

func (p *fakeProcess) PID() int                    { return p.pid }
func (p *fakeProcess) Events() <-chan ProcessEvent { return p.events }

func (p *fakeProcess) Signal() error {
	p.mu.Lock()
	p.signals++
	p.mu.Unlock()
	p.exit(0)
	return p.signalErr
}

func (p *fakeProcess) Signals() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signals
}

func (p *fakeProcess) send(ev ProcessEvent) {
	p.once.Do(func() {
		ev.At = time.Now()
		p.events <- ev
		close(p.events)
	})
}

func (p *fakeProcess) exit(code int) {
	p.send(ProcessEvent{Type: ProcessExited, ExitCode: code})
}

func (p *fakeProcess) fail(err error) {
	p.send(ProcessEvent{Type: ProcessStartError, Err: err})
}

type spawnCall struct {
	path string
	args []string
}

// fakeSpawner hands out fakeProcesses and records every call.
type fakeSpawner struct {
	mu      sync.Mutex
	calls   []spawnCall
	procs   []*fakeProcess
	err     error
	nextPID int
	delay   time.Duration
}

func (s *fakeSpawner) Spawn(ctx context.Context, path string, args []string) (Process, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, spawnCall{path: path, args: append([]string(nil), args...)})
	if s.err != nil {
		return nil, s.err
	}
	s.nextPID++
	p := newFakeProcess(1000 + s.nextPID)
	s.procs = append(s.procs, p)
	return p, nil
}

func (s *fakeSpawner) Calls() []spawnCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]spawnCall(nil), s.calls...)
}

func (s *fakeSpawner) Last() *fakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.procs) == 0 {
		return nil
	}
	return s.procs[len(s.procs)-1]
}

var errBoom = errors.New("boom")
