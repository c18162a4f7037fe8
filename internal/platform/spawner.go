package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"github.com/GriffinCanCode/browserctl/internal/domain/browser"
)

// ExecSpawner starts browsers as detached child processes.
type ExecSpawner struct{}

// NewSpawner creates an ExecSpawner.
func NewSpawner() *ExecSpawner {
	return &ExecSpawner{}
}

// Spawn starts path with args. ctx only gates the start: the browser
// outlives the request that launched it, so the process is not bound to
// ctx.
func (s *ExecSpawner) Spawn(ctx context.Context, path string, args []string) (browser.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command(path, args...) // #nosec G204 - path comes from the catalog
	configureCommand(cmd)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", path, err)
	}

	p := &execProcess{
		cmd:    cmd,
		events: make(chan browser.ProcessEvent, 1),
	}
	go p.wait()

	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	events chan browser.ProcessEvent
	// reaped is set once Wait returns; the pid may be reused after that.
	reaped atomic.Bool
}

func (p *execProcess) PID() int {
	return p.cmd.Process.Pid
}

// Signal asks the browser to exit. It returns os.ErrProcessDone once the
// child has been reaped.
func (p *execProcess) Signal() error {
	if p.reaped.Load() {
		return os.ErrProcessDone
	}
	return terminate(p.cmd)
}

func (p *execProcess) Events() <-chan browser.ProcessEvent {
	return p.events
}

// wait reaps the child and emits exactly one event.
func (p *execProcess) wait() {
	err := p.cmd.Wait()
	p.reaped.Store(true)
	p.events <- classifyExit(err, time.Now())
	close(p.events)
}

// classifyExit maps a Wait result to a process event. Any error other than
// an exit status means the process never ran properly.
func classifyExit(err error, at time.Time) browser.ProcessEvent {
	if err == nil {
		return browser.ProcessEvent{Type: browser.ProcessExited, At: at}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return browser.ProcessEvent{Type: browser.ProcessExited, ExitCode: exitErr.ExitCode(), Err: err, At: at}
	}
	return browser.ProcessEvent{Type: browser.ProcessStartError, ExitCode: -1, Err: err, At: at}
}

var _ browser.Spawner = (*ExecSpawner)(nil)
