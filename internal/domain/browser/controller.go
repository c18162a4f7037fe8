package browser

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/browserctl/internal/infrastructure/logging"
	"github.com/GriffinCanCode/browserctl/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/browserctl/internal/shared/id"
)

// Instance is a read-only snapshot of one table entry.
type Instance struct {
	Kind      Kind      `json:"kind"`
	Running   bool      `json:"running"`
	ID        string    `json:"instance_id,omitempty"`
	PID       int       `json:"pid,omitempty"`
	Address   string    `json:"address,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Exited    bool      `json:"exited,omitempty"`
}

// ResetResult reports what ResetProfile removed.
type ResetResult struct {
	Kind Kind     `json:"kind"`
	Dirs []string `json:"dirs"`
	Usage
}

// entry is the controller's record of a running instance. process is owned
// exclusively by the controller.
type entry struct {
	kind      Kind
	id        id.InstanceID
	process   Process
	address   string
	startedAt time.Time
	exited    bool // guarded by Controller.tableMu
}

func (e *entry) snapshot() Instance {
	return Instance{
		Kind:      e.kind,
		Running:   true,
		ID:        e.id.String(),
		PID:       e.process.PID(),
		Address:   e.address,
		StartedAt: e.startedAt,
		Exited:    e.exited,
	}
}

// Controller owns the process table.
type Controller struct {
	platform Platform
	spawner  Spawner
	remover  ProfileRemover

	// locks serialize every operation on one kind, including the downstream
	// call. The map is filled at construction and never written again.
	locks map[Kind]*sync.Mutex

	tableMu sync.RWMutex
	table   map[Kind]*entry

	watchers sync.WaitGroup

	reapOnExit bool
	logger     *logging.Logger
	metrics    *monitoring.Metrics
	hub        *Hub
}

// NewController creates a controller with an empty table.
func NewController(platform Platform, spawner Spawner, remover ProfileRemover) *Controller {
	c := &Controller{
		platform: platform,
		spawner:  spawner,
		remover:  remover,
		locks:    make(map[Kind]*sync.Mutex, len(Kinds)),
		table:    make(map[Kind]*entry, len(Kinds)),
		logger:   logging.NewNop(),
	}
	for _, k := range Kinds {
		c.locks[k] = &sync.Mutex{}
	}
	return c
}

// WithLogger sets the controller logger
func (c *Controller) WithLogger(logger *logging.Logger) *Controller {
	c.logger = logger
	return c
}

// WithMetrics adds metrics tracking to the controller
func (c *Controller) WithMetrics(metrics *monitoring.Metrics) *Controller {
	c.metrics = metrics
	return c
}

// WithEvents publishes state transitions to hub
func (c *Controller) WithEvents(hub *Hub) *Controller {
	c.hub = hub
	return c
}

// WithReapOnExit makes a normal process exit retract the table entry.
func (c *Controller) WithReapOnExit(reap bool) *Controller {
	c.reapOnExit = reap
	return c
}

// Platform returns the environment strategy in use.
func (c *Controller) Platform() Platform {
	return c.platform
}

// Launch starts kind with address in a new window.
func (c *Controller) Launch(ctx context.Context, kind Kind, address string) (Instance, error) {
	timer := monitoring.NewTimer(c.metrics, string(OpLaunch), string(kind))

	unlock, err := c.acquire(OpLaunch, kind)
	if err != nil {
		timer.Stop(string(CodeOf(err)))
		return Instance{}, err
	}
	defer unlock()

	if c.lookup(kind) != nil {
		return Instance{}, c.fail(timer, newError(OpLaunch, kind, ErrAlreadyRunning, nil))
	}

	path, err := c.platform.Executable(kind)
	if err != nil {
		return Instance{}, c.fail(timer, newError(OpLaunch, kind, ErrExecutableNotFound, err))
	}

	proc, err := c.spawner.Spawn(ctx, path, c.platform.LaunchArgs(kind, address))
	if err != nil {
		return Instance{}, c.fail(timer, newError(OpLaunch, kind, ErrSpawnFailed, err))
	}

	e := &entry{
		kind:      kind,
		id:        id.NewInstanceID(),
		process:   proc,
		address:   address,
		startedAt: time.Now(),
	}

	c.tableMu.Lock()
	c.table[kind] = e
	inst := e.snapshot()
	c.tableMu.Unlock()

	c.watchers.Add(1)
	go c.watch(e)

	if c.metrics != nil {
		c.metrics.SetRunning(string(kind), true)
	}
	c.publish(Event{Type: EventLaunched, Kind: kind, InstanceID: inst.ID, PID: inst.PID, Running: true})
	c.logger.Info("browser launched",
		zap.String("kind", string(kind)),
		zap.String("instance_id", inst.ID),
		zap.Int("pid", inst.PID),
		zap.String("executable", path),
	)
	timer.Stop("ok")

	return inst, nil
}

// Terminate signals the running instance of kind and forgets it. The
// signal is best effort: its failure is logged, and the entry is removed
// regardless.
func (c *Controller) Terminate(ctx context.Context, kind Kind) error {
	timer := monitoring.NewTimer(c.metrics, string(OpTerminate), string(kind))

	unlock, err := c.acquire(OpTerminate, kind)
	if err != nil {
		timer.Stop(string(CodeOf(err)))
		return err
	}
	defer unlock()

	e := c.lookup(kind)
	if e == nil {
		return c.fail(timer, newError(OpTerminate, kind, ErrNotRunning, nil))
	}

	if err := e.process.Signal(); err != nil {
		c.logger.Warn("terminate signal failed",
			zap.String("kind", string(kind)),
			zap.String("instance_id", e.id.String()),
			zap.Int("pid", e.process.PID()),
			zap.Error(err),
		)
	}

	c.remove(e)

	c.publish(Event{Type: EventTerminated, Kind: kind, InstanceID: e.id.String(), PID: e.process.PID()})
	c.logger.Info("browser terminated",
		zap.String("kind", string(kind)),
		zap.String("instance_id", e.id.String()),
	)
	timer.Stop("ok")

	return nil
}

// QueryAddress returns what the running instance of kind currently shows.
// Depending on the platform this is the active tab URL or a window title.
func (c *Controller) QueryAddress(ctx context.Context, kind Kind) (string, error) {
	timer := monitoring.NewTimer(c.metrics, string(OpQuery), string(kind))

	unlock, err := c.acquire(OpQuery, kind)
	if err != nil {
		timer.Stop(string(CodeOf(err)))
		return "", err
	}
	defer unlock()

	if c.lookup(kind) == nil {
		return "", c.fail(timer, newError(OpQuery, kind, ErrNotRunning, nil))
	}

	addr, err := c.platform.ActiveAddress(ctx, kind)
	if err != nil {
		return "", c.fail(timer, newError(OpQuery, kind, ErrQueryFailed, err))
	}
	timer.Stop("ok")

	return strings.TrimSpace(addr), nil
}

// ResetProfile deletes the default profile of kind. It refuses while an
// instance of kind is tracked and touches no files in that case.
func (c *Controller) ResetProfile(ctx context.Context, kind Kind) (ResetResult, error) {
	timer := monitoring.NewTimer(c.metrics, string(OpReset), string(kind))
	result := ResetResult{Kind: kind}

	unlock, err := c.acquire(OpReset, kind)
	if err != nil {
		timer.Stop(string(CodeOf(err)))
		return result, err
	}
	defer unlock()

	if c.lookup(kind) != nil {
		return result, c.fail(timer, newError(OpReset, kind, ErrStillRunning, nil))
	}

	dirs, err := c.platform.ProfileDirs(kind)
	if err != nil {
		return result, c.fail(timer, newError(OpReset, kind, ErrResetFailed, err))
	}
	if len(dirs) == 0 {
		return result, c.fail(timer, newError(OpReset, kind, ErrResetFailed,
			fmt.Errorf("no profile directory: %w", fs.ErrNotExist)))
	}

	for _, dir := range dirs {
		usage, err := c.remover.Remove(ctx, dir)
		result.Files += usage.Files
		result.Bytes += usage.Bytes
		if err != nil {
			return result, c.fail(timer, newError(OpReset, kind, ErrResetFailed, err))
		}
		result.Dirs = append(result.Dirs, dir)
	}

	if c.metrics != nil {
		c.metrics.AddResetBytes(string(kind), result.Bytes)
	}
	c.publish(Event{Type: EventReset, Kind: kind})
	c.logger.Info("browser profile reset",
		zap.String("kind", string(kind)),
		zap.Strings("dirs", result.Dirs),
		zap.Int("files", result.Files),
		zap.Int64("bytes", result.Bytes),
	)
	timer.Stop("ok")

	return result, nil
}

// Status returns one snapshot per supported kind, in Kinds order.
func (c *Controller) Status() []Instance {
	c.tableMu.RLock()
	defer c.tableMu.RUnlock()

	out := make([]Instance, 0, len(Kinds))
	for _, k := range Kinds {
		if e, ok := c.table[k]; ok {
			out = append(out, e.snapshot())
			continue
		}
		out = append(out, Instance{Kind: k})
	}
	return out
}

// Running reports whether the table holds an entry for kind.
func (c *Controller) Running(kind Kind) bool {
	return c.lookup(kind) != nil
}

// Shutdown terminates every tracked instance and waits for their watchers
// to drain or ctx to end.
func (c *Controller) Shutdown(ctx context.Context) error {
	var errs []error
	for _, k := range Kinds {
		if !c.Running(k) {
			continue
		}
		if err := c.Terminate(ctx, k); err != nil && !errors.Is(err, ErrNotRunning) {
			errs = append(errs, err)
		}
	}

	done := make(chan struct{})
	go func() {
		c.watchers.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for browser processes: %w", ctx.Err()))
	}

	return errors.Join(errs...)
}

// watch forwards the single process notification to the kind's boundary.
func (c *Controller) watch(e *entry) {
	defer c.watchers.Done()

	for ev := range e.process.Events() {
		c.handleProcessEvent(e, ev)
	}
}

// handleProcessEvent runs under the kind lock. A start error retracts the
// entry if it is still the current one; a normal exit only flags it unless
// reapOnExit is set.
func (c *Controller) handleProcessEvent(e *entry, ev ProcessEvent) {
	lock := c.locks[e.kind]
	lock.Lock()
	defer lock.Unlock()

	fields := []zap.Field{
		zap.String("kind", string(e.kind)),
		zap.String("instance_id", e.id.String()),
		zap.Int("pid", e.process.PID()),
	}

	switch ev.Type {
	case ProcessStartError:
		if c.metrics != nil {
			c.metrics.RecordExit(string(e.kind), "start_error")
		}
		errMsg := ""
		if ev.Err != nil {
			errMsg = ev.Err.Error()
		}
		if !c.isCurrent(e) {
			return
		}
		c.remove(e)
		c.publish(Event{Type: EventRetracted, Kind: e.kind, InstanceID: e.id.String(), PID: e.process.PID(), Error: errMsg})
		c.logger.Error("browser failed after start, entry retracted", append(fields, zap.Error(ev.Err))...)

	case ProcessExited:
		if c.metrics != nil {
			c.metrics.RecordExit(string(e.kind), "exited")
		}
		if !c.isCurrent(e) {
			return
		}
		if c.reapOnExit {
			c.remove(e)
			c.publish(Event{Type: EventRetracted, Kind: e.kind, InstanceID: e.id.String(), PID: e.process.PID()})
			c.logger.Info("browser exited, entry reaped", append(fields, zap.Int("exit_code", ev.ExitCode))...)
			return
		}

		c.tableMu.Lock()
		e.exited = true
		c.tableMu.Unlock()

		c.publish(Event{Type: EventExited, Kind: e.kind, InstanceID: e.id.String(), PID: e.process.PID(), Running: true})
		c.logger.Info("browser process exited, entry kept", append(fields, zap.Int("exit_code", ev.ExitCode))...)
	}
}

// acquire takes the kind lock, rejecting kinds outside the closed set.
func (c *Controller) acquire(op Op, kind Kind) (func(), error) {
	lock, ok := c.locks[kind]
	if !ok {
		return nil, newError(op, kind, ErrUnsupportedKind, nil)
	}
	lock.Lock()
	return lock.Unlock, nil
}

func (c *Controller) lookup(kind Kind) *entry {
	c.tableMu.RLock()
	defer c.tableMu.RUnlock()
	return c.table[kind]
}

func (c *Controller) isCurrent(e *entry) bool {
	c.tableMu.RLock()
	defer c.tableMu.RUnlock()
	return c.table[e.kind] == e
}

// remove deletes e from the table if it is still current.
func (c *Controller) remove(e *entry) {
	c.tableMu.Lock()
	if c.table[e.kind] == e {
		delete(c.table, e.kind)
	}
	c.tableMu.Unlock()

	if c.metrics != nil {
		c.metrics.SetRunning(string(e.kind), false)
	}
}

func (c *Controller) fail(timer *monitoring.Timer, err *Error) error {
	timer.Stop(string(err.Code))
	c.logger.Warn("browser operation failed",
		zap.String("op", string(err.Op)),
		zap.String("kind", string(err.Kind)),
		zap.String("code", string(err.Code)),
		zap.NamedError("cause", err.Err),
	)
	return err
}

func (c *Controller) publish(ev Event) {
	if c.hub != nil {
		c.hub.Publish(ev)
	}
}

var _ Service = (*Controller)(nil)
