package browser

import (
	"context"
	"time"
)

// Platform is the per-environment capability set the controller drives.
// Implementations must not unify address reads that differ in accuracy: a
// scripting-bridge read returns the real active-tab URL while a window-title
// read is best effort.
type Platform interface {
	// Name identifies the environment ("darwin", "windows", "linux").
	Name() string
	// Executable returns the first existing executable for kind.
	Executable(kind Kind) (string, error)
	// LaunchArgs builds the argument list that opens address in a new window.
	LaunchArgs(kind Kind, address string) []string
	// ActiveAddress reads what the running browser currently displays.
	ActiveAddress(ctx context.Context, kind Kind) (string, error)
	// ProfileDirs resolves the default-profile directories for kind.
	ProfileDirs(kind Kind) ([]string, error)
}

// Spawner starts native processes.
type Spawner interface {
	Spawn(ctx context.Context, path string, args []string) (Process, error)
}

// Process is an exclusively owned handle on a spawned browser.
type Process interface {
	PID() int
	// Signal asks the process to terminate. It does not wait.
	Signal() error
	// Events delivers at most one ProcessEvent and is then closed.
	Events() <-chan ProcessEvent
}

// ProcessEventType distinguishes a normal exit from a start failure.
type ProcessEventType int

const (
	ProcessExited ProcessEventType = iota
	ProcessStartError
)

// ProcessEvent is the asynchronous notification a Process emits once.
type ProcessEvent struct {
	Type     ProcessEventType
	ExitCode int
	Err      error
	At       time.Time
}

// ProfileRemover deletes a profile directory tree.
type ProfileRemover interface {
	Remove(ctx context.Context, dir string) (Usage, error)
}

// Usage describes what a profile removal deleted.
type Usage struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// Service is the operation set the request layers drive. Controller is
// the only production implementation.
type Service interface {
	Launch(ctx context.Context, kind Kind, address string) (Instance, error)
	Terminate(ctx context.Context, kind Kind) error
	QueryAddress(ctx context.Context, kind Kind) (string, error)
	ResetProfile(ctx context.Context, kind Kind) (ResetResult, error)
	Status() []Instance
}
