package browser

import (
	"errors"
	"fmt"
)

// Code classifies a controller failure. Codes are comparable sentinels, so
// errors.Is(err, ErrNotRunning) works on any error returned by the
// controller.
type Code string

func (c Code) Error() string {
	switch c {
	case ErrAlreadyRunning:
		return "already running"
	case ErrNotRunning:
		return "not running"
	case ErrStillRunning:
		return "still running, stop it first"
	case ErrExecutableNotFound:
		return "executable not found"
	case ErrSpawnFailed:
		return "failed to start"
	case ErrQueryFailed:
		return "failed to get url"
	case ErrResetFailed:
		return "failed to cleanup"
	case ErrUnsupportedKind:
		return "unsupported browser"
	}
	return string(c)
}

const (
	// Table-state precondition violations.
	ErrAlreadyRunning Code = "already_running"
	ErrNotRunning     Code = "not_running"
	ErrStillRunning   Code = "still_running"

	// Environment misconfiguration.
	ErrExecutableNotFound Code = "executable_not_found"

	// Downstream failures; these always wrap the platform error.
	ErrSpawnFailed Code = "spawn_failed"
	ErrQueryFailed Code = "query_failed"
	ErrResetFailed Code = "reset_failed"

	// Boundary validation.
	ErrUnsupportedKind Code = "unsupported_kind"
)

// Op names a controller operation.
type Op string

const (
	OpLaunch    Op = "launch"
	OpTerminate Op = "terminate"
	OpQuery     Op = "query"
	OpReset     Op = "reset"
)

// Error is returned by every controller operation that fails.
type Error struct {
	Op   Op
	Kind Kind
	Code Code
	Err  error // underlying platform error, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Kind, e.Code.Error(), e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Code.Error())
}

// Unwrap exposes both the code and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Code}
	}
	return []error{e.Code, e.Err}
}

// CodeOf extracts the Code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return ""
}

func newError(op Op, kind Kind, code Code, cause error) *Error {
	return &Error{Op: op, Kind: kind, Code: code, Err: cause}
}
