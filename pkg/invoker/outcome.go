package invoker

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies how an invocation ended.
type Kind int

const (
	// Succeeded means the processor exited with status zero.
	Succeeded Kind = iota
	// ExitFailed means the processor ran and exited non-zero.
	ExitFailed
	// LaunchFailed means the processor could not be started.
	LaunchFailed
	// TimedOut means the processor exceeded the configured timeout and was killed.
	TimedOut
	// Canceled means the caller cancelled the run and the processor was killed.
	Canceled
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case ExitFailed:
		return "exit_failed"
	case LaunchFailed:
		return "launch_failed"
	case TimedOut:
		return "timed_out"
	case Canceled:
		return "canceled"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Markers prefixed to the legacy single-string rendering of an Outcome.
const (
	ExitFailureMarker   = "Error: "
	LaunchFailureMarker = "Execution failed: "
	TimeoutMarker       = "Timed out: "
	CanceledMarker      = "Canceled: "
)

// ErrTimeout is wrapped by the error of a TimedOut outcome.
var ErrTimeout = errors.New("processor timed out")

// ExitError is the error of an ExitFailed outcome.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("processor exited with status %d: %s", e.Code, e.Stderr)
}

// LaunchError is the error of a LaunchFailed outcome.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	if e.Err == nil {
		return "could not start " + e.Command
	}
	return e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Outcome is the result of one invocation. Exactly one Kind is set; Err is
// nil only for Succeeded.
type Outcome struct {
	Kind      Kind
	Path      string
	RequestID string

	// Stdout is the decoded standard output. It is the result text on success.
	Stdout string
	// Stderr is the decoded standard error.
	Stderr   string
	ExitCode int
	Duration time.Duration
	Err      error
}

// OK reports whether the processor succeeded.
func (o Outcome) OK() bool {
	return o.Kind == Succeeded
}

// String renders the outcome as a single string: the processor output on
// success, otherwise a marker followed by the failure description.
func (o Outcome) String() string {
	switch o.Kind {
	case Succeeded:
		return o.Stdout
	case ExitFailed:
		return ExitFailureMarker + o.Stderr
	case LaunchFailed:
		return LaunchFailureMarker + errText(o.Err)
	case TimedOut:
		return TimeoutMarker + errText(o.Err)
	case Canceled:
		return CanceledMarker + errText(o.Err)
	}
	return errText(o.Err)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
