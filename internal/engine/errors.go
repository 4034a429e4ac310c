package engine

import (
	"fmt"
	"time"
)

// CredentialError marks a stage that failed before any of its steps ran
// because declared credential material could not be resolved. It fails the
// owning stage only.
type CredentialError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	return fmt.Sprintf("stage %q: credential resolution failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying resolver error.
func (e *CredentialError) Unwrap() error { return e.Err }

// StepExecutionError marks a step whose external command exited non-zero or
// could not be run at all. It fails the owning stage and stops further steps
// in that stage.
type StepExecutionError struct {
	Stage    string
	Step     int // 1-based position within the stage
	ExitCode int
	Err      error // non-nil when the command could not be started
}

// Error implements the error interface.
func (e *StepExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stage %q step %d: %v", e.Stage, e.Step, e.Err)
	}
	return fmt.Sprintf("stage %q step %d: exited with code %d", e.Stage, e.Step, e.ExitCode)
}

// Unwrap returns the underlying execution error, if any.
func (e *StepExecutionError) Unwrap() error { return e.Err }

// TimeoutError marks a step that exceeded its configured budget. The
// underlying process is signalled best-effort only; the step is recorded as
// a failure regardless of whether the process actually stopped.
type TimeoutError struct {
	Stage  string
	Step   int
	Budget time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("stage %q step %d: exceeded timeout of %s", e.Stage, e.Step, e.Budget)
}

// NotificationError records a publish failure. It is surfaced alongside the
// already-final run result and never retroactively alters run status.
type NotificationError struct {
	Err error
}

// Error implements the error interface.
func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to publish run result: %v", e.Err)
}

// Unwrap returns the underlying publisher error.
func (e *NotificationError) Unwrap() error { return e.Err }
