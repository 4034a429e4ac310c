// Package runner defines the external command execution interface consumed
// by the engine, plus the default shell-backed implementation. The engine
// never shells out directly; every step goes through a Runner so tests can
// substitute a fake and callers can plug in remote executors.
package runner

import "context"

// Command is one external invocation: a fully rendered command line, an
// environment overlay applied on top of the parent process environment, and
// an optional working directory.
type Command struct {
	Line string
	Env  map[string]string
	Dir  string
}

// Result carries the exit code and captured combined output of a finished
// command. A non-zero exit code is reported here, not as an error; the error
// return of Execute is reserved for failures to run the command at all.
type Result struct {
	ExitCode int
	Output   string
}

// Runner executes external commands. Implementations must honor context
// cancellation as a best-effort stop signal.
type Runner interface {
	Execute(ctx context.Context, cmd Command) (*Result, error)
}
