package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/stageflow/stageflow/internal/ctxlog"
)

// Local runs commands through a shell on the machine hosting the engine.
type Local struct {
	// Shell is the interpreter invoked with -c. Defaults to /bin/sh.
	Shell string
}

// NewLocal creates a Local runner with the default shell.
func NewLocal() *Local {
	return &Local{Shell: "/bin/sh"}
}

// Execute implements the Runner interface. The command's environment is the
// parent process environment with the overlay appended, so overlay entries
// win on duplicate names.
func (l *Local) Execute(ctx context.Context, cmd Command) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Executing command.", "line", cmd.Line, "dir", cmd.Dir)

	shell := l.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	c := exec.CommandContext(ctx, shell, "-c", cmd.Line)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), flattenEnv(cmd.Env)...)

	out, err := c.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode(), Output: string(out)}, nil
		}
		return nil, fmt.Errorf("failed to run command: %w", err)
	}
	return &Result{ExitCode: 0, Output: string(out)}, nil
}

// flattenEnv converts the overlay map to KEY=VALUE form in a deterministic order.
func flattenEnv(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flat := make([]string, 0, len(keys))
	for _, k := range keys {
		flat = append(flat, k+"="+env[k])
	}
	return flat
}
