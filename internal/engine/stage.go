package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/stageflow/stageflow/internal/config"
	"github.com/stageflow/stageflow/internal/ctxlog"
	"github.com/stageflow/stageflow/internal/runner"
	"github.com/stageflow/stageflow/internal/secrets"
)

// runStage drives one stage to a terminal state and returns its result.
func (e *Engine) runStage(ctx context.Context, stage *config.Stage, rc *RunContext) StageResult {
	if stage.Kind == config.StageGroup {
		return e.runGroup(ctx, stage, rc)
	}
	return e.runLeaf(ctx, stage, rc)
}

// runGroup forks every child onto its own goroutine and joins on all of
// them: the group is scored only after each child holds a terminal status
// (fork-join, not first-to-finish). Children write only their own slot of
// the results slice; the run context is untouched until the caller's join.
func (e *Engine) runGroup(ctx context.Context, stage *config.Stage, rc *RunContext) StageResult {
	logger := ctxlog.FromContext(ctx).With("stage", stage.Name)
	logger.Info("Starting parallel group.", "children", len(stage.Children))

	st := &stageState{}
	st.to(StateRunning)
	start := time.Now()

	groupCtx := ctx
	cancel := context.CancelFunc(func() {})
	if e.abandonInFlight {
		groupCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	results := make([]StageResult, len(stage.Children))
	var wg sync.WaitGroup
	for i, child := range stage.Children {
		wg.Add(1)
		go func(i int, child *config.Stage) {
			defer wg.Done()
			if groupCtx.Err() != nil {
				results[i] = skipStage(child)
				return
			}
			sr := e.runStage(groupCtx, child, rc)
			if sr.Status == StatusFailure && e.abandonInFlight {
				cancel()
			}
			results[i] = sr
		}(i, child)
	}
	wg.Wait()

	sr := StageResult{
		Stage:    stage.Name,
		Status:   StatusSuccess,
		Children: results,
		Duration: time.Since(start),
	}
	for _, child := range results {
		if child.Status == StatusFailure {
			sr.Status = StatusFailure
			sr.Err = child.Err
			break
		}
	}

	if sr.Status == StatusFailure {
		st.to(StateFailure)
	} else {
		st.to(StateSuccess)
	}
	logger.Info("Parallel group finished.", "status", sr.Status)
	return sr
}

// runLeaf binds the stage's declared credentials, runs its steps strictly in
// order, and releases the binding on every exit path before returning.
func (e *Engine) runLeaf(ctx context.Context, stage *config.Stage, rc *RunContext) StageResult {
	logger := ctxlog.FromContext(ctx).With("stage", stage.Name)
	logger.Info("Starting stage.", "steps", len(stage.Steps))

	st := &stageState{}
	st.to(StateRunning)
	start := time.Now()

	sr := StageResult{Stage: stage.Name, Status: StatusSuccess}
	defer func() {
		sr.Duration = time.Since(start)
		if sr.Status == StatusFailure {
			st.to(StateFailure)
			logger.Warn("Stage failed.", "error", sr.Err)
		} else {
			st.to(StateSuccess)
			logger.Info("Stage finished.")
		}
	}()

	binding, err := secrets.Bind(ctx, e.secrets, stage.Credentials)
	if err != nil {
		sr.Status = StatusFailure
		sr.Err = &CredentialError{Stage: stage.Name, Err: err}
		return sr
	}
	defer binding.Release()

	stageEnv := mergeEnv(rc.Env, binding.Env())

	var output strings.Builder
	for i, step := range stage.Steps {
		stepOut, err := e.runStep(ctx, stage, binding, i, step, rc, stageEnv, &sr)
		output.WriteString(stepOut)
		if err != nil {
			sr.Status = StatusFailure
			sr.Err = err
			break
		}
	}
	sr.Output = output.String()
	return sr
}

// runStep executes one step. Credentials the step declares beyond the
// stage-level binding are bound for the duration of the step only.
func (e *Engine) runStep(ctx context.Context, stage *config.Stage, stageBinding *secrets.Binding, idx int, step *config.Step, rc *RunContext, stageEnv map[string]string, sr *StageResult) (string, error) {
	logger := ctxlog.FromContext(ctx).With("stage", stage.Name, "step", idx+1)

	var extra []string
	for _, id := range step.Credentials {
		if !stageBinding.Has(id) {
			extra = append(extra, id)
		}
	}
	stepBinding, err := secrets.Bind(ctx, e.secrets, extra)
	if err != nil {
		return "", &CredentialError{Stage: stage.Name, Err: err}
	}
	defer stepBinding.Release()

	line, err := step.Run.Render(rc.Vars())
	if err != nil {
		return "", &StepExecutionError{Stage: stage.Name, Step: idx + 1, Err: err}
	}

	stepCtx := ctx
	if step.Timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, step.Timeout)
		defer cancel()
	}

	logger.Info("Running step.", "command", line)
	res, execErr := e.runner.Execute(stepCtx, runner.Command{
		Line: line,
		Env:  mergeEnv(stageEnv, stepBinding.Env(), step.Env),
		Dir:  rc.Workdir,
	})

	// A deadline on the step context takes precedence: the process may still
	// be running, but the step's budget is spent.
	if step.Timeout > 0 && errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
		return outputOf(res), &TimeoutError{Stage: stage.Name, Step: idx + 1, Budget: step.Timeout}
	}
	if execErr != nil {
		return outputOf(res), &StepExecutionError{Stage: stage.Name, Step: idx + 1, Err: execErr}
	}
	if res.ExitCode != 0 {
		return res.Output, &StepExecutionError{Stage: stage.Name, Step: idx + 1, ExitCode: res.ExitCode}
	}

	// Publication hooks are plain step declarations, folded into the run
	// context by the engine at the join point.
	for _, path := range step.Archive {
		sr.Artifacts = append(sr.Artifacts, Artifact{Stage: stage.Name, Path: path})
	}
	if !step.Notify.IsZero() {
		msg, err := step.Notify.Render(rc.Vars())
		if err != nil {
			return res.Output, &StepExecutionError{Stage: stage.Name, Step: idx + 1, Err: err}
		}
		sr.Events = append(sr.Events, msg)
	}
	return res.Output, nil
}

func outputOf(res *runner.Result) string {
	if res == nil {
		return ""
	}
	return res.Output
}

// mergeEnv overlays the given maps left to right; later maps win.
func mergeEnv(maps ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
