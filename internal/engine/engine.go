package engine

import (
	"context"

	"github.com/stageflow/stageflow/internal/config"
	"github.com/stageflow/stageflow/internal/ctxlog"
	"github.com/stageflow/stageflow/internal/runner"
	"github.com/stageflow/stageflow/internal/secrets"
)

// Publisher receives the finalized run result exactly once, synchronously,
// before Run returns. A publish failure is recorded as a NotificationError
// on the result rather than discarding the run outcome.
type Publisher interface {
	Publish(ctx context.Context, result *RunResult) error
}

// Engine executes pipeline definitions. One engine can drive any number of
// runs; all per-run state lives in the RunContext.
type Engine struct {
	runner          runner.Runner
	secrets         secrets.Resolver
	publisher       Publisher
	abandonInFlight bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPublisher attaches the publisher invoked with every finalized run result.
func WithPublisher(p Publisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithAbandonInFlight switches the fail-fast policy for parallel groups:
// when a child fails, not-yet-started siblings are skipped and in-flight
// siblings receive a best-effort cancellation instead of being awaited to
// natural completion. The join is still awaited either way.
func WithAbandonInFlight() Option {
	return func(e *Engine) { e.abandonInFlight = true }
}

// New creates an engine over the given command runner and secret resolver.
func New(r runner.Runner, sr secrets.Resolver, opts ...Option) *Engine {
	e := &Engine{runner: r, secrets: sr}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates the definition and executes it against the run context,
// blocking until every stage has a terminal status. The only error return is
// a *config.DefinitionError, surfaced before any stage begins; stage-local
// failures are recorded in the result instead.
func (e *Engine) Run(ctx context.Context, def *config.Pipeline, rc *RunContext) (*RunResult, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx).With("run", rc.ID, "pipeline", def.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Info("Starting pipeline run.", "stages", len(def.Stages))

	result := &RunResult{RunID: rc.ID, Status: StatusSuccess}
	failed := false

	for _, stage := range def.Stages {
		if failed {
			result.Stages = append(result.Stages, skipStage(stage))
			continue
		}

		sr := e.runStage(ctx, stage, rc)
		// Join point: the engine is the single writer of the run context.
		e.collect(rc, sr)
		if sr.Status == StatusFailure {
			failed = true
		}
		result.Stages = append(result.Stages, sr)
	}

	if failed {
		result.Status = StatusFailure
	}
	logger.Info("Pipeline run finished.", "status", result.Status)

	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, result); err != nil {
			result.NotifyErr = &NotificationError{Err: err}
			logger.Warn("Publishing run result failed.", "error", err)
		}
	}
	return result, nil
}

// collect folds a completed stage's declarations into the run context,
// including those of group children.
func (e *Engine) collect(rc *RunContext, sr StageResult) {
	rc.Artifacts = append(rc.Artifacts, sr.Artifacts...)
	rc.Events = append(rc.Events, sr.Events...)
	for _, child := range sr.Children {
		e.collect(rc, child)
	}
}

// skipStage records a terminal skipped result for a stage that never
// started, covering group children recursively.
func skipStage(stage *config.Stage) StageResult {
	st := &stageState{}
	st.to(StateSkipped)

	sr := StageResult{Stage: stage.Name, Status: StatusSkipped}
	for _, child := range stage.Children {
		sr.Children = append(sr.Children, skipStage(child))
	}
	return sr
}
