package engine

import (
	"context"

	"github.com/stageflow/stageflow/internal/config"
)

// TriggerMetadata identifies the external event that starts a run. The
// engine copies it verbatim into the run context and performs no validation
// of its content beyond presence.
type TriggerMetadata struct {
	Build   int
	Branch  string
	Commit  string
	RepoURL string
	Workdir string
	Env     map[string]string
}

// StartRun is the entry point exposed to trigger listeners: it builds a
// fresh run context from the trigger metadata and executes the definition.
// It blocks until the whole pipeline, including any fail-fast skips, has
// completed.
func (e *Engine) StartRun(ctx context.Context, def *config.Pipeline, meta TriggerMetadata) (*RunResult, error) {
	return e.Run(ctx, def, NewRunContext(meta))
}
