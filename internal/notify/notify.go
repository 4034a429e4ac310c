// Package notify provides the bundled publishers a run result can be handed
// to once it is finalized: a structured-log publisher and a webhook
// publisher posting a JSON summary.
package notify

import (
	"context"

	"github.com/stageflow/stageflow/internal/ctxlog"
	"github.com/stageflow/stageflow/internal/engine"
)

// Log publishes the run summary to the structured logger carried by the
// context. It never fails.
type Log struct{}

// NewLog creates a logging publisher.
func NewLog() *Log {
	return &Log{}
}

// Publish implements the engine.Publisher interface.
func (l *Log) Publish(ctx context.Context, result *engine.RunResult) error {
	logger := ctxlog.FromContext(ctx)
	for _, sr := range result.All() {
		logger.Info("Stage outcome.", "stage", sr.Stage, "status", sr.Status, "duration", sr.Duration)
	}
	logger.Info("Run outcome.", "run", result.RunID, "status", result.Status, "exit_code", result.ExitCode())
	return nil
}

var _ engine.Publisher = (*Log)(nil)
