package app

import (
	"context"

	"github.com/stageflow/stageflow/internal/artifact"
	"github.com/stageflow/stageflow/internal/ctxlog"
	"github.com/stageflow/stageflow/internal/engine"
	"github.com/stageflow/stageflow/internal/notify"
	"github.com/stageflow/stageflow/internal/runner"
	"github.com/stageflow/stageflow/internal/secrets"
)

// Run executes the loaded pipeline once and returns its result. The only
// error return is a failure to even start the run (an invalid definition or
// an unreachable artifact store); stage failures are reported through the
// result's status and exit code.
func (a *App) Run(ctx context.Context) (*engine.RunResult, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	resolver := secrets.NewChain(secrets.NewStatic(a.config.Secrets), secrets.NewEnv())

	opts := []engine.Option{engine.WithPublisher(a.publisher())}
	if a.config.AbandonInFlight {
		opts = append(opts, engine.WithAbandonInFlight())
	}
	eng := engine.New(runner.NewLocal(), resolver, opts...)

	meta := engine.TriggerMetadata{
		Build:   a.config.Build,
		Branch:  a.config.Branch,
		Commit:  a.config.Commit,
		RepoURL: a.config.RepoURL,
		Workdir: a.config.Workdir,
	}

	a.logger.Info("🚀 Starting pipeline execution...", "pipeline", a.pipeline.Name)
	result, err := eng.StartRun(ctx, a.pipeline, meta)
	if err != nil {
		return nil, err
	}
	a.logger.Info("🏁 Execution finished.", "status", result.Status)

	a.uploadArtifacts(ctx, result)

	a.logger.Debug("App.Run method finished.")
	return result, nil
}

// publisher picks the configured run-result publisher.
func (a *App) publisher() engine.Publisher {
	if a.config.WebhookURL != "" {
		return notify.NewWebhook(a.config.WebhookURL)
	}
	return notify.NewLog()
}

// uploadArtifacts pushes every declared artifact to the object store, when
// one is configured. Uploads are best-effort: failures are logged and never
// alter the run outcome.
func (a *App) uploadArtifacts(ctx context.Context, result *engine.RunResult) {
	if a.config.Artifacts == nil {
		return
	}

	store, err := artifact.NewStore(*a.config.Artifacts)
	if err != nil {
		a.logger.Warn("Artifact store unavailable, skipping uploads.", "error", err)
		return
	}
	if err := store.EnsureBucket(ctx); err != nil {
		a.logger.Warn("Artifact bucket unavailable, skipping uploads.", "error", err)
		return
	}

	for _, sr := range result.All() {
		for _, art := range sr.Artifacts {
			key, err := store.Upload(ctx, result.RunID, art.Path)
			if err != nil {
				a.logger.Warn("Artifact upload failed.", "stage", art.Stage, "path", art.Path, "error", err)
				continue
			}
			a.logger.Info("Artifact published.", "stage", art.Stage, "key", key)
		}
	}
}
