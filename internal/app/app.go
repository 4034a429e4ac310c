package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/stageflow/stageflow/internal/config"
	"github.com/stageflow/stageflow/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	pipeline *config.Pipeline
}

// NewApp is the constructor for the main application. It builds an isolated
// logger and loads the pipeline definition; structural validation of the
// definition happens when the run starts.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	pipeline, err := loader.Load(ctx, appConfig.PipelinePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline definition: %w", err)
	}
	logger.Debug("Pipeline definition loaded.", "pipeline", pipeline.Name, "stages", len(pipeline.Stages))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		pipeline: pipeline,
	}, nil
}

// Pipeline returns the loaded definition. This is primarily for testing.
func (a *App) Pipeline() *config.Pipeline {
	return a.pipeline
}
