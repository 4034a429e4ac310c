package app

import (
	"errors"

	"github.com/stageflow/stageflow/internal/artifact"
)

// Config holds everything an App instance needs to run one pipeline.
type Config struct {
	// PipelinePath points at a definition file or a directory of them.
	PipelinePath string

	LogFormat string
	LogLevel  string

	// Trigger metadata passed through to the run context.
	Build   int
	Branch  string
	Commit  string
	RepoURL string
	Workdir string

	// AbandonInFlight selects the stricter fail-fast policy for parallel
	// groups. The default awaits in-flight siblings to natural completion.
	AbandonInFlight bool

	// Collaborator settings, typically supplied by the YAML config file.
	WebhookURL string
	Secrets    map[string]string
	Artifacts  *artifact.Config
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.Artifacts != nil {
		if err := cfg.Artifacts.Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
