package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stageflow/stageflow/internal/artifact"
)

// FileConfig is the YAML application config file. It carries the
// collaborator endpoints and secret material that have no place on the
// command line.
type FileConfig struct {
	WebhookURL string            `yaml:"webhook_url"`
	Secrets    map[string]string `yaml:"secrets"`
	Artifacts  *artifact.Config  `yaml:"artifacts"`
}

// LoadFileConfig reads and decodes the YAML config file at path.
func LoadFileConfig(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &fc, nil
}
