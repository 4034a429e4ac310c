package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/stageflow/stageflow/internal/config"
	"github.com/stageflow/stageflow/internal/ctxlog"
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL definition loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the given path (a single .hcl file or a directory of them)
// into the pipeline model. Exactly one `pipeline` block must be present
// across all discovered files.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	files, err := l.findDefinitionFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl definition files found at %s", path)
	}
	logger.Debug("Discovered definition files.", "count", len(files))

	parser := hclparse.NewParser()
	var blocks []*pipelineBlock

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		blocks = append(blocks, root.Pipelines...)
	}

	if len(blocks) == 0 {
		return nil, fmt.Errorf("no pipeline block found at %s", path)
	}
	if len(blocks) > 1 {
		return nil, fmt.Errorf("multiple pipeline blocks found at %s; exactly one is allowed", path)
	}

	pipeline, err := l.translatePipeline(blocks[0])
	if err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "pipeline", pipeline.Name, "stages", len(pipeline.Stages))
	return pipeline, nil
}

// findDefinitionFiles resolves a path to a flat, deterministic list of .hcl files.
func (l *Loader) findDefinitionFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}

	if !info.IsDir() {
		if filepath.Ext(path) != ".hcl" {
			return nil, fmt.Errorf("%s is not an .hcl file", path)
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(p) == ".hcl" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

var _ config.Loader = (*Loader)(nil)
