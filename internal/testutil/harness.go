// Package testutil provides shared helpers for integration-style tests that
// drive the app against inline pipeline definitions.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stageflow/stageflow/internal/app"
	"github.com/stageflow/stageflow/internal/engine"
	"github.com/stageflow/stageflow/internal/hcl"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// WriteDefinition writes an inline HCL definition into a fresh temp dir and
// returns the file path.
func WriteDefinition(t *testing.T, definition string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o600))
	return path
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Result    *engine.RunResult
	Err       error
}

// RunPipeline provides a standardized harness: it loads the inline HCL
// definition through the real loader and executes it through the real app
// wiring with the local shell runner.
func RunPipeline(t *testing.T, definition string, mutate func(*app.Config)) *HarnessResult {
	t.Helper()

	cfg := app.Config{
		PipelinePath: WriteDefinition(t, definition),
		LogFormat:    "text",
		LogLevel:     "debug",
		Workdir:      t.TempDir(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	var logBuf SafeBuffer
	a, err := app.NewApp(&logBuf, appConfig, hcl.NewLoader())
	if err != nil {
		return &HarnessResult{LogOutput: logBuf.String(), Err: err}
	}

	result, err := a.Run(context.Background())
	return &HarnessResult{LogOutput: logBuf.String(), Result: result, Err: err}
}
