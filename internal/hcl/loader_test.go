package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stageflow/stageflow/internal/config"
)

func writeDefinition(t *testing.T, definition string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(definition), 0o600))
	return path
}

func TestLoad_FullPipeline(t *testing.T) {
	definition := `
		pipeline "build-and-deploy" {
			credentials = ["org-token"]

			stage "checkout" {
				credentials = ["github-ssh"]
				step {
					run = "git clone ${run.repo_url} ."
				}
			}

			stage "quality" {
				parallel {
					stage "lint" {
						step { run = "make lint" }
					}
					stage "unit" {
						step {
							run     = "make test"
							timeout = "10m"
							env     = { CI = "true" }
						}
					}
				}
			}

			stage "publish" {
				credentials = ["registry-creds"]
				step {
					run     = "docker push registry/app:${run.build}"
					archive = ["dist/app.tar"]
					notify  = "image pushed for ${run.branch}"
				}
			}
		}
	`
	loader := NewLoader()
	p, err := loader.Load(context.Background(), writeDefinition(t, definition))
	require.NoError(t, err)
	require.NoError(t, p.Validate())

	require.Equal(t, "build-and-deploy", p.Name)
	require.Equal(t, []string{"org-token"}, p.Credentials)
	require.Len(t, p.Stages, 3)

	checkout := p.Stages[0]
	require.Equal(t, config.StageLeaf, checkout.Kind)
	require.Equal(t, []string{"github-ssh"}, checkout.Credentials)
	require.Len(t, checkout.Steps, 1)

	quality := p.Stages[1]
	require.Equal(t, config.StageGroup, quality.Kind)
	require.Len(t, quality.Children, 2)
	require.Equal(t, "lint", quality.Children[0].Name)
	unit := quality.Children[1]
	require.Equal(t, 10*time.Minute, unit.Steps[0].Timeout)
	require.Equal(t, map[string]string{"CI": "true"}, unit.Steps[0].Env)

	publish := p.Stages[2]
	require.Equal(t, []string{"dist/app.tar"}, publish.Steps[0].Archive)
	require.False(t, publish.Steps[0].Notify.IsZero())
}

func TestLoad_StepCommandsRenderWithRunVariables(t *testing.T) {
	definition := `
		pipeline "p" {
			stage "checkout" {
				step { run = "git clone ${run.repo_url} --branch ${run.branch}" }
			}
		}
	`
	loader := NewLoader()
	p, err := loader.Load(context.Background(), writeDefinition(t, definition))
	require.NoError(t, err)

	vars := map[string]string{
		"id":       "run-1",
		"build":    "42",
		"branch":   "main",
		"commit":   "abc123",
		"repo_url": "git@example.com:org/app.git",
	}
	line, err := p.Stages[0].Steps[0].Run.Render(vars)
	require.NoError(t, err)
	require.Equal(t, "git clone git@example.com:org/app.git --branch main", line)
}

func TestLoad_DirectoryOfFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(`
		pipeline "p" {
			stage "a" {
				step { run = "true" }
			}
		}
	`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	p, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, "p", p.Name)
}

func TestLoad_RejectsMissingPipelineBlock(t *testing.T) {
	path := writeDefinition(t, `# empty file`)

	_, err := NewLoader().Load(context.Background(), path)
	require.ErrorContains(t, err, "no pipeline block")
}

func TestLoad_RejectsMultiplePipelineBlocks(t *testing.T) {
	path := writeDefinition(t, `
		pipeline "a" {
			stage "s1" {
				step { run = "true" }
			}
		}
		pipeline "b" {
			stage "s2" {
				step { run = "true" }
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)
	require.ErrorContains(t, err, "multiple pipeline blocks")
}

func TestLoad_RejectsInvalidTimeout(t *testing.T) {
	path := writeDefinition(t, `
		pipeline "p" {
			stage "slow" {
				step {
					run     = "sleep 5"
					timeout = "not-a-duration"
				}
			}
		}
	`)

	_, err := NewLoader().Load(context.Background(), path)
	require.ErrorContains(t, err, "invalid timeout")
}

func TestLoad_RejectsMalformedHCL(t *testing.T) {
	path := writeDefinition(t, `pipeline "p" {`)

	_, err := NewLoader().Load(context.Background(), path)
	require.Error(t, err)
}

func TestLoad_RejectsMissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))
	require.Error(t, err)
}
