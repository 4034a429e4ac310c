package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stageflow/stageflow/internal/app"
	"github.com/stageflow/stageflow/internal/config"
	"github.com/stageflow/stageflow/internal/engine"
	"github.com/stageflow/stageflow/internal/hcl"
	"github.com/stageflow/stageflow/internal/testutil"
)

func TestApp_RunsPipelineToSuccess(t *testing.T) {
	definition := `
		pipeline "greenfield" {
			stage "checkout" {
				step { run = "echo cloning ${run.repo_url}" }
			}
			stage "build" {
				step { run = "echo building" }
				step { run = "true" }
			}
		}
	`
	h := testutil.RunPipeline(t, definition, func(cfg *app.Config) {
		cfg.RepoURL = "git@example.com:org/app.git"
	})
	require.NoError(t, h.Err)

	require.Equal(t, engine.StatusSuccess, h.Result.Status)
	require.Equal(t, 0, h.Result.ExitCode())
	checkout, _ := h.Result.Find("checkout")
	require.Contains(t, checkout.Output, "cloning git@example.com:org/app.git")
	require.Contains(t, h.LogOutput, "greenfield")
}

func TestApp_FailFastSkipsRemainingStages(t *testing.T) {
	definition := `
		pipeline "broken" {
			stage "ok" {
				step { run = "true" }
			}
			stage "boom" {
				step { run = "exit 7" }
			}
			stage "never" {
				step { run = "echo should not run" }
			}
		}
	`
	h := testutil.RunPipeline(t, definition, nil)
	require.NoError(t, h.Err)

	require.Equal(t, engine.StatusFailure, h.Result.Status)
	require.Equal(t, 1, h.Result.ExitCode())

	boom, _ := h.Result.Find("boom")
	var stepErr *engine.StepExecutionError
	require.ErrorAs(t, boom.Err, &stepErr)
	require.Equal(t, 7, stepErr.ExitCode)

	never, _ := h.Result.Find("never")
	require.Equal(t, engine.StatusSkipped, never.Status)
}

func TestApp_ParallelQualityGates(t *testing.T) {
	definition := `
		pipeline "gated" {
			stage "checkout" {
				step { run = "true" }
			}
			stage "test" {
				step { run = "true" }
			}
			stage "gates" {
				parallel {
					stage "lint" {
						step { run = "echo lint ok" }
					}
					stage "unit" {
						step { run = "false" }
					}
					stage "compile" {
						step { run = "echo compile ok" }
					}
				}
			}
			stage "deploy" {
				step { run = "echo deploying" }
			}
		}
	`
	h := testutil.RunPipeline(t, definition, nil)
	require.NoError(t, h.Err)

	expect := map[string]engine.Status{
		"checkout": engine.StatusSuccess,
		"test":     engine.StatusSuccess,
		"lint":     engine.StatusSuccess,
		"unit":     engine.StatusFailure,
		"compile":  engine.StatusSuccess,
		"gates":    engine.StatusFailure,
		"deploy":   engine.StatusSkipped,
	}
	for name, want := range expect {
		sr, ok := h.Result.Find(name)
		require.True(t, ok, name)
		require.Equal(t, want, sr.Status, name)
	}
	require.Equal(t, 1, h.Result.ExitCode())
}

func TestApp_InjectsScopedCredentials(t *testing.T) {
	definition := `
		pipeline "secretive" {
			stage "push" {
				credentials = ["registry-creds"]
				step { run = "printf 'creds=%s' \"$REGISTRY_CREDS\"" }
			}
			stage "plain" {
				step { run = "printf 'creds=%s' \"$REGISTRY_CREDS\"" }
			}
		}
	`
	h := testutil.RunPipeline(t, definition, func(cfg *app.Config) {
		cfg.Secrets = map[string]string{"registry-creds": "hunter2"}
	})
	require.NoError(t, h.Err)
	require.Equal(t, engine.StatusSuccess, h.Result.Status)

	push, _ := h.Result.Find("push")
	require.Contains(t, push.Output, "creds=hunter2")

	plain, _ := h.Result.Find("plain")
	require.Contains(t, plain.Output, "creds=")
	require.NotContains(t, plain.Output, "hunter2")
}

func TestApp_RunReportsDefinitionError(t *testing.T) {
	definition := `
		pipeline "dup" {
			stage "same" {
				step { run = "true" }
			}
			stage "same" {
				step { run = "true" }
			}
		}
	`
	h := testutil.RunPipeline(t, definition, nil)
	require.Error(t, h.Err)
	var defErr *config.DefinitionError
	require.ErrorAs(t, h.Err, &defErr)
}

func TestNewApp_RejectsMissingDefinition(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{PipelinePath: "/does/not/exist"})
	require.NoError(t, err)

	var buf testutil.SafeBuffer
	_, err = app.NewApp(&buf, cfg, hcl.NewLoader())
	require.Error(t, err)
}

func TestNewConfig_RequiresPipelinePath(t *testing.T) {
	_, err := app.NewConfig(app.Config{})
	require.Error(t, err)
}

func TestApp_RunContextVariablesReachSteps(t *testing.T) {
	definition := `
		pipeline "vars" {
			stage "announce" {
				step { run = "echo build ${run.build} on ${run.branch} at ${run.commit}" }
			}
		}
	`
	h := testutil.RunPipeline(t, definition, func(cfg *app.Config) {
		cfg.Build = 42
		cfg.Branch = "main"
		cfg.Commit = "abc123"
	})
	require.NoError(t, h.Err)

	announce, _ := h.Result.Find("announce")
	require.Contains(t, announce.Output, "build 42 on main at abc123")
}
