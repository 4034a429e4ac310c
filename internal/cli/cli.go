// Package cli parses command-line arguments into the application config.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/stageflow/stageflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("stageflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
stageflow - a minimal declarative pipeline execution engine.

Usage:
  stageflow [options] [PIPELINE_PATH]

Arguments:
  PIPELINE_PATH
    Path to a single .hcl pipeline file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	pipelineFlag := flagSet.String("pipeline", "", "Path to the pipeline file or directory.")
	pFlag := flagSet.String("p", "", "Path to the pipeline file or directory (shorthand).")
	configFlag := flagSet.String("config", "", "Path to a YAML config file with webhook, secret and artifact store settings.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	buildFlag := flagSet.Int("build", 0, "Build number recorded in the run context.")
	branchFlag := flagSet.String("branch", "", "Branch or ref that triggered the run.")
	commitFlag := flagSet.String("commit", "", "Commit identifier that triggered the run.")
	repoURLFlag := flagSet.String("repo-url", "", "Repository URL exposed to step commands.")
	workdirFlag := flagSet.String("workdir", "", "Working directory for step commands. Defaults to the current directory.")
	abandonFlag := flagSet.Bool("abandon-in-flight", false, "On a parallel-group failure, cancel in-flight siblings instead of awaiting them.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *pipelineFlag != "" {
		path = *pipelineFlag
	} else if *pFlag != "" {
		path = *pFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		slog.Debug("No pipeline path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := app.Config{
		PipelinePath:    path,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		Build:           *buildFlag,
		Branch:          *branchFlag,
		Commit:          *commitFlag,
		RepoURL:         *repoURLFlag,
		Workdir:         *workdirFlag,
		AbandonInFlight: *abandonFlag,
	}

	if *configFlag != "" {
		fileCfg, err := app.LoadFileConfig(*configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg.WebhookURL = fileCfg.WebhookURL
		cfg.Secrets = fileCfg.Secrets
		cfg.Artifacts = fileCfg.Artifacts
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
