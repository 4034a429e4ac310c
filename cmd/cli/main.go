package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/stageflow/stageflow/internal/app"
	"github.com/stageflow/stageflow/internal/cli"
	"github.com/stageflow/stageflow/internal/hcl"
)

// main is the entrypoint for the stageflow application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. A pipeline run that completes with failed stages is reported as
// an ExitError carrying the run's exit code.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Instantiate the concrete HCL loader to pass to the app.
	loader := hcl.NewLoader()
	stageflowApp, err := app.NewApp(outW, appConfig, loader)
	if err != nil {
		return err
	}

	result, err := stageflowApp.Run(context.Background())
	if err != nil {
		return err
	}
	if code := result.ExitCode(); code != 0 {
		return &cli.ExitError{Code: code, Message: fmt.Sprintf("pipeline finished with status %s", result.Status)}
	}
	return nil
}
