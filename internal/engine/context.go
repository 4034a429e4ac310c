package engine

import (
	"strconv"

	"github.com/google/uuid"
)

// Artifact is one path a step declared for publication, attributed to the
// stage that produced it.
type Artifact struct {
	Stage string
	Path  string
}

// RunContext is the per-execution state of one pipeline run. It is created
// at run start, mutated only by the engine's own coordination code, and
// discarded once the run result has been reported. Concurrently running
// stages never touch it directly.
type RunContext struct {
	// ID uniquely identifies this run.
	ID string
	// Build is the build number supplied by the trigger.
	Build int
	// Branch, Commit and RepoURL are copied verbatim from the trigger.
	Branch  string
	Commit  string
	RepoURL string
	// Workdir is the working directory handed to every step command.
	Workdir string
	// Env is the base environment overlay applied to every stage.
	Env map[string]string

	// Artifacts and Events accumulate step declarations as stages complete.
	Artifacts []Artifact
	Events    []string
}

// NewRunContext builds the state for a fresh run from trigger metadata,
// assigning a new run identifier.
func NewRunContext(meta TriggerMetadata) *RunContext {
	return &RunContext{
		ID:      uuid.NewString(),
		Build:   meta.Build,
		Branch:  meta.Branch,
		Commit:  meta.Commit,
		RepoURL: meta.RepoURL,
		Workdir: meta.Workdir,
		Env:     meta.Env,
	}
}

// Vars exposes the run variables available to step command templates as the
// `run` object.
func (rc *RunContext) Vars() map[string]string {
	return map[string]string{
		"id":       rc.ID,
		"build":    strconv.Itoa(rc.Build),
		"branch":   rc.Branch,
		"commit":   rc.Commit,
		"repo_url": rc.RepoURL,
	}
}
