package engine

import "time"

// Status is the terminal outcome of a stage or a whole run.
type Status string

const (
	// StatusSuccess means every step (or every child) completed cleanly.
	StatusSuccess Status = "success"
	// StatusFailure means a step failed, a credential could not be resolved,
	// or at least one child of a group failed.
	StatusFailure Status = "failure"
	// StatusSkipped means the stage never started because an earlier failure
	// preempted it.
	StatusSkipped Status = "skipped"
)

// StageResult is the immutable record of one stage's outcome.
type StageResult struct {
	Stage  string
	Status Status
	// Output is the captured combined output of the stage's steps, in step order.
	Output string
	// Err carries the stage-local error kind when Status is StatusFailure.
	Err error
	Duration time.Duration
	// Children holds the resolved results of a parallel group, in declared order.
	Children []StageResult

	// Artifacts and Events carry the stage's declarations to the join point,
	// where the engine folds them into the run context under a single writer.
	Artifacts []Artifact
	Events    []string
}

// RunResult is the terminal aggregate of a whole run, returned to the caller
// and handed to the publisher.
type RunResult struct {
	RunID  string
	Status Status
	// Stages holds one result per top-level stage, in declared order, so a
	// caller can always render a complete report regardless of where the run
	// stopped.
	Stages []StageResult
	// NotifyErr is set when publishing the finalized result failed. It does
	// not affect Status or the exit code.
	NotifyErr error
}

// ExitCode maps the run status to the process exit code convention.
func (r *RunResult) ExitCode() int {
	if r.Status == StatusSuccess {
		return 0
	}
	return 1
}

// All returns every stage result in the run, including group children,
// depth-first in declared order.
func (r *RunResult) All() []StageResult {
	var out []StageResult
	for _, sr := range r.Stages {
		out = appendStageResults(out, sr)
	}
	return out
}

// Find returns the result of the named stage, searching group children too.
func (r *RunResult) Find(name string) (StageResult, bool) {
	for _, sr := range r.All() {
		if sr.Stage == name {
			return sr, true
		}
	}
	return StageResult{}, false
}

func appendStageResults(out []StageResult, sr StageResult) []StageResult {
	out = append(out, sr)
	for _, child := range sr.Children {
		out = appendStageResults(out, child)
	}
	return out
}
