package config

import "time"

// StageKind distinguishes the two forms a stage can take.
type StageKind int

const (
	// StageLeaf is a stage that owns an ordered list of steps.
	StageLeaf StageKind = iota
	// StageGroup is a stage whose children execute concurrently.
	StageGroup
)

// Pipeline is the parsed definition of a whole run graph. It owns every
// stage and is immutable once loaded.
type Pipeline struct {
	// Name is the human-readable pipeline name from the definition label.
	Name string
	// Credentials lists identifiers resolvable by every stage in the pipeline.
	Credentials []string
	// Stages is the ordered list of top-level stages. Top-level stages run
	// strictly in declared order.
	Stages []*Stage
}

// Stage is one named unit of pipeline work.
type Stage struct {
	// Name must be unique across the whole definition.
	Name string
	// Kind selects between the leaf and group forms.
	Kind StageKind
	// Credentials lists identifiers resolved into this stage's execution
	// environment for the duration of the stage only.
	Credentials []string
	// Steps is the ordered step list of a leaf stage. Nil for groups.
	Steps []*Step
	// Children holds the concurrently executed stages of a group. Nil for leaves.
	Children []*Stage
}

// Step is one ordered action within a leaf stage. A step never outlives its
// owning stage.
type Step struct {
	// Run is the command template, rendered per run with the run variables.
	Run Template
	// Credentials lists identifiers this step needs. Each must be declared by
	// the owning stage, an enclosing group, or the pipeline itself.
	Credentials []string
	// Env is a static environment overlay applied on top of the stage
	// environment for this step only.
	Env map[string]string
	// Archive lists paths the step declares as run artifacts.
	Archive []string
	// Notify is an optional notification message template recorded as a run
	// event when the step succeeds.
	Notify Template
	// Timeout is an optional per-step budget. Zero means no budget.
	Timeout time.Duration
}
