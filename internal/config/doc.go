// Package config defines the declarative pipeline model: an ordered list of
// stages, each either a sequential leaf of steps or a parallel group of child
// stages. The model is built once by a Loader, validated before any
// execution, and never mutated by a run, so one definition can drive many
// independent runs.
package config
