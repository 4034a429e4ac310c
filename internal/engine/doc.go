// Package engine interprets a validated pipeline definition against a run
// context and produces a run result. Top-level stages execute strictly in
// declared order; parallel groups fork their children onto goroutines and
// join on all of them before the group is scored. The first failure stops
// new stages from starting and marks the remainder skipped. Credential
// material is bound at stage entry and released on every exit path.
//
// All mutation of the run context happens in the engine's own sequential
// coordination code at join points; concurrently running children only ever
// return their own stage result.
package engine
