package engine

import (
	"fmt"
	"sync/atomic"
)

// State is the execution state of a stage while the engine drives it.
type State int32

const (
	// StatePending means the stage has not started.
	StatePending State = iota
	// StateRunning means a worker is executing the stage.
	StateRunning
	// StateSuccess is terminal: the stage completed cleanly.
	StateSuccess
	// StateFailure is terminal: the stage failed.
	StateFailure
	// StateSkipped is terminal: an earlier fail-fast condition preempted the stage.
	StateSkipped
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	case StateSkipped:
		return "skipped"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// Terminal reports whether no further transition is allowed out of s.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailure || s == StateSkipped
}

// CanTransition reports whether the stage state machine permits moving from
// s to next: pending -> running -> {success, failure}, with
// pending -> skipped as the only other edge.
func (s State) CanTransition(next State) bool {
	switch s {
	case StatePending:
		return next == StateRunning || next == StateSkipped
	case StateRunning:
		return next == StateSuccess || next == StateFailure
	}
	return false
}

// stageState tracks one stage's state during a run, enforcing the legal
// transitions. An illegal transition is a programmer error in the engine's
// coordination code, so it panics.
type stageState struct {
	v atomic.Int32
}

func (st *stageState) to(next State) {
	cur := State(st.v.Load())
	if !cur.CanTransition(next) {
		panic(fmt.Sprintf("illegal stage state transition %s -> %s", cur, next))
	}
	st.v.Store(int32(next))
}

func (st *stageState) current() State {
	return State(st.v.Load())
}
