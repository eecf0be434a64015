package rtp

import (
	"context"

	"github.com/looplab/fsm"
)

const (
	stateCreated    = "created"
	stateRunning    = "running"
	stateFailed     = "failed"
	stateTerminated = "terminated"
)

// engineFSM wraps looplab/fsm around the four-state lifecycle
// Created → Running → Terminated, with a Failed state reachable only
// from Created on a bind failure. It exists to make the lifecycle's legal
// transitions explicit rather than an ad-hoc boolean flag, grounded on
// the teacher's dialog state machine (pkg/dialog/dialog.go).
type engineFSM struct {
	machine *fsm.FSM
}

func newEngineFSM() *engineFSM {
	e := &engineFSM{}
	e.machine = fsm.NewFSM(
		stateCreated,
		fsm.Events{
			{Name: "init_success", Src: []string{stateCreated}, Dst: stateRunning},
			{Name: "init_failure", Src: []string{stateCreated}, Dst: stateFailed},
			{Name: "terminate", Src: []string{stateRunning, stateFailed, stateCreated}, Dst: stateTerminated},
		},
		fsm.Callbacks{},
	)
	return e
}

func (e *engineFSM) current() string {
	return e.machine.Current()
}

func (e *engineFSM) isRunning() bool {
	return e.machine.Current() == stateRunning
}

func (e *engineFSM) isTerminated() bool {
	return e.machine.Current() == stateTerminated
}

func (e *engineFSM) fireInitSuccess(ctx context.Context) error {
	return e.machine.Event(ctx, "init_success")
}

func (e *engineFSM) fireInitFailure(ctx context.Context) error {
	return e.machine.Event(ctx, "init_failure")
}

func (e *engineFSM) fireTerminate(ctx context.Context) error {
	return e.machine.Event(ctx, "terminate")
}
