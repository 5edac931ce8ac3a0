package service

import "fmt"

// State is a builder's position in its lifecycle.
type State uint8

const (
	StateNew State = iota
	StatePrepared
	StateInitialized
	StateStarted
	StateStopped
	StateClosed
	// StateFailed is terminal: the statement was rejected and the builder
	// never serves.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StatePrepared:
		return "prepared"
	case StateInitialized:
		return "initialized"
	case StateStarted:
		return "started"
	case StateStopped:
		return "stopped"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// StateError reports a lifecycle call made in the wrong state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s builder in state %s", e.Op, e.State)
}
