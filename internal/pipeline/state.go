// Package pipeline runs one download: resolve the feed URL, fetch it, build
// posts, confirm overwriting an existing directory, and write the files.
package pipeline

// State is a step of the run state machine.
//
//	Idle -> Resolving -> Fetching -> Building -> [AwaitingConfirmation] -> Writing -> Done
//
// Any state moves to Failed on the first error.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateFetching
	StateBuilding
	StateAwaitingConfirmation
	StateWriting
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:                 "idle",
	StateResolving:            "resolving",
	StateFetching:             "fetching",
	StateBuilding:             "building",
	StateAwaitingConfirmation: "awaiting_confirmation",
	StateWriting:              "writing",
	StateDone:                 "done",
	StateFailed:               "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// stageName is the metrics and log label of the work done in s.
func (s State) stageName() string {
	switch s {
	case StateResolving:
		return "resolve"
	case StateFetching:
		return "fetch"
	case StateBuilding:
		return "build"
	case StateAwaitingConfirmation:
		return "confirm"
	case StateWriting:
		return "write"
	default:
		return s.String()
	}
}
