package round

import "mapper-generator/internal/common"

// State is the position of the orchestrator in the pipeline.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateValidating
	StateEmitting
	StateWriting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateValidating:
		return "validating"
	case StateEmitting:
		return "emitting"
	case StateWriting:
		return "writing"
	default:
		return common.UnknownStr
	}
}
