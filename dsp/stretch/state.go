package stretch

import "fmt"

// State is the streaming phase of a session.
type State int

const (
	// StateIdle: no input since construction, configuration or Reset.
	StateIdle State = iota
	// StateAccumulating: input is buffered but the next analysis frame is
	// still incomplete.
	StateAccumulating
	// StateFrameReady: a full frame is buffered and being processed.
	StateFrameReady
	// StateEmitted: the last call handed finished samples to the caller.
	StateEmitted
	// StateFlushed: the tail was drained; Reset is required to continue.
	StateFlushed

	stateCount // sentinel
)

var stateNames = [stateCount]string{"idle", "accumulating", "frame-ready", "emitted", "flushed"}

func (s State) String() string {
	if s >= 0 && s < stateCount {
		return stateNames[s]
	}

	return fmt.Sprintf("State(%d)", int(s))
}
