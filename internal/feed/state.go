package feed

// State is the lifecycle of one feed build.
//
// The machine is linear and non-resumable: idle, loading, rendering,
// done, with empty and error as alternate terminals out of loading.
// Once a terminal state is reached the only way forward is a new build.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateRendering
	StateDone
	StateEmpty
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRendering:
		return "rendering"
	case StateDone:
		return "done"
	case StateEmpty:
		return "empty"
	case StateErrored:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the build has ended.
func (s State) Terminal() bool {
	return s == StateDone || s == StateEmpty || s == StateErrored
}
