package host

// State tracks the host lifecycle. Transitions are linear: uninitialized ->
// initializing -> ready -> shutting_down -> stopped. A failed initialization
// jumps straight to stopped; there is no way back to uninitialized.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateShuttingDown
	StateStopped
)

// String returns the lifecycle state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
