package simulator

// The state of the simulator
type State int

const (
	// Messages are still being delivered
	Running State = iota
	// No active link remains and none will arise
	HaltedExhausted
	// The configured maximum number of steps was reached
	HaltedMaxSteps
	// An internal error stopped the simulation
	HaltedError
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case HaltedExhausted:
		return "Halted-Exhausted"
	case HaltedMaxSteps:
		return "Halted-MaxSteps"
	case HaltedError:
		return "Halted-Error"
	default:
		return "Unknown"
	}
}

// Terminal states are final, the simulation can not be resumed
func (s State) Terminal() bool {
	return s != Running
}
