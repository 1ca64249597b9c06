package mcptool

// RegistrationState tracks the outcome of remote tool registration.
type RegistrationState int

const (
	// StateNotAttempted means no registration has been tried yet.
	StateNotAttempted RegistrationState = iota
	// StateSucceeded means tools were discovered and adapted.
	StateSucceeded
	// StateFailed means the last registration attempt failed.
	StateFailed
)

// String returns a human-readable state name.
func (s RegistrationState) String() string {
	switch s {
	case StateNotAttempted:
		return "not_attempted"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RetryPolicy decides whether a registration attempt should run given the
// current state and the number of attempts already made.
type RetryPolicy interface {
	ShouldAttempt(state RegistrationState, attempts int) bool
}

// AttemptOncePolicy tries registration a single time and never retries a
// failure. This is the default.
type AttemptOncePolicy struct{}

// ShouldAttempt implements RetryPolicy.
func (AttemptOncePolicy) ShouldAttempt(state RegistrationState, attempts int) bool {
	return state == StateNotAttempted && attempts == 0
}

// MaxAttemptsPolicy retries failed registrations up to Max total attempts.
type MaxAttemptsPolicy struct {
	Max int
}

// ShouldAttempt implements RetryPolicy.
func (p MaxAttemptsPolicy) ShouldAttempt(state RegistrationState, attempts int) bool {
	if state == StateSucceeded {
		return false
	}
	return attempts < p.Max
}
