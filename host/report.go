package host

import (
	"fmt"
	"strings"
	"sync"
)

// Condition records one degraded subsystem at startup.
type Condition struct {
	Component string
	Err       error
}

// StartupReport distinguishes fatal startup failures (which abort the
// process) from degraded conditions (the host runs, but a subsystem such as
// telemetry or remote tools is offline).
type StartupReport struct {
	mu       sync.Mutex
	degraded []Condition
}

// NewStartupReport returns an empty report.
func NewStartupReport() *StartupReport {
	return &StartupReport{}
}

// Degrade records a non-fatal startup failure.
func (r *StartupReport) Degrade(component string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = append(r.degraded, Condition{Component: component, Err: err})
}

// Degraded returns the recorded conditions.
func (r *StartupReport) Degraded() []Condition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Condition, len(r.degraded))
	copy(out, r.degraded)
	return out
}

// IsDegraded reports whether any subsystem failed at startup.
func (r *StartupReport) IsDegraded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.degraded) > 0
}

// Summary renders the report for the startup banner.
func (r *StartupReport) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.degraded) == 0 {
		return "all subsystems ok"
	}
	parts := make([]string, len(r.degraded))
	for i, c := range r.degraded {
		parts[i] = fmt.Sprintf("%s: %v", c.Component, c.Err)
	}
	return "degraded: " + strings.Join(parts, "; ")
}
