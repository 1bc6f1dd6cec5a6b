package supervisor

import "time"

// State represents the current state of a supervised encoder process.
type State string

// Supervisor states.
const (
	StateIdle     State = "idle"     // No process active
	StateStarting State = "starting" // Being spawned
	StateRunning  State = "running"  // Active and feeding the device
	StateStopping State = "stopping" // Being stopped
	StateFailed   State = "failed"   // Crashed or exited non-zero
)

// Info contains a snapshot of a supervised process.
type Info struct {
	Channel   string
	State     State
	PID       int
	StartedAt time.Time
	LastError error
}
