// Package engine defines the interface to the robot-link engine that
// owns the actual wire protocol to the robot.  The rest of the
// backend only ever consumes the status values defined here.
package engine

import (
	"errors"
)

// MaxTeamNumber is the largest team number the addressing scheme can
// express: robot addresses are derived as 10.TE.AM, which caps the
// usable range at 25599.
const MaxTeamNumber = 25599

// ErrTeamNumberRange is returned when a team number falls outside
// the range the protocol can address.
var ErrTeamNumberRange = errors.New("team number must be between 0 and 25599")

// Status is a point-in-time snapshot of everything the engine knows
// about the robot link.  It is plain values only and safe to copy
// across threads.
type Status struct {
	// Connected indicates the link layer has heard from the
	// robot recently.
	Connected bool

	// CodeRunning indicates user code is alive on the robot.
	CodeRunning bool

	// Simulated indicates the engine is talking to a simulator
	// rather than hardware.
	Simulated bool

	// Voltage is the last reported battery voltage.
	Voltage float64
}

// Engine is the handle the backend holds to the robot link.
// Implementations must be safe for concurrent use; every method may
// be called from a different goroutine.
type Engine interface {
	// Status reports the current link snapshot.
	Status() Status

	// TeamNumber reports the team the engine is bound to.
	TeamNumber() int

	// SetTeamNumber rebinds the engine to a new team.  Numbers
	// outside [0, MaxTeamNumber] are rejected with
	// ErrTeamNumberRange and leave the binding unchanged.
	SetTeamNumber(team int) error

	// SetEnabled requests the robot be enabled or disabled.
	SetEnabled(enabled bool)

	// EmergencyStop latches the robot into an emergency stopped
	// state until the engine is restarted.
	EmergencyStop()

	// ConsoleLines streams robot program output a line at a time.
	ConsoleLines() <-chan string
}

// ValidTeamNumber reports whether the given team number is inside
// the range the protocol can address.
func ValidTeamNumber(team int) bool {
	return team >= 0 && team <= MaxTeamNumber
}
