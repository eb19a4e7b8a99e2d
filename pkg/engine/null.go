package engine

import (
	"sync"
)

// Null is an engine that is connected to nothing.  It remembers its
// team binding and discards everything else, which makes it useful
// for tests and for running the backend with no robot link at all.
type Null struct {
	mutex sync.RWMutex

	team    int
	enabled bool
	estop   bool

	console chan string
}

// NewNull returns a ready to use null engine.
func NewNull() *Null {
	return &Null{
		console: make(chan string),
	}
}

// Status reports a link that was never up.
func (n *Null) Status() Status {
	return Status{}
}

// TeamNumber reports the currently bound team.
func (n *Null) TeamNumber() int {
	n.mutex.RLock()
	defer n.mutex.RUnlock()
	return n.team
}

// SetTeamNumber remembers the team, enforcing the protocol range.
func (n *Null) SetTeamNumber(team int) error {
	if !ValidTeamNumber(team) {
		return ErrTeamNumberRange
	}
	n.mutex.Lock()
	n.team = team
	n.mutex.Unlock()
	return nil
}

// SetEnabled remembers the requested enable state.
func (n *Null) SetEnabled(enabled bool) {
	n.mutex.Lock()
	n.enabled = enabled
	n.mutex.Unlock()
}

// EmergencyStop latches the estop flag.
func (n *Null) EmergencyStop() {
	n.mutex.Lock()
	n.estop = true
	n.enabled = false
	n.mutex.Unlock()
}

// ConsoleLines returns a channel that never delivers anything.
func (n *Null) ConsoleLines() <-chan string {
	return n.console
}
