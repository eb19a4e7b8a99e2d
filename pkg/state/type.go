package state

import (
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/engine"
	"github.com/domilx/Conductor/pkg/relay"
)

var (
	// ErrRelayAlreadyBound is returned when a second relay
	// binding is attempted.  The relay endpoint transitions from
	// absent to present exactly once and never reverts.
	ErrRelayAlreadyBound = errors.New("relay endpoint is already bound")

	// ErrTeamNumberRange mirrors the engine's bound so callers
	// holding only a state handle can classify rejections.
	ErrTeamNumberRange = engine.ErrTeamNumberRange
)

// State is the single authoritative record the whole backend shares.
// It combines the robot-link engine handle, the bound relay endpoint,
// and the team number, all behind one reader/writer lock.  Every
// accessor releases the lock before control returns to the caller; in
// particular nothing here ever sends a message while holding it.
type State struct {
	mutex sync.RWMutex

	// setMutex serializes writers of the team number so the engine
	// sees rebinds in the order they were stored, without the
	// engine's network round trips ever running under mutex.
	setMutex sync.Mutex

	l hclog.Logger

	eng  engine.Engine
	rel  *relay.Stream
	team int
}

// Snapshot is a plain-value copy of everything telemetry needs,
// taken under a single read lock.
type Snapshot struct {
	TeamNumber int
	Status     engine.Status
}

// Option enables variadic configuration of the state record.
type Option func(*State)
