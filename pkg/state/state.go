// Package state owns the authoritative record shared by every thread
// in the driver station backend.
package state

import (
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/engine"
	"github.com/domilx/Conductor/pkg/relay"
)

// New returns a configured state record.  An engine must be provided
// before any snapshot is meaningful; the null engine is acceptable.
func New(opts ...Option) *State {
	s := &State{
		l:   hclog.NewNullLogger(),
		eng: engine.NewNull(),
	}

	for _, o := range opts {
		o(s)
	}
	return s
}

// BindRelay records the relay endpoint delivered by the startup
// handshake.  The binding happens at most once for the life of the
// process; a second call fails and leaves the original binding in
// place.
func (s *State) BindRelay(r *relay.Stream) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.rel != nil {
		s.l.Warn("Refusing to rebind relay endpoint")
		return ErrRelayAlreadyBound
	}
	s.rel = r
	return nil
}

// Relay hands back the bound relay endpoint, or nil if the handshake
// has not completed yet.
func (s *State) Relay() *relay.Stream {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.rel
}

// TeamNumber reports the current team number.
func (s *State) TeamNumber() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.team
}

// Engine hands back the robot-link engine handle.  The handle itself
// never changes after construction, so this is a read-locked fetch of
// an immutable reference.
func (s *State) Engine() engine.Engine {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.eng
}

// Snapshot copies out everything the telemetry broadcaster derives
// its update from.  The engine status query happens outside the
// state lock: the engine serializes itself, and stacking its wait
// time under our lock would stall every other reader.
func (s *State) Snapshot() Snapshot {
	s.mutex.RLock()
	team := s.team
	eng := s.eng
	s.mutex.RUnlock()

	return Snapshot{
		TeamNumber: team,
		Status:     eng.Status(),
	}
}

// SetTeamNumber validates and stores a new team number, then forwards
// it to the engine.  Numbers outside the protocol range are rejected
// and the prior state is retained.  The engine call can block on the
// network while it moves subscriptions, so it runs outside the record
// lock; readers stay unblocked for its duration.  If the engine
// rejects the rebind the stored number rolls back.
func (s *State) SetTeamNumber(team int) error {
	if !engine.ValidTeamNumber(team) {
		s.l.Warn("Rejected out of range team number", "team", team)
		return ErrTeamNumberRange
	}

	s.setMutex.Lock()
	defer s.setMutex.Unlock()

	s.mutex.Lock()
	prev := s.team
	eng := s.eng
	s.team = team
	s.mutex.Unlock()

	if err := eng.SetTeamNumber(team); err != nil {
		s.mutex.Lock()
		s.team = prev
		s.mutex.Unlock()
		return err
	}
	s.l.Info("Team number updated", "team", team)
	return nil
}
