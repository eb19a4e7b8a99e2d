package state

import (
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/engine"
)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(s *State) { s.l = l.Named("state") }
}

// WithEngine installs the robot-link engine handle.
func WithEngine(e engine.Engine) Option {
	return func(s *State) { s.eng = e }
}

// WithTeamNumber seeds the team number from persisted configuration.
func WithTeamNumber(team int) Option {
	return func(s *State) { s.team = team }
}
