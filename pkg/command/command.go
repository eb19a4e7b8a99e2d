// Package command is the reverse path of the relay: it applies
// commands issued by the UI back into the authoritative state and the
// robot-link engine.
package command

import (
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/state"
)

// Applier receives decoded UI commands and applies them.  It
// implements relay.CommandSink.
type Applier struct {
	l  hclog.Logger
	st *state.State
}

// Option enables variadic configuration of the applier.
type Option func(*Applier)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(a *Applier) { a.l = l.Named("command") }
}

// WithState installs the authoritative state the commands act on.
func WithState(st *state.State) Option {
	return func(a *Applier) { a.st = st }
}

// New returns a configured applier.
func New(opts ...Option) *Applier {
	a := &Applier{
		l: hclog.NewNullLogger(),
	}

	for _, o := range opts {
		o(a)
	}
	return a
}

// ApplyTeamNumber routes a team number update through the state's
// validating write path.  Rejections leave state untouched and are
// surfaced to the caller.
func (a *Applier) ApplyTeamNumber(team int) error {
	return a.st.SetTeamNumber(team)
}

// ApplyEnabled forwards an enable request to the engine.
func (a *Applier) ApplyEnabled(enabled bool) {
	a.l.Info("Enable state requested", "enabled", enabled)
	a.st.Engine().SetEnabled(enabled)
}

// ApplyEstop forwards an emergency stop to the engine.
func (a *Applier) ApplyEstop() {
	a.l.Warn("Emergency stop requested")
	a.st.Engine().EmergencyStop()
}

// interface check
var _ relay.CommandSink = (*Applier)(nil)
