package link

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(e *Engine) { e.l = l.Named("link") }
}

// WithBroker handles setting up the mqtt broker address.
func WithBroker(addr string) Option {
	return func(e *Engine) { e.addr = addr }
}

// WithTeamNumber sets the initial team binding.
func WithTeamNumber(team int) Option {
	return func(e *Engine) { e.team = team }
}

// WithFreshness sets how stale the last status report may be before
// the link is considered down.
func WithFreshness(d time.Duration) Option {
	return func(e *Engine) { e.freshness = d }
}
