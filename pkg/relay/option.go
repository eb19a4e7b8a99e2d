package relay

import (
	"github.com/hashicorp/go-hclog"
)

// Option enables variadic configuration of a relay stream.
type Option func(*Stream)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(s *Stream) { s.l = l.Named("relay") }
}

// WithCommandSink registers the sink that inbound UI commands are
// dispatched to.
func WithCommandSink(c CommandSink) Option {
	return func(s *Stream) { s.sink = c }
}

// WithMaxUndelivered sets how many messages may queue for a single
// subscriber before it is considered too slow and disconnected.
func WithMaxUndelivered(n int) Option {
	return func(s *Stream) { s.maxUndelivered = n }
}
