// Package console pumps robot program output into the secondary
// console relay.
package console

import (
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/relay"
)

// LineSource is the slice of the engine the pump consumes.
type LineSource interface {
	ConsoleLines() <-chan string
}

// Pump copies lines from the engine to the console relay until the
// engine closes its channel or Stop is called.
type Pump struct {
	l hclog.Logger

	src  LineSource
	pub  relay.Publisher
	stop chan struct{}
}

// Option enables variadic configuration of the pump.
type Option func(*Pump)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(p *Pump) { p.l = l.Named("console") }
}

// WithSource installs the engine that produces console lines.
func WithSource(s LineSource) Option {
	return func(p *Pump) { p.src = s }
}

// WithPublisher installs the console relay the lines go out through.
func WithPublisher(pub relay.Publisher) Option {
	return func(p *Pump) { p.pub = pub }
}

// New returns a configured pump.
func New(opts ...Option) *Pump {
	p := &Pump{
		l:    hclog.NewNullLogger(),
		pub:  relay.NewNullStreamer(),
		stop: make(chan struct{}),
	}

	for _, o := range opts {
		o(p)
	}
	return p
}

// Run copies lines until the source closes or Stop is called.
func (p *Pump) Run() {
	p.l.Info("Starting console pump")
	lines := p.src.ConsoleLines()
	for {
		select {
		case <-p.stop:
			p.l.Info("Stopped console pump")
			return
		case line, ok := <-lines:
			if !ok {
				p.l.Info("Console source closed")
				return
			}
			p.pub.PublishConsoleLine(line)
		}
	}
}

// Stop halts the pump.
func (p *Pump) Stop() {
	close(p.stop)
}
