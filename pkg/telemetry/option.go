package telemetry

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/state"
)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(b *Broadcaster) { b.l = l.Named("telemetry") }
}

// WithState installs the authoritative state to snapshot from.
func WithState(st *state.State) Option {
	return func(b *Broadcaster) { b.st = st }
}

// WithDevices installs the input device cache to read presence from.
func WithDevices(d DevicePresence) Option {
	return func(b *Broadcaster) { b.dev = d }
}

// WithPublisher installs the relay the updates go out through.
func WithPublisher(p relay.Publisher) Option {
	return func(b *Broadcaster) { b.pub = p }
}

// WithInterval overrides the update cadence.
func WithInterval(i time.Duration) Option {
	return func(b *Broadcaster) { b.interval = i }
}

// WithPrometheusRegistry registers the broadcaster's collectors with
// the given registry.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(b *Broadcaster) {
		reg.MustRegister(b.updates, b.snapTime)
	}
}

// WithFailFunc sets the function the broadcast loop's watchdog calls
// if the loop wedges.
func WithFailFunc(f func()) Option {
	return func(b *Broadcaster) { b.failFunc = f }
}
