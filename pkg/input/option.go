package input

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(d *Devices) { d.l = l.Named("input") }
}

// WithPollInterval sets the refresh cadence for device values.
func WithPollInterval(i time.Duration) Option {
	return func(d *Devices) { d.pollInterval = i }
}

// WithMaxDevices sets how many device slots are scanned.
func WithMaxDevices(n int) Option {
	return func(d *Devices) { d.maxDevices = n }
}

// WithFailFunc sets the function the poll loop's watchdog calls if
// the loop wedges.
func WithFailFunc(f func()) Option {
	return func(d *Devices) { d.failFunc = f }
}
