package telemetry

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/state"
)

// DevicePresence is the slice of the input subsystem the broadcaster
// consumes.
type DevicePresence interface {
	HasJoysticks() bool
}

// Broadcaster periodically snapshots the authoritative state and
// emits a robot state update through the relay.
type Broadcaster struct {
	l hclog.Logger

	st  *state.State
	dev DevicePresence
	pub relay.Publisher

	interval time.Duration
	failFunc func()
	stop     chan struct{}

	updates  prometheus.Counter
	snapTime prometheus.Histogram
}

// Option enables variadic configuration of the broadcaster.
type Option func(*Broadcaster)
