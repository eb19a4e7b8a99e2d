// Package telemetry implements the periodic broadcaster that keeps
// UI clients supplied with fresh robot state.
package telemetry

import (
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/watchdog"
)

// New returns a configured broadcaster.
func New(opts ...Option) *Broadcaster {
	b := &Broadcaster{
		l:        hclog.NewNullLogger(),
		pub:      relay.NewNullStreamer(),
		interval: time.Millisecond * 50,
		failFunc: func() {},
		stop:     make(chan struct{}),

		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "conductor",
			Subsystem: "telemetry",
			Name:      "updates_total",
			Help:      "Robot state updates emitted to the relay.",
		}),
		snapTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "conductor",
			Subsystem: "telemetry",
			Name:      "snapshot_seconds",
			Help:      "Time spent holding read locks while snapshotting state.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 10, 6),
		}),
	}

	for _, o := range opts {
		o(b)
	}
	return b
}

// Run executes the broadcast loop until Stop is called.  Each cycle
// snapshots, emits, then sleeps; the cadence is interval plus the
// cost of the snapshot and send, with no drift compensation.
func (b *Broadcaster) Run() {
	dog := watchdog.New(
		watchdog.WithName("telemetry"),
		watchdog.WithExpiry(time.Second*5),
		watchdog.WithExpireFunc(b.failFunc),
		watchdog.WithLogger(b.l),
	)

	ticker := time.NewTicker(b.interval)
	b.l.Info("Starting state broadcaster")
	for {
		select {
		case <-b.stop:
			ticker.Stop()
			dog.Stop()
			b.l.Info("Stopped broadcasting state")
			return
		case <-ticker.C:
			dog.Feed()
			b.broadcastOnce()
		}
	}
}

// Stop halts the broadcast loop.
func (b *Broadcaster) Stop() {
	close(b.stop)
}

// broadcastOnce derives one update and sends it.  The snapshot step
// completes and releases every lock before the send starts; a send
// that stalls can therefore never hold up readers of the state.
func (b *Broadcaster) broadcastOnce() {
	msg := b.snapshot()
	b.pub.PublishRobotState(msg.CommsAlive, msg.CodeAlive, msg.Simulator, msg.Joysticks, msg.Voltage)
	b.updates.Inc()
}

// snapshot reads the state and device caches and derives the message
// fields.  All locks taken here are released before it returns.
func (b *Broadcaster) snapshot() relay.MessageRobotState {
	start := time.Now()
	snap := b.st.Snapshot()
	joysticks := false
	if b.dev != nil {
		joysticks = b.dev.HasJoysticks()
	}
	b.snapTime.Observe(time.Since(start).Seconds())

	return relay.MessageRobotState{
		Type:       relay.MessageTypeRobotState,
		CommsAlive: snap.Status.Connected,
		CodeAlive:  snap.Status.CodeRunning,
		Simulator:  snap.Status.Simulated,
		Joysticks:  joysticks,
		Voltage:    snap.Status.Voltage,
	}
}
