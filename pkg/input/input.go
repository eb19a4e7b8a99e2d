// Package input discovers and polls human-input devices, caching
// their live values for the telemetry broadcaster and any UI control
// mapping that wants them.
package input

import (
	"time"

	"github.com/0xcafed00d/joystick"
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/watchdog"
)

const rescanEvery = 100

// New returns a configured device cache.  No discovery happens until
// Rescan or Poll is called.
func New(opts ...Option) *Devices {
	d := &Devices{
		l:            hclog.NewNullLogger(),
		pollInterval: time.Millisecond * 20,
		maxDevices:   4,
		controllers:  make(map[int]joystick.Joystick),
		state:        make(map[int]Values),
		failFunc:     func() {},
		stop:         make(chan struct{}),
	}

	for _, o := range opts {
		o(d)
	}
	return d
}

// Rescan walks the device slots and opens anything that has appeared
// since the last scan.  Slots that fail to open are simply left
// empty; the absence of devices is not an error.
func (d *Devices) Rescan() {
	d.cMutex.Lock()
	defer d.cMutex.Unlock()

	for id := 0; id < d.maxDevices; id++ {
		if _, ok := d.controllers[id]; ok {
			continue
		}
		js, err := joystick.Open(id)
		if err != nil {
			continue
		}
		d.controllers[id] = js
		d.l.Info("Attached input device", "id", id, "name", js.Name())
	}
}

// HasJoysticks reports whether any device is currently attached.
func (d *Devices) HasJoysticks() bool {
	d.cMutex.RLock()
	defer d.cMutex.RUnlock()
	return len(d.controllers) > 0
}

// State returns the last polled values for the given device slot.  A
// slot with nothing attached yields the neutral zero value rather
// than an error.
func (d *Devices) State(id int) Values {
	d.sMutex.RLock()
	defer d.sMutex.RUnlock()

	val, ok := d.state[id]
	if !ok {
		return Values{}
	}
	return val
}

// Poll runs the refresh loop until Stop is called.  Devices that fail
// a read are treated as unplugged and dropped; the cycle that dropped
// them still refreshes every other device.
func (d *Devices) Poll() {
	dog := watchdog.New(
		watchdog.WithName("input"),
		watchdog.WithExpiry(time.Second*5),
		watchdog.WithExpireFunc(d.failFunc),
		watchdog.WithLogger(d.l),
	)

	d.Rescan()
	ticker := time.NewTicker(d.pollInterval)
	d.l.Info("Starting input poller")
	cycles := 0
	for {
		select {
		case <-d.stop:
			ticker.Stop()
			dog.Stop()
			d.l.Info("Stopped polling input devices")
			return
		case <-ticker.C:
			dog.Feed()
			d.refresh()
			cycles++
			if cycles%rescanEvery == 0 {
				d.Rescan()
			}
		}
	}
}

// Stop halts the poll loop.
func (d *Devices) Stop() {
	close(d.stop)
}

// refresh reads every attached device once and publishes the values
// into the state cache.
func (d *Devices) refresh() {
	dead := []int{}

	d.cMutex.RLock()
	for id, js := range d.controllers {
		jinfo, err := js.Read()
		if err != nil {
			d.l.Warn("Error reading device, dropping it", "id", id, "error", err)
			dead = append(dead, id)
			continue
		}

		vals := Values{
			Name:    js.Name(),
			Axes:    append([]int(nil), jinfo.AxisData...),
			Buttons: jinfo.Buttons,
		}
		d.sMutex.Lock()
		d.state[id] = vals
		d.sMutex.Unlock()
	}
	d.cMutex.RUnlock()

	if len(dead) == 0 {
		return
	}

	d.cMutex.Lock()
	d.sMutex.Lock()
	for _, id := range dead {
		if js, ok := d.controllers[id]; ok {
			js.Close()
		}
		delete(d.controllers, id)
		delete(d.state, id)
	}
	d.sMutex.Unlock()
	d.cMutex.Unlock()
}
