package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoDevicesIsNotAnError(t *testing.T) {
	// Device slots that fail to open are skipped; in the build
	// environment nothing is attached so a scan finds nothing.
	d := New(WithMaxDevices(1))
	d.Rescan()

	assert.False(t, d.HasJoysticks())
}

func TestStateForMissingDevice(t *testing.T) {
	d := New()

	val := d.State(0)
	assert.Equal(t, Values{}, val, "missing devices read as neutral input")
	assert.Empty(t, val.Axes)
	assert.Zero(t, val.Buttons)
}

func TestPollStops(t *testing.T) {
	d := New(WithMaxDevices(1), WithPollInterval(time.Millisecond))

	done := make(chan struct{})
	go func() {
		d.Poll()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	d.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poll loop did not stop")
	}
}
