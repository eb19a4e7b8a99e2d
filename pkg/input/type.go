package input

import (
	"sync"
	"time"

	"github.com/0xcafed00d/joystick"
	"github.com/hashicorp/go-hclog"
)

// Values abstracts over a single attached input device.  A zero
// Values is the neutral "no input" reading handed back for device
// slots that have nothing attached.
type Values struct {
	Name    string
	Axes    []int
	Buttons uint32
}

// Devices is the shared cache of attached human-input devices and
// their live values.  It is constructed once at startup and passed by
// reference into every component that needs device state.  The poll
// loop is the only writer; readers only ever take the read side of
// the locks.
type Devices struct {
	l hclog.Logger

	pollInterval time.Duration
	maxDevices   int

	cMutex      sync.RWMutex
	controllers map[int]joystick.Joystick

	sMutex sync.RWMutex
	state  map[int]Values

	failFunc func()
	stop     chan struct{}
}

// Option enables variadic configuration of the device cache.
type Option func(*Devices)
