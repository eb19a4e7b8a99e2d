package link

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/engine"
)

// Engine is a robot-link engine that speaks MQTT to the robot's
// broker.  Status freshness defines connection liveness: if no status
// report has arrived within the freshness window the link is treated
// as down.
type Engine struct {
	l hclog.Logger
	m mqtt.Client

	addr      string
	freshness time.Duration

	mutex    sync.RWMutex
	team     int
	enabled  bool
	estopped bool
	last     statusReport
	lastSeen time.Time

	console chan string
	stop    chan struct{}
}

// Option enables variadic configuration of the link engine.
type Option func(*Engine)

// statusReport is the wire format the robot publishes on its status
// topic.
type statusReport struct {
	CodeRunning bool
	Simulated   bool
	Voltage     float64
}

// heartbeat is the wire format the driver station publishes on its
// control topic.
type heartbeat struct {
	TeamNumber int
	Enabled    bool
	Estopped   bool
}

// interface check
var _ engine.Engine = (*Engine)(nil)
