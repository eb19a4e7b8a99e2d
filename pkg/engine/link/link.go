// Package link implements the robot-link engine over MQTT.  The
// robot publishes status and console topics keyed by team number, and
// the driver station publishes a periodic heartbeat carrying the
// requested enable state.
package link

import (
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/domilx/Conductor/pkg/engine"
)

const heartbeatRate = time.Second

// New returns a configured link engine.  Connect must be called
// before any status is meaningful.
func New(opts ...Option) *Engine {
	e := &Engine{
		l:         hclog.NewNullLogger(),
		addr:      "mqtt://127.0.0.1:1883",
		freshness: time.Second * 2,
		console:   make(chan string, 64),
		stop:      make(chan struct{}),
	}

	for _, o := range opts {
		o(e)
	}
	return e
}

// Connect dials the broker, subscribes to the robot's topics for the
// bound team, and starts the heartbeat pusher.
func (e *Engine) Connect() error {
	copts := mqtt.NewClientOptions().
		AddBroker(e.addr).
		SetAutoReconnect(true).
		SetClientID(fmt.Sprintf("conductor-ds-%s", uuid.New().String()[:8])).
		SetConnectRetry(true).
		SetConnectTimeout(time.Second).
		SetConnectRetryInterval(time.Second)
	e.m = mqtt.NewClient(copts)

	if tok := e.m.Connect(); tok.Wait() && tok.Error() != nil {
		e.l.Error("Error connecting to broker", "error", tok.Error())
		return tok.Error()
	}
	e.l.Info("Connected to broker", "broker", e.addr)

	subFunc := func() error {
		return e.subscribe(e.TeamNumber())
	}
	if err := backoff.Retry(subFunc, backoff.NewExponentialBackOff()); err != nil {
		e.l.Error("Permanent error encountered while subscribing", "error", err)
		return err
	}

	go e.doHeartbeat()
	return nil
}

// Stop halts the heartbeat pusher and drops the broker connection.
func (e *Engine) Stop() {
	close(e.stop)
	e.m.Disconnect(250)
}

// Status reports the current link snapshot.
func (e *Engine) Status() engine.Status {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	if time.Since(e.lastSeen) > e.freshness {
		return engine.Status{}
	}
	return engine.Status{
		Connected:   true,
		CodeRunning: e.last.CodeRunning,
		Simulated:   e.last.Simulated,
		Voltage:     e.last.Voltage,
	}
}

// TeamNumber reports the currently bound team.
func (e *Engine) TeamNumber() int {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return e.team
}

// SetTeamNumber rebinds the engine to a new team, moving the topic
// subscriptions over.  Binding the same team again is a no-op.
func (e *Engine) SetTeamNumber(team int) error {
	if !engine.ValidTeamNumber(team) {
		return engine.ErrTeamNumberRange
	}

	e.mutex.Lock()
	prev := e.team
	if prev == team {
		e.mutex.Unlock()
		return nil
	}
	e.team = team
	e.mutex.Unlock()

	if e.m == nil || !e.m.IsConnected() {
		return nil
	}

	e.unsubscribe(prev)
	if err := e.subscribe(team); err != nil {
		e.l.Warn("Error subscribing for new team", "team", team, "error", err)
		return err
	}
	e.l.Info("Rebound to new team", "team", team)
	return nil
}

// SetEnabled requests the robot be enabled or disabled.  The change
// rides out on the next heartbeat.
func (e *Engine) SetEnabled(enabled bool) {
	e.mutex.Lock()
	if !e.estopped {
		e.enabled = enabled
	}
	e.mutex.Unlock()
}

// EmergencyStop latches the estop flag.  It cannot be cleared without
// restarting the engine.
func (e *Engine) EmergencyStop() {
	e.mutex.Lock()
	e.estopped = true
	e.enabled = false
	e.mutex.Unlock()
	e.l.Warn("Emergency stop latched")
}

// ConsoleLines streams robot program output.
func (e *Engine) ConsoleLines() <-chan string {
	return e.console
}

func (e *Engine) subscribe(team int) error {
	topic := path.Join("robot", strconv.Itoa(team), "status")
	if tok := e.m.Subscribe(topic, 1, e.statusCallback); tok.Wait() && tok.Error() != nil {
		e.l.Warn("Error subscribing to topic", "topic", topic, "error", tok.Error())
		return tok.Error()
	}

	topic = path.Join("robot", strconv.Itoa(team), "console")
	if tok := e.m.Subscribe(topic, 0, e.consoleCallback); tok.Wait() && tok.Error() != nil {
		e.l.Warn("Error subscribing to topic", "topic", topic, "error", tok.Error())
		return tok.Error()
	}
	return nil
}

func (e *Engine) unsubscribe(team int) {
	topics := []string{
		path.Join("robot", strconv.Itoa(team), "status"),
		path.Join("robot", strconv.Itoa(team), "console"),
	}
	if tok := e.m.Unsubscribe(topics...); tok.Wait() && tok.Error() != nil {
		e.l.Warn("Error unsubscribing", "error", tok.Error())
	}
}

func (e *Engine) statusCallback(c mqtt.Client, msg mqtt.Message) {
	report := statusReport{}
	if err := json.Unmarshal(msg.Payload(), &report); err != nil {
		e.l.Warn("Bad status payload", "error", err)
		return
	}

	e.mutex.Lock()
	e.last = report
	e.lastSeen = time.Now()
	e.mutex.Unlock()
}

func (e *Engine) consoleCallback(c mqtt.Client, msg mqtt.Message) {
	select {
	case e.console <- string(msg.Payload()):
	default:
		// Console consumers that fall behind lose lines rather
		// than stalling the mqtt callback.
	}
}

func (e *Engine) doHeartbeat() {
	ticker := time.NewTicker(heartbeatRate)
	e.l.Info("Starting heartbeat pusher")
	for {
		select {
		case <-e.stop:
			ticker.Stop()
			e.l.Info("Stopped publishing heartbeats")
			return
		case <-ticker.C:
			e.mutex.RLock()
			hb := heartbeat{
				TeamNumber: e.team,
				Enabled:    e.enabled,
				Estopped:   e.estopped,
			}
			e.mutex.RUnlock()

			bytes, err := json.Marshal(hb)
			if err != nil {
				e.l.Warn("Error marshalling heartbeat", "error", err)
				continue
			}

			topic := path.Join("robot", strconv.Itoa(hb.TeamNumber), "ds")
			if tok := e.m.Publish(topic, 0, false, bytes); tok.Wait() && tok.Error() != nil {
				e.l.Warn("Error publishing heartbeat", "error", tok.Error())
			}
		}
	}
}
