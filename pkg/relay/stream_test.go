package relay

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mutex sync.Mutex

	teams   []int
	enables []bool
	estops  int
	teamErr error
}

func (r *recordingSink) ApplyTeamNumber(team int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.teams = append(r.teams, team)
	return r.teamErr
}

func (r *recordingSink) ApplyEnabled(enabled bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.enables = append(r.enables, enabled)
}

func (r *recordingSink) ApplyEstop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.estops++
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	bytes, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes
}

func TestDispatchTeamNumber(t *testing.T) {
	sink := &recordingSink{}
	s := NewStream(WithCommandSink(sink))

	s.dispatch(mustMarshal(t, MessageTeamNumber{
		Type:       MessageTypeTeamNumber,
		TeamNumber: 9999,
	}))

	assert.Equal(t, []int{9999}, sink.teams)
}

func TestDispatchEnableAndEstop(t *testing.T) {
	sink := &recordingSink{}
	s := NewStream(WithCommandSink(sink))

	s.dispatch(mustMarshal(t, MessageEnable{Type: MessageTypeEnable, Enabled: true}))
	s.dispatch(mustMarshal(t, MessageEnable{Type: MessageTypeEnable, Enabled: false}))
	s.dispatch(mustMarshal(t, MessageEstop{Type: MessageTypeEstop}))

	assert.Equal(t, []bool{true, false}, sink.enables)
	assert.Equal(t, 1, sink.estops)
}

func TestDispatchDropsGarbage(t *testing.T) {
	sink := &recordingSink{}
	s := NewStream(WithCommandSink(sink))

	s.dispatch([]byte("not even json"))
	s.dispatch(mustMarshal(t, MessageCapabilities{Type: MessageTypeCapabilities}))
	s.dispatch(mustMarshal(t, struct{ Type MessageType }{Type: 200}))

	assert.Empty(t, sink.teams)
	assert.Empty(t, sink.enables)
	assert.Zero(t, sink.estops)
}

func TestDispatchWithoutSink(t *testing.T) {
	s := NewStream()

	// Must not panic with no sink registered.
	s.dispatch(mustMarshal(t, MessageEstop{Type: MessageTypeEstop}))
}

func TestPublishFanout(t *testing.T) {
	s := NewStream()

	subA := &subscriber{msgs: make(chan []byte, 4), closeSlow: func() {}}
	subB := &subscriber{msgs: make(chan []byte, 4), closeSlow: func() {}}
	s.addSubscriber(subA)
	s.addSubscriber(subB)

	s.PublishRobotState(true, false, true, false, 12.1)

	for _, sub := range []*subscriber{subA, subB} {
		msg := MessageRobotState{}
		require.NoError(t, json.Unmarshal(<-sub.msgs, &msg))
		assert.Equal(t, MessageTypeRobotState, msg.Type)
		assert.True(t, msg.CommsAlive)
		assert.False(t, msg.CodeAlive)
		assert.True(t, msg.Simulator)
		assert.False(t, msg.Joysticks)
		assert.InDelta(t, 12.1, msg.Voltage, 0.001)
	}
}

func TestRetainedMessagesReplayToLateSubscriber(t *testing.T) {
	s := NewStream()

	// Nobody is connected yet when the startup messages go out.
	s.PublishCapabilities(true)
	s.PublishTeamNumber(4201, true)
	s.PublishConsoleAddr("ws://127.0.0.1:1/api/console/ws")
	s.PublishRobotState(true, true, false, false, 12.0)

	sub := &subscriber{msgs: make(chan []byte, 8), closeSlow: func() {}}
	s.addSubscriber(sub)

	caps := MessageCapabilities{}
	require.NoError(t, json.Unmarshal(<-sub.msgs, &caps))
	assert.Equal(t, MessageTypeCapabilities, caps.Type)
	assert.True(t, caps.BackendKeybinds)

	team := MessageTeamNumber{}
	require.NoError(t, json.Unmarshal(<-sub.msgs, &team))
	assert.Equal(t, MessageTypeTeamNumber, team.Type)
	assert.Equal(t, 4201, team.TeamNumber)
	assert.True(t, team.FromBackend)

	addr := MessageConsoleAddr{}
	require.NoError(t, json.Unmarshal(<-sub.msgs, &addr))
	assert.Equal(t, MessageTypeConsoleAddr, addr.Type)
	assert.Equal(t, "ws://127.0.0.1:1/api/console/ws", addr.Addr)

	// Telemetry snapshots are not retained; the next frame a late
	// subscriber sees must be a live one.
	select {
	case msg := <-sub.msgs:
		t.Fatalf("unexpected replayed frame: %s", msg)
	default:
	}
}

func TestRetainedMessageKeepsLatestValue(t *testing.T) {
	s := NewStream()

	s.PublishTeamNumber(1, true)
	s.PublishTeamNumber(4201, false)

	sub := &subscriber{msgs: make(chan []byte, 8), closeSlow: func() {}}
	s.addSubscriber(sub)

	team := MessageTeamNumber{}
	require.NoError(t, json.Unmarshal(<-sub.msgs, &team))
	assert.Equal(t, 4201, team.TeamNumber)
	assert.Empty(t, sub.msgs)
}

func TestPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	s := NewStream(WithMaxUndelivered(1))

	var closedMutex sync.Mutex
	closed := false
	slow := &subscriber{
		msgs: make(chan []byte, 1),
		closeSlow: func() {
			closedMutex.Lock()
			closed = true
			closedMutex.Unlock()
		},
	}
	s.addSubscriber(slow)

	// Second publish overflows the buffer; it must return anyway
	// and flag the subscriber for disconnection.
	s.PublishTeamNumber(1, true)
	s.PublishTeamNumber(2, true)

	assert.Eventually(t, func() bool {
		closedMutex.Lock()
		defer closedMutex.Unlock()
		return closed
	}, time.Second, time.Millisecond)
}
