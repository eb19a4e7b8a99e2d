// Package relay implements the message path between the backend and
// its UI clients.  Every value that crosses the relay boundary is
// copied into an immutable message before being sent, so no shared
// state ever aliases across it.
package relay

import (
	"encoding/json"
)

// PublishCapabilities pushes the backend feature flags out to the UI.
// The flags are retained and replayed to clients that connect later.
func (s *Stream) PublishCapabilities(backendKeybinds bool) {
	s.marshalAndRetain(MessageTypeCapabilities, MessageCapabilities{
		Type:            MessageTypeCapabilities,
		BackendKeybinds: backendKeybinds,
	})
}

// PublishRobotState pushes one telemetry snapshot out to the UI.
func (s *Stream) PublishRobotState(comms, code, sim, joysticks bool, voltage float64) {
	s.marshalAndPublish(MessageRobotState{
		Type:       MessageTypeRobotState,
		CommsAlive: comms,
		CodeAlive:  code,
		Simulator:  sim,
		Joysticks:  joysticks,
		Voltage:    voltage,
	})
}

// PublishTeamNumber pushes a team number out to the UI.  The latest
// value is retained and replayed to clients that connect later.
func (s *Stream) PublishTeamNumber(team int, fromBackend bool) {
	s.marshalAndRetain(MessageTypeTeamNumber, MessageTeamNumber{
		Type:        MessageTypeTeamNumber,
		TeamNumber:  team,
		FromBackend: fromBackend,
	})
}

// PublishEnable pushes an enable state change request.  Used by the
// key binding dispatcher to mirror a native key press to the UI.
func (s *Stream) PublishEnable(enabled bool) {
	s.marshalAndPublish(MessageEnable{
		Type:    MessageTypeEnable,
		Enabled: enabled,
	})
}

// PublishEstop pushes an emergency stop request.
func (s *Stream) PublishEstop() {
	s.marshalAndPublish(MessageEstop{
		Type: MessageTypeEstop,
	})
}

// PublishConsoleAddr pushes the console relay address out to the UI.
// The address is retained and replayed to clients that connect later.
func (s *Stream) PublishConsoleAddr(addr string) {
	s.marshalAndRetain(MessageTypeConsoleAddr, MessageConsoleAddr{
		Type: MessageTypeConsoleAddr,
		Addr: addr,
	})
}

// PublishConsoleLine pushes one line of robot output into the stream.
func (s *Stream) PublishConsoleLine(line string) {
	s.marshalAndPublish(MessageConsoleLine{
		Type: MessageTypeConsoleLine,
		Line: line,
	})
}

func (s *Stream) marshalAndPublish(m interface{}) {
	bytes, err := json.Marshal(m)
	if err != nil {
		s.l.Warn("Error marshaling message", "error", err)
		return
	}
	s.publish(bytes)
}

func (s *Stream) marshalAndRetain(t MessageType, m interface{}) {
	bytes, err := json.Marshal(m)
	if err != nil {
		s.l.Warn("Error marshaling message", "error", err)
		return
	}
	s.retain(t, bytes)
}
