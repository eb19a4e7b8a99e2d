package relay

// MessageType is used to identify what kind of message is crossing
// the wire between the backend and a UI client.
type MessageType uint8

const (
	// MessageTypeUnknown is a zero value to ensure that the type
	// always has to be set to something.
	MessageTypeUnknown MessageType = iota

	// MessageTypeCapabilities is sent once at startup and tells
	// the UI which optional backend features are active on this
	// platform.
	MessageTypeCapabilities

	// MessageTypeRobotState carries the periodic telemetry
	// snapshot that the UI renders as the connection, code, and
	// battery indicators.
	MessageTypeRobotState

	// MessageTypeTeamNumber carries a team number in either
	// direction.  FromBackend disambiguates the initial restore
	// from a user-issued change.
	MessageTypeTeamNumber

	// MessageTypeEnable requests that the robot be enabled or
	// disabled.  Sent by UI clients, and by the backend when a
	// native key binding fires.
	MessageTypeEnable

	// MessageTypeEstop requests an immediate emergency stop.
	MessageTypeEstop

	// MessageTypeConsoleAddr tells the primary UI where the robot
	// console relay can be reached once it is known.
	MessageTypeConsoleAddr

	// MessageTypeConsoleLine carries a single line of robot
	// program output to the console window.
	MessageTypeConsoleLine
)

// MessageCapabilities reports optional backend features.
type MessageCapabilities struct {
	Type            MessageType
	BackendKeybinds bool
}

// MessageRobotState is the periodic telemetry snapshot.  Every field
// is the latest known value, not a delta.
type MessageRobotState struct {
	Type       MessageType
	CommsAlive bool
	CodeAlive  bool
	Simulator  bool
	Joysticks  bool
	Voltage    float64
}

// MessageTeamNumber carries a team number change or restore.
type MessageTeamNumber struct {
	Type        MessageType
	TeamNumber  int
	FromBackend bool
}

// MessageEnable requests an enable state change.
type MessageEnable struct {
	Type    MessageType
	Enabled bool
}

// MessageEstop requests an emergency stop.
type MessageEstop struct {
	Type MessageType
}

// MessageConsoleAddr points the UI at the console relay.
type MessageConsoleAddr struct {
	Type MessageType
	Addr string
}

// MessageConsoleLine is one line of robot program output.
type MessageConsoleLine struct {
	Type MessageType
	Line string
}

// Publisher is the outbound half of the relay that every component
// which emits messages holds.  Sends are fire-and-forget: delivery is
// asynchronous and slow clients are disconnected rather than blocked
// on.
type Publisher interface {
	PublishCapabilities(backendKeybinds bool)
	PublishRobotState(comms, code, sim, joysticks bool, voltage float64)
	PublishTeamNumber(team int, fromBackend bool)
	PublishEnable(enabled bool)
	PublishEstop()
	PublishConsoleAddr(addr string)
	PublishConsoleLine(line string)
}

// CommandSink receives commands decoded from inbound UI messages.
type CommandSink interface {
	ApplyTeamNumber(team int) error
	ApplyEnabled(enabled bool)
	ApplyEstop()
}
