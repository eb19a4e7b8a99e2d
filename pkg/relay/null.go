package relay

// NullStream doesn't publish messages anywhere and is mostly for
// testing or headless operation.
type NullStream struct{}

// NewNullStreamer hands back a null stream instance that discards
// everything.
func NewNullStreamer() *NullStream {
	return new(NullStream)
}

// PublishCapabilities discards the capability flags.
func (ns *NullStream) PublishCapabilities(_ bool) {}

// PublishRobotState discards the telemetry snapshot.
func (ns *NullStream) PublishRobotState(_, _, _, _ bool, _ float64) {}

// PublishTeamNumber discards the team number.
func (ns *NullStream) PublishTeamNumber(_ int, _ bool) {}

// PublishEnable discards the enable request.
func (ns *NullStream) PublishEnable(_ bool) {}

// PublishEstop discards the estop request.
func (ns *NullStream) PublishEstop() {}

// PublishConsoleAddr discards the console address.
func (ns *NullStream) PublishConsoleAddr(_ string) {}

// PublishConsoleLine discards the console line.
func (ns *NullStream) PublishConsoleLine(_ string) {}
