// Package config contains the persisted driver station settings and
// the load/store plumbing around them.
package config

// Config holds everything the driver station persists between runs.
type Config struct {
	// TeamNumber is the team the station drives for.  Zero means
	// never configured; a nonzero value is pushed to the UI on
	// startup.
	TeamNumber int

	// Broker is the robot-link broker address handed to the mqtt
	// engine.
	Broker string

	// EnableConsole selects whether the secondary robot console
	// relay is brought up alongside the primary UI relay.
	EnableConsole bool
}

// Default returns the configuration used when nothing has been
// persisted yet.
func Default() *Config {
	return &Config{
		Broker:        "mqtt://127.0.0.1:1883",
		EnableConsole: true,
	}
}
