package webserver

import (
	"embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/state"
)

// Server manages the HTTP serving components: the embedded UI assets,
// the relay websocket endpoints, and the metrics handler.  Creating
// the server creates the relay endpoints; their handles are published
// through the startup handshakes once the listening socket is bound.
type Server struct {
	r chi.Router
	n *http.Server
	l hclog.Logger

	st   *state.State
	reg  *prometheus.Registry
	sink relay.CommandSink

	primary   *relay.Stream
	console   *relay.Stream
	primaryHS *relay.Handshake
	consoleHS *relay.Handshake

	port int
}

// Option enables variadic option passing to the server on startup.
type Option func(*Server) error

//go:embed static
var efs embed.FS
