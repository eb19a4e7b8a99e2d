package webserver

import (
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/state"
)

// WithLogger sets the logger for the server.
func WithLogger(l hclog.Logger) Option {
	return func(s *Server) error {
		s.l = l.Named("web")
		return nil
	}
}

// WithPrometheusRegistry sets the Prometheus registry for the server.
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) error {
		s.reg = reg
		return nil
	}
}

// WithState sets the authoritative state the status endpoint reads.
func WithState(st *state.State) Option {
	return func(s *Server) error {
		s.st = st
		return nil
	}
}

// WithPrimaryHandshake sets the handshake that delivers the primary
// relay endpoint to the core once the server is listening.
func WithPrimaryHandshake(hs *relay.Handshake) Option {
	return func(s *Server) error {
		s.primaryHS = hs
		return nil
	}
}

// WithConsoleHandshake enables the secondary console relay and sets
// the handshake that delivers it.  Without this option no console
// endpoint exists at all.
func WithConsoleHandshake(hs *relay.Handshake) Option {
	return func(s *Server) error {
		s.consoleHS = hs
		return nil
	}
}

// WithCommandSink sets the sink that inbound UI commands on the
// primary relay are dispatched to.
func WithCommandSink(c relay.CommandSink) Option {
	return func(s *Server) error {
		s.sink = c
		return nil
	}
}
