// Package webserver serves the UI's markup and scripts and hosts the
// relay endpoints the UI connects back to.  It binds an ephemeral
// local port; whoever needs the port or the relay handles receives
// them through the startup handshakes.
package webserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domilx/Conductor/pkg/buildinfo"
	"github.com/domilx/Conductor/pkg/relay"
)

// NewServer returns a configured server with its relay endpoints
// created but not yet published.
func NewServer(opts ...Option) (*Server, error) {
	s := new(Server)
	s.r = chi.NewRouter()
	s.n = &http.Server{}
	s.l = hclog.NewNullLogger()

	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	s.primary = relay.NewStream(
		relay.WithLogger(s.l),
		relay.WithCommandSink(s.sink),
	)

	static, err := fs.Sub(efs, "static")
	if err != nil {
		return nil, err
	}

	s.r.Get("/", s.page(static, "index.html"))
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	s.r.Get("/api/ws", s.primary.Handler)
	s.r.Get("/api/status", s.status)

	if s.consoleHS != nil {
		s.console = relay.NewStream(relay.WithLogger(s.l.Named("console")))
		s.r.Get("/console", s.page(static, "console.html"))
		s.r.Get("/api/console/ws", s.console.Handler)
	}

	if s.reg != nil {
		s.r.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{Registry: s.reg}))
	}

	return s, nil
}

// Serve binds an ephemeral port on localhost, publishes the relay
// endpoints through the handshakes, and serves until Shutdown.  The
// handshakes complete only after the listen succeeds, so a waiter is
// never handed an endpoint that has no server behind it.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.port = lis.Addr().(*net.TCPAddr).Port
	s.l.Info("Webserver is starting", "port", s.port)

	if s.primaryHS != nil {
		s.primaryHS.Complete(s.primary)
	}
	if s.consoleHS != nil {
		s.consoleHS.Complete(s.console)
	}

	s.n.Handler = s.r
	return s.n.Serve(lis)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.l.Info("Stopping...")
	return s.n.Shutdown(ctx)
}

// Port reports the bound port.  Only meaningful once the primary
// handshake has completed.
func (s *Server) Port() int {
	return s.port
}

// ConsoleAddr reports the websocket address of the console relay.
func (s *Server) ConsoleAddr() string {
	return fmt.Sprintf("ws://127.0.0.1:%d/api/console/ws", s.port)
}

func (s *Server) page(static fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(static, name)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(content)
	}
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	snap := s.st.Snapshot()
	out := struct {
		Version    string
		TeamNumber int
		CommsAlive bool
		CodeAlive  bool
		Simulator  bool
		Voltage    float64
	}{
		Version:    buildinfo.Version,
		TeamNumber: snap.TeamNumber,
		CommsAlive: snap.Status.Connected,
		CodeAlive:  snap.Status.CodeRunning,
		Simulator:  snap.Status.Simulated,
		Voltage:    snap.Status.Voltage,
	}
	if err := json.NewEncoder(w).Encode(out); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
