package cmdlets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/domilx/Conductor/pkg/command"
	"github.com/domilx/Conductor/pkg/config"
	"github.com/domilx/Conductor/pkg/console"
	"github.com/domilx/Conductor/pkg/engine"
	"github.com/domilx/Conductor/pkg/engine/link"
	"github.com/domilx/Conductor/pkg/input"
	"github.com/domilx/Conductor/pkg/keybind"
	"github.com/domilx/Conductor/pkg/relay"
	"github.com/domilx/Conductor/pkg/state"
	"github.com/domilx/Conductor/pkg/telemetry"
	"github.com/domilx/Conductor/pkg/webserver"
)

var (
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the driver station backend",
		Long:  runCmdLongDocs,
		Run:   runCmdRun,
	}

	runCmdLongDocs = `The backend is a long lived process that owns the authoritative robot state.  It serves the UI, relays telemetry to it every 50ms, and applies commands the UI sends back.  On shutdown the team number is written back to the persisted configuration.`
)

func init() {
	runCmd.Flags().String("engine", "mqtt", "robot-link engine to use (mqtt or none)")
	runCmd.Flags().String("config", "", "path to the persisted configuration")
	rootCmd.AddCommand(runCmd)
}

func runCmdRun(c *cobra.Command, args []string) {
	initLogger("conductor")

	// The platform check happens before any core component is
	// constructed so an unsupported host never gets a half
	// started backend.
	if runtime.GOOS == "windows" {
		fmt.Fprintln(os.Stderr, "Conductor is not supported on this operating system.  Please use the vendor driver station instead.")
		os.Exit(1)
	}

	dieNow := func() {
		appLogger.Error("Unrecoverable loop stall, exiting")
		os.Exit(2)
	}

	cfgPath, _ := c.Flags().GetString("config")
	if cfgPath == "" {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			appLogger.Error("No usable config location", "error", err)
			os.Exit(1)
		}
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		appLogger.Error("Error loading config", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	if !engine.ValidTeamNumber(cfg.TeamNumber) {
		appLogger.Error("Persisted team number is out of range", "team", cfg.TeamNumber)
		os.Exit(1)
	}

	engineKind, _ := c.Flags().GetString("engine")
	var eng engine.Engine
	var lnk *link.Engine
	switch engineKind {
	case "none":
		n := engine.NewNull()
		n.SetTeamNumber(cfg.TeamNumber)
		eng = n
	default:
		lnk = link.New(
			link.WithLogger(appLogger),
			link.WithBroker(cfg.Broker),
			link.WithTeamNumber(cfg.TeamNumber),
		)
		if err := lnk.Connect(); err != nil {
			appLogger.Error("Error connecting robot link", "error", err)
			os.Exit(1)
		}
		eng = lnk
	}

	st := state.New(
		state.WithLogger(appLogger),
		state.WithEngine(eng),
		state.WithTeamNumber(cfg.TeamNumber),
	)

	devices := input.New(
		input.WithLogger(appLogger),
		input.WithFailFunc(dieNow),
	)

	applier := command.New(
		command.WithLogger(appLogger),
		command.WithState(st),
	)

	reg := prometheus.NewRegistry()
	primaryHS := relay.NewHandshake(appLogger)

	wopts := []webserver.Option{
		webserver.WithLogger(appLogger),
		webserver.WithState(st),
		webserver.WithCommandSink(applier),
		webserver.WithPrometheusRegistry(reg),
		webserver.WithPrimaryHandshake(primaryHS),
	}
	var consoleHS *relay.Handshake
	if cfg.EnableConsole {
		consoleHS = relay.NewHandshake(appLogger)
		wopts = append(wopts, webserver.WithConsoleHandshake(consoleHS))
	}

	w, err := webserver.NewServer(wopts...)
	if err != nil {
		appLogger.Error("Error during webserver initialization", "error", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := w.Serve(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Webserver died", "error", err)
			quit <- syscall.SIGINT
		}
	}()

	// Startup blocks here until the webserver has created the
	// relay.  Without the relay no message has a destination, so
	// there is no timeout on these waits.
	primary := primaryHS.Wait()
	if err := st.BindRelay(primary); err != nil {
		appLogger.Error("Error binding relay", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Relay bound", "port", w.Port())

	var consoleStream *relay.Stream
	if consoleHS != nil {
		consoleStream = consoleHS.Wait()
		primary.PublishConsoleAddr(w.ConsoleAddr())
	}

	if cfg.TeamNumber != 0 {
		primary.PublishTeamNumber(cfg.TeamNumber, true)
	}

	binder := keybind.New(
		keybind.WithLogger(appLogger),
		keybind.WithPublisher(primary),
	)
	bound := binder.Bind()
	primary.PublishCapabilities(bound)

	go devices.Poll()

	var pump *console.Pump
	if consoleStream != nil {
		pump = console.New(
			console.WithLogger(appLogger),
			console.WithSource(eng),
			console.WithPublisher(consoleStream),
		)
		go pump.Run()
	}

	bcast := telemetry.New(
		telemetry.WithLogger(appLogger),
		telemetry.WithState(st),
		telemetry.WithDevices(devices),
		telemetry.WithPublisher(primary),
		telemetry.WithPrometheusRegistry(reg),
		telemetry.WithFailFunc(dieNow),
	)
	go bcast.Run()

	<-quit
	appLogger.Info("Shutdown requested")

	bcast.Stop()
	devices.Stop()
	if pump != nil {
		pump.Stop()
	}
	if bound {
		binder.Unbind()
	}
	if lnk != nil {
		lnk.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := w.Shutdown(ctx)
	if shutdownErr != nil {
		appLogger.Error("Error during shutdown", "error", shutdownErr)
	}

	// Last action before exit: persist the team number read back
	// from the authoritative state.  This runs after the webserver
	// has stopped so a command landing in the stop window still
	// makes it to disk.
	if err := persistTeamNumber(cfgPath, cfg, st.TeamNumber()); err != nil {
		appLogger.Error("Error persisting config", "error", err)
	}

	if shutdownErr != nil {
		os.Exit(2)
	}
}

func persistTeamNumber(path string, cfg *config.Config, team int) error {
	cfg.TeamNumber = team
	return config.Save(path, cfg)
}
