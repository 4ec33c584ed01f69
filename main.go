// ABOUTME: Entry point for the chime soundboard
// ABOUTME: Parses CLI flags, opens the audio output and routes controller events to sounds
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/chime/internal/app"
	"github.com/Resonate-Protocol/chime/internal/bridge"
	"github.com/Resonate-Protocol/chime/internal/config"
	"github.com/Resonate-Protocol/chime/internal/logging"
	"github.com/Resonate-Protocol/chime/internal/ui"
	"github.com/Resonate-Protocol/chime/internal/version"
	"github.com/Resonate-Protocol/chime/pkg/audio/output"
	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

var (
	configPath  = flag.String("config", "chime.yaml", "Soundboard configuration file")
	device      = flag.String("device", "", "Output device name (default: config, then system default)")
	backend     = flag.String("backend", "", "Output backend: oto or malgo (default: config)")
	bridgePort  = flag.Int("port", 0, "Controller bridge port (default: config)")
	noBridge    = flag.Bool("no-bridge", false, "Disable the websocket controller bridge")
	noAdvertise = flag.Bool("no-mdns", false, "Do not advertise the bridge over mDNS")
	logFile     = flag.String("log-file", "chime.log", "Log file path")
	noTUI       = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	debug       = flag.Bool("debug", false, "Enable debug logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	useTUI := !*noTUI

	// TUI mode logs only to the file, streaming mode to both
	logger, err := logging.New(logging.Options{
		Debug:   *debug,
		File:    *logFile,
		Console: !useTUI,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger, useTUI); err != nil {
		logger.Errorw("Soundboard failed", "error", err)
		fmt.Fprintf(os.Stderr, "chime: %v\n", err)
		os.Exit(1)
	}
}

func run(logger *zap.SugaredLogger, useTUI bool) error {
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Infow("Starting soundboard", "version", version.Version, "config", *configPath,
		"sounds", len(cfg.Sounds))

	sounds, err := app.LoadSounds(cfg, logger)
	if err != nil {
		return err
	}

	stream, out, err := openOutput(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logger.Warnw("Error closing output stream", "error", err)
		}
	}()
	logger.Infow("Output ready", "output", out.String(), "backend", cfg.Output.Backend)

	// TUI setup
	var tuiProg *tea.Program
	var ctrl *ui.Control

	if useTUI {
		ctrl = ui.NewControl()
		tuiProg = ui.Run(ctrl)
		go func() {
			if _, err := tuiProg.Run(); err != nil {
				logger.Errorw("TUI exited with error", "error", err)
			}
		}()
	}

	// Helper to update TUI
	updateTUI := func(msg ui.StatusMsg) {
		if tuiProg != nil {
			tuiProg.Send(msg)
		}
	}

	board := app.New(cfg, sounds, out, app.Options{
		Logger:   logger,
		OnStatus: updateTUI,
	})
	updateTUI(ui.StatusMsg{
		Device:  out.Name,
		Backend: cfg.Output.Backend,
		Sounds:  board.Rows(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sources []<-chan controller.Event
	var srv *bridge.Server

	if cfg.Bridge.Enabled {
		srv = bridge.NewServer(bridge.Config{
			Port:      cfg.Bridge.Port,
			Name:      bridgeName(cfg),
			Advertise: cfg.Bridge.Advertise,
			Logger:    logger,
		})
		go func() {
			if err := srv.Start(); err != nil {
				logger.Errorw("Controller bridge failed", "error", err)
				updateTUI(ui.StatusMsg{Error: err.Error()})
			}
		}()
		sources = append(sources, srv.Events())
		updateTUI(ui.StatusMsg{BridgeAddr: fmt.Sprintf(":%d", srv.Port())})
	}

	if ctrl != nil {
		sources = append(sources, ctrl.Events)
		go handleVolumeControl(ctx, board, ctrl)
	}

	go board.Run(ctx, sources...)

	// Start stats update loop for TUI
	if tuiProg != nil {
		go statsUpdateLoop(ctx, out, srv, updateTUI)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for quit signal from TUI or OS
	if ctrl != nil {
		select {
		case <-ctrl.Quit:
			logger.Infow("Received quit signal from TUI")
		case <-sigChan:
			logger.Infow("Shutdown signal received")
			tuiProg.Quit()
		}
	} else {
		<-sigChan
		logger.Infow("Shutdown signal received")
	}

	cancel()
	if srv != nil {
		srv.Stop()
	}

	logger.Infow("Soundboard stopped", "plays", board.Plays())
	return nil
}

// applyFlags lets command-line flags override the config file
func applyFlags(cfg *config.Config) {
	if *device != "" {
		cfg.Output.Device = *device
		cfg.Output.Backend = output.BackendMalgo.String()
	}
	if *backend != "" {
		cfg.Output.Backend = *backend
	}
	if *bridgePort != 0 {
		cfg.Bridge.Port = *bridgePort
	}
	if *noBridge {
		cfg.Bridge.Enabled = false
	}
	if *noAdvertise {
		cfg.Bridge.Advertise = false
	}
}

// openOutput opens the configured device, or the default one
func openOutput(cfg *config.Config, logger *zap.SugaredLogger) (output.Stream, *output.Output, error) {
	opts := []output.Option{
		output.WithSampleRate(cfg.Output.SampleRate),
		output.WithChannels(cfg.Output.Channels),
		output.WithBackend(cfg.Backend()),
		output.WithLogger(logger),
	}

	if cfg.Output.Device != "" {
		return output.InitOutputFromDevice(cfg.Output.Device, opts...)
	}
	return output.InitOutput(opts...)
}

func bridgeName(cfg *config.Config) string {
	if cfg.Bridge.Name != "" {
		return cfg.Bridge.Name
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return fmt.Sprintf("%s-%s", hostname, version.Product)
}

// handleVolumeControl processes volume changes from TUI
func handleVolumeControl(ctx context.Context, board *app.Soundboard, ctrl *ui.Control) {
	for {
		select {
		case vol := <-ctrl.Changes:
			board.SetVolume(vol.Volume, vol.Muted)
		case <-ctx.Done():
			return
		}
	}
}

// statsUpdateLoop periodically updates TUI with playback statistics
func statsUpdateLoop(ctx context.Context, out *output.Output, srv *bridge.Server, updateTUI func(ui.StatusMsg)) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	// Use a slower ticker for expensive runtime stats to avoid GC pauses
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-runtimeStatsTicker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			updateTUI(ui.StatusMsg{
				Goroutines: runtime.NumGoroutine(),
				MemAlloc:   m.Alloc,
			})

		case <-ticker.C:
			sinks := out.ActiveSinks()
			msg := ui.StatusMsg{ActiveSinks: &sinks}
			if srv != nil {
				pads := len(srv.Connections())
				msg.Pads = &pads
			}
			updateTUI(msg)
		}
	}
}
