// ABOUTME: padsend sends controller events to a chime soundboard bridge
// ABOUTME: Finds the bridge over mDNS or by address and sends events built from flags
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Resonate-Protocol/chime/internal/bridge"
	"github.com/Resonate-Protocol/chime/internal/discovery"
	"github.com/Resonate-Protocol/chime/internal/logging"
	"github.com/Resonate-Protocol/chime/pkg/input/controller"
	"go.uber.org/zap"
)

var (
	addr     = flag.String("addr", "", "Bridge address host:port (skip mDNS)")
	kind     = flag.String("event", "tap", "Event: tap, press, release, axis, connect, disconnect")
	which    = flag.Uint("which", 0, "Controller id")
	button   = flag.String("button", "a", "Button name for tap, press and release")
	axis     = flag.String("axis", "left_x", "Axis name for axis events")
	value    = flag.Float64("value", 0, "Axis value")
	timeout  = flag.Duration("timeout", 10*time.Second, "How long to search for a bridge")
	debugLog = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	logger, err := logging.New(logging.Options{Debug: *debugLog, Console: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Errorw("padsend failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *zap.SugaredLogger) error {
	events, err := buildEvents(*kind, uint32(*which), *button, *axis, float32(*value))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	url, err := resolveBridge(ctx, logger)
	if err != nil {
		return err
	}

	client, err := bridge.Dial(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	for _, ev := range events {
		if err := client.Send(ev); err != nil {
			return err
		}
		logger.Infow("Sent controller event", "type", controller.TypeOf(ev), "which", ev.ID())
	}
	return nil
}

// resolveBridge returns the websocket URL from -addr or the first bridge found
func resolveBridge(ctx context.Context, logger *zap.SugaredLogger) (string, error) {
	if *addr != "" {
		return bridge.URL(*addr), nil
	}

	logger.Infow("Searching for a bridge", "service", discovery.ServiceType)
	disc := discovery.NewManager(discovery.Config{Logger: logger})
	disc.Browse()
	defer disc.Stop()

	select {
	case found := <-disc.Bridges():
		return fmt.Sprintf("ws://%s%s", found.Addr(), found.Path), nil
	case <-ctx.Done():
		return "", fmt.Errorf("no bridge found: %w", ctx.Err())
	}
}

// buildEvents turns flag values into the events to send
func buildEvents(kind string, which uint32, buttonName, axisName string, v float32) ([]controller.Event, error) {
	switch kind {
	case "tap", "press", "release":
		b, err := controller.ParseButton(buttonName)
		if err != nil {
			return nil, err
		}
		switch kind {
		case "press":
			return []controller.Event{controller.ButtonPressed{Which: which, Button: b}}, nil
		case "release":
			return []controller.Event{controller.ButtonReleased{Which: which, Button: b}}, nil
		}
		return []controller.Event{
			controller.ButtonPressed{Which: which, Button: b},
			controller.ButtonReleased{Which: which, Button: b},
		}, nil
	case "axis":
		a, err := controller.ParseAxis(axisName)
		if err != nil {
			return nil, err
		}
		if v < -1 || v > 1 {
			return nil, fmt.Errorf("axis value %v outside [-1, 1]", v)
		}
		return []controller.Event{controller.AxisMoved{Which: which, Axis: a, Value: v}}, nil
	case "connect":
		return []controller.Event{controller.Connected{Which: which}}, nil
	case "disconnect":
		return []controller.Event{controller.Disconnected{Which: which}}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", kind)
	}
}
