// Package main runs the LED ring feedback service for a Wyoming voice
// satellite: it follows the pipeline's event stream and animates a ring of
// addressable LEDs to show what the assistant is doing.
//
// Usage:
//
//	wyoming-satellite-leds [-config path/to/config.json]
//
// If -config is not specified, the service looks for config.json in the same
// directory as the binary.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/animation"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/bridge"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/config"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/driver"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/events"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/notify"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/render"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/satellite"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/server"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/state"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/util"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/wyoming"
)

// bootCueDuration is how long the startup flash stays lit before the render
// loop takes over.
const bootCueDuration = 250 * time.Millisecond

func main() {
	configPath := flag.String("config", "", "Path to config file (default: config.json next to binary)")
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	if *showVersion {
		slog.Info("version info", "version", Version, "commit", Commit, "build_time", BuildTime)
		return
	}

	if *configPath == "" {
		execPath, err := os.Executable()
		if err != nil {
			slog.Error("failed to get executable path", "error", err)
			os.Exit(1)
		}
		*configPath = filepath.Join(filepath.Dir(execPath), "config.json")
	}

	slog.Info("using config file", "path", *configPath)

	cfg := config.New(*configPath)
	if err := cfg.Load(); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	strip, err := driver.Open(driver.Config{
		Driver:     cfg.LED.Driver,
		GPIOPin:    cfg.LED.GPIOPin,
		PixelCount: cfg.LED.PixelCount,
	})
	if err != nil {
		slog.Error("failed to open LED strip", "error", err, "driver", cfg.LED.Driver)
		os.Exit(1)
	}
	slog.Info("LED strip ready", "driver", cfg.LED.Driver, "pixels", cfg.LED.PixelCount)

	machine := state.New()

	// Wire the transition hook: structured log plus the optional JSONL file.
	var transitionLog *events.Logger
	if cfg.Log.TransitionsPath != "" {
		transitionLog, err = events.NewLogger(cfg.Log.TransitionsPath)
		if err != nil {
			slog.Error("failed to open transition log", "error", err, "path", cfg.Log.TransitionsPath)
			os.Exit(1)
		}
	}
	machine.SetNotify(func(tr types.ModeTransition) {
		slog.Info("mode change", "mode", tr.Mode, "restart", tr.Restart)
		if transitionLog != nil {
			if err := transitionLog.Log(tr); err != nil {
				slog.Warn("failed to log transition", "error", err)
			}
		}
	})

	anims := animation.NewSet(animation.Palette{
		Primary:   cfg.PrimaryColor(),
		Secondary: cfg.SecondaryColor(),
		Warning:   cfg.WarningColor(),
	})

	source, err := wyoming.NewSource(cfg.EventSource.URI, cfg.DialTimeout())
	if err != nil {
		slog.Error("invalid event source URI", "error", err, "uri", cfg.EventSource.URI)
		os.Exit(1)
	}

	var notifier bridge.Notifier
	if cfg.Notifications.WebhookURL != "" {
		notifier = notify.NewWebhook(cfg.Notifications.WebhookURL)
		slog.Info("webhook notifications enabled")
	}

	b := bridge.New(source, machine, cfg.ReconnectInitial(), cfg.ReconnectMax(), notifier)
	loop := render.New(strip, machine, anims, cfg.LED.PixelCount, cfg.Brightness(), cfg.TickInterval())
	svc := satellite.New(machine, b, loop, strip)

	versionChecker := NewVersionChecker()

	var statusSrv *http.Server
	if cfg.Status.Port > 0 {
		statusSrv = server.New(machine, b, versionChecker.Info, cfg.Log.TransitionsPath).Start(cfg.Status.Port)
	}

	bootCue(strip, cfg.LED.PixelCount, cfg.PrimaryColor(), cfg.Brightness())

	ctx, stop := signal.NotifyContext(context.Background(), util.ShutdownSignals()...)
	defer stop()

	if err := svc.Run(ctx); err != nil {
		slog.Error("service error", "error", err)
	}

	versionChecker.Stop()

	if statusSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := statusSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("status server shutdown error", "error", err)
		}
		cancel()
	}

	if transitionLog != nil {
		if err := transitionLog.Close(); err != nil {
			slog.Error("failed to close transition log", "error", err)
		}
	}

	slog.Info("shutdown complete")
}

// bootCue flashes the ring once so a headless install shows the service came
// up before any pipeline event arrives.
func bootCue(strip driver.Strip, pixels int, color ledring.Color, brightness float64) {
	frame := ledring.Fill(pixels, color)
	if err := strip.Push(frame, brightness); err != nil {
		slog.Warn("boot cue failed", "error", err)
		return
	}
	time.Sleep(bootCueDuration)
}
