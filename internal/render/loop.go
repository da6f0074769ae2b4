// Package render drives the LED strip: once per tick it snapshots the
// current mode, computes that mode's frame, and pushes it to the hardware.
package render

import (
	"context"
	"log/slog"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/animation"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/driver"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/state"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// Loop renders one frame per tick. Timing comes from a ticker anchored to
// a fixed schedule, so a slow tick does not shift the animation clock.
type Loop struct {
	strip      driver.Strip
	machine    *state.Machine
	anims      *animation.Set
	pixels     int
	brightness float64
	interval   time.Duration
}

// New returns a render loop for the given strip and machine.
func New(strip driver.Strip, machine *state.Machine, anims *animation.Set, pixels int, brightness float64, interval time.Duration) *Loop {
	return &Loop{
		strip:      strip,
		machine:    machine,
		anims:      anims,
		pixels:     pixels,
		brightness: brightness,
		interval:   interval,
	}
}

// Run renders frames until the machine reports stopped or ctx is
// cancelled. A failed push is logged and the loop keeps ticking; the ring
// is blanked before returning.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.blank()
			return
		case <-ticker.C:
			mode, elapsed := l.machine.Current()
			if mode == types.ModeStopped {
				l.blank()
				return
			}
			frame := l.anims.ForMode(mode)(elapsed, l.pixels)
			if err := l.strip.Push(frame, l.brightness); err != nil {
				slog.Warn("frame push failed", "mode", mode, "error", err)
			}
		}
	}
}

// blank pushes one final all-off frame, best effort.
func (l *Loop) blank() {
	if err := l.strip.Push(ledring.NewFrame(l.pixels), 0); err != nil {
		slog.Warn("final blank frame push failed", "error", err)
	}
}
