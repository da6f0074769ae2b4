// Package satellite wires the event bridge and the render loop into one
// running service sharing a single mode state machine.
package satellite

import (
	"context"
	"log/slog"
	"sync"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/bridge"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/driver"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/render"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/state"
)

// Service runs the two satellite activities for the lifetime of the
// process.
type Service struct {
	machine *state.Machine
	bridge  *bridge.Bridge
	loop    *render.Loop
	strip   driver.Strip
}

// New returns a Service over the shared machine.
func New(machine *state.Machine, b *bridge.Bridge, loop *render.Loop, strip driver.Strip) *Service {
	return &Service{machine: machine, bridge: b, loop: loop, strip: strip}
}

// Run starts the bridge and the render loop and blocks until ctx is
// cancelled and both have confirmed shutdown. The machine is forced into
// the terminal stopped mode so the render loop blanks the ring before the
// strip is released.
func (s *Service) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.bridge.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.loop.Run(ctx)
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	s.machine.Stop()
	wg.Wait()

	return s.strip.Close()
}
