// Package state tracks the current satellite mode. The machine is the
// single point of contact between the event bridge, which writes mode
// requests, and the render loop, which reads snapshots every tick.
package state

import (
	"sync"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/animation"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// Machine owns the current mode and the time it became current.
// It is safe for concurrent use.
type Machine struct {
	mu     sync.Mutex
	mode   types.Mode
	origin time.Time
	now    func() time.Time
	notify func(types.ModeTransition)
}

// New returns a Machine starting in the idle mode.
func New() *Machine {
	m := &Machine{mode: types.ModeIdle, now: time.Now}
	m.origin = m.now()
	return m
}

// SetNotify registers an observer invoked after every transition,
// including the automatic wake advance. It must be set before the machine
// is shared between goroutines. The observer runs outside the machine's
// lock and must not call back into it.
func (m *Machine) SetNotify(fn func(types.ModeTransition)) {
	m.notify = fn
}

// Request asks for a transition to mode. Requesting the current mode
// without restart keeps the existing time origin, so repeated events do
// not restart a running animation. Once stopped, all further requests are
// ignored.
func (m *Machine) Request(mode types.Mode, restart bool) {
	m.mu.Lock()
	if m.mode == types.ModeStopped {
		m.mu.Unlock()
		return
	}
	if mode == m.mode && !restart {
		m.mu.Unlock()
		return
	}

	now := m.now()
	if now.Before(m.origin) {
		// origins never move backwards
		now = m.origin
	}
	m.mode = mode
	m.origin = now
	notify := m.notify
	m.mu.Unlock()

	if notify != nil {
		notify(types.ModeTransition{Mode: mode, Restart: restart, At: now})
	}
}

// Stop forces the terminal stopped mode.
func (m *Machine) Stop() {
	m.Request(types.ModeStopped, true)
}

// Current returns a consistent snapshot of the mode and the time elapsed
// since it became current. The wake flash is a one-shot: once its duration
// has passed, the snapshot advances to listening before being returned,
// with the new origin placed exactly at the end of the flash so elapsed
// time stays continuous.
func (m *Machine) Current() (types.Mode, time.Duration) {
	m.mu.Lock()
	elapsed := m.now().Sub(m.origin)
	if elapsed < 0 {
		elapsed = 0
	}

	var advanced *types.ModeTransition
	if m.mode == types.ModeWakeDetected && elapsed >= animation.WakeDuration {
		m.mode = types.ModeListening
		m.origin = m.origin.Add(animation.WakeDuration)
		elapsed -= animation.WakeDuration
		advanced = &types.ModeTransition{Mode: m.mode, Restart: true, At: m.origin}
	}
	mode := m.mode
	notify := m.notify
	m.mu.Unlock()

	if advanced != nil && notify != nil {
		notify(*advanced)
	}
	return mode, elapsed
}
