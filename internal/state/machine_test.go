package state

import (
	"sync"
	"testing"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/animation"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestMachine() (*Machine, *fakeClock) {
	clock := newFakeClock()
	m := &Machine{mode: types.ModeIdle, now: clock.Now}
	m.origin = clock.Now()
	return m, clock
}

func TestInitialMode(t *testing.T) {
	m, _ := newTestMachine()
	mode, elapsed := m.Current()
	if mode != types.ModeIdle {
		t.Errorf("initial mode = %s, want idle", mode)
	}
	if elapsed != 0 {
		t.Errorf("initial elapsed = %v, want 0", elapsed)
	}
}

func TestSameModeWithoutRestartKeepsOrigin(t *testing.T) {
	m, clock := newTestMachine()

	m.Request(types.ModeListening, false)
	clock.Advance(2 * time.Second)
	m.Request(types.ModeListening, false)

	mode, elapsed := m.Current()
	if mode != types.ModeListening {
		t.Fatalf("mode = %s, want listening", mode)
	}
	if elapsed != 2*time.Second {
		t.Errorf("elapsed = %v, want 2s (origin must not reset)", elapsed)
	}
}

func TestSameModeWithRestartResetsOrigin(t *testing.T) {
	m, clock := newTestMachine()

	m.Request(types.ModeListening, true)
	clock.Advance(2 * time.Second)
	m.Request(types.ModeListening, true)

	_, elapsed := m.Current()
	if elapsed != 0 {
		t.Errorf("elapsed = %v, want 0 after restart", elapsed)
	}
}

func TestWakeAutoAdvances(t *testing.T) {
	m, clock := newTestMachine()

	m.Request(types.ModeWakeDetected, true)

	clock.Advance(animation.WakeDuration - time.Millisecond)
	mode, _ := m.Current()
	if mode != types.ModeWakeDetected {
		t.Fatalf("mode before wake duration = %s, want wake_detected", mode)
	}

	clock.Advance(100 * time.Millisecond)
	mode, elapsed := m.Current()
	if mode != types.ModeListening {
		t.Fatalf("mode after wake duration = %s, want listening", mode)
	}
	// origin moved to the end of the flash, not to the read time
	want := 99 * time.Millisecond
	if elapsed != want {
		t.Errorf("elapsed = %v, want %v", elapsed, want)
	}
}

func TestWakeAdvanceNotifiesOnce(t *testing.T) {
	m, clock := newTestMachine()
	var transitions []types.ModeTransition
	m.SetNotify(func(tr types.ModeTransition) {
		transitions = append(transitions, tr)
	})

	m.Request(types.ModeWakeDetected, true)
	clock.Advance(animation.WakeDuration + time.Millisecond)
	m.Current()
	m.Current()

	var advances int
	for _, tr := range transitions {
		if tr.Mode == types.ModeListening {
			advances++
		}
	}
	if advances != 1 {
		t.Errorf("listening transitions = %d, want exactly 1", advances)
	}
}

func TestStoppedIsSticky(t *testing.T) {
	m, clock := newTestMachine()

	m.Stop()
	m.Request(types.ModeListening, true)
	m.Request(types.ModeWakeDetected, true)
	clock.Advance(time.Second)

	mode, _ := m.Current()
	if mode != types.ModeStopped {
		t.Errorf("mode after stop = %s, want stopped", mode)
	}
}

func TestConcurrentSnapshotNotTorn(t *testing.T) {
	m := New()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			m.Request(types.ModeListening, true)
			m.Request(types.ModeThinking, true)
		}
	}()

	for i := 0; i < 1000; i++ {
		mode, elapsed := m.Current()
		if elapsed < 0 {
			t.Fatalf("negative elapsed %v for mode %s", elapsed, mode)
		}
	}
	<-done
}
