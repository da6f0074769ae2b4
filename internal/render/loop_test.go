package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/animation"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/state"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// recordingStrip captures every pushed frame and can be made to fail.
type recordingStrip struct {
	mu      sync.Mutex
	frames  []ledring.Frame
	failFor int
	closed  bool
}

func (s *recordingStrip) Push(frame ledring.Frame, brightness float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, frame)
	if s.failFor > 0 {
		s.failFor--
		return errors.New("device busy")
	}
	return nil
}

func (s *recordingStrip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *recordingStrip) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *recordingStrip) last() ledring.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func testSet() *animation.Set {
	return animation.NewSet(animation.Palette{
		Primary:   ledring.Color{R: 0, G: 128, B: 255},
		Secondary: ledring.Color{R: 0, G: 122, B: 55},
		Warning:   ledring.Color{R: 255},
	})
}

func TestLoopPushesFrames(t *testing.T) {
	strip := &recordingStrip{}
	machine := state.New()
	loop := New(strip, machine, testSet(), 12, 0.4, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	deadline := time.Now().Add(time.Second)
	for strip.count() < 5 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	if strip.count() < 5 {
		t.Fatalf("pushed %d frames, want at least 5", strip.count())
	}
	if got := len(strip.last()); got != 12 {
		t.Errorf("frame length = %d, want 12", got)
	}
}

func TestLoopSurvivesDeviceErrors(t *testing.T) {
	strip := &recordingStrip{failFor: 3}
	machine := state.New()
	loop := New(strip, machine, testSet(), 12, 0.4, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	deadline := time.Now().Add(time.Second)
	for strip.count() < 10 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if strip.count() < 10 {
		t.Errorf("pushed %d frames, want at least 10 despite device errors", strip.count())
	}
}

func TestLoopStopsOnStoppedModeWithBlankFrame(t *testing.T) {
	strip := &recordingStrip{}
	machine := state.New()
	loop := New(strip, machine, testSet(), 12, 0.4, time.Millisecond)

	done := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for strip.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	machine.Stop()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after the machine stopped")
	}

	final := strip.last()
	if len(final) != 12 {
		t.Fatalf("final frame length = %d, want 12", len(final))
	}
	for i, c := range final {
		if c != ledring.Off {
			t.Errorf("final frame pixel %d = %v, want off", i, c)
		}
	}
}

func TestLoopStopsOnContextWithBlankFrame(t *testing.T) {
	strip := &recordingStrip{}
	machine := state.New()
	machine.Request(types.ModeError, true)
	loop := New(strip, machine, testSet(), 12, 1.0, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for strip.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after cancellation")
	}

	for i, c := range strip.last() {
		if c != ledring.Off {
			t.Errorf("final frame pixel %d = %v, want off", i, c)
			break
		}
	}
}
