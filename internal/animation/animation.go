// Package animation maps elapsed time to LED ring frames for each
// satellite mode. All renderers are deterministic: the same elapsed time
// and pixel count always produce the same frame.
package animation

import (
	"math"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// WakeDuration is how long the wake flash runs before the state machine
// advances to listening.
const WakeDuration = 500 * time.Millisecond

// Pattern timing. Idle breathes slowly at low brightness, speaking
// breathes noticeably faster, and the two spinners run at different
// speeds in opposite directions so they read differently at a glance.
const (
	idlePeriod   = 4 * time.Second
	speakPeriod  = 1 * time.Second
	listenPeriod = 1200 * time.Millisecond
	thinkPeriod  = 1800 * time.Millisecond
	errorHalf    = 250 * time.Millisecond

	idlePeak  = 0.3
	arcLength = 3
)

// Renderer produces the frame for one mode at a given elapsed time since
// the mode became current.
type Renderer func(elapsed time.Duration, pixels int) ledring.Frame

// Palette holds the colors used by the animations.
type Palette struct {
	Primary   ledring.Color
	Secondary ledring.Color
	Warning   ledring.Color
}

// Set holds one renderer per mode.
type Set struct {
	palette   Palette
	renderers map[types.Mode]Renderer
}

// NewSet returns the renderers for all modes using the given palette.
func NewSet(p Palette) *Set {
	s := &Set{palette: p}
	s.renderers = map[types.Mode]Renderer{
		types.ModeIdle:         s.idle,
		types.ModeWakeDetected: s.wake,
		types.ModeListening:    s.listening,
		types.ModeThinking:     s.thinking,
		types.ModeSpeaking:     s.speaking,
		types.ModeError:        s.errorBlink,
	}
	return s
}

// ForMode returns the renderer for m. Stopped and unknown modes render an
// all-off frame.
func (s *Set) ForMode(m types.Mode) Renderer {
	if r, ok := s.renderers[m]; ok {
		return r
	}
	return Blank
}

// Blank renders an all-off frame.
func Blank(_ time.Duration, pixels int) ledring.Frame {
	return ledring.NewFrame(pixels)
}

// idle is a slow low-brightness breathing pulse of the primary color.
func (s *Set) idle(elapsed time.Duration, pixels int) ledring.Frame {
	level := breathe(elapsed, idlePeriod) * idlePeak
	return ledring.Fill(pixels, ledring.Scale(s.palette.Primary, level))
}

// speaking is a faster full-brightness breathing pulse of the primary color.
func (s *Set) speaking(elapsed time.Duration, pixels int) ledring.Frame {
	level := breathe(elapsed, speakPeriod)
	return ledring.Fill(pixels, ledring.Scale(s.palette.Primary, level))
}

// wake is a one-shot: a full-brightness primary flash decaying into the
// first frame of the listening pattern over WakeDuration.
func (s *Set) wake(elapsed time.Duration, pixels int) ledring.Frame {
	if elapsed >= WakeDuration {
		return s.listening(0, pixels)
	}
	flash := ledring.Fill(pixels, s.palette.Primary)
	target := s.listening(0, pixels)
	t := float64(elapsed) / float64(WakeDuration)
	frame, err := ledring.Blend(flash, target, t)
	if err != nil {
		// lengths are equal by construction
		return flash
	}
	return frame
}

// listening is a short arc of the secondary color with a fading tail,
// rotating clockwise at one revolution per listenPeriod.
func (s *Set) listening(elapsed time.Duration, pixels int) ledring.Frame {
	frame := ledring.NewFrame(pixels)
	if pixels == 0 {
		return frame
	}
	head := spinnerIndex(elapsed, listenPeriod, pixels)
	for i := 0; i < arcLength && i < pixels; i++ {
		fade := float64(arcLength-i) / float64(arcLength)
		frame[wrap(head-i, pixels)] = ledring.Scale(s.palette.Secondary, fade)
	}
	return frame
}

// thinking is a half-ring comet of the secondary color rotating
// counter-clockwise, dimmed to half brightness.
func (s *Set) thinking(elapsed time.Duration, pixels int) ledring.Frame {
	frame := ledring.NewFrame(pixels)
	if pixels == 0 {
		return frame
	}
	head := pixels - 1 - spinnerIndex(elapsed, thinkPeriod, pixels)
	halfRing := float64(pixels) / 2
	for i := range frame {
		distance := float64(wrap(i-head, pixels))
		fade := 1 - distance/halfRing
		if fade < 0 {
			fade = 0
		}
		frame[i] = ledring.Scale(s.palette.Secondary, fade*0.5)
	}
	return frame
}

// errorBlink alternates the whole ring between the warning color and off.
func (s *Set) errorBlink(elapsed time.Duration, pixels int) ledring.Frame {
	if (elapsed/errorHalf)%2 == 0 {
		return ledring.Fill(pixels, s.palette.Warning)
	}
	return ledring.NewFrame(pixels)
}

// breathe maps elapsed time onto a 0..1 cosine curve with the given period,
// starting dark so restarts do not flash.
func breathe(elapsed, period time.Duration) float64 {
	phase := float64(elapsed%period) / float64(period)
	return 0.5 - 0.5*math.Cos(2*math.Pi*phase)
}

// spinnerIndex converts elapsed time into a pixel index for a constant
// angular speed of one revolution per period.
func spinnerIndex(elapsed, period time.Duration, pixels int) int {
	return int((elapsed%period)*time.Duration(pixels)/period) % pixels
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
