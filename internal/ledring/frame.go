package ledring

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch reports an attempt to blend frames of different lengths.
// The pixel count is fixed at startup, so hitting this is a programming
// error rather than a recoverable condition.
var ErrShapeMismatch = errors.New("frame shape mismatch")

// Frame is one full snapshot of colors for every pixel in the ring.
type Frame []Color

// NewFrame returns an all-off frame of n pixels.
func NewFrame(n int) Frame {
	return make(Frame, n)
}

// Fill returns a frame of n pixels all set to c.
func Fill(n int, c Color) Frame {
	f := make(Frame, n)
	for i := range f {
		f[i] = c
	}
	return f
}

// Rotate returns a copy of f cyclically shifted by offset positions.
// Positive offsets rotate toward higher indices (clockwise on the ring).
// The offset is taken modulo the frame length; negative offsets rotate
// the other way.
func (f Frame) Rotate(offset int) Frame {
	n := len(f)
	if n == 0 {
		return Frame{}
	}
	offset = ((offset % n) + n) % n
	out := make(Frame, n)
	for i, c := range f {
		out[(i+offset)%n] = c
	}
	return out
}

// Scale returns a copy of f with every pixel scaled by brightness.
func (f Frame) Scale(brightness float64) Frame {
	out := make(Frame, len(f))
	for i, c := range f {
		out[i] = Scale(c, brightness)
	}
	return out
}

// Blend interpolates per pixel from base toward overlay by t.
func Blend(base, overlay Frame, t float64) (Frame, error) {
	if len(base) != len(overlay) {
		return nil, fmt.Errorf("blend frames of %d and %d pixels: %w", len(base), len(overlay), ErrShapeMismatch)
	}
	out := make(Frame, len(base))
	for i := range base {
		out[i] = Lerp(base[i], overlay[i], t)
	}
	return out, nil
}
