// Package ledring provides the color model and fixed-size pixel frame
// buffer for an addressable RGB LED ring.
package ledring

import "math"

// Color is an immutable 8-bit RGB value.
type Color struct {
	R, G, B uint8
}

// Off is the all-channels-dark color.
var Off = Color{}

// Lerp linearly interpolates between a and b per channel. t is clamped
// to [0, 1], so t <= 0 yields a and t >= 1 yields b.
func Lerp(a, b Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

// Scale multiplies each channel by brightness, rounding to the nearest
// integer. Brightness is clamped to [0, 1].
func Scale(c Color, brightness float64) Color {
	brightness = clamp01(brightness)
	return Color{
		R: clampChannel(float64(c.R) * brightness),
		G: clampChannel(float64(c.G) * brightness),
		B: clampChannel(float64(c.B) * brightness),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	return clampChannel(float64(a) + (float64(b)-float64(a))*t)
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
