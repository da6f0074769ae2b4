// Package driver abstracts the hardware pixel bus that frames are pushed
// to. Only the render loop ever talks to a Strip.
package driver

import "github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"

// Strip pushes whole frames to an addressable LED strip. A frame handed to
// Push is owned by the driver for the duration of the call and is not
// mutated by the caller afterwards.
type Strip interface {
	Push(frame ledring.Frame, brightness float64) error
	Close() error
}

// Config selects and configures the strip implementation.
type Config struct {
	Driver     string // "ws281x" or "null"
	GPIOPin    int
	PixelCount int
}

// Null discards every frame and never fails. Useful off-device and in
// tests.
type Null struct{}

// Push implements Strip.
func (Null) Push(ledring.Frame, float64) error { return nil }

// Close implements Strip.
func (Null) Close() error { return nil }
