//go:build linux

package driver

import (
	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/util"
)

// ws281xStrip drives a WS2812 ring through the rpi-ws281x DMA engine.
type ws281xStrip struct {
	dev *ws2811.WS2811
}

func openWS281x(cfg Config) (Strip, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = cfg.GPIOPin
	opt.Channels[0].LedCount = cfg.PixelCount
	// Brightness is applied in software per frame so the device always runs
	// at full range.
	opt.Channels[0].Brightness = 255

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, util.WrapError("create ws281x device", err)
	}
	if err := dev.Init(); err != nil {
		return nil, util.WrapError("initialize ws281x device", err)
	}
	return &ws281xStrip{dev: dev}, nil
}

// Push implements Strip.
func (s *ws281xStrip) Push(frame ledring.Frame, brightness float64) error {
	leds := s.dev.Leds(0)
	for i, c := range frame.Scale(brightness) {
		if i >= len(leds) {
			break
		}
		leds[i] = uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	}
	if err := s.dev.Render(); err != nil {
		return util.WrapError("render frame", err)
	}
	return nil
}

// Close implements Strip. The render loop pushes a blank frame before the
// strip is closed, so Fini only has to release the DMA channel.
func (s *ws281xStrip) Close() error {
	s.dev.Fini()
	return nil
}
