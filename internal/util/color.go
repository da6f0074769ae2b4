package util

import (
	"fmt"
	"strings"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/ledring"
)

// ParseHexColor parses a hex color string (#RRGGBB or 0xRRGGBB) into a
// ring color.
func ParseHexColor(hex string) (ledring.Color, error) {
	hex = strings.TrimSpace(hex)
	hex = strings.TrimPrefix(hex, "#")
	hex = strings.TrimPrefix(hex, "0x")
	if len(hex) != 6 {
		return ledring.Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return ledring.Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}

	return ledring.Color{R: uint8(r), G: uint8(g), B: uint8(b)}, nil //nolint:gosec // Values are validated to be 0-255 by hex parsing
}
