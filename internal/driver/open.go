package driver

import "fmt"

// Open returns the strip selected by cfg.Driver.
func Open(cfg Config) (Strip, error) {
	switch cfg.Driver {
	case "ws281x":
		return openWS281x(cfg)
	case "null":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unknown led driver %q", cfg.Driver)
	}
}
