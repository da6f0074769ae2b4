//go:build !linux

package driver

import "fmt"

func openWS281x(Config) (Strip, error) {
	return nil, fmt.Errorf("ws281x driver is only available on linux; use the null driver for development")
}
