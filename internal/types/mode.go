// Package types provides shared type definitions used across the satellite.
package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Mode is the user-facing operational state that selects which animation
// the ring shows. Exactly one mode is current at any instant.
type Mode int

// Satellite modes in pipeline order. ModeStopped is terminal and only
// entered at shutdown.
const (
	ModeIdle Mode = iota
	ModeWakeDetected
	ModeListening
	ModeThinking
	ModeSpeaking
	ModeError
	ModeStopped
)

var modeNames = [...]string{
	ModeIdle:         "idle",
	ModeWakeDetected: "wake_detected",
	ModeListening:    "listening",
	ModeThinking:     "thinking",
	ModeSpeaking:     "speaking",
	ModeError:        "error",
	ModeStopped:      "stopped",
}

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalJSON encodes the mode as its string name.
func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes a mode from its string name.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range modeNames {
		if n == name {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", name)
}

// ModeTransition records a mode becoming current.
type ModeTransition struct {
	Mode    Mode      `json:"mode"`
	Restart bool      `json:"restart,omitempty"`
	At      time.Time `json:"at"`
}
