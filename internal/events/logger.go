// Package events writes mode transitions to a JSON lines file so the
// pipeline's behavior can be inspected after the fact.
package events

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
)

// Transition is one logged mode change.
type Transition struct {
	Timestamp time.Time  `json:"ts"`
	Mode      types.Mode `json:"mode"`
	Restart   bool       `json:"restart,omitempty"`
}

// Logger appends transitions to a JSON lines file.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
}

// NewLogger creates a transition logger appending to filePath.
func NewLogger(filePath string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &Logger{file: file, encoder: json.NewEncoder(file)}, nil
}

// Log writes one transition.
func (l *Logger) Log(tr types.ModeTransition) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.encoder.Encode(Transition{
		Timestamp: tr.At,
		Mode:      tr.Mode,
		Restart:   tr.Restart,
	})
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

// ReadLast reads the last n transitions from the log file, newest first.
func ReadLast(filePath string, n int) ([]Transition, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []Transition{}, nil
		}
		return nil, err
	}
	defer file.Close() //nolint:errcheck // Read-only operation, close error not critical

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	start := 0
	if len(lines) > n {
		start = len(lines) - n
	}
	lines = lines[start:]

	transitions := make([]Transition, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		var tr Transition
		if err := json.Unmarshal([]byte(lines[i]), &tr); err != nil {
			continue // Skip malformed lines
		}
		transitions = append(transitions, tr)
	}

	return transitions, nil
}
