// Package bridge consumes the Wyoming event stream and translates pipeline
// events into mode requests on the state machine, reconnecting with
// exponential backoff when the connection drops.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MorfeoMatrixx/wyoming-satellite/internal/state"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/types"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/util"
	"github.com/MorfeoMatrixx/wyoming-satellite/internal/wyoming"
)

// ConnectionState describes the bridge's view of the event source.
type ConnectionState string

// Bridge connection states.
const (
	StateConnected    ConnectionState = "connected"
	StateDisconnected ConnectionState = "disconnected"
	StateReconnecting ConnectionState = "reconnecting"
)

// Status is a point-in-time snapshot of the bridge's connection.
type Status struct {
	State        ConnectionState `json:"state"`
	ConnectionID string          `json:"connection_id,omitempty"`
	Attempts     int             `json:"attempts,omitempty"`
	LastError    string          `json:"last_error,omitempty"`
	ConnectedAt  time.Time       `json:"connected_at,omitzero"`
}

// Notifier is informed about event-source connectivity changes. Methods
// must not block; the bridge calls them inline on its own goroutine.
type Notifier interface {
	SourceLost(err error)
	SourceRecovered(downtime time.Duration)
}

// request pairs a mode with its restart flag.
type request struct {
	mode    types.Mode
	restart bool
}

// eventModes is the exhaustive mapping from pipeline event types to mode
// requests. Event types not listed here are ignored, so new upstream kinds
// cannot crash the bridge.
var eventModes = map[string]request{
	wyoming.TypeDetection:        {types.ModeWakeDetected, true},
	wyoming.TypeVoiceStarted:     {types.ModeListening, true},
	wyoming.TypeStreamingStarted: {types.ModeListening, true},
	wyoming.TypeVoiceStopped:     {types.ModeThinking, true},
	wyoming.TypeTranscribe:       {types.ModeThinking, true},
	wyoming.TypeSynthesize:       {types.ModeSpeaking, true},
	wyoming.TypeAudioStart:       {types.ModeSpeaking, true},
	wyoming.TypePlayed:           {types.ModeIdle, false},
	wyoming.TypeStreamingStopped: {types.ModeIdle, false},
	wyoming.TypeError:            {types.ModeError, true},
}

// Bridge feeds pipeline events into the mode state machine.
type Bridge struct {
	source   wyoming.Source
	machine  *state.Machine
	backoff  *util.Backoff
	notifier Notifier // may be nil

	mu     sync.Mutex
	status Status
}

// New returns a Bridge reading from source. notifier may be nil.
func New(source wyoming.Source, machine *state.Machine, initialDelay, maxDelay time.Duration, notifier Notifier) *Bridge {
	return &Bridge{
		source:   source,
		machine:  machine,
		backoff:  util.NewBackoff(initialDelay, maxDelay),
		notifier: notifier,
		status:   Status{State: StateDisconnected},
	}
}

// Status returns a snapshot of the bridge's connection state.
func (b *Bridge) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Run consumes events until ctx is cancelled, reconnecting indefinitely on
// connection loss. While disconnected the machine is held in idle: a dark
// ring beats a stale animation when the pipeline is unreachable.
func (b *Bridge) Run(ctx context.Context) {
	var downSince time.Time

	for {
		conn, err := b.source.Dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			delay := b.backoff.Next()
			b.setReconnecting(err)
			slog.Warn("event source unreachable", "error", err, "retry_in", delay)
			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return
			}
		}

		id := uuid.NewString()
		b.backoff.Reset()
		b.setConnected(id)
		slog.Info("event source connected", "connection_id", id)
		if b.notifier != nil && !downSince.IsZero() {
			b.notifier.SourceRecovered(time.Since(downSince))
		}
		downSince = time.Time{}

		err = b.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}

		slog.Warn("event source disconnected", "connection_id", id, "error", err)
		downSince = time.Now()
		if b.notifier != nil {
			b.notifier.SourceLost(err)
		}
		b.machine.Request(types.ModeIdle, false)
		b.setDisconnected(err)
	}
}

// consume reads events until the connection fails or ctx is cancelled.
// Cancellation closes the connection to unblock the pending read.
func (b *Bridge) consume(ctx context.Context, conn wyoming.Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		ev, err := conn.Next()
		if err != nil {
			return err
		}
		b.handle(ev)
	}
}

// handle maps one event onto a mode request.
func (b *Bridge) handle(ev wyoming.Event) {
	req, ok := eventModes[ev.Type]
	if !ok {
		slog.Debug("ignoring unrecognized event", "type", ev.Type)
		return
	}
	slog.Debug("pipeline event", "type", ev.Type, "mode", req.mode)
	b.machine.Request(req.mode, req.restart)
}

func (b *Bridge) setConnected(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = Status{State: StateConnected, ConnectionID: id, ConnectedAt: time.Now()}
}

func (b *Bridge) setDisconnected(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = Status{State: StateDisconnected, LastError: errString(err)}
}

func (b *Bridge) setReconnecting(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status.State = StateReconnecting
	b.status.ConnectionID = ""
	b.status.Attempts++
	b.status.LastError = errString(err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
