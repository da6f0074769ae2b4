// Package wyoming implements a minimal read-only client for the Wyoming
// voice-pipeline event stream. Only the event type is interpreted by this
// service; payloads (audio chunks and the like) are consumed and discarded.
package wyoming

import "encoding/json"

// Event is one record from the event stream.
type Event struct {
	Type          string          `json:"type"`
	Data          json.RawMessage `json:"data,omitempty"`
	DataLength    int             `json:"data_length,omitempty"`
	PayloadLength int             `json:"payload_length,omitempty"`
}

// Event types emitted by the pipeline that drive the ring.
const (
	TypeDetection        = "detection"
	TypeVoiceStarted     = "voice-started"
	TypeVoiceStopped     = "voice-stopped"
	TypeTranscribe       = "transcribe"
	TypeStreamingStarted = "streaming-started"
	TypeStreamingStopped = "streaming-stopped"
	TypeSynthesize       = "synthesize"
	TypeAudioStart       = "audio-start"
	TypePlayed           = "played"
	TypeError            = "error"
)
