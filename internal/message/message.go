// Package message defines the request and response types shared by every
// transport and the dispatcher.
package message

import (
	"encoding/base64"
	"time"
)

// ResponseMode controls what the caller wants back.
type ResponseMode string

const (
	// ResponseModeText returns the status line only. It is the default.
	ResponseModeText ResponseMode = "text"

	// ResponseModeTextAudio also returns the status line spoken by the TTS
	// backend, when one is configured.
	ResponseModeTextAudio ResponseMode = "text+audio"
)

// Request is one spoken command arriving from any transport.
type Request struct {
	// ID is a unique identifier (UUID). The dispatcher assigns one if empty.
	ID string `json:"id,omitempty"`

	// Source identifies the sender (e.g., "http", "mqtt:kitchen-tablet").
	Source string `json:"source,omitempty"`

	// Command is the free-form text produced by speech-to-text.
	Command string `json:"command"`

	// ResponseMode selects text or text+audio output.
	ResponseMode ResponseMode `json:"response_mode,omitempty"`

	// ReplyTo is an optional transport-specific reply address (an MQTT topic).
	ReplyTo string `json:"reply_to,omitempty"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`
}

// WantsAudio reports whether the caller asked for a spoken reply.
func (r *Request) WantsAudio() bool {
	return r.ResponseMode == ResponseModeTextAudio
}

// Response is the outcome of one request.
type Response struct {
	// RequestID echoes Request.ID.
	RequestID string `json:"request_id,omitempty"`

	// Normalized is the classifier's grammar line, empty if classification
	// never happened.
	Normalized string `json:"normalized,omitempty"`

	// Kind tags the outcome ("ok", "precondition", "error", ...).
	Kind string `json:"kind"`

	// Response is the rendered status line shown to the user.
	Response string `json:"response"`

	// ResponseAudio is the spoken status line, base64 encoded.
	ResponseAudio string `json:"response_audio,omitempty"`

	// ResponseContentType is the MIME type of ResponseAudio.
	ResponseContentType string `json:"response_content_type,omitempty"`
}

// SetResponseAudioBytes base64-encodes raw audio into ResponseAudio.
func (r *Response) SetResponseAudioBytes(audio []byte) {
	if len(audio) > 0 {
		r.ResponseAudio = base64.StdEncoding.EncodeToString(audio)
	}
}
