// Package tts defines the interface for speaking command results back to
// the user.
//
// When a request asks for audio, the dispatcher synthesizes the rendered
// status line so a voice client can play it instead of showing text.
package tts

import (
	"context"
	"strings"
	"unicode"
)

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Synthesize generates a complete audio clip for text.
	Synthesize(ctx context.Context, text string) (*Audio, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// Audio is one synthesized clip.
type Audio struct {
	// Data is the encoded clip (a WAV file for Piper).
	Data []byte

	// ContentType is the MIME type of Data (e.g., "audio/wav").
	ContentType string

	// SampleRate is the sample rate in Hz (e.g., 22050).
	SampleRate int
}

// Speakable strips the leading status symbols (emoji, warning signs) from a
// rendered result so the voice does not try to pronounce them.
func Speakable(text string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
}
