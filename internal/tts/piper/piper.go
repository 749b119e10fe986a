// Package piper speaks results through a Piper server using the Wyoming
// protocol (the linuxserver/piper container listens on TCP 10200).
//
// Each Wyoming event is framed as:
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
package piper

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/tts"
)

const (
	defaultVoice   = "en_US-lessac-medium"
	defaultTimeout = 30 * time.Second
)

// Synthesizer implements tts.Synthesizer against one Piper endpoint.
type Synthesizer struct {
	endpoint string // host:port
	voice    string
	dialer   net.Dialer
}

// New creates a Piper synthesizer from config.
func New(cfg config.PiperConfig) *Synthesizer {
	ep := strings.TrimPrefix(cfg.Endpoint, "tcp://")
	voice := cfg.Voice
	if voice == "" {
		voice = defaultVoice
	}
	return &Synthesizer{
		endpoint: ep,
		voice:    voice,
		dialer:   net.Dialer{Timeout: 10 * time.Second},
	}
}

// Synthesize sends one synthesize event and collects the audio chunks until
// audio-stop, returning them as a WAV file.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	text = tts.Speakable(text)
	if text == "" {
		return nil, errors.New("nothing to synthesize")
	}

	conn, err := s.dialer.DialContext(ctx, "tcp", s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to piper: %w", err)
	}
	defer conn.Close()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultTimeout)
	}
	_ = conn.SetDeadline(deadline)

	slog.Debug("piper synthesize", "endpoint", s.endpoint, "voice", s.voice, "text_length", len(text))

	req := event{Type: "synthesize", Data: map[string]any{
		"text":  text,
		"voice": map[string]any{"name": s.voice},
	}}
	if err := writeEvent(conn, req, nil); err != nil {
		return nil, fmt.Errorf("sending synthesize event: %w", err)
	}

	format := pcmFormat{rate: 22050, width: 2, channels: 1}
	var pcm bytes.Buffer
	r := bufio.NewReader(conn)
	for {
		evt, payload, err := readEvent(r)
		if err != nil {
			return nil, fmt.Errorf("reading piper event: %w", err)
		}

		switch evt.Type {
		case "audio-start":
			format.update(evt.Data)
		case "audio-chunk":
			pcm.Write(payload)
		case "audio-stop":
			slog.Debug("piper audio complete", "pcm_bytes", pcm.Len(), "rate", format.rate)
			return &tts.Audio{
				Data:        format.wav(pcm.Bytes()),
				ContentType: "audio/wav",
				SampleRate:  format.rate,
			}, nil
		case "error":
			msg, _ := evt.Data["text"].(string)
			return nil, fmt.Errorf("piper error: %s", msg)
		}
	}
}

// Close is a no-op; connections are per request.
func (s *Synthesizer) Close() error { return nil }

type event struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func writeEvent(w io.Writer, evt event, payload []byte) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshalling event: %w", err)
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%d %d\n", len(body), len(payload))
	buf.Write(body)
	buf.WriteByte('\n')
	buf.Write(payload)
	_, err = w.Write(buf.Bytes())
	return err
}

func readEvent(r *bufio.Reader) (event, []byte, error) {
	var evt event

	header, err := r.ReadString('\n')
	if err != nil {
		return evt, nil, fmt.Errorf("reading header: %w", err)
	}
	lens := strings.Fields(header)
	if len(lens) != 2 {
		return evt, nil, fmt.Errorf("invalid wyoming header: %q", header)
	}
	jsonLen, err := strconv.Atoi(lens[0])
	if err != nil {
		return evt, nil, fmt.Errorf("parsing json length: %w", err)
	}
	payloadLen, err := strconv.Atoi(lens[1])
	if err != nil {
		return evt, nil, fmt.Errorf("parsing payload length: %w", err)
	}

	body := make([]byte, jsonLen+1) // trailing newline
	if _, err := io.ReadFull(r, body); err != nil {
		return evt, nil, fmt.Errorf("reading json: %w", err)
	}
	if err := json.Unmarshal(body[:jsonLen], &evt); err != nil {
		return evt, nil, fmt.Errorf("unmarshalling event: %w", err)
	}

	payload := make([]byte, payloadLen)
	if _, err := io.ReadFull(r, payload); err != nil {
		return evt, nil, fmt.Errorf("reading payload: %w", err)
	}
	return evt, payload, nil
}

type pcmFormat struct {
	rate, width, channels int
}

func (f *pcmFormat) update(data map[string]any) {
	if v, ok := data["rate"].(float64); ok {
		f.rate = int(v)
	}
	if v, ok := data["width"].(float64); ok {
		f.width = int(v)
	}
	if v, ok := data["channels"].(float64); ok {
		f.channels = int(v)
	}
}

// wavHeader is the canonical 44-byte PCM WAV header.
type wavHeader struct {
	RIFF          [4]byte
	FileLen       uint32
	WAVE          [4]byte
	Fmt           [4]byte
	FmtLen        uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataLen       uint32
}

func (f pcmFormat) wav(pcm []byte) []byte {
	h := wavHeader{
		RIFF:          [4]byte{'R', 'I', 'F', 'F'},
		FileLen:       uint32(36 + len(pcm)),
		WAVE:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtLen:        16,
		AudioFormat:   1,
		Channels:      uint16(f.channels),
		SampleRate:    uint32(f.rate),
		ByteRate:      uint32(f.rate * f.channels * f.width),
		BlockAlign:    uint16(f.channels * f.width),
		BitsPerSample: uint16(f.width * 8),
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataLen:       uint32(len(pcm)),
	}
	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	_ = binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(pcm)
	return buf.Bytes()
}
