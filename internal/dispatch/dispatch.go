// Package dispatch runs the request pipeline shared by every transport:
// classify the free text, execute the normalized line, render the result and
// optionally speak it.
//
// Handle is total. Whatever goes wrong, the caller gets a Response with a
// user-facing status line.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nadzzz/deskpilot/internal/classify"
	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/message"
	"github.com/nadzzz/deskpilot/internal/tts"
)

// Dispatcher is the request pipeline.
type Dispatcher struct {
	classifier  classify.Classifier
	interpreter *command.Interpreter
	synthesizer tts.Synthesizer // nil if TTS is disabled
}

// New creates a Dispatcher. synthesizer may be nil.
func New(classifier classify.Classifier, interpreter *command.Interpreter, synthesizer tts.Synthesizer) *Dispatcher {
	return &Dispatcher{
		classifier:  classifier,
		interpreter: interpreter,
		synthesizer: synthesizer,
	}
}

// Handle processes one request. It is passed as the transport.Handler to
// each transport.
func (d *Dispatcher) Handle(ctx context.Context, req *message.Request) (resp *message.Response) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	logger := slog.With("request_id", req.ID, "source", req.Source)

	resp = &message.Response{RequestID: req.ID}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("dispatch panicked", "panic", r)
			d.finish(resp, command.Result{Kind: command.KindError, Err: fmt.Errorf("%v", r)})
		}
	}()

	text := strings.TrimSpace(req.Command)
	if text == "" {
		d.finish(resp, command.Result{Kind: command.KindEmpty})
		return resp
	}
	logger.Info("dispatch started", "command", text)

	line, err := d.classifier.Classify(ctx, text)
	if err != nil {
		logger.Error("classification failed", "classifier", d.classifier.Name(), "error", err)
		d.finish(resp, command.Result{Kind: command.KindError, Err: err})
		return resp
	}
	resp.Normalized = line
	logger.Info("classification complete", "classifier", d.classifier.Name(), "normalized", line)

	d.finish(resp, d.interpreter.Execute(ctx, line))

	if req.WantsAudio() && d.synthesizer != nil {
		audio, err := d.synthesizer.Synthesize(ctx, resp.Response)
		if err != nil {
			logger.Warn("TTS synthesis failed, continuing without audio", "error", err)
		} else {
			resp.SetResponseAudioBytes(audio.Data)
			resp.ResponseContentType = audio.ContentType
			logger.Debug("TTS synthesis complete", "audio_bytes", len(audio.Data))
		}
	}

	logger.Info("dispatch complete", "kind", resp.Kind, "duration", time.Since(start))
	return resp
}

// Help returns the example phrases.
func (d *Dispatcher) Help() command.Help {
	return command.Examples()
}

func (d *Dispatcher) finish(resp *message.Response, res command.Result) {
	resp.Kind = string(res.Kind)
	resp.Response = res.Render()
}
