package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nadzzz/deskpilot/internal/classify"
	geminiclassify "github.com/nadzzz/deskpilot/internal/classify/gemini"
	localclassify "github.com/nadzzz/deskpilot/internal/classify/local"
	openaiclassify "github.com/nadzzz/deskpilot/internal/classify/openai"
	"github.com/nadzzz/deskpilot/internal/command"
	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/device/brightness"
	"github.com/nadzzz/deskpilot/internal/device/volume"
	"github.com/nadzzz/deskpilot/internal/session"
	"github.com/nadzzz/deskpilot/internal/tts"
	"github.com/nadzzz/deskpilot/internal/tts/piper"
)

// newClassifier builds the classifier backend named in the config.
func newClassifier(ctx context.Context, cfg config.ClassifierConfig) (classify.Classifier, error) {
	switch cfg.Backend {
	case "gemini":
		c, err := geminiclassify.New(ctx, cfg.Gemini)
		if err != nil {
			return nil, err
		}
		slog.Info("using Gemini classifier", "model", cfg.Gemini.Model)
		return c, nil
	case "openai":
		slog.Info("using OpenAI classifier", "model", cfg.OpenAI.Model, "base_url", cfg.OpenAI.BaseURL)
		return openaiclassify.New(cfg.OpenAI), nil
	case "local":
		slog.Info("using local classifier", "endpoint", cfg.Local.Endpoint, "model", cfg.Local.Model)
		return localclassify.New(cfg.Local), nil
	case "static":
		slog.Info("using static classifier; input must already be a normalized command")
		return classify.Static{}, nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

// newInterpreter builds the session workdir and the platform device
// providers.
func newInterpreter(cfg *config.Config) (*command.Interpreter, error) {
	wd, err := session.NewWorkdir(cfg.Session.StartDir, cfg.Session.ChdirProcess)
	if err != nil {
		return nil, err
	}
	vol, err := volume.New(cfg.Devices.Volume)
	if err != nil {
		return nil, err
	}
	bright, err := brightness.New(cfg.Devices.Brightness)
	if err != nil {
		return nil, err
	}
	slog.Info("devices ready", "volume", vol.Name(), "brightness", bright.Name(), "workdir", wd.Get())
	return command.NewInterpreter(wd, vol, bright), nil
}

// newSynthesizer returns nil when TTS is disabled.
func newSynthesizer(cfg config.TTSConfig) (tts.Synthesizer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "piper", "":
		slog.Info("TTS enabled", "backend", "piper", "endpoint", cfg.Piper.Endpoint, "voice", cfg.Piper.Voice)
		return piper.New(cfg.Piper), nil
	default:
		return nil, fmt.Errorf("unknown tts backend %q", cfg.Backend)
	}
}
