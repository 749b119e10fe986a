// Package gemini implements the Classifier interface with Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/nadzzz/deskpilot/internal/classify"
	"github.com/nadzzz/deskpilot/internal/config"
)

// DefaultModel is used when the config leaves the model empty.
const DefaultModel = "gemini-1.5-pro-latest"

// Classifier asks a Gemini model to normalize commands.
type Classifier struct {
	client *genai.Client
	model  string
}

// New creates a Gemini classifier from config.
func New(ctx context.Context, cfg config.GeminiConfig) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Classifier{client: client, model: model}, nil
}

// Name returns the backend identifier.
func (c *Classifier) Name() string { return "gemini" }

// Classify sends the prompt and returns the cleaned reply.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(classify.Prompt(text)), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	reply := classify.Clean(resp.Text())
	if reply == "" {
		return "", errors.New("empty response from gemini")
	}
	slog.Debug("gemini classification complete", "model", c.model, "reply", reply)
	return reply, nil
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (c *Classifier) Close() error { return nil }
