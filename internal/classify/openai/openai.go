// Package openai implements the Classifier interface using the OpenAI Chat
// Completions API, or any gateway that speaks it.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nadzzz/deskpilot/internal/classify"
	"github.com/nadzzz/deskpilot/internal/config"
)

// Classifier uses a chat completion model to normalize commands.
type Classifier struct {
	client *openai.Client
	model  string
}

// New creates an OpenAI classifier from config.
func New(cfg config.OpenAIConfig) *Classifier {
	occ := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		// go-openai expects the full prefix including /v1.
		occ.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/v1"
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Classifier{
		client: openai.NewClientWithConfig(occ),
		model:  model,
	}
}

// Name returns the backend identifier.
func (c *Classifier) Name() string { return "openai" }

// Classify sends the prompt as a single user message.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: classify.Prompt(text)},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	reply := classify.Clean(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", errors.New("empty response from openai")
	}
	slog.Debug("openai classification complete",
		"model", c.model,
		"reply", reply,
		"total_tokens", resp.Usage.TotalTokens)
	return reply, nil
}

// Close is a no-op for the OpenAI classifier.
func (c *Classifier) Close() error { return nil }
