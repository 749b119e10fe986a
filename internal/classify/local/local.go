// Package local implements the Classifier interface against self-hosted
// models.
//
// It supports Ollama's /api/generate endpoint and any OpenAI-compatible chat
// endpoint (Ollama, vLLM, llama.cpp server).
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nadzzz/deskpilot/internal/classify"
	"github.com/nadzzz/deskpilot/internal/config"
)

// Classifier talks to a self-hosted LLM over plain HTTP.
type Classifier struct {
	endpoint string
	model    string
	client   *http.Client
}

// New creates a local classifier from config.
func New(cfg config.LocalConfig) *Classifier {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	return &Classifier{
		endpoint: cfg.Endpoint,
		model:    model,
		client:   &http.Client{},
	}
}

// Name returns the backend identifier.
func (c *Classifier) Name() string { return "local" }

// Classify posts the prompt and extracts the reply text. Endpoints ending in
// /api/generate get the Ollama request shape, everything else the chat
// completions shape.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	prompt := classify.Prompt(text)

	var reqBody map[string]any
	if strings.HasSuffix(c.endpoint, "/api/generate") {
		reqBody = map[string]any{
			"model":  c.model,
			"prompt": prompt,
			"stream": false,
		}
	} else {
		reqBody = map[string]any{
			"model": c.model,
			"messages": []map[string]string{
				{"role": "user", "content": prompt},
			},
			"temperature": 0,
			"stream":      false,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local LLM request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("local LLM failed (status %d): %s", resp.StatusCode, respBody)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading LLM response: %w", err)
	}

	reply := classify.Clean(extractContent(data))
	if reply == "" {
		return "", errors.New("empty response from local LLM")
	}
	slog.Debug("local classification complete", "model", c.model, "reply", reply)
	return reply, nil
}

// Close is a no-op for the local classifier.
func (c *Classifier) Close() error { return nil }

func extractContent(data []byte) string {
	// OpenAI-compatible: {"choices": [{"message": {"content": "..."}}]}
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chatResp); err == nil && len(chatResp.Choices) > 0 {
		return chatResp.Choices[0].Message.Content
	}

	// Ollama: {"response": "..."}
	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &ollamaResp); err == nil && ollamaResp.Response != "" {
		return ollamaResp.Response
	}

	return string(data)
}
