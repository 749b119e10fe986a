package device

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. A missing binary is reported as
// ErrNotImplemented so fallback chains can move on to the next mechanism.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	slog.Debug("device command", "name", name, "args", args)

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotImplemented)
		}
		msg := strings.TrimSpace(out.String())
		if msg != "" {
			return out.Bytes(), fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return out.Bytes(), nil
}

// Chain tries each provider in order, moving on only when a provider reports
// that its mechanism is not available here.
type Chain []Provider

// Name joins the backend names.
func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name()
	}
	return strings.Join(names, "|")
}

// Apply runs action on the first available provider.
func (c Chain) Apply(ctx context.Context, action Action, level *int) (Report, error) {
	for _, p := range c {
		rep, err := p.Apply(ctx, action, level)
		if errors.Is(err, ErrNotImplemented) {
			slog.Debug("device backend unavailable, falling back", "backend", p.Name(), "error", err)
			continue
		}
		return rep, err
	}
	return Report{}, ErrNotImplemented
}
