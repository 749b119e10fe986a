package volume

import (
	"context"
	"fmt"

	volumego "github.com/itchyny/volume-go"

	"github.com/nadzzz/deskpilot/internal/device"
)

// Mixer is the subset of a master-volume API the endpoint backend needs.
type Mixer interface {
	GetVolume() (int, error)
	SetVolume(pct int) error
	Mute() error
	Unmute() error
}

// systemMixer talks to the default audio endpoint through volume-go.
type systemMixer struct{}

func (systemMixer) GetVolume() (int, error) { return volumego.GetVolume() }
func (systemMixer) SetVolume(pct int) error { return volumego.SetVolume(pct) }
func (systemMixer) Mute() error             { return volumego.Mute() }
func (systemMixer) Unmute() error           { return volumego.Unmute() }

// Endpoint controls the default output endpoint's master scalar. Unlike the
// CLI backends it always knows the current level, so steps are clamped here.
type Endpoint struct {
	mixer Mixer
}

// NewEndpoint creates an endpoint backend over m.
func NewEndpoint(m Mixer) *Endpoint {
	return &Endpoint{mixer: m}
}

// Name returns the backend identifier.
func (e *Endpoint) Name() string { return "endpoint" }

// Apply performs action against the mixer.
func (e *Endpoint) Apply(_ context.Context, action device.Action, level *int) (device.Report, error) {
	rep := device.Report{Action: action}

	switch action {
	case device.ActionIncrease, device.ActionDecrease:
		cur, err := e.mixer.GetVolume()
		if err != nil {
			return device.Report{}, fmt.Errorf("reading volume: %w", err)
		}
		delta := device.Step
		if action == device.ActionDecrease {
			delta = -delta
		}
		next := device.Clamp(cur + delta)
		if err := e.mixer.SetVolume(next); err != nil {
			return device.Report{}, fmt.Errorf("setting volume: %w", err)
		}
		rep.Level = device.Percent(next)

	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		if err := e.mixer.SetVolume(lvl); err != nil {
			return device.Report{}, fmt.Errorf("setting volume: %w", err)
		}
		rep.Level = device.Percent(lvl)

	case device.ActionMute:
		if err := e.mixer.Mute(); err != nil {
			return device.Report{}, fmt.Errorf("muting: %w", err)
		}
		rep.Muted = true

	case device.ActionUnmute:
		if err := e.mixer.Unmute(); err != nil {
			return device.Report{}, fmt.Errorf("unmuting: %w", err)
		}

	case device.ActionMaximum:
		if err := e.mixer.SetVolume(100); err != nil {
			return device.Report{}, fmt.Errorf("setting volume: %w", err)
		}
		rep.Level = device.Percent(100)

	default:
		return device.Report{}, fmt.Errorf("volume %s: %w", action, device.ErrUnsupportedAction)
	}
	return rep, nil
}
