package volume

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/nadzzz/deskpilot/internal/device"
)

// amixerLevel matches the first "[NN%]" in amixer's control dump.
var amixerLevel = regexp.MustCompile(`\[(\d{1,3})%\]`)

// Amixer drives ALSA/PulseAudio through the amixer CLI.
type Amixer struct {
	runner device.Runner
	dev    string
	mixer  string
}

// NewAmixer creates an amixer backend. dev may be empty to use the ALSA default.
func NewAmixer(runner device.Runner, dev, mixer string) *Amixer {
	if mixer == "" {
		mixer = "Master"
	}
	return &Amixer{runner: runner, dev: dev, mixer: mixer}
}

// Name returns the backend identifier.
func (a *Amixer) Name() string { return "amixer" }

// Apply runs one sset invocation and reads the resulting level from its output.
func (a *Amixer) Apply(ctx context.Context, action device.Action, level *int) (device.Report, error) {
	var value string
	switch action {
	case device.ActionIncrease:
		value = fmt.Sprintf("%d%%+", device.Step)
	case device.ActionDecrease:
		value = fmt.Sprintf("%d%%-", device.Step)
	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		value = strconv.Itoa(lvl) + "%"
	case device.ActionMute:
		value = "mute"
	case device.ActionUnmute:
		value = "unmute"
	case device.ActionMaximum:
		value = "100%"
	default:
		return device.Report{}, fmt.Errorf("volume %s: %w", action, device.ErrUnsupportedAction)
	}

	args := []string{}
	if a.dev != "" {
		args = append(args, "-D", a.dev)
	}
	args = append(args, "sset", a.mixer, value)

	out, err := a.runner.Run(ctx, "amixer", args...)
	if err != nil {
		return device.Report{}, err
	}

	rep := device.Report{Action: action, Muted: action == device.ActionMute}
	switch action {
	case device.ActionSet:
		rep.Level = level
	case device.ActionMaximum:
		rep.Level = device.Percent(100)
	default:
		if m := amixerLevel.FindSubmatch(out); m != nil {
			if pct, err := strconv.Atoi(string(m[1])); err == nil {
				rep.Level = device.Percent(pct)
			}
		}
	}
	return rep, nil
}
