package volume

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nadzzz/deskpilot/internal/device"
)

const readVolumeScript = "output volume of (get volume settings)"

// OSAScript drives macOS output volume through AppleScript.
type OSAScript struct {
	runner device.Runner
}

// NewOSAScript creates an osascript backend.
func NewOSAScript(runner device.Runner) *OSAScript {
	return &OSAScript{runner: runner}
}

// Name returns the backend identifier.
func (o *OSAScript) Name() string { return "osascript" }

// Apply runs the AppleScript for action. Relative steps read the level back
// afterwards since AppleScript clamps on its own.
func (o *OSAScript) Apply(ctx context.Context, action device.Action, level *int) (device.Report, error) {
	var script string
	switch action {
	case device.ActionIncrease:
		script = fmt.Sprintf("set volume output volume (%s + %d)", readVolumeScript, device.Step)
	case device.ActionDecrease:
		script = fmt.Sprintf("set volume output volume (%s - %d)", readVolumeScript, device.Step)
	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		script = fmt.Sprintf("set volume output volume %d", lvl)
	case device.ActionMute:
		script = "set volume with output muted"
	case device.ActionUnmute:
		script = "set volume without output muted"
	case device.ActionMaximum:
		script = "set volume output volume 100"
	default:
		return device.Report{}, fmt.Errorf("volume %s: %w", action, device.ErrUnsupportedAction)
	}

	if _, err := o.runner.Run(ctx, "osascript", "-e", script); err != nil {
		return device.Report{}, err
	}

	rep := device.Report{Action: action, Muted: action == device.ActionMute}
	switch action {
	case device.ActionSet:
		rep.Level = level
	case device.ActionMaximum:
		rep.Level = device.Percent(100)
	case device.ActionIncrease, device.ActionDecrease:
		// A failed read-back still leaves the change applied.
		if out, err := o.runner.Run(ctx, "osascript", "-e", readVolumeScript); err == nil {
			if pct, err := strconv.Atoi(strings.TrimSpace(string(out))); err == nil {
				rep.Level = device.Percent(pct)
			}
		}
	}
	return rep, nil
}
