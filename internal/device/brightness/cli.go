package brightness

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nadzzz/deskpilot/internal/device"
)

// XBacklight drives the X11 backlight through the xbacklight CLI. Relative
// steps are left to xbacklight, so the resulting level is not reported.
type XBacklight struct {
	runner device.Runner
}

// NewXBacklight creates an xbacklight backend.
func NewXBacklight(runner device.Runner) *XBacklight {
	return &XBacklight{runner: runner}
}

// Name returns the backend identifier.
func (x *XBacklight) Name() string { return "xbacklight" }

// Apply runs xbacklight for action.
func (x *XBacklight) Apply(ctx context.Context, action device.Action, level *int) (device.Report, error) {
	step := strconv.Itoa(device.Step)
	rep := device.Report{Action: action}

	var args []string
	switch action {
	case device.ActionIncrease:
		args = []string{"-inc", step}
	case device.ActionDecrease:
		args = []string{"-dec", step}
	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		args = []string{"-set", strconv.Itoa(lvl)}
		rep.Level = device.Percent(lvl)
	case device.ActionMaximum:
		args = []string{"-set", "100"}
		rep.Level = device.Percent(100)
	case device.ActionMinimum:
		args = []string{"-set", "0"}
		rep.Level = device.Percent(0)
	default:
		return device.Report{}, fmt.Errorf("brightness %s: %w", action, device.ErrUnsupportedAction)
	}

	if _, err := x.runner.Run(ctx, "xbacklight", args...); err != nil {
		return device.Report{}, err
	}
	return rep, nil
}

// Display drives macOS displays through the `brightness` CLI, which takes a
// 0..1 fraction.
type Display struct {
	runner device.Runner
}

// NewDisplay creates a brightness-CLI backend.
func NewDisplay(runner device.Runner) *Display {
	return &Display{runner: runner}
}

// Name returns the backend identifier.
func (d *Display) Name() string { return "display" }

// Apply runs the brightness CLI for action.
func (d *Display) Apply(ctx context.Context, action device.Action, level *int) (device.Report, error) {
	rep := device.Report{Action: action}

	var args []string
	switch action {
	case device.ActionIncrease:
		args = []string{"-i", strconv.Itoa(device.Step)}
	case device.ActionDecrease:
		args = []string{"-d", strconv.Itoa(device.Step)}
	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		args = []string{strconv.FormatFloat(float64(lvl)/100, 'f', -1, 64)}
		rep.Level = device.Percent(lvl)
	case device.ActionMaximum:
		args = []string{"1"}
		rep.Level = device.Percent(100)
	case device.ActionMinimum:
		args = []string{"0"}
		rep.Level = device.Percent(0)
	default:
		return device.Report{}, fmt.Errorf("brightness %s: %w", action, device.ErrUnsupportedAction)
	}

	if _, err := d.runner.Run(ctx, "brightness", args...); err != nil {
		return device.Report{}, err
	}
	return rep, nil
}

const (
	wmiReadScript = "(Get-CimInstance -Namespace root/WMI -ClassName WmiMonitorBrightness | Select-Object -First 1).CurrentBrightness"
	wmiSetScript  = "Invoke-CimMethod -InputObject (Get-CimInstance -Namespace root/WMI -ClassName WmiMonitorBrightnessMethods | Select-Object -First 1) -MethodName WmiSetBrightness -Arguments @{Timeout=0; Brightness=%d} | Out-Null"
)

// WMI drives laptop panels on Windows through the WmiMonitorBrightness
// classes, invoked via a PowerShell host.
type WMI struct {
	runner device.Runner
	shell  string
}

// NewWMI creates a WMI backend using the given PowerShell executable.
func NewWMI(runner device.Runner, shell string) *WMI {
	if shell == "" {
		shell = "powershell"
	}
	return &WMI{runner: runner, shell: shell}
}

// Name returns the backend identifier.
func (w *WMI) Name() string { return "wmi:" + w.shell }

// Apply reads the current level for relative steps, clamps, and sets.
func (w *WMI) Apply(ctx context.Context, action device.Action, level *int) (device.Report, error) {
	var target int
	switch action {
	case device.ActionIncrease, device.ActionDecrease:
		cur, err := w.current(ctx)
		if err != nil {
			return device.Report{}, err
		}
		delta := device.Step
		if action == device.ActionDecrease {
			delta = -delta
		}
		target = device.Clamp(cur + delta)
	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		target = lvl
	case device.ActionMaximum:
		target = 100
	case device.ActionMinimum:
		target = 0
	default:
		return device.Report{}, fmt.Errorf("brightness %s: %w", action, device.ErrUnsupportedAction)
	}

	if _, err := w.run(ctx, fmt.Sprintf(wmiSetScript, target)); err != nil {
		return device.Report{}, err
	}
	return device.Report{Action: action, Level: device.Percent(target)}, nil
}

func (w *WMI) current(ctx context.Context) (int, error) {
	out, err := w.run(ctx, wmiReadScript)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(string(out))
	if text == "" {
		// No WMI-controllable panel (external monitor, desktop GPU).
		return 0, fmt.Errorf("%w: no WmiMonitorBrightness instance", device.ErrNotImplemented)
	}
	cur, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("parsing current brightness %q: %w", text, err)
	}
	return cur, nil
}

func (w *WMI) run(ctx context.Context, script string) ([]byte, error) {
	return w.runner.Run(ctx, w.shell, "-NoProfile", "-NonInteractive", "-Command", script)
}
