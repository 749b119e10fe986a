// Package brightness implements the device.Provider for display backlight.
//
// Each platform gets a primary mechanism and, where one exists, a secondary
// one tried when the primary is unavailable:
//
//	linux   sysfs backlight class -> xbacklight
//	darwin  brightness CLI
//	windows WMI via powershell -> WMI via pwsh
package brightness

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/device"
)

// New creates the brightness provider selected by cfg.
func New(cfg config.BrightnessConfig) (device.Provider, error) {
	return newWith(cfg, runtime.GOOS, device.ExecRunner{})
}

func newWith(cfg config.BrightnessConfig, goos string, runner device.Runner) (device.Provider, error) {
	backend := cfg.Backend
	if backend == "" || backend == "auto" {
		switch goos {
		case "linux":
			return device.Chain{NewSysfs(cfg.SysfsRoot), NewXBacklight(runner)}, nil
		case "darwin":
			backend = "display"
		case "windows":
			return device.Chain{NewWMI(runner, cfg.PowerShell), NewWMI(runner, "pwsh")}, nil
		default:
			slog.Warn("no brightness backend for platform", "os", goos)
			return device.Unavailable{}, nil
		}
	}

	switch backend {
	case "sysfs":
		return NewSysfs(cfg.SysfsRoot), nil
	case "xbacklight":
		return NewXBacklight(runner), nil
	case "display":
		return NewDisplay(runner), nil
	case "wmi":
		return NewWMI(runner, cfg.PowerShell), nil
	case "none":
		return device.Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unknown brightness backend %q", backend)
	}
}
