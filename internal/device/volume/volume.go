// Package volume implements the device.Provider for the host audio output.
//
// Three backends are available: amixer (Linux/PulseAudio), osascript (macOS)
// and endpoint (Windows Core Audio via github.com/itchyny/volume-go). New
// picks one from config, or from runtime.GOOS when the backend is "auto".
package volume

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/device"
)

// New creates the volume provider selected by cfg.
func New(cfg config.VolumeConfig) (device.Provider, error) {
	return newWith(cfg, runtime.GOOS, device.ExecRunner{})
}

func newWith(cfg config.VolumeConfig, goos string, runner device.Runner) (device.Provider, error) {
	backend := cfg.Backend
	if backend == "" || backend == "auto" {
		switch goos {
		case "linux":
			backend = "amixer"
		case "darwin":
			backend = "osascript"
		case "windows":
			backend = "endpoint"
		default:
			slog.Warn("no volume backend for platform", "os", goos)
			return device.Unavailable{}, nil
		}
	}

	switch backend {
	case "amixer":
		return NewAmixer(runner, cfg.AmixerDevice, cfg.AmixerMixer), nil
	case "osascript":
		return NewOSAScript(runner), nil
	case "endpoint":
		return NewEndpoint(systemMixer{}), nil
	case "none":
		return device.Unavailable{}, nil
	default:
		return nil, fmt.Errorf("unknown volume backend %q", backend)
	}
}
