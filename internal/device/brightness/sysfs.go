package brightness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nadzzz/deskpilot/internal/device"
)

// Sysfs writes the Linux backlight class directly. It uses the first device
// under root, e.g. /sys/class/backlight/intel_backlight.
type Sysfs struct {
	root string
}

// NewSysfs creates a sysfs backend rooted at root.
func NewSysfs(root string) *Sysfs {
	if root == "" {
		root = "/sys/class/backlight"
	}
	return &Sysfs{root: root}
}

// Name returns the backend identifier.
func (s *Sysfs) Name() string { return "sysfs" }

// Apply reads the current and maximum raw values, computes the target and
// writes it back. Missing devices and permission errors report
// ErrNotImplemented so the chain can fall back to xbacklight.
func (s *Sysfs) Apply(_ context.Context, action device.Action, level *int) (device.Report, error) {
	dir, err := s.device()
	if err != nil {
		return device.Report{}, err
	}

	maxRaw, err := readInt(filepath.Join(dir, "max_brightness"))
	if err != nil {
		return device.Report{}, unavailable(err)
	}
	if maxRaw <= 0 {
		return device.Report{}, unavailable(fmt.Errorf("%s: max_brightness is %d", dir, maxRaw))
	}
	curRaw, err := readInt(filepath.Join(dir, "brightness"))
	if err != nil {
		return device.Report{}, unavailable(err)
	}
	curPct := float64(curRaw) / float64(maxRaw) * 100

	var (
		raw int
		pct int
	)
	switch action {
	case device.ActionIncrease:
		next := min(100, curPct+device.Step)
		raw, pct = int(next/100*float64(maxRaw)), int(next)
	case device.ActionDecrease:
		next := max(0, curPct-device.Step)
		raw, pct = int(next/100*float64(maxRaw)), int(next)
	case device.ActionSet:
		lvl, err := device.RequireLevel(level)
		if err != nil {
			return device.Report{}, err
		}
		raw, pct = int(float64(lvl)/100*float64(maxRaw)), lvl
	case device.ActionMaximum:
		raw, pct = maxRaw, 100
	case device.ActionMinimum:
		raw, pct = 0, 0
	default:
		return device.Report{}, fmt.Errorf("brightness %s: %w", action, device.ErrUnsupportedAction)
	}

	if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte(strconv.Itoa(raw)), 0o644); err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return device.Report{}, unavailable(err)
		}
		return device.Report{}, fmt.Errorf("writing brightness: %w", err)
	}
	return device.Report{Action: action, Level: device.Percent(pct)}, nil
}

func (s *Sysfs) device() (string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return "", unavailable(err)
	}
	if len(entries) == 0 {
		return "", unavailable(fmt.Errorf("no backlight devices under %s", s.root))
	}
	return filepath.Join(s.root, entries[0].Name()), nil
}

func readInt(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", device.ErrNotImplemented, err)
}
