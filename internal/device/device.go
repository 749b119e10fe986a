// Package device defines the contract shared by the volume and brightness
// action providers.
//
// A provider applies one Action (with an optional level for SET) to a piece
// of host hardware and reports what it did. Providers are platform specific
// internally but uniform externally: the interpreter only ever sees Provider.
package device

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Step is the percentage-point increment used by INCREASE and DECREASE.
const Step = 10

// Action is a device verb from the normalized grammar.
type Action string

const (
	ActionIncrease Action = "INCREASE"
	ActionDecrease Action = "DECREASE"
	ActionSet      Action = "SET"
	ActionMute     Action = "MUTE"
	ActionUnmute   Action = "UNMUTE"
	ActionMaximum  Action = "MAXIMUM"
	ActionMinimum  Action = "MINIMUM"
)

// ParseAction normalizes a grammar token into an Action. Unknown tokens are
// returned uppercased; providers reject them with ErrUnsupportedAction.
func ParseAction(token string) Action {
	return Action(strings.ToUpper(strings.TrimSpace(token)))
}

var (
	// ErrNotImplemented is returned when no mechanism exists on this platform.
	ErrNotImplemented = errors.New("not implemented for this platform")

	// ErrUnsupportedAction is returned for actions a provider does not handle.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrLevelRequired is returned when SET arrives without a level.
	ErrLevelRequired = errors.New("level required")
)

// Report describes the outcome of a successful Apply.
type Report struct {
	Action Action

	// Level is the resulting percentage when the backend knows it.
	Level *int

	// Muted is set by MUTE/UNMUTE.
	Muted bool
}

// LevelKnown reports whether the backend returned a resulting level.
func (r Report) LevelKnown() bool { return r.Level != nil }

// Provider applies actions to one kind of device.
type Provider interface {
	// Name identifies the backend (e.g. "amixer", "sysfs").
	Name() string

	// Apply performs action. level is only consulted for SET.
	Apply(ctx context.Context, action Action, level *int) (Report, error)
}

// Clamp bounds a percentage to [0,100].
func Clamp(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Percent returns a pointer to pct, for building Reports.
func Percent(pct int) *int { return &pct }

// RequireLevel returns the level for SET or ErrLevelRequired.
func RequireLevel(level *int) (int, error) {
	if level == nil {
		return 0, fmt.Errorf("SET: %w", ErrLevelRequired)
	}
	return *level, nil
}

// Unavailable is a provider for platforms with no mechanism at all.
type Unavailable struct{}

// Name returns the backend identifier.
func (Unavailable) Name() string { return "unavailable" }

// Apply always fails with ErrNotImplemented.
func (Unavailable) Apply(context.Context, Action, *int) (Report, error) {
	return Report{}, ErrNotImplemented
}
