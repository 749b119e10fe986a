package device_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/deskpilot/internal/device"
)

type stubProvider struct {
	name  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Apply(_ context.Context, action device.Action, _ *int) (device.Report, error) {
	s.calls++
	if s.err != nil {
		return device.Report{}, s.err
	}
	return device.Report{Action: action, Level: device.Percent(42)}, nil
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, device.Clamp(-5))
	assert.Equal(t, 55, device.Clamp(55))
	assert.Equal(t, 100, device.Clamp(130))
}

func TestParseAction(t *testing.T) {
	assert.Equal(t, device.ActionIncrease, device.ParseAction(" increase "))
	assert.Equal(t, device.Action("WOBBLE"), device.ParseAction("wobble"))
}

func TestRequireLevel(t *testing.T) {
	_, err := device.RequireLevel(nil)
	require.ErrorIs(t, err, device.ErrLevelRequired)

	lvl, err := device.RequireLevel(device.Percent(70))
	require.NoError(t, err)
	assert.Equal(t, 70, lvl)
}

func TestChain(t *testing.T) {
	t.Run("falls back past unavailable mechanisms", func(t *testing.T) {
		first := &stubProvider{name: "sysfs", err: device.ErrNotImplemented}
		second := &stubProvider{name: "xbacklight"}

		rep, err := device.Chain{first, second}.Apply(context.Background(), device.ActionIncrease, nil)
		require.NoError(t, err)
		assert.Equal(t, 42, *rep.Level)
		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
	})

	t.Run("real failures stop the chain", func(t *testing.T) {
		boom := errors.New("write failed")
		first := &stubProvider{name: "sysfs", err: boom}
		second := &stubProvider{name: "xbacklight"}

		_, err := device.Chain{first, second}.Apply(context.Background(), device.ActionIncrease, nil)
		require.ErrorIs(t, err, boom)
		assert.Zero(t, second.calls)
	})

	t.Run("exhausted chain is not implemented", func(t *testing.T) {
		chain := device.Chain{&stubProvider{name: "a", err: device.ErrNotImplemented}}
		_, err := chain.Apply(context.Background(), device.ActionMaximum, nil)
		require.ErrorIs(t, err, device.ErrNotImplemented)
		assert.Equal(t, "a", chain.Name())
	})
}

func TestUnavailable(t *testing.T) {
	_, err := device.Unavailable{}.Apply(context.Background(), device.ActionMute, nil)
	assert.ErrorIs(t, err, device.ErrNotImplemented)
}
