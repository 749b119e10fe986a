package volume

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadzzz/deskpilot/internal/config"
	"github.com/nadzzz/deskpilot/internal/device"
	"github.com/nadzzz/deskpilot/internal/device/devicetest"
)

const amixerDump = `Simple mixer control 'Master',0
  Capabilities: pvolume pswitch pswitch-joined
  Playback channels: Front Left - Front Right
  Limits: Playback 0 - 65536
  Front Left: Playback 39322 [60%] [on]
  Front Right: Playback 39322 [60%] [on]
`

func TestNewSelectsByPlatform(t *testing.T) {
	runner := &devicetest.Runner{}
	cases := map[string]string{
		"linux":   "amixer",
		"darwin":  "osascript",
		"windows": "endpoint",
		"plan9":   "unavailable",
	}
	for goos, want := range cases {
		p, err := newWith(config.VolumeConfig{Backend: "auto"}, goos, runner)
		require.NoError(t, err, goos)
		assert.Equal(t, want, p.Name(), goos)
	}

	_, err := newWith(config.VolumeConfig{Backend: "pipewire"}, "linux", runner)
	assert.ErrorContains(t, err, `unknown volume backend "pipewire"`)
}

func TestAmixer(t *testing.T) {
	ctx := context.Background()

	t.Run("increase reads the resulting level", func(t *testing.T) {
		runner := &devicetest.Runner{Respond: func(devicetest.Call) ([]byte, error) {
			return []byte(amixerDump), nil
		}}
		rep, err := NewAmixer(runner, "pulse", "Master").Apply(ctx, device.ActionIncrease, nil)
		require.NoError(t, err)
		require.True(t, rep.LevelKnown())
		assert.Equal(t, 60, *rep.Level)
		assert.Equal(t, []string{"amixer -D pulse sset Master 10%+"}, runner.Lines())
	})

	t.Run("set passes the level through", func(t *testing.T) {
		runner := &devicetest.Runner{}
		a := NewAmixer(runner, "", "")

		rep, err := a.Apply(ctx, device.ActionSet, device.Percent(50))
		require.NoError(t, err)
		assert.Equal(t, 50, *rep.Level)

		rep, err = a.Apply(ctx, device.ActionSet, device.Percent(150))
		require.NoError(t, err)
		assert.Equal(t, 150, *rep.Level)

		assert.Equal(t, []string{"amixer sset Master 50%", "amixer sset Master 150%"}, runner.Lines())
	})

	t.Run("mute and maximum", func(t *testing.T) {
		runner := &devicetest.Runner{}
		a := NewAmixer(runner, "pulse", "Master")

		rep, err := a.Apply(ctx, device.ActionMute, nil)
		require.NoError(t, err)
		assert.True(t, rep.Muted)

		rep, err = a.Apply(ctx, device.ActionMaximum, nil)
		require.NoError(t, err)
		assert.Equal(t, 100, *rep.Level)
	})

	t.Run("minimum is not a volume action", func(t *testing.T) {
		runner := &devicetest.Runner{}
		_, err := NewAmixer(runner, "pulse", "Master").Apply(ctx, device.ActionMinimum, nil)
		require.ErrorIs(t, err, device.ErrUnsupportedAction)
		assert.Empty(t, runner.Calls)
	})

	t.Run("set without level", func(t *testing.T) {
		_, err := NewAmixer(&devicetest.Runner{}, "", "").Apply(ctx, device.ActionSet, nil)
		assert.ErrorIs(t, err, device.ErrLevelRequired)
	})

	t.Run("command failure propagates", func(t *testing.T) {
		runner := &devicetest.Runner{Respond: func(devicetest.Call) ([]byte, error) {
			return nil, errors.New("amixer: exit status 1: Unable to find simple control")
		}}
		_, err := NewAmixer(runner, "pulse", "Master").Apply(ctx, device.ActionDecrease, nil)
		assert.ErrorContains(t, err, "Unable to find simple control")
	})
}

func TestOSAScript(t *testing.T) {
	ctx := context.Background()
	runner := &devicetest.Runner{Respond: func(c devicetest.Call) ([]byte, error) {
		if c.Args[1] == readVolumeScript {
			return []byte("70\n"), nil
		}
		return nil, nil
	}}
	o := NewOSAScript(runner)

	rep, err := o.Apply(ctx, device.ActionIncrease, nil)
	require.NoError(t, err)
	assert.Equal(t, 70, *rep.Level)

	rep, err = o.Apply(ctx, device.ActionUnmute, nil)
	require.NoError(t, err)
	assert.False(t, rep.Muted)
	assert.Nil(t, rep.Level)

	assert.Equal(t, []string{
		"osascript -e set volume output volume (output volume of (get volume settings) + 10)",
		"osascript -e output volume of (get volume settings)",
		"osascript -e set volume without output muted",
	}, runner.Lines())
}

type fakeMixer struct {
	level int
	muted bool
	err   error
}

func (m *fakeMixer) GetVolume() (int, error) { return m.level, m.err }
func (m *fakeMixer) SetVolume(pct int) error {
	if m.err != nil {
		return m.err
	}
	m.level = pct
	return nil
}
func (m *fakeMixer) Mute() error   { m.muted = true; return m.err }
func (m *fakeMixer) Unmute() error { m.muted = false; return m.err }

func TestEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("steps clamp to the range", func(t *testing.T) {
		m := &fakeMixer{level: 95}
		e := NewEndpoint(m)

		rep, err := e.Apply(ctx, device.ActionIncrease, nil)
		require.NoError(t, err)
		assert.Equal(t, 100, *rep.Level)

		m.level = 4
		rep, err = e.Apply(ctx, device.ActionDecrease, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, *rep.Level)
	})

	t.Run("mute keeps the level", func(t *testing.T) {
		m := &fakeMixer{level: 35}
		_, err := NewEndpoint(m).Apply(ctx, device.ActionMute, nil)
		require.NoError(t, err)
		assert.True(t, m.muted)
		assert.Equal(t, 35, m.level)
	})

	t.Run("mixer failure is wrapped", func(t *testing.T) {
		m := &fakeMixer{err: errors.New("no default endpoint")}
		_, err := NewEndpoint(m).Apply(ctx, device.ActionIncrease, nil)
		assert.ErrorContains(t, err, "reading volume: no default endpoint")
	})
}
