package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nadzzz/deskpilot/internal/device"
	"github.com/nadzzz/deskpilot/internal/fsops"
	"github.com/nadzzz/deskpilot/internal/session"
)

// Interpreter executes normalized lines against the host.
type Interpreter struct {
	wd         *session.Workdir
	fs         *fsops.Ops
	volume     device.Provider
	brightness device.Provider
}

// NewInterpreter wires an interpreter. A nil provider behaves as
// device.Unavailable.
func NewInterpreter(wd *session.Workdir, volume, brightness device.Provider) *Interpreter {
	if volume == nil {
		volume = device.Unavailable{}
	}
	if brightness == nil {
		brightness = device.Unavailable{}
	}
	return &Interpreter{
		wd:         wd,
		fs:         fsops.New(wd),
		volume:     volume,
		brightness: brightness,
	}
}

// Workdir returns the session working directory the interpreter resolves
// relative paths against.
func (in *Interpreter) Workdir() *session.Workdir { return in.wd }

// Devices returns the volume and brightness providers.
func (in *Interpreter) Devices() (volume, brightness device.Provider) {
	return in.volume, in.brightness
}

// Execute parses and runs one normalized line. It never panics; every
// failure is reported through the returned Result.
func (in *Interpreter) Execute(ctx context.Context, line string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("command panicked", "line", line, "panic", r)
			res = failed(fmt.Errorf("%v", r))
		}
	}()

	line = strings.TrimSpace(line)
	if line == Unknown {
		return Result{Kind: KindUnknown}
	}

	cmd, err := Parse(line)
	if err != nil {
		return failed(err)
	}

	switch c := cmd.(type) {
	case FileOp:
		res = in.fileOp(c)
	case Transfer:
		res = in.transfer(c)
	case Navigate:
		res = in.navigate(c)
	case Device:
		res = in.device(ctx, c)
	default:
		res = Result{Kind: KindUnrecognized}
	}

	slog.Debug("command executed", "line", line, "kind", res.Kind)
	return res
}

func (in *Interpreter) fileOp(c FileOp) Result {
	var err error
	switch {
	case c.Operation == OpCreate && c.Object == ObjectFile:
		if err = in.fs.CreateFile(c.Path); err == nil {
			return ok("✅ File '%s' created successfully.", c.Path)
		}
	case c.Operation == OpCreate:
		if err = in.fs.CreateFolder(c.Path); err == nil {
			return ok("📁 Folder '%s' created successfully.", c.Path)
		}
	case c.Object == ObjectFile:
		err = in.fs.DeleteFile(c.Path)
		if err == nil {
			return ok("🗑 File '%s' deleted successfully.", c.Path)
		}
		if errors.Is(err, fsops.ErrMissing) {
			return precondition("File does not exist: %s", c.Path)
		}
	default:
		err = in.fs.DeleteFolder(c.Path)
		if err == nil {
			return ok("🗑 Folder '%s' deleted successfully.", c.Path)
		}
		if errors.Is(err, fsops.ErrMissing) {
			return precondition("Folder does not exist: %s", c.Path)
		}
	}
	return failed(err)
}

func (in *Interpreter) transfer(c Transfer) Result {
	var err error
	icon, verb := "🔄", "renamed"
	if c.Operation == OpMove {
		icon, verb = "📂", "moved"
		err = in.fs.Move(c.Source, c.Dest)
	} else {
		err = in.fs.Rename(c.Source, c.Dest)
	}

	switch {
	case errors.Is(err, fsops.ErrMissing):
		return precondition("Source path does not exist: %s", c.Source)
	case err != nil:
		return failed(err)
	}
	return ok("%s %s %s from '%s' to '%s'.", icon, c.Noun(), verb, c.Source, c.Dest)
}

func (in *Interpreter) navigate(c Navigate) Result {
	if !in.wd.Exists(c.Path) {
		return precondition("Path does not exist: %s", c.Path)
	}
	if err := in.wd.Chdir(c.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return precondition("Path does not exist: %s", c.Path)
		}
		return failed(err)
	}
	return ok("📂 Changed directory to %s", c.Path)
}

func (in *Interpreter) device(ctx context.Context, c Device) Result {
	p, subsystem := in.volume, "volume"
	if c.Device == OpBrightness {
		p, subsystem = in.brightness, "brightness"
	}

	rep, err := p.Apply(ctx, c.Action, c.Level)
	if err != nil {
		kind := KindDeviceError
		if errors.Is(err, device.ErrNotImplemented) ||
			errors.Is(err, device.ErrUnsupportedAction) ||
			errors.Is(err, device.ErrLevelRequired) {
			kind = KindNotImplemented
		}
		slog.Warn("device action failed", "device", subsystem, "backend", p.Name(), "action", c.Action, "error", err)
		return Result{Kind: kind, Subsystem: subsystem, Err: err}
	}

	if rep.Level == nil && c.Action == device.ActionSet {
		rep.Level = c.Level
	}
	var text string
	if c.Device == OpBrightness {
		text = brightnessText(c.Action, rep)
	} else {
		text = volumeText(c.Action, rep)
	}
	return Result{Kind: KindOK, Subsystem: subsystem, Text: text}
}

func volumeText(action device.Action, rep device.Report) string {
	switch action {
	case device.ActionIncrease:
		return withLevel("🔊 Volume increased", rep)
	case device.ActionDecrease:
		return withLevel("🔉 Volume decreased", rep)
	case device.ActionSet:
		return fmt.Sprintf("🔊 Volume set to %d%%", *rep.Level)
	case device.ActionMute:
		return "🔇 Volume muted"
	case device.ActionUnmute:
		return "🔊 Volume unmuted"
	default:
		return "🔊 Volume set to maximum (100%)"
	}
}

func brightnessText(action device.Action, rep device.Report) string {
	switch action {
	case device.ActionIncrease:
		return withLevel("☀ Brightness increased", rep)
	case device.ActionDecrease:
		return withLevel("🔆 Brightness decreased", rep)
	case device.ActionSet:
		return fmt.Sprintf("☀ Brightness set to %d%%", *rep.Level)
	case device.ActionMinimum:
		return "🔅 Brightness set to minimum (0%)"
	default:
		return "☀ Brightness set to maximum (100%)"
	}
}

func withLevel(text string, rep device.Report) string {
	if !rep.LevelKnown() {
		return text
	}
	return fmt.Sprintf("%s to %d%%", text, *rep.Level)
}
