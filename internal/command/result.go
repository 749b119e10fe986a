package command

import (
	"fmt"
	"strings"
)

// Kind classifies a Result so callers can tell outcomes apart without
// matching on the rendered text.
type Kind string

const (
	KindOK             Kind = "ok"
	KindEmpty          Kind = "empty"           // no command text at all
	KindUnknown        Kind = "unknown"         // classifier answered UNKNOWN
	KindUnrecognized   Kind = "unrecognized"    // grammar mismatch
	KindPrecondition   Kind = "precondition"    // target missing
	KindNotImplemented Kind = "not_implemented" // no device mechanism
	KindDeviceError    Kind = "device_error"    // volume/brightness primitive failed
	KindError          Kind = "error"           // anything else
)

// Result is the outcome of executing one command.
type Result struct {
	Kind Kind

	// Text is the success message for KindOK and the detail line for
	// KindPrecondition.
	Text string

	// Subsystem is "volume" or "brightness" for device kinds.
	Subsystem string

	// Err is the underlying failure for error kinds.
	Err error
}

// OK reports whether the command succeeded.
func (r Result) OK() bool { return r.Kind == KindOK }

// Render returns the user-facing status line.
func (r Result) Render() string {
	switch r.Kind {
	case KindOK:
		return r.Text
	case KindEmpty:
		return "⚠ No command provided."
	case KindUnknown:
		return "⚠ Command not recognized."
	case KindUnrecognized:
		return "⚠ Command not recognized or incorrectly formatted."
	case KindPrecondition:
		return "⚠ " + r.Text
	case KindNotImplemented:
		return fmt.Sprintf("⚠ %s control not implemented for your operating system.", title(r.Subsystem))
	case KindDeviceError:
		return fmt.Sprintf("⚠ Error controlling %s: %v", r.Subsystem, r.Err)
	default:
		return fmt.Sprintf("⚠ Error: %v", r.Err)
	}
}

func ok(format string, args ...any) Result {
	return Result{Kind: KindOK, Text: fmt.Sprintf(format, args...)}
}

func precondition(format string, args ...any) Result {
	return Result{Kind: KindPrecondition, Text: fmt.Sprintf(format, args...)}
}

func failed(err error) Result {
	return Result{Kind: KindError, Err: err}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
