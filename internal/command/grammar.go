// Package command parses the normalized command grammar produced by the
// classifier and executes it against the filesystem and device providers.
//
// Grammar (keywords are case-insensitive):
//
//	CREATE {FILE|FOLDER} <path>
//	DELETE {FILE|FOLDER} <path>
//	RENAME FROM <path> TO <path>
//	MOVE FROM <path> TO <path>
//	NAVIGATE TO <path>
//	VOLUME {INCREASE|DECREASE|SET <0-100>|MUTE|UNMUTE|MAXIMUM}
//	BRIGHTNESS {INCREASE|DECREASE|SET <0-100>|MAXIMUM|MINIMUM}
//	UNKNOWN
package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nadzzz/deskpilot/internal/device"
)

// Unknown is the classifier's sentinel for "not a supported command".
const Unknown = "UNKNOWN"

// Op is the operation keyword, the first token of a normalized line.
type Op string

const (
	OpCreate     Op = "CREATE"
	OpDelete     Op = "DELETE"
	OpRename     Op = "RENAME"
	OpMove       Op = "MOVE"
	OpNavigate   Op = "NAVIGATE"
	OpVolume     Op = "VOLUME"
	OpBrightness Op = "BRIGHTNESS"
)

// Object distinguishes files from folders.
type Object string

const (
	ObjectFile   Object = "FILE"
	ObjectFolder Object = "FOLDER"
)

// Command is one parsed normalized line.
type Command interface {
	Op() Op
}

// FileOp is CREATE or DELETE of a file or folder.
type FileOp struct {
	Operation Op
	Object    Object
	Path      string
}

// Transfer is RENAME or MOVE. MentionsFile records whether the literal token
// FILE appeared in the line; it only drives the response wording.
type Transfer struct {
	Operation    Op
	Source       string
	Dest         string
	MentionsFile bool
}

// Navigate changes the session working directory.
type Navigate struct {
	Path string
}

// Device is a VOLUME or BRIGHTNESS command.
type Device struct {
	Device Op
	Action device.Action
	Level  *int
}

func (c FileOp) Op() Op   { return c.Operation }
func (c Transfer) Op() Op { return c.Operation }
func (Navigate) Op() Op   { return OpNavigate }
func (c Device) Op() Op   { return c.Device }

// Noun is "File" or "Folder" for response text.
func (c Transfer) Noun() string {
	if c.MentionsFile {
		return "File"
	}
	return "Folder"
}

// LevelError reports a malformed level operand.
type LevelError struct {
	Token string
	Err   error
}

func (e *LevelError) Error() string {
	return fmt.Sprintf("invalid level %q: %v", e.Token, e.Err)
}

func (e *LevelError) Unwrap() error { return e.Err }

// Parse classifies one normalized line. It returns (nil, nil) when the line
// is UNKNOWN, empty, or does not match any production; a non-nil error only
// for a malformed level operand.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == Unknown {
		return nil, nil
	}

	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, nil
	}

	switch op := Op(strings.ToUpper(tokens[0])); op {
	case OpVolume, OpBrightness:
		return parseDevice(op, tokens)
	case OpNavigate:
		return parseNavigate(line), nil
	case OpCreate, OpDelete:
		return parseFileOp(op, tokens), nil
	case OpRename, OpMove:
		return parseTransfer(op, line, tokens), nil
	}
	return nil, nil
}

func parseDevice(op Op, tokens []string) (Command, error) {
	if len(tokens) < 2 {
		return nil, nil
	}
	cmd := Device{Device: op, Action: device.ParseAction(tokens[1])}
	if len(tokens) >= 3 {
		lvl, err := strconv.Atoi(tokens[2])
		if err != nil {
			return nil, &LevelError{Token: tokens[2], Err: err}
		}
		cmd.Level = &lvl
	}
	return cmd, nil
}

func parseNavigate(line string) Command {
	idx := strings.Index(upperASCII(line), "TO ")
	if idx == -1 {
		return nil
	}
	return Navigate{Path: strings.TrimSpace(line[idx+len("TO "):])}
}

func parseFileOp(op Op, tokens []string) Command {
	if len(tokens) < 2 {
		return nil
	}
	obj := Object(strings.ToUpper(tokens[1]))
	if obj != ObjectFile && obj != ObjectFolder {
		return nil
	}
	path := strings.Join(tokens[2:], " ")
	if path == "" {
		return nil
	}
	return FileOp{Operation: op, Object: obj, Path: path}
}

// parseTransfer locates the markers on the uppercased line and slices the
// original line, so operand casing survives.
func parseTransfer(op Op, line string, tokens []string) Command {
	upper := upperASCII(line)
	from := strings.Index(upper, "FROM ")
	to := strings.Index(upper, " TO ")
	if from == -1 || to == -1 {
		return nil
	}
	// Overlapping or reversed markers leave an empty source, which then
	// fails the existence check.
	source := ""
	if start := from + len("FROM "); start <= to {
		source = strings.TrimSpace(line[start:to])
	}

	mentionsFile := false
	for _, tok := range tokens {
		if tok == string(ObjectFile) {
			mentionsFile = true
			break
		}
	}

	return Transfer{
		Operation:    op,
		Source:       source,
		Dest:         strings.TrimSpace(line[to+len(" TO "):]),
		MentionsFile: mentionsFile,
	}
}

// upperASCII uppercases a-z only, so byte offsets found in the result are
// valid in the original line.
func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
