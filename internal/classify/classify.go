// Package classify defines the oracle that turns free-form speech into one
// normalized command line.
//
// A classifier sends the user's text inside a fixed instruction template to
// an LLM and returns the trimmed reply. The reply is expected to follow the
// command grammar or be the literal UNKNOWN; the interpreter is responsible
// for coping with anything else. Deskpilot ships with Gemini, OpenAI and
// local (Ollama / OpenAI-compatible) backends plus a static passthrough.
package classify

import (
	"context"
	"strings"
)

// Classifier converts free text into a normalized command line.
type Classifier interface {
	// Name returns the backend identifier (e.g., "gemini", "local").
	Name() string

	// Classify returns the normalized line for text.
	Classify(ctx context.Context, text string) (string, error)

	// Close releases any resources held by the classifier.
	Close() error
}

const promptTemplate = `Analyze the following command and check if it is related to file/folder operations, volume control, or brightness control:

Examples:
- Create a file example.txt
- Delete file example.txt
- Rename file from old.txt to new.txt
- Move file from source.txt to destination.txt
- Create a folder Projects
- Delete folder Projects
- Rename folder from Projects to MyWork
- Move folder from MyWork to Documents
- Go to C drive and create a file example.txt
- Go to C:\Users\Documents and create a folder Projects
- Navigate to D:\Work and delete file report.txt
- Create a file report.txt in C:\Users\Documents
- Create a folder Temp in D:\Projects

Volume control examples:
- Increase volume
- Decrease volume
- Set volume to 50 percent
- Mute volume
- Unmute volume
- Set volume to maximum

Brightness control examples:
- Increase brightness
- Decrease brightness
- Set brightness to 50 percent
- Set brightness to maximum
- Set brightness to minimum

User command: "%s"

If the command is related to file/folder operations, return a formatted command that clearly specifies:
1. The operation type (create/delete/rename/move/navigate)
2. The object type (file/folder)
3. The path and name information

Format your response for file/folder operations like:
- "CREATE FILE C:\path\to\filename.txt"
- "DELETE FOLDER D:\path\to\folder"
- "RENAME FILE FROM C:\path\old.txt TO C:\path\new.txt"
- "MOVE FOLDER FROM D:\source TO E:\destination"
- "NAVIGATE TO C:\path\to\location"

If the command is related to volume control, return a formatted command that clearly specifies:
1. The operation type (VOLUME)
2. The action (INCREASE/DECREASE/SET/MUTE/UNMUTE)
3. The level (if applicable, as a percentage from 0-100)

Format your response for volume control like:
- "VOLUME INCREASE"
- "VOLUME DECREASE"
- "VOLUME SET 50"
- "VOLUME MUTE"
- "VOLUME UNMUTE"
- "VOLUME MAXIMUM"

If the command is related to brightness control, return a formatted command that clearly specifies:
1. The operation type (BRIGHTNESS)
2. The action (INCREASE/DECREASE/SET)
3. The level (if applicable, as a percentage from 0-100)

Format your response for brightness control like:
- "BRIGHTNESS INCREASE"
- "BRIGHTNESS DECREASE"
- "BRIGHTNESS SET 50"
- "BRIGHTNESS MAXIMUM"
- "BRIGHTNESS MINIMUM"

If it is not related to file/folder operations, volume control, or brightness control, return "UNKNOWN".
`

// Prompt embeds text in the instruction template.
func Prompt(text string) string {
	return strings.Replace(promptTemplate, "%s", text, 1)
}

// Clean trims a model reply and strips one layer of code fence or wrapping
// quotes, which chat models add because the template shows quoted examples.
func Clean(reply string) string {
	reply = strings.TrimSpace(reply)
	if len(reply) >= 6 && strings.HasPrefix(reply, "```") && strings.HasSuffix(reply, "```") {
		body := reply[3 : len(reply)-3]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], " ") {
			body = body[nl+1:] // language tag
		}
		reply = strings.TrimSpace(body)
	}
	for _, q := range []string{"`", `"`} {
		if len(reply) >= 2 && strings.HasPrefix(reply, q) && strings.HasSuffix(reply, q) {
			reply = strings.TrimSpace(reply[1 : len(reply)-1])
			break
		}
	}
	return reply
}

// Static treats the input as an already normalized line. It is used by the
// exec command and by tests that need a deterministic oracle.
type Static struct{}

// Name returns the backend identifier.
func (Static) Name() string { return "static" }

// Classify returns text trimmed.
func (Static) Classify(_ context.Context, text string) (string, error) {
	return strings.TrimSpace(text), nil
}

// Close is a no-op.
func (Static) Close() error { return nil }

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, text string) (string, error)

// Name returns the backend identifier.
func (Func) Name() string { return "func" }

// Classify calls f.
func (f Func) Classify(ctx context.Context, text string) (string, error) { return f(ctx, text) }

// Close is a no-op.
func (Func) Close() error { return nil }
