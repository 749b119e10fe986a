// Package devicetest provides fakes for exercising device backends without
// touching real hardware.
package devicetest

import (
	"context"
	"strings"
	"sync"
)

// Call records one Run invocation.
type Call struct {
	Name string
	Args []string
}

// String renders the call as a shell-like line.
func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner is a scripted device.Runner. Respond picks the output for a call;
// when nil every call succeeds with empty output.
type Runner struct {
	mu      sync.Mutex
	Calls   []Call
	Respond func(c Call) ([]byte, error)
}

// Run records the call and returns the scripted response.
func (r *Runner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	c := Call{Name: name, Args: append([]string(nil), args...)}
	r.mu.Lock()
	r.Calls = append(r.Calls, c)
	respond := r.Respond
	r.mu.Unlock()

	if respond == nil {
		return nil, nil
	}
	return respond(c)
}

// Lines returns every recorded call rendered with Call.String.
func (r *Runner) Lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.String()
	}
	return out
}
