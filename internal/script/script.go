// Package script is the boundary to the scripting layer. The area core
// only decides when a named script fires and with which object ids.
package script

import (
	"log/slog"
	"sync"
)

// Call is one script invocation.
type Call struct {
	Name        string
	CallerID    uint32
	TriggererID uint32
	// UserDefinedEvent is set for OnUserDefined invocations.
	UserDefinedEvent int32
}

// Runner executes named scripts and returns the script result.
type Runner interface {
	Run(call Call) int32
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(call Call) int32

func (f RunnerFunc) Run(call Call) int32 {
	return f(call)
}

// LogRunner only logs invocations. Used when no scripting backend is wired.
type LogRunner struct {
	Logger *slog.Logger
}

func (r LogRunner) Run(call Call) int32 {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("script",
		"name", call.Name,
		"caller", call.CallerID,
		"triggerer", call.TriggererID,
		"userDefined", call.UserDefinedEvent)
	return -1
}

// Recorder remembers every call. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) Run(call Call) int32 {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
	return -1
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Named returns recorded calls of the given script.
func (r *Recorder) Named(name string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}
