package system

import (
	"errors"
	"fmt"
	"time"
)

// Priority defines execution ordering within a single tick. Lower runs first.
type Priority int

const (
	PriorityInput      Priority = iota // 0: consume intents, spawn
	PriorityPreUpdate                  // 1: dispatch last tick's events
	PriorityUpdate                     // 2: state machines, physics
	PriorityPostUpdate                 // 3: animation, lifetimes
	PriorityOutput                     // 4: collaborator outputs (audio cues)
	PriorityPersist                    // 5: run log
	PriorityCleanup                    // 6: destroy queued entities
)

// System is the interface every ECS system implements.
type System interface {
	Name() string
	Priority() Priority
	Update(dt time.Duration) error
}

// ErrPanic marks a system failure caused by a recovered panic.
var ErrPanic = errors.New("system panicked")

// SystemError wraps a failure of one system during a tick.
type SystemError struct {
	System string
	Err    error
}

func (e *SystemError) Error() string { return fmt.Sprintf("system %s: %v", e.System, e.Err) }
func (e *SystemError) Unwrap() error { return e.Err }

// Func adapts a plain handler into a System.
type Func struct {
	name     string
	priority Priority
	fn       func(dt time.Duration) error
}

func NewFunc(priority Priority, name string, fn func(dt time.Duration) error) *Func {
	return &Func{name: name, priority: priority, fn: fn}
}

func (f *Func) Name() string                  { return f.name }
func (f *Func) Priority() Priority            { return f.priority }
func (f *Func) Update(dt time.Duration) error { return f.fn(dt) }
