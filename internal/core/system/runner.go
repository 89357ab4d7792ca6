package system

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"
)

// Runner executes systems in priority order each tick. Systems sharing a
// priority run in registration order.
type Runner struct {
	systems []System
	sorted  bool
}

func NewRunner() *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// AddFunc registers a plain handler at the given priority.
func (r *Runner) AddFunc(priority Priority, name string, fn func(dt time.Duration) error) {
	r.Register(NewFunc(priority, name, fn))
}

// Tick runs every system once. A failing system never stops the ones after
// it; all failures are combined and returned once the tick is complete.
func (r *Runner) Tick(dt time.Duration) error {
	r.ensureSorted()
	var errs error
	for _, s := range r.systems {
		if err := runOne(s, dt); err != nil {
			errs = multierr.Append(errs, &SystemError{System: s.Name(), Err: err})
		}
	}
	return errs
}

// Systems returns the system names in execution order.
func (r *Runner) Systems() []string {
	r.ensureSorted()
	names := make([]string, len(r.systems))
	for i, s := range r.systems {
		names[i] = s.Name()
	}
	return names
}

func (r *Runner) Len() int { return len(r.systems) }

func runOne(s System, dt time.Duration) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return s.Update(dt)
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Priority() < r.systems[j].Priority()
		})
		r.sorted = true
	}
}
