package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/core/event"
	coresys "github.com/cudagame/cudasim/internal/core/system"
)

// EventDispatchSystem makes last tick's events visible and delivers them to
// subscribers. Priority 1 (PreUpdate).
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Name() string               { return "event_dispatch" }
func (s *EventDispatchSystem) Priority() coresys.Priority { return coresys.PriorityPreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) error {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
	return nil
}
