package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

// LifetimeSystem counts down Lifetime components and queues expired entities
// for CleanupSystem, which destroys them in the same tick. A lifetime that is
// already spent is queued on first sight. Priority 3 (PostUpdate).
type LifetimeSystem struct {
	world *world.State
}

func NewLifetimeSystem(ws *world.State) *LifetimeSystem {
	return &LifetimeSystem{world: ws}
}

func (s *LifetimeSystem) Name() string               { return "lifetime" }
func (s *LifetimeSystem) Priority() coresys.Priority { return coresys.PriorityPostUpdate }

func (s *LifetimeSystem) Update(dt time.Duration) error {
	s.world.Lifetimes.Each(func(id ecs.EntityID, l *component.Lifetime) {
		if l.Remaining -= dt; l.Remaining <= 0 {
			s.world.ECS.MarkForDestruction(id)
		}
	})
	return nil
}
