package system

import (
	"time"

	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Each destroyed entity is announced as EntityDestroyed by the world's
// destroy hook. Priority 6 (Cleanup).
type CleanupSystem struct {
	world *world.State
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{world: ws}
}

func (s *CleanupSystem) Name() string               { return "cleanup" }
func (s *CleanupSystem) Priority() coresys.Priority { return coresys.PriorityCleanup }

func (s *CleanupSystem) Update(_ time.Duration) error {
	s.world.ECS.FlushDestroyQueue()
	return nil
}
