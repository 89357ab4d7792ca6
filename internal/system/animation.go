package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

// AnimationSystem keeps each Sprite's animation in step with its character
// state. Nothing is drawn here. Priority 3 (PostUpdate).
type AnimationSystem struct {
	world *world.State
}

func NewAnimationSystem(ws *world.State) *AnimationSystem {
	return &AnimationSystem{world: ws}
}

func (s *AnimationSystem) Name() string               { return "animation" }
func (s *AnimationSystem) Priority() coresys.Priority { return coresys.PriorityPostUpdate }

func (s *AnimationSystem) Update(_ time.Duration) error {
	ecs.Each2(s.world.Characters, s.world.Sprites, func(_ ecs.EntityID, c *component.Character, sp *component.Sprite) {
		sp.Animation = c.Animation()
	})
	return nil
}
