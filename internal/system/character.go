package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

// CharacterSystem advances every character state machine by dt: timed
// states, cooldowns, combo window and stamina. Priority 2 (Update).
type CharacterSystem struct {
	world *world.State
}

func NewCharacterSystem(ws *world.State) *CharacterSystem {
	return &CharacterSystem{world: ws}
}

func (s *CharacterSystem) Name() string               { return "character" }
func (s *CharacterSystem) Priority() coresys.Priority { return coresys.PriorityUpdate }

func (s *CharacterSystem) Update(dt time.Duration) error {
	s.world.Characters.Each(func(id ecs.EntityID, c *component.Character) {
		from := c.State()
		c.Update(dt)
		s.world.NoteTransition(id, from, c)
	})
	return nil
}
