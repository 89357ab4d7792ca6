package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

const (
	DefaultGravity   = 30.0 // units/s²
	DefaultBaseSpeed = 5.0  // units/s at speed multiplier 1
)

// PhysicsSystem moves characters. Planar motion is Velocity scaled by the
// state's speed multiplier; vertical motion integrates gravity on Body and
// feeds the result back into the machine, which detects falling and landing.
// Priority 2 (Update), registered after CharacterSystem.
type PhysicsSystem struct {
	world     *world.State
	Gravity   float64
	BaseSpeed float64
}

func NewPhysicsSystem(ws *world.State) *PhysicsSystem {
	return &PhysicsSystem{world: ws, Gravity: DefaultGravity, BaseSpeed: DefaultBaseSpeed}
}

func (s *PhysicsSystem) Name() string               { return "physics" }
func (s *PhysicsSystem) Priority() coresys.Priority { return coresys.PriorityUpdate }

func (s *PhysicsSystem) Update(dt time.Duration) error {
	secs := dt.Seconds()
	ecs.Each3(s.world.Characters, s.world.Transforms, s.world.Bodies,
		func(id ecs.EntityID, c *component.Character, tr *component.Transform, b *component.Body) {
			from := c.State()

			if v, ok := s.world.Velocities.Get(id); ok && c.Moving() {
				k := s.BaseSpeed * c.SpeedMultiplier() * secs
				tr.X += v.X * k
				tr.Y += v.Y * k
			}

			if c.Airborne() {
				vy := c.VerticalVelocity()
				b.Y += vy * secs
				vy -= s.Gravity * secs
				b.VY = vy
				b.Grounded = false
				c.SetVerticalVelocity(vy)
				if b.Y <= 0 {
					b.Y, b.VY, b.Grounded = 0, 0, true
					c.Land()
				}
			}
			tr.Z = b.Y

			s.world.NoteTransition(id, from, c)
		})
	return nil
}
