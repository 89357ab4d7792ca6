package world

import (
	"time"

	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
)

// Intent forwarders. Each returns false for dead or unknown entities and for
// intents the state machine rejects.

// apply runs fn against the stored machine and emits transition events.
func (s *State) apply(id ecs.EntityID, fn func(*character.Machine) bool) bool {
	accepted := false
	s.Characters.Mutate(id, func(c *component.Character) {
		from := c.State()
		accepted = fn(c)
		s.NoteTransition(id, from, c)
	})
	return accepted
}

// Move sets the movement vector. PhysicsSystem integrates it.
func (s *State) Move(id ecs.EntityID, x, y float64) bool {
	ok := s.apply(id, func(c *character.Machine) bool { return c.Move(x, y) })
	if ok {
		s.Velocities.Add(id, component.Velocity{X: x, Y: y})
	}
	return ok
}

func (s *State) Jump(id ecs.EntityID) bool {
	ok := s.apply(id, (*character.Machine).Jump)
	if ok {
		s.Bodies.Mutate(id, func(b *component.Body) { b.Grounded = false })
	}
	return ok
}

func (s *State) Attack(id ecs.EntityID) bool {
	return s.apply(id, (*character.Machine).Attack)
}

func (s *State) Block(id ecs.EntityID, on bool) bool {
	return s.apply(id, func(c *character.Machine) bool { return c.SetBlocking(on) })
}

func (s *State) Dodge(id ecs.EntityID) bool {
	return s.apply(id, (*character.Machine).Dodge)
}

func (s *State) Damage(id ecs.EntityID, amount int) bool {
	return s.apply(id, func(c *character.Machine) bool { return c.TakeDamage(amount) })
}

func (s *State) Stun(id ecs.EntityID, d time.Duration) bool {
	return s.apply(id, func(c *character.Machine) bool { return c.Stun(d) })
}

func (s *State) UseAbility(id ecs.EntityID, name string) bool {
	return s.apply(id, func(c *character.Machine) bool { return c.UseAbility(name) })
}

func (s *State) ChargeUltimate(id ecs.EntityID, n float64) bool {
	return s.apply(id, func(c *character.Machine) bool {
		if !c.Alive() {
			return false
		}
		c.ChargeUltimate(n)
		return true
	})
}

func (s *State) UseUltimate(id ecs.EntityID) bool {
	return s.apply(id, (*character.Machine).UseUltimate)
}

func (s *State) SetRunning(id ecs.EntityID, on bool) bool {
	return s.setFlag(id, func(c *character.Machine) { c.SetRunning(on) })
}

func (s *State) SetSprinting(id ecs.EntityID, on bool) bool {
	return s.setFlag(id, func(c *character.Machine) { c.SetSprinting(on) })
}

func (s *State) SetCrouching(id ecs.EntityID, on bool) bool {
	return s.setFlag(id, func(c *character.Machine) { c.SetCrouching(on) })
}

func (s *State) SetAiming(id ecs.EntityID, on bool) bool {
	return s.setFlag(id, func(c *character.Machine) { c.SetAiming(on) })
}

func (s *State) EnableDoubleJump(id ecs.EntityID, on bool) bool {
	return s.setFlag(id, func(c *character.Machine) { c.EnableDoubleJump(on) })
}

// Respawn brings a character back at its current position.
func (s *State) Respawn(id ecs.EntityID) bool {
	ok := s.apply(id, func(c *character.Machine) bool {
		c.Respawn()
		return true
	})
	if ok {
		s.Velocities.Add(id, component.Velocity{})
		s.Bodies.Mutate(id, func(b *component.Body) { *b = component.Body{Grounded: true} })
	}
	return ok
}

func (s *State) setFlag(id ecs.EntityID, fn func(*character.Machine)) bool {
	return s.apply(id, func(c *character.Machine) bool {
		if !c.Alive() {
			return false
		}
		fn(c)
		return true
	})
}
