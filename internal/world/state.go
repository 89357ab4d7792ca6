package world

import (
	"time"

	"go.uber.org/zap"

	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	"github.com/cudagame/cudasim/internal/core/event"
	coresys "github.com/cudagame/cudasim/internal/core/system"
)

// Options configures a new State.
type Options struct {
	Tuning     *character.Tuning // nil = character.DefaultTuning()
	Rules      character.Rules   // nil = character.BaseRules over Tuning
	DoubleJump bool
	Log        *zap.Logger
}

// State owns the ECS world, its component stores, the event bus and the
// system runner. Accessed only from the simulation goroutine, no locks needed.
type State struct {
	ECS    *ecs.World
	Bus    *event.Bus
	Runner *coresys.Runner

	Transforms *ecs.ComponentStore[component.Transform]
	Velocities *ecs.ComponentStore[component.Velocity]
	Bodies     *ecs.ComponentStore[component.Body]
	Sprites    *ecs.ComponentStore[component.Sprite]
	Cues       *ecs.ComponentStore[component.AudioCue]
	Lifetimes  *ecs.ComponentStore[component.Lifetime]
	Tags       *ecs.ComponentStore[component.Tags]
	Characters *ecs.ComponentStore[component.Character]

	tuning     *character.Tuning
	rules      character.Rules
	doubleJump bool
	log        *zap.Logger

	tick      uint64
	spawned   uint64
	destroyed uint64
	failures  uint64
}

func New(opts Options) *State {
	if opts.Tuning == nil {
		opts.Tuning = character.DefaultTuning()
	}
	if opts.Rules == nil {
		opts.Rules = character.BaseRules{Tuning: opts.Tuning}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	w := ecs.NewWorld()
	s := &State{
		ECS:    w,
		Bus:    event.NewBus(),
		Runner: coresys.NewRunner(),

		Transforms: ecs.Register[component.Transform](w),
		Velocities: ecs.Register[component.Velocity](w),
		Bodies:     ecs.Register[component.Body](w),
		Sprites:    ecs.Register[component.Sprite](w),
		Cues:       ecs.Register[component.AudioCue](w),
		Lifetimes:  ecs.Register[component.Lifetime](w),
		Tags:       ecs.Register[component.Tags](w),
		Characters: ecs.Register[component.Character](w),

		tuning:     opts.Tuning,
		rules:      opts.Rules,
		doubleJump: opts.DoubleJump,
		log:        opts.Log,
	}
	w.OnDestroy(func(id ecs.EntityID) {
		s.destroyed++
		event.Emit(s.Bus, event.EntityDestroyed{Entity: id})
	})
	return s
}

// Log returns the logger systems should use.
func (s *State) Log() *zap.Logger { return s.log }

// Tick returns the number of completed Update calls.
func (s *State) Tick() uint64 { return s.tick }

// Register adds a system to the runner.
func (s *State) Register(sys coresys.System) { s.Runner.Register(sys) }

// Update runs every registered system once. System failures do not stop the
// tick; they are returned combined and reported on the bus as TickFailed.
func (s *State) Update(dt time.Duration) error {
	err := s.Runner.Tick(dt)
	s.tick++
	if err != nil {
		s.failures++
		event.Emit(s.Bus, event.TickFailed{Tick: s.tick, Err: err})
	}
	return err
}

// Retune replaces tuning and rules for every live character. Runtime state
// such as health and timers is kept.
func (s *State) Retune(t *character.Tuning, r character.Rules) {
	if t != nil {
		s.tuning = t
		if r == nil {
			r = character.BaseRules{Tuning: t}
		}
	}
	if r != nil {
		s.rules = r
	}
	s.Characters.Each(func(_ ecs.EntityID, c *component.Character) {
		c.Retune(s.tuning, s.rules)
	})
}

func (s *State) Tuning() *character.Tuning { return s.tuning }

// --- entities ---

// Spawn creates a bare named entity.
func (s *State) Spawn(name string) ecs.EntityID {
	s.spawned++
	return s.ECS.CreateEntity(name)
}

// SpawnCharacter creates a character at pos with every component the
// character systems expect.
func (s *State) SpawnCharacter(name string, pos component.Transform) ecs.EntityID {
	id := s.Spawn(name)
	m := character.NewMachine(s.tuning, s.rules)
	if s.doubleJump {
		m.EnableDoubleJump(true)
	}
	s.Characters.Add(id, m)
	s.Transforms.Add(id, pos)
	s.Velocities.Add(id, component.Velocity{})
	s.Bodies.Add(id, component.Body{Y: pos.Z, Grounded: true})
	s.Sprites.Add(id, component.Sprite{Mesh: name, Animation: m.Animation()})
	s.Cues.Add(id, component.AudioCue{})
	s.Tags.Add(id, component.NewTags("character"))
	s.log.Debug("character spawned", zap.Uint64("entity", uint64(id)), zap.String("name", name))
	return id
}

// Destroy removes an entity immediately. Systems should use
// ECS.MarkForDestruction instead.
func (s *State) Destroy(id ecs.EntityID) bool {
	if !s.ECS.Alive(id) {
		return false
	}
	s.ECS.DestroyEntity(id)
	return true
}

func (s *State) Alive(id ecs.EntityID) bool { return s.ECS.Alive(id) }

func (s *State) Name(id ecs.EntityID) (string, bool) { return s.ECS.Name(id) }

// Character returns a copy of the character machine for id.
func (s *State) Character(id ecs.EntityID) (character.Machine, bool) {
	return s.Characters.Get(id)
}

// Animation returns the animation a renderer should play for id.
func (s *State) Animation(id ecs.EntityID) (string, bool) {
	c, ok := s.Characters.Get(id)
	if !ok {
		return "", false
	}
	return c.Animation(), true
}

// NoteTransition emits the state change events for a character that was in
// from before a mutation. Systems call it after touching a machine.
func (s *State) NoteTransition(id ecs.EntityID, from character.State, c *character.Machine) {
	to := c.State()
	if to == from {
		return
	}
	event.Emit(s.Bus, event.CharacterStateChanged{
		Entity:    id,
		From:      from,
		To:        to,
		Animation: c.Animation(),
	})
	if to == character.Dead {
		name, _ := s.ECS.Name(id)
		event.Emit(s.Bus, event.CharacterDied{Entity: id, Name: name})
		s.log.Info("character died", zap.Uint64("entity", uint64(id)), zap.String("name", name))
	}
}

// Stats is a point-in-time summary of the simulation.
type Stats struct {
	Tick          uint64
	Entities      int
	Characters    int
	Alive         int
	Spawned       uint64
	Destroyed     uint64
	PendingEvents int
	Failures      uint64
}

func (s *State) Stats() Stats {
	alive := 0
	s.Characters.Each(func(_ ecs.EntityID, c *component.Character) {
		if c.Alive() {
			alive++
		}
	})
	return Stats{
		Tick:          s.tick,
		Entities:      s.ECS.Count(),
		Characters:    s.Characters.Len(),
		Alive:         alive,
		Spawned:       s.spawned,
		Destroyed:     s.destroyed,
		PendingEvents: s.Bus.Pending(),
		Failures:      s.failures,
	}
}
