package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/component"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

// SpawnerSystem creates PerTick short-lived entities every tick. It drives
// the churn scenario: ids keep growing while component pools stay bounded.
// Priority 0 (Input).
type SpawnerSystem struct {
	world    *world.State
	PerTick  int
	Lifetime time.Duration
	tags     component.Tags
	n        uint64
}

// DefaultSpawnLifetime replaces a non-positive lifetime.
const DefaultSpawnLifetime = 100 * time.Millisecond

func NewSpawnerSystem(ws *world.State, perTick int, lifetime time.Duration) *SpawnerSystem {
	if lifetime <= 0 {
		lifetime = DefaultSpawnLifetime
	}
	return &SpawnerSystem{
		world:    ws,
		PerTick:  perTick,
		Lifetime: lifetime,
		tags:     component.NewTags("transient"),
	}
}

func (s *SpawnerSystem) Name() string               { return "spawner" }
func (s *SpawnerSystem) Priority() coresys.Priority { return coresys.PriorityInput }

func (s *SpawnerSystem) Update(_ time.Duration) error {
	for i := 0; i < s.PerTick; i++ {
		s.n++
		id := s.world.Spawn("transient")
		s.world.Transforms.Add(id, component.Transform{X: float64(s.n % 1024), Y: float64(s.n / 1024 % 1024)})
		s.world.Lifetimes.Add(id, component.Lifetime{Remaining: s.Lifetime})
		s.world.Tags.Add(id, s.tags)
	}
	return nil
}

// Spawned returns the number of entities this system has created.
func (s *SpawnerSystem) Spawned() uint64 { return s.n }
