package main

import (
	"math/rand"
	"sort"
	"time"

	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	"github.com/cudagame/cudasim/internal/world"
)

// respawnDelay is how long a dead character stays down before the autopilot
// brings it back.
const respawnDelay = 3 * time.Second

// autopilot drives the spawned characters with seeded random intents so a
// headless run exercises every state. It stands in for player input.
type autopilot struct {
	world  *world.State
	rng    *rand.Rand
	heroes []ecs.EntityID
	down   map[ecs.EntityID]time.Duration
}

func newAutopilot(ws *world.State, seed int64, heroes []ecs.EntityID) *autopilot {
	return &autopilot{
		world:  ws,
		rng:    rand.New(rand.NewSource(seed)),
		heroes: heroes,
		down:   make(map[ecs.EntityID]time.Duration, len(heroes)),
	}
}

func (a *autopilot) Update(dt time.Duration) error {
	for _, id := range a.heroes {
		c, ok := a.world.Character(id)
		if !ok {
			continue
		}
		if !c.Alive() {
			a.down[id] += dt
			if a.down[id] >= respawnDelay {
				delete(a.down, id)
				a.world.Respawn(id)
			}
			continue
		}
		a.act(id)
	}
	return nil
}

func (a *autopilot) act(id ecs.EntityID) {
	ws := a.world
	switch roll := a.rng.Intn(1000); {
	case roll < 40:
		ws.Move(id, a.rng.Float64()*2-1, a.rng.Float64()*2-1)
	case roll < 50:
		ws.Move(id, 0, 0)
	case roll < 60:
		ws.SetRunning(id, a.rng.Intn(2) == 0)
	case roll < 65:
		ws.SetSprinting(id, a.rng.Intn(2) == 0)
	case roll < 70:
		ws.SetCrouching(id, a.rng.Intn(2) == 0)
	case roll < 75:
		ws.SetAiming(id, a.rng.Intn(2) == 0)
	case roll < 90:
		ws.Jump(id)
	case roll < 120:
		if ws.Attack(id) {
			ws.ChargeUltimate(id, 5)
			a.hitSomeone(id)
		}
	case roll < 130:
		ws.Block(id, true)
	case roll < 140:
		ws.Block(id, false)
	case roll < 148:
		ws.Dodge(id)
	case roll < 153:
		ws.UseAbility(id, a.ability())
	case roll < 155:
		ws.UseUltimate(id)
	}
}

// hitSomeone applies a melee hit to the nearest other living hero.
func (a *autopilot) hitSomeone(attacker ecs.EntityID) {
	from, ok := a.world.Transforms.Get(attacker)
	if !ok {
		return
	}
	best, bestDist := ecs.NilEntity, 4.0
	for _, id := range a.heroes {
		if id == attacker {
			continue
		}
		to, ok := a.world.Transforms.Get(id)
		if !ok {
			continue
		}
		if d := dist(from, to); d < bestDist {
			best, bestDist = id, d
		}
	}
	if !best.IsZero() {
		a.world.Damage(best, 5+a.rng.Intn(80))
	}
}

func (a *autopilot) ability() string {
	table := a.world.Tuning().Abilities
	if len(table) == 0 {
		return "fireball"
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[a.rng.Intn(len(names))]
}

func dist(a, b component.Transform) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}
