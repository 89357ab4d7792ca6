package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/world"
)

// Options selects the optional systems Install registers.
type Options struct {
	SpawnPerTick  int
	SpawnLifetime time.Duration
	RunLog        RunLog // nil = no run log
	RunLogEvery   int    // ticks between snapshots
}

// Systems holds the registered systems callers may need to reach later.
type Systems struct {
	Spawner *SpawnerSystem
	Physics *PhysicsSystem
	RunLog  *RunLogSystem
}

// Install registers the simulation systems on ws in execution order.
func Install(ws *world.State, opts Options) Systems {
	var out Systems
	if opts.SpawnPerTick > 0 {
		out.Spawner = NewSpawnerSystem(ws, opts.SpawnPerTick, opts.SpawnLifetime)
		ws.Register(out.Spawner)
	}
	ws.Register(NewEventDispatchSystem(ws.Bus))
	ws.Register(NewCharacterSystem(ws))
	out.Physics = NewPhysicsSystem(ws)
	ws.Register(out.Physics)
	ws.Register(NewAnimationSystem(ws))
	ws.Register(NewLifetimeSystem(ws))
	ws.Register(NewAudioSystem(ws))
	if opts.RunLog != nil {
		out.RunLog = NewRunLogSystem(ws, opts.RunLog, opts.RunLogEvery)
		ws.Register(out.RunLog)
	}
	ws.Register(NewCleanupSystem(ws))
	return out
}
