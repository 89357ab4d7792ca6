package event

import (
	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/core/ecs"
)

// CharacterStateChanged is emitted whenever a character's canonical state changes.
type CharacterStateChanged struct {
	Entity    ecs.EntityID
	From      character.State
	To        character.State
	Animation string
}

// CharacterDied is emitted once when a character enters Dead.
type CharacterDied struct {
	Entity ecs.EntityID
	Name   string
}

type EntityDestroyed struct {
	Entity ecs.EntityID
}

// TickFailed carries the batched system failures of one tick.
type TickFailed struct {
	Tick uint64
	Err  error
}
