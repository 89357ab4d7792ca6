package component

import "github.com/cudagame/cudasim/internal/character"

// Character is the per-entity state machine. It is stored by value and cloned
// on every store read and write.
type Character = character.Machine
