package component

import (
	"testing"

	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/core/ecs"
)

func TestClonedComponentsAreIsolated(t *testing.T) {
	w := ecs.NewWorld()
	cues := ecs.Register[AudioCue](w)
	tags := ecs.Register[Tags](w)

	id := w.CreateEntity("hero")
	src := AudioCue{Cues: []string{"step"}}
	cues.Add(id, src)
	src.Cues[0] = "changed"

	got, _ := cues.Get(id)
	if got.Cues[0] != "step" {
		t.Fatalf("store shares the caller's slice: %v", got.Cues)
	}
	got.Cues[0] = "changed"
	again, _ := cues.Get(id)
	if again.Cues[0] != "step" {
		t.Fatalf("Get returned shared storage: %v", again.Cues)
	}

	tags.Add(id, NewTags("player"))
	tg, _ := tags.Get(id)
	delete(tg.Names, "player")
	if tg2, _ := tags.Get(id); !tg2.Has("player") {
		t.Fatal("tag map shared between store and caller")
	}
}

func TestCharacterComponentRoundTrip(t *testing.T) {
	w := ecs.NewWorld()
	chars := ecs.Register[Character](w)
	id := w.CreateEntity("hero")
	chars.Add(id, character.NewMachine(nil, nil))
	chars.Mutate(id, func(c *Character) { c.UseAbility("fireball") })

	c, ok := chars.Get(id)
	if !ok || !c.OnCooldown("fireball") {
		t.Fatal("mutation through the store was lost")
	}
	c.Respawn()
	if c2, _ := chars.Get(id); !c2.OnCooldown("fireball") {
		t.Fatal("Get did not deep copy the cooldown table")
	}
}
