package system

import (
	"time"

	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/event"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/world"
)

// MaxQueuedCues bounds each AudioCue queue; the oldest cues are dropped.
const MaxQueuedCues = 16

// AudioSystem turns character state changes into named cues on the entity's
// AudioCue component. Playback belongs to whoever drains the queue.
// Priority 4 (Output).
type AudioSystem struct {
	world   *world.State
	pending []event.CharacterStateChanged
}

func NewAudioSystem(ws *world.State) *AudioSystem {
	s := &AudioSystem{world: ws}
	event.Subscribe(ws.Bus, func(ev event.CharacterStateChanged) {
		s.pending = append(s.pending, ev)
	})
	return s
}

func (s *AudioSystem) Name() string               { return "audio" }
func (s *AudioSystem) Priority() coresys.Priority { return coresys.PriorityOutput }

func (s *AudioSystem) Update(_ time.Duration) error {
	for _, ev := range s.pending {
		cue := Cue(ev.To)
		if cue == "" {
			continue
		}
		s.world.Cues.Mutate(ev.Entity, func(a *component.AudioCue) {
			a.Cues = append(a.Cues, cue)
			if n := len(a.Cues); n > MaxQueuedCues {
				a.Cues = append(a.Cues[:0], a.Cues[n-MaxQueuedCues:]...)
			}
		})
	}
	s.pending = s.pending[:0]
	return nil
}

// Cue names the sound played on entering s. Quiet states have none.
func Cue(s character.State) string {
	switch s {
	case character.Idle, character.Walking, character.Crouching, character.Falling:
		return ""
	}
	return "sfx_" + s.Animation()
}
