package component

// Sprite names what a renderer should draw. Nothing in this module renders;
// AnimationSystem only keeps Animation in sync with the character state.
type Sprite struct {
	Mesh      string
	Animation string
}

// AudioCue holds cue names queued for an audio backend. Consumers drain Cues.
type AudioCue struct {
	Cues []string
}

func (a AudioCue) Clone() AudioCue {
	if a.Cues == nil {
		return a
	}
	return AudioCue{Cues: append([]string(nil), a.Cues...)}
}
