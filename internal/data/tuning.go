package data

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cudagame/cudasim/internal/character"
)

// ErrInvalidTuning is returned when a tuning file parses but holds values the
// state machine cannot run on.
var ErrInvalidTuning = errors.New("invalid tuning")

// --- YAML loading ---

type tuningEntry struct {
	MaxHealth     int           `yaml:"max_health"`
	MaxStamina    float64       `yaml:"max_stamina"`
	StunThreshold int           `yaml:"stun_threshold"`
	StunDuration  time.Duration `yaml:"stun_duration"`

	AttackDuration   time.Duration `yaml:"attack_duration"`
	HurtDuration     time.Duration `yaml:"hurt_duration"`
	DodgeDuration    time.Duration `yaml:"dodge_duration"`
	CastDuration     time.Duration `yaml:"cast_duration"`
	UltimateDuration time.Duration `yaml:"ultimate_duration"`

	ComboWindow time.Duration `yaml:"combo_window"`
	MaxCombo    int           `yaml:"max_combo"`

	SprintDrain  float64 `yaml:"sprint_drain"`
	StaminaRegen float64 `yaml:"stamina_regen"`
	JumpVelocity float64 `yaml:"jump_velocity"`
	MaxUltimate  float64 `yaml:"max_ultimate"`

	Speed     map[string]float64 `yaml:"speed"` // state name → multiplier
	AimFactor float64            `yaml:"aim_factor"`

	DefaultCooldown time.Duration `yaml:"default_cooldown"`
}

type tuningFile struct {
	Character tuningEntry    `yaml:"character"`
	Abilities []abilityEntry `yaml:"abilities"`
}

// LoadTuning reads a tuning file. Keys missing from the file keep their
// values from character.DefaultTuning.
func LoadTuning(path string) (*character.Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning: %w", err)
	}
	return ParseTuning(raw)
}

// ParseTuning is LoadTuning over an in-memory document.
func ParseTuning(raw []byte) (*character.Tuning, error) {
	t := character.DefaultTuning()
	f := tuningFile{Character: entryFrom(t)}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse tuning: %w", err)
	}
	if err := f.Character.apply(t); err != nil {
		return nil, err
	}
	abilities, err := newAbilityTable(f.Abilities)
	if err != nil {
		return nil, err
	}
	abilities.Apply(t)
	return t, nil
}

func entryFrom(t *character.Tuning) tuningEntry {
	return tuningEntry{
		MaxHealth:        t.MaxHealth,
		MaxStamina:       t.MaxStamina,
		StunThreshold:    t.StunThreshold,
		StunDuration:     t.StunDuration,
		AttackDuration:   t.AttackDuration,
		HurtDuration:     t.HurtDuration,
		DodgeDuration:    t.DodgeDuration,
		CastDuration:     t.CastDuration,
		UltimateDuration: t.UltimateDuration,
		ComboWindow:      t.ComboWindow,
		MaxCombo:         t.MaxCombo,
		SprintDrain:      t.SprintDrain,
		StaminaRegen:     t.StaminaRegen,
		JumpVelocity:     t.JumpVelocity,
		MaxUltimate:      t.MaxUltimate,
		AimFactor:        t.AimFactor,
		DefaultCooldown:  t.DefaultAbility.Cooldown,
	}
}

func (e *tuningEntry) apply(t *character.Tuning) error {
	if e.MaxHealth <= 0 || e.MaxStamina < 0 || e.MaxUltimate <= 0 {
		return fmt.Errorf("%w: max_health, max_stamina and max_ultimate must be positive", ErrInvalidTuning)
	}
	for name, d := range map[string]time.Duration{
		"stun_duration":     e.StunDuration,
		"attack_duration":   e.AttackDuration,
		"hurt_duration":     e.HurtDuration,
		"dodge_duration":    e.DodgeDuration,
		"cast_duration":     e.CastDuration,
		"ultimate_duration": e.UltimateDuration,
		"combo_window":      e.ComboWindow,
		"default_cooldown":  e.DefaultCooldown,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidTuning, name, d)
		}
	}
	if e.MaxCombo < 0 || e.SprintDrain < 0 || e.StaminaRegen < 0 {
		return fmt.Errorf("%w: max_combo, sprint_drain and stamina_regen must not be negative", ErrInvalidTuning)
	}

	t.MaxHealth = e.MaxHealth
	t.MaxStamina = e.MaxStamina
	t.StunThreshold = e.StunThreshold
	t.StunDuration = e.StunDuration
	t.AttackDuration = e.AttackDuration
	t.HurtDuration = e.HurtDuration
	t.DodgeDuration = e.DodgeDuration
	t.CastDuration = e.CastDuration
	t.UltimateDuration = e.UltimateDuration
	t.ComboWindow = e.ComboWindow
	t.MaxCombo = e.MaxCombo
	t.SprintDrain = e.SprintDrain
	t.StaminaRegen = e.StaminaRegen
	t.JumpVelocity = e.JumpVelocity
	t.MaxUltimate = e.MaxUltimate
	t.AimFactor = e.AimFactor
	t.DefaultAbility.Cooldown = e.DefaultCooldown

	for name, v := range e.Speed {
		s, err := character.ParseState(name)
		if err != nil {
			return fmt.Errorf("tuning speed table: %w", err)
		}
		if v < 0 {
			return fmt.Errorf("%w: speed for %s is negative", ErrInvalidTuning, s)
		}
		t.Speed[s] = v
	}
	return nil
}
