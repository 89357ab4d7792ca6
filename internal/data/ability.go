package data

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cudagame/cudasim/internal/character"
)

// AbilityInfo holds the timings of one named ability.
type AbilityInfo struct {
	Name     string
	Cooldown time.Duration
	CastTime time.Duration // 0 = tuning cast duration
}

// AbilityTable holds all abilities indexed by name.
type AbilityTable struct {
	abilities map[string]*AbilityInfo
}

// Get returns an ability by name, or nil if not found.
func (t *AbilityTable) Get(name string) *AbilityInfo {
	return t.abilities[name]
}

// Count returns total loaded abilities.
func (t *AbilityTable) Count() int {
	return len(t.abilities)
}

// Names returns the ability names in sorted order.
func (t *AbilityTable) Names() []string {
	out := make([]string, 0, len(t.abilities))
	for n := range t.abilities {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Apply copies the table into t.Abilities, replacing entries of the same name.
func (t *AbilityTable) Apply(tun *character.Tuning) {
	if tun.Abilities == nil {
		tun.Abilities = make(map[string]character.Ability, len(t.abilities))
	}
	for name, a := range t.abilities {
		tun.Abilities[name] = character.Ability{Cooldown: a.Cooldown, CastTime: a.CastTime}
	}
}

// --- YAML loading ---

type abilityEntry struct {
	Name     string        `yaml:"name"`
	Cooldown time.Duration `yaml:"cooldown"`
	CastTime time.Duration `yaml:"cast_time"`
}

type abilityListFile struct {
	Abilities []abilityEntry `yaml:"abilities"`
}

// LoadAbilityTable loads ability definitions from YAML.
func LoadAbilityTable(path string) (*AbilityTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read abilities: %w", err)
	}
	var f abilityListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse abilities: %w", err)
	}
	return newAbilityTable(f.Abilities)
}

func newAbilityTable(entries []abilityEntry) (*AbilityTable, error) {
	t := &AbilityTable{abilities: make(map[string]*AbilityInfo, len(entries))}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" {
			return nil, fmt.Errorf("%w: ability #%d has no name", ErrInvalidTuning, i)
		}
		if e.Cooldown < 0 || e.CastTime < 0 {
			return nil, fmt.Errorf("%w: ability %q has a negative timing", ErrInvalidTuning, e.Name)
		}
		if _, dup := t.abilities[e.Name]; dup {
			return nil, fmt.Errorf("%w: ability %q defined twice", ErrInvalidTuning, e.Name)
		}
		t.abilities[e.Name] = &AbilityInfo{
			Name:     e.Name,
			Cooldown: e.Cooldown,
			CastTime: e.CastTime,
		}
	}
	return t, nil
}
