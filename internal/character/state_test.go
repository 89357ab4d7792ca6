package character

import (
	"errors"
	"testing"
)

func TestAnimationMapping(t *testing.T) {
	seen := make(map[string]State)
	for _, s := range States() {
		a := s.Animation()
		if a == "" {
			t.Fatalf("state %v has no animation", s)
		}
		if prev, ok := seen[a]; ok {
			t.Fatalf("states %v and %v share animation %q", prev, s, a)
		}
		seen[a] = s
	}
	if Walking.Animation() != "walking" || Dead.Animation() != "dead" {
		t.Fatalf("unexpected animation ids %q %q", Walking.Animation(), Dead.Animation())
	}
}

func TestParseState(t *testing.T) {
	cases := []struct {
		in   string
		want State
	}{
		{"Idle", Idle},
		{"sprinting", Sprinting},
		{"ULTIMATE", Ultimate},
		{"dead", Dead},
	}
	for _, c := range cases {
		got, err := ParseState(c.in)
		if err != nil {
			t.Fatalf("ParseState(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseState(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if _, err := ParseState("flying"); !errors.Is(err, ErrUnknownState) {
		t.Fatalf("expected ErrUnknownState, got %v", err)
	}
}

func TestStateText(t *testing.T) {
	b, err := Casting.MarshalText()
	if err != nil || string(b) != "casting" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
	var s State
	if err := s.UnmarshalText([]byte("Hurt")); err != nil || s != Hurt {
		t.Fatalf("UnmarshalText = %v, %v", s, err)
	}
	if State(200).String() != "State(200)" {
		t.Fatalf("unexpected out of range name %q", State(200).String())
	}
}

func TestTierOrdering(t *testing.T) {
	if !(Idle.Tier() < Walking.Tier() &&
		Walking.Tier() < Attacking.Tier() &&
		Attacking.Tier() < Blocking.Tier() &&
		Blocking.Tier() < Stunned.Tier() &&
		Stunned.Tier() < Dead.Tier()) {
		t.Fatal("tiers are not ordered idle < movement < action < guard < stun < dead")
	}
}
