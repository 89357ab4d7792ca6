package character

import (
	"errors"
	"fmt"
	"strings"
)

// State is the canonical state of a character. Exactly one is active at a time.
type State uint8

const (
	Idle State = iota
	Walking
	Running
	Sprinting
	Jumping
	Falling
	Attacking
	Blocking
	Dodging
	Hurt
	Stunned
	Casting
	Ultimate
	Crouching
	Dead

	numStates
)

var stateNames = [numStates]string{
	Idle:      "Idle",
	Walking:   "Walking",
	Running:   "Running",
	Sprinting: "Sprinting",
	Jumping:   "Jumping",
	Falling:   "Falling",
	Attacking: "Attacking",
	Blocking:  "Blocking",
	Dodging:   "Dodging",
	Hurt:      "Hurt",
	Stunned:   "Stunned",
	Casting:   "Casting",
	Ultimate:  "Ultimate",
	Crouching: "Crouching",
	Dead:      "Dead",
}

// States lists every state in declaration order.
func States() []State {
	out := make([]State, numStates)
	for i := range out {
		out[i] = State(i)
	}
	return out
}

func (s State) String() string {
	if s >= numStates {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

// Animation returns the animation id a renderer should play for s.
func (s State) Animation() string {
	return strings.ToLower(s.String())
}

// ErrUnknownState is returned by ParseState for names outside the enumeration.
var ErrUnknownState = errors.New("unknown character state")

// ParseState accepts a state name in any case.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if strings.EqualFold(n, name) {
			return State(i), nil
		}
	}
	return Idle, fmt.Errorf("%w: %q", ErrUnknownState, name)
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.Animation()), nil }

func (s *State) UnmarshalText(b []byte) error {
	v, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Tier is the override priority of a state. An intent that would move the
// character into a lower tier than the current one is rejected.
type Tier uint8

const (
	TierIdle Tier = iota
	TierMovement
	TierAction
	TierGuard
	TierStun
	TierDead
)

func (s State) Tier() Tier {
	switch s {
	case Dead:
		return TierDead
	case Stunned:
		return TierStun
	case Blocking, Dodging:
		return TierGuard
	case Attacking, Casting, Ultimate, Hurt:
		return TierAction
	case Idle:
		return TierIdle
	default:
		return TierMovement
	}
}

func (s State) aerial() bool { return s == Jumping || s == Falling }
