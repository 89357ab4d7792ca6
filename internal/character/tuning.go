package character

import "time"

// Ability holds per-ability timings.
type Ability struct {
	Cooldown time.Duration
	CastTime time.Duration
}

// Tuning holds the constants the state machine runs on. A Tuning is shared
// read-only between machines; never mutate one that is in use.
type Tuning struct {
	MaxHealth  int
	MaxStamina float64

	StunThreshold int
	StunDuration  time.Duration

	AttackDuration   time.Duration
	HurtDuration     time.Duration
	DodgeDuration    time.Duration
	CastDuration     time.Duration
	UltimateDuration time.Duration

	// ComboWindow extends the chain past the end of an attack.
	ComboWindow time.Duration
	MaxCombo    int // 0 = unbounded

	SprintDrain  float64 // stamina per second while sprinting
	StaminaRegen float64 // stamina per second otherwise

	JumpVelocity float64
	MaxUltimate  float64

	// Speed is the movement multiplier per state; AimFactor scales it while aiming.
	Speed     [numStates]float64
	AimFactor float64

	DefaultAbility Ability
	Abilities      map[string]Ability
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() *Tuning {
	t := &Tuning{
		MaxHealth:        100,
		MaxStamina:       100,
		StunThreshold:    75,
		StunDuration:     time.Second,
		AttackDuration:   400 * time.Millisecond,
		HurtDuration:     300 * time.Millisecond,
		DodgeDuration:    500 * time.Millisecond,
		CastDuration:     600 * time.Millisecond,
		UltimateDuration: 1500 * time.Millisecond,
		ComboWindow:      500 * time.Millisecond,
		SprintDrain:      60,
		StaminaRegen:     20,
		JumpVelocity:     10,
		MaxUltimate:      100,
		AimFactor:        0.5,
		DefaultAbility:   Ability{Cooldown: 3 * time.Second},
		Abilities:        map[string]Ability{},
	}
	t.Speed = [numStates]float64{
		Idle:      1,
		Walking:   1,
		Running:   1.5,
		Sprinting: 2,
		Jumping:   1,
		Falling:   1,
		Attacking: 0.25,
		Blocking:  0.5,
		Dodging:   1.5,
		Hurt:      0.5,
		Stunned:   0,
		Casting:   0,
		Ultimate:  0,
		Crouching: 0.5,
		Dead:      0,
	}
	return t
}

// Ability returns the timings for name, falling back to DefaultAbility.
func (t *Tuning) Ability(name string) Ability {
	a, ok := t.Abilities[name]
	if !ok {
		a = t.DefaultAbility
	}
	if a.CastTime <= 0 {
		a.CastTime = t.CastDuration
	}
	return a
}

// duration returns how long a timed state lasts; zero means untimed.
func (t *Tuning) duration(s State) time.Duration {
	switch s {
	case Attacking:
		return t.AttackDuration
	case Hurt:
		return t.HurtDuration
	case Dodging:
		return t.DodgeDuration
	case Stunned:
		return t.StunDuration
	case Casting:
		return t.CastDuration
	case Ultimate:
		return t.UltimateDuration
	}
	return 0
}
