package character

import "time"

// DamageContext describes an incoming hit as seen by the rules.
type DamageContext struct {
	Amount   int
	Health   int
	State    State
	Blocking bool
}

// Rules decides how raw damage lands on a character. The scripting engine
// provides a Lua-backed implementation.
type Rules interface {
	IncomingDamage(ctx DamageContext) int
	StunDuration(damage int) time.Duration
}

// BaseRules applies damage unchanged and stuns for the tuned duration.
type BaseRules struct {
	Tuning *Tuning
}

func (BaseRules) IncomingDamage(ctx DamageContext) int { return ctx.Amount }

func (r BaseRules) StunDuration(int) time.Duration { return r.Tuning.StunDuration }
