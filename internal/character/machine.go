package character

import "time"

var stockTuning = DefaultTuning()

// Machine is the state of one character. It is a plain value so it can live in
// an ECS component store; Clone deep-copies the cooldown table.
//
// Intents return whether they were accepted. A rejected intent leaves the
// machine unchanged and is not an error.
type Machine struct {
	tuning *Tuning
	rules  Rules

	state     State
	remaining time.Duration // time left in a timed state

	health  int
	stamina float64
	alive   bool

	running   bool
	sprinting bool
	crouching bool
	aiming    bool
	blocking  bool
	moving    bool

	airborne         bool
	doubleJump       bool
	jumpsRemaining   int
	verticalVelocity float64

	combo       int
	comboWindow time.Duration

	ultimate  float64
	cooldowns map[string]time.Duration
}

// NewMachine returns an Idle, living character. Nil tuning or rules select the defaults.
func NewMachine(t *Tuning, r Rules) Machine {
	if t == nil {
		t = stockTuning
	}
	if r == nil {
		r = BaseRules{Tuning: t}
	}
	return Machine{
		tuning:         t,
		rules:          r,
		state:          Idle,
		health:         t.MaxHealth,
		stamina:        t.MaxStamina,
		alive:          true,
		jumpsRemaining: 1,
	}
}

func (m Machine) Clone() Machine {
	if m.cooldowns != nil {
		cds := make(map[string]time.Duration, len(m.cooldowns))
		for k, v := range m.cooldowns {
			cds[k] = v
		}
		m.cooldowns = cds
	}
	return m
}

func (m *Machine) tun() *Tuning {
	if m.tuning == nil {
		return stockTuning
	}
	return m.tuning
}

func (m *Machine) ruleset() Rules {
	if m.rules == nil {
		return BaseRules{Tuning: m.tun()}
	}
	return m.rules
}

// Retune swaps the tuning and rules in place, keeping all runtime state.
func (m *Machine) Retune(t *Tuning, r Rules) {
	if t != nil {
		m.tuning = t
	}
	if r != nil {
		m.rules = r
	}
}

// enter switches to s and arms its timer. Entering an interrupting state
// breaks the combo chain.
func (m *Machine) enter(s State) {
	m.state = s
	m.remaining = m.tun().duration(s)
	switch s {
	case Hurt, Stunned, Dodging:
		m.blocking = false
		m.resetCombo()
	case Dead:
		m.blocking, m.moving = false, false
		m.resetCombo()
	case Blocking:
		m.resetCombo()
	case Idle:
		// A grounded Idle character holds no direction; Move must be sent again.
		if !m.airborne {
			m.moving = false
		}
	}
}

func (m *Machine) resetCombo() {
	m.combo = 0
	m.comboWindow = 0
}

// restState is where a timed state expires to.
func (m *Machine) restState() State {
	if m.airborne {
		if m.verticalVelocity < 0 {
			return Falling
		}
		return Jumping
	}
	return Idle
}

func (m *Machine) movementState() State {
	switch {
	case !m.moving:
		return Idle
	case m.sprinting && m.stamina > 0:
		return Sprinting
	case m.running || m.sprinting:
		return Running
	case m.crouching:
		return Crouching
	default:
		return Walking
	}
}

func (m *Machine) jumpCount() int {
	if m.doubleJump {
		return 2
	}
	return 1
}

// reselect re-evaluates the movement state after a flag change.
func (m *Machine) reselect() {
	if m.alive && !m.airborne && m.state.Tier() == TierMovement && m.moving {
		m.enter(m.movementState())
	}
}

// --- movement ---

// Move supplies the current movement vector. A zero vector returns a grounded
// character to Idle. While airborne the aerial state is kept.
func (m *Machine) Move(x, y float64) bool {
	if !m.CanMove() || m.state.Tier() > TierMovement {
		return false
	}
	m.moving = x != 0 || y != 0
	if m.airborne {
		return true
	}
	m.enter(m.movementState())
	return true
}

func (m *Machine) SetRunning(on bool)   { m.running = on; m.reselect() }
func (m *Machine) SetSprinting(on bool) { m.sprinting = on; m.reselect() }
func (m *Machine) SetCrouching(on bool) { m.crouching = on; m.reselect() }
func (m *Machine) SetAiming(on bool)    { m.aiming = on }

// EnableDoubleJump toggles the second air jump. A grounded character gets the
// new jump count immediately.
func (m *Machine) EnableDoubleJump(on bool) {
	m.doubleJump = on
	if !m.airborne {
		m.jumpsRemaining = m.jumpCount()
	}
}

// Jump starts a jump from the ground, or an air jump when double jump is
// enabled and jumps remain.
func (m *Machine) Jump() bool {
	if !m.CanMove() || m.state.Tier() > TierMovement {
		return false
	}
	if m.airborne && (!m.doubleJump || m.jumpsRemaining <= 0) {
		return false
	}
	if m.jumpsRemaining > 0 {
		m.jumpsRemaining--
	}
	m.airborne = true
	m.verticalVelocity = m.tun().JumpVelocity
	m.enter(Jumping)
	return true
}

// SetVerticalVelocity is fed by physics. A rising character starts falling as
// soon as the velocity turns negative.
func (m *Machine) SetVerticalVelocity(v float64) {
	m.verticalVelocity = v
	m.checkFalling()
}

func (m *Machine) checkFalling() {
	if m.airborne && m.verticalVelocity < 0 && m.state == Jumping {
		m.enter(Falling)
	}
}

// Land puts the character back on the ground and refills its jumps. A
// character still holding a direction lands straight into its movement state.
func (m *Machine) Land() bool {
	if !m.airborne {
		return false
	}
	m.airborne = false
	m.verticalVelocity = 0
	m.jumpsRemaining = m.jumpCount()
	if m.alive && m.state.aerial() {
		m.enter(m.movementState())
	}
	return true
}

// --- combat ---

// Attack starts or continues a combo. Rejected while blocking, dodging,
// stunned or dead.
func (m *Machine) Attack() bool {
	if !m.CanAttack() || m.blocking || m.state.Tier() > TierAction {
		return false
	}
	t := m.tun()
	if m.comboWindow > 0 && (t.MaxCombo <= 0 || m.combo < t.MaxCombo) {
		m.combo++
	} else {
		m.combo = 1
	}
	m.enter(Attacking)
	m.comboWindow = t.AttackDuration + t.ComboWindow
	return true
}

// SetBlocking raises or lowers the guard.
func (m *Machine) SetBlocking(on bool) bool {
	if !m.alive {
		return false
	}
	if !on {
		m.blocking = false
		if m.state == Blocking {
			m.enter(m.restState())
		}
		return true
	}
	if m.state.Tier() > TierGuard {
		return false
	}
	m.enter(Blocking)
	m.blocking = true
	return true
}

// Dodge grants invulnerability for the dodge duration.
func (m *Machine) Dodge() bool {
	if !m.alive || m.state.Tier() > TierGuard {
		return false
	}
	m.enter(Dodging)
	return true
}

// TakeDamage applies a hit. Hits on an invulnerable character are absorbed.
// Lethal damage kills regardless of state; heavy damage stuns; anything else
// causes a hurt reaction if nothing stronger is active.
func (m *Machine) TakeDamage(amount int) bool {
	if !m.alive || amount < 0 || m.Invulnerable() {
		return false
	}
	rules := m.ruleset()
	dmg := rules.IncomingDamage(DamageContext{
		Amount:   amount,
		Health:   m.health,
		State:    m.state,
		Blocking: m.blocking,
	})
	if dmg < 0 {
		dmg = 0
	}
	m.health -= dmg
	switch {
	case m.health <= 0:
		m.health = 0
		m.alive = false
		m.moving = false
		m.enter(Dead)
	case dmg >= m.tun().StunThreshold:
		m.stun(rules.StunDuration(dmg))
	case m.state.Tier() <= TierAction:
		m.enter(Hurt)
	}
	return true
}

// Stun suppresses movement and attacks for d.
func (m *Machine) Stun(d time.Duration) bool {
	if !m.alive || d <= 0 {
		return false
	}
	m.stun(d)
	return true
}

func (m *Machine) stun(d time.Duration) {
	if m.state == Stunned && m.remaining > d {
		return
	}
	m.enter(Stunned)
	m.remaining = d
}

// --- abilities ---

// UseAbility starts casting name unless it is on cooldown.
func (m *Machine) UseAbility(name string) bool {
	if !m.CanAttack() || m.state.Tier() > TierAction || m.OnCooldown(name) {
		return false
	}
	a := m.tun().Ability(name)
	m.enter(Casting)
	m.remaining = a.CastTime
	if a.Cooldown > 0 {
		if m.cooldowns == nil {
			m.cooldowns = make(map[string]time.Duration, 4)
		}
		m.cooldowns[name] = a.Cooldown
	}
	return true
}

func (m *Machine) OnCooldown(name string) bool {
	return m.cooldowns[name] > 0
}

// Cooldown returns the time left before name can be used again.
func (m *Machine) Cooldown(name string) time.Duration {
	return m.cooldowns[name]
}

// ChargeUltimate adds n to the ultimate meter, clamped to its range.
func (m *Machine) ChargeUltimate(n float64) {
	if !m.alive {
		return
	}
	m.ultimate += n
	if limit := m.tun().MaxUltimate; m.ultimate > limit {
		m.ultimate = limit
	}
	if m.ultimate < 0 {
		m.ultimate = 0
	}
}

func (m *Machine) CanUseUltimate() bool {
	return m.ultimate >= m.tun().MaxUltimate
}

// UseUltimate spends a full meter.
func (m *Machine) UseUltimate() bool {
	if !m.CanUseUltimate() || !m.CanAttack() || m.state.Tier() > TierAction {
		return false
	}
	m.enter(Ultimate)
	m.ultimate = 0
	return true
}

// Respawn is the only way out of Dead. It restores health and stamina and
// clears every transient flag.
func (m *Machine) Respawn() {
	t := m.tun()
	m.health = t.MaxHealth
	m.stamina = t.MaxStamina
	m.alive = true
	m.running, m.sprinting, m.crouching, m.aiming, m.blocking, m.moving = false, false, false, false, false, false
	m.airborne = false
	m.verticalVelocity = 0
	m.jumpsRemaining = m.jumpCount()
	m.cooldowns = nil
	m.enter(Idle)
	m.resetCombo()
}

// --- time ---

// Update advances the machine by dt of simulated time.
func (m *Machine) Update(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	for name, left := range m.cooldowns {
		if left -= dt; left <= 0 {
			delete(m.cooldowns, name)
		} else {
			m.cooldowns[name] = left
		}
	}
	if !m.alive {
		return
	}

	if m.comboWindow > 0 {
		if m.comboWindow -= dt; m.comboWindow <= 0 {
			m.resetCombo()
		}
	}

	if m.remaining > 0 {
		if m.remaining -= dt; m.remaining <= 0 {
			m.remaining = 0
			m.enter(m.restState())
		}
	}

	t := m.tun()
	secs := dt.Seconds()
	if m.state == Sprinting {
		m.stamina -= t.SprintDrain * secs
		if m.stamina <= 0 {
			m.stamina = 0
			m.enter(m.movementState())
		}
	} else if m.stamina < t.MaxStamina {
		m.stamina += t.StaminaRegen * secs
		if m.stamina > t.MaxStamina {
			m.stamina = t.MaxStamina
		}
	}

	m.checkFalling()
}

// --- derived ---

func (m *Machine) State() State      { return m.state }
func (m *Machine) Animation() string { return m.state.Animation() }

// SpeedMultiplier scales base movement speed for the current state and flags.
func (m *Machine) SpeedMultiplier() float64 {
	v := m.tun().Speed[m.state]
	if m.aiming {
		v *= m.tun().AimFactor
	}
	return v
}

func (m *Machine) Invulnerable() bool { return m.state == Dodging }
func (m *Machine) CanMove() bool      { return m.alive && m.state != Stunned }
func (m *Machine) CanAttack() bool    { return m.alive && m.state != Stunned }

func (m *Machine) Alive() bool               { return m.alive }
func (m *Machine) Health() int               { return m.health }
func (m *Machine) Stamina() float64          { return m.stamina }
func (m *Machine) Combo() int                { return m.combo }
func (m *Machine) Airborne() bool            { return m.airborne }
func (m *Machine) JumpsRemaining() int       { return m.jumpsRemaining }
func (m *Machine) VerticalVelocity() float64 { return m.verticalVelocity }
func (m *Machine) UltimateCharge() float64   { return m.ultimate }
func (m *Machine) Remaining() time.Duration  { return m.remaining }
func (m *Machine) Blocking() bool            { return m.blocking }
func (m *Machine) Crouching() bool           { return m.crouching }
func (m *Machine) Aiming() bool              { return m.aiming }
func (m *Machine) Moving() bool              { return m.moving }
func (m *Machine) DoubleJumpEnabled() bool   { return m.doubleJump }
