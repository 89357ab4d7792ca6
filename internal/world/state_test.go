package world_test

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/core/ecs"
	"github.com/cudagame/cudasim/internal/core/event"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/system"
	"github.com/cudagame/cudasim/internal/world"
)

const frame = 16 * time.Millisecond

func newState(t testing.TB, opts world.Options) *world.State {
	t.Helper()
	if opts.Log == nil {
		opts.Log = zaptest.NewLogger(t)
	}
	ws := world.New(opts)
	system.Install(ws, system.Options{})
	return ws
}

func TestSpawnCharacter(t *testing.T) {
	ws := newState(t, world.Options{})
	id := ws.SpawnCharacter("hero", component.Transform{X: 3, Y: 4})

	if name, ok := ws.Name(id); !ok || name != "hero" {
		t.Fatalf("expected name hero, got %q %v", name, ok)
	}
	if anim, ok := ws.Animation(id); !ok || anim != "idle" {
		t.Fatalf("expected idle animation, got %q", anim)
	}
	for _, k := range []struct {
		name string
		has  bool
	}{
		{"transform", ws.Transforms.Has(id)},
		{"velocity", ws.Velocities.Has(id)},
		{"body", ws.Bodies.Has(id)},
		{"sprite", ws.Sprites.Has(id)},
		{"cues", ws.Cues.Has(id)},
		{"tags", ws.Tags.Has(id)},
		{"character", ws.Characters.Has(id)},
	} {
		if !k.has {
			t.Errorf("character spawned without %s", k.name)
		}
	}
	if tr, _ := ws.Transforms.Get(id); tr.X != 3 || tr.Y != 4 {
		t.Fatalf("position not kept: %+v", tr)
	}
}

func TestIntentsOnUnknownOrDestroyed(t *testing.T) {
	ws := newState(t, world.Options{})
	id := ws.SpawnCharacter("hero", component.Transform{})
	bare := ws.Spawn("rock")
	if !ws.Destroy(id) {
		t.Fatal("destroy of live entity failed")
	}
	if ws.Destroy(id) {
		t.Fatal("second destroy should report false")
	}

	for _, target := range []ecs.EntityID{id, bare, ecs.EntityID(9999), ecs.NilEntity} {
		accepted := map[string]bool{
			"move":        ws.Move(target, 1, 0),
			"jump":        ws.Jump(target),
			"attack":      ws.Attack(target),
			"block":       ws.Block(target, true),
			"unblock":     ws.Block(target, false),
			"dodge":       ws.Dodge(target),
			"damage":      ws.Damage(target, 10),
			"stun":        ws.Stun(target, time.Second),
			"ability":     ws.UseAbility(target, "fireball"),
			"charge":      ws.ChargeUltimate(target, 10),
			"ultimate":    ws.UseUltimate(target),
			"run":         ws.SetRunning(target, true),
			"sprint":      ws.SetSprinting(target, true),
			"crouch":      ws.SetCrouching(target, true),
			"aim":         ws.SetAiming(target, true),
			"double_jump": ws.EnableDoubleJump(target, true),
			"respawn":     ws.Respawn(target),
		}
		for name, ok := range accepted {
			if ok {
				t.Errorf("%s accepted for entity %v", name, target)
			}
		}
	}
	if _, ok := ws.Character(id); ok {
		t.Fatal("destroyed character still readable")
	}
	if _, ok := ws.Animation(bare); ok {
		t.Fatal("non-character has an animation")
	}
}

func TestDeathThroughFacade(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ws := newState(t, world.Options{Log: zap.New(core)})
	id := ws.SpawnCharacter("hero", component.Transform{})

	var died []event.CharacterDied
	event.Subscribe(ws.Bus, func(ev event.CharacterDied) { died = append(died, ev) })

	ws.SetRunning(id, true)
	ws.Move(id, 1, 0)
	if c, _ := ws.Character(id); c.State() != character.Running {
		t.Fatalf("expected Running, got %v", c.State())
	}
	if !ws.Damage(id, 200) {
		t.Fatal("lethal damage rejected")
	}
	if err := ws.Update(frame); err != nil {
		t.Fatal(err)
	}

	c, _ := ws.Character(id)
	if c.State() != character.Dead || c.Alive() {
		t.Fatalf("expected dead character, got %v alive=%v", c.State(), c.Alive())
	}
	if len(died) != 1 || died[0].Name != "hero" || died[0].Entity != id {
		t.Fatalf("expected one CharacterDied for hero, got %+v", died)
	}
	entries := logs.FilterMessage("character died").All()
	if len(entries) != 1 || entries[0].ContextMap()["name"] != "hero" {
		t.Fatalf("expected a death log entry, got %v", entries)
	}
	if ws.Move(id, 1, 0) || ws.Attack(id) || ws.Block(id, false) {
		t.Fatal("dead character accepted an intent")
	}
	if ws.Stats().Alive != 0 {
		t.Fatalf("stats still count the dead: %+v", ws.Stats())
	}

	if !ws.Respawn(id) {
		t.Fatal("respawn rejected")
	}
	if c, _ := ws.Character(id); c.State() != character.Idle || c.Health() != 100 {
		t.Fatalf("respawn did not restore, got %v hp=%d", c.State(), c.Health())
	}
}

func TestDodgeAndComboThroughFacade(t *testing.T) {
	ws := newState(t, world.Options{})
	id := ws.SpawnCharacter("hero", component.Transform{})

	ws.Dodge(id)
	ws.Damage(id, 50)
	if c, _ := ws.Character(id); c.Health() != 100 {
		t.Fatalf("dodge did not absorb the hit, health=%d", c.Health())
	}
	for i := 0; i < 32; i++ {
		ws.Update(frame)
	}
	for i := 0; i < 3; i++ {
		if !ws.Attack(id) {
			t.Fatalf("attack %d rejected", i+1)
		}
	}
	if c, _ := ws.Character(id); c.Combo() != 3 {
		t.Fatalf("expected combo 3, got %d", c.Combo())
	}
	for i := 0; i < 30; i++ {
		ws.Update(frame)
	}
	if anim, _ := ws.Animation(id); anim != "idle" {
		t.Fatalf("attack did not expire, animation %q", anim)
	}
}

func TestDoubleJumpOption(t *testing.T) {
	ws := newState(t, world.Options{DoubleJump: true})
	id := ws.SpawnCharacter("hero", component.Transform{})
	if !ws.Jump(id) || !ws.Jump(id) {
		t.Fatal("double jump not enabled by option")
	}
	if ws.Jump(id) {
		t.Fatal("third jump accepted")
	}
}

func TestRetune(t *testing.T) {
	ws := newState(t, world.Options{})
	id := ws.SpawnCharacter("hero", component.Transform{})
	ws.Damage(id, 10)

	tun := character.DefaultTuning()
	tun.StunThreshold = 5
	ws.Retune(tun, nil)

	if ws.Tuning() != tun {
		t.Fatal("tuning not replaced")
	}
	ws.Damage(id, 6)
	c, _ := ws.Character(id)
	if c.State() != character.Stunned {
		t.Fatalf("new threshold not applied, got %v", c.State())
	}
	if c.Health() != 84 {
		t.Fatalf("retune lost runtime state, health=%d", c.Health())
	}

	later := ws.SpawnCharacter("late", component.Transform{})
	ws.Damage(later, 5)
	if c, _ := ws.Character(later); c.State() != character.Stunned {
		t.Fatal("new characters should use the new tuning")
	}
}

type failing struct{}

func (failing) Name() string               { return "failing" }
func (failing) Priority() coresys.Priority { return coresys.PriorityUpdate }
func (failing) Update(time.Duration) error { panic("broken system") }

func TestUpdateReportsFailures(t *testing.T) {
	ws := newState(t, world.Options{})
	ws.Register(failing{})
	id := ws.SpawnCharacter("hero", component.Transform{})
	ws.Attack(id)

	var failed []event.TickFailed
	event.Subscribe(ws.Bus, func(ev event.TickFailed) { failed = append(failed, ev) })

	err := ws.Update(frame)
	if !errors.Is(err, coresys.ErrPanic) {
		t.Fatalf("expected recovered panic, got %v", err)
	}
	if c, _ := ws.Character(id); c.Remaining() != 400*time.Millisecond-frame {
		t.Fatal("healthy systems did not run alongside the failing one")
	}
	ws.Update(frame)
	// The second failure is delivered next tick.
	if len(failed) != 1 || failed[0].Tick != 1 {
		t.Fatalf("expected one TickFailed for tick 1, got %+v", failed)
	}
	if st := ws.Stats(); st.Failures != 2 || st.Tick != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func BenchmarkChurn(b *testing.B) {
	for _, perTick := range []int{10, 100, 1000} {
		b.Run("spawn_"+strconv.Itoa(perTick), func(b *testing.B) {
			ws := world.New(world.Options{})
			system.Install(ws, system.Options{SpawnPerTick: perTick, SpawnLifetime: 3 * frame})
			for i := 0; i < 8; i++ {
				ws.SpawnCharacter("hero", component.Transform{})
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ws.Update(frame)
			}
		})
	}
}

