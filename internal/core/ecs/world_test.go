package ecs

import (
	"testing"
)

type transform struct{ X, Y, Z float32 }

type render struct{ Mesh string }

type physics struct{ Mass, Friction float32 }

type inventory struct{ Items []string }

func (c inventory) Clone() inventory {
	return inventory{Items: append([]string(nil), c.Items...)}
}

func TestCreateEntity(t *testing.T) {
	w := NewWorld()
	a := w.CreateEntity("Player")
	b := w.CreateEntity("Enemy")
	if a.IsZero() || b.IsZero() {
		t.Fatal("expected non-nil entity ids")
	}
	if b <= a {
		t.Fatalf("expected increasing ids, got %v then %v", a, b)
	}
	if !w.Alive(a) {
		t.Fatal("expected entity to be alive after creation")
	}
	if name, ok := w.Name(a); !ok || name != "Player" {
		t.Fatalf("expected name Player, got %q (ok=%v)", name, ok)
	}
}

func TestDestroyEntity(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("Temp")
	transforms.Add(id, transform{X: 1})

	w.DestroyEntity(id)
	w.DestroyEntity(id) // idempotent
	w.DestroyEntity(EntityID(999))

	if w.Alive(id) {
		t.Fatal("entity should not be alive after DestroyEntity")
	}
	if transforms.Has(id) {
		t.Fatal("component should be gone after DestroyEntity")
	}
	if _, ok := transforms.Get(id); ok {
		t.Fatal("Get on a destroyed entity should report absent")
	}
	if w.Has(id, transforms.Kind()) {
		t.Fatal("Has on a destroyed entity should report false")
	}
	if got := transforms.PoolSize(); got != 1 {
		t.Fatalf("expected 1 pooled slot, got %d", got)
	}
}

func TestIDsNotReissued(t *testing.T) {
	w := NewWorld()
	first := w.CreateEntity("a")
	w.DestroyEntity(first)
	second := w.CreateEntity("b")
	if second == first {
		t.Fatalf("destroyed id %v was reissued", first)
	}
}

func TestAddToDeadEntityIsNoop(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("gone")
	w.DestroyEntity(id)
	if transforms.Add(id, transform{X: 1}) {
		t.Fatal("Add on a dead entity should be rejected")
	}
	if transforms.Len() != 0 {
		t.Fatalf("expected empty store, got %d", transforms.Len())
	}
}

func TestComponentManagement(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	renders := Register[render](w)
	bodies := Register[physics](w)

	id := w.CreateEntity("TestEntity")
	transforms.Add(id, transform{})
	renders.Add(id, render{Mesh: "player.mesh"})
	bodies.Add(id, physics{Mass: 1, Friction: 0.5})

	for _, s := range w.Registry().Stores() {
		if !s.Has(id) {
			t.Fatalf("expected %s component", s.Name())
		}
	}

	w.Remove(id, bodies.Kind())
	if bodies.Has(id) {
		t.Fatal("physics should be removed")
	}
	w.Remove(id, bodies.Kind()) // absent: no-op
	if got := w.PoolSize(bodies.Kind()); got != 1 {
		t.Fatalf("expected pool size 1, got %d", got)
	}
}

func TestAddOverwritesSameKind(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("e")
	transforms.Add(id, transform{X: 1})
	transforms.Add(id, transform{X: 2})
	if transforms.Len() != 1 {
		t.Fatalf("expected a single component, got %d", transforms.Len())
	}
	got, _ := transforms.Get(id)
	if got.X != 2 {
		t.Fatalf("expected overwritten X=2, got %v", got.X)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	w := NewWorld()
	a := Register[transform](w)
	b := Register[transform](w)
	if a != b {
		t.Fatal("expected the same store for the same type")
	}
	k, ok := KindOf[transform](w)
	if !ok || k != a.Kind() {
		t.Fatalf("KindOf mismatch: %v %v", k, ok)
	}
	if _, ok := KindOf[render](w); ok {
		t.Fatal("unregistered type should have no kind")
	}
}

func TestComponentDataIntegrity(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("Test")

	original := transform{X: 1.5, Y: 2.5, Z: 3.5}
	transforms.Add(id, original)
	original.X = 999

	stored, _ := transforms.Get(id)
	if stored.X != 1.5 {
		t.Fatalf("stored value changed through caller copy: %v", stored.X)
	}

	stored.X = 42
	again, _ := transforms.Get(id)
	if again.X != 1.5 {
		t.Fatalf("stored value changed through Get copy: %v", again.X)
	}
}

func TestCloneOnAddAndGet(t *testing.T) {
	w := NewWorld()
	inv := Register[inventory](w)
	id := w.CreateEntity("bag")

	items := []string{"sword", "shield"}
	inv.Add(id, inventory{Items: items})
	items[0] = "stick"

	got, _ := inv.Get(id)
	if got.Items[0] != "sword" {
		t.Fatalf("slice aliased into store: %v", got.Items)
	}
	got.Items[1] = "bucket"
	again, _ := inv.Get(id)
	if again.Items[1] != "shield" {
		t.Fatalf("slice aliased out of store: %v", again.Items)
	}
}

func TestComponentPoolRecycling(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)

	for i := 0; i < 100; i++ {
		id := w.CreateEntity("Temp")
		transforms.Add(id, transform{X: float32(i), Y: float32(i), Z: float32(i)})
		w.DestroyEntity(id)
	}

	// Each destroy frees the slot the next create reuses.
	pool := transforms.PoolSize()
	if pool <= 0 || pool > 100 {
		t.Fatalf("expected pool size in (0, 100], got %d", pool)
	}
	if len(transforms.slots) != 1 {
		t.Fatalf("expected arena of 1 reused slot, got %d", len(transforms.slots))
	}
}

func TestPoolGrowthBoundedByRemovals(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	ids := make([]EntityID, 10)
	for i := range ids {
		ids[i] = w.CreateEntity("e")
		transforms.Add(ids[i], transform{X: float32(i)})
	}
	for i, id := range ids[:4] {
		transforms.Remove(id)
		if got := transforms.PoolSize(); got != i+1 {
			t.Fatalf("after %d removals pool size = %d", i+1, got)
		}
	}
	if got := w.EntitiesWith(transforms.Kind()).Len(); got != 6 {
		t.Fatalf("pooled slots leaked into query: %d results", got)
	}
}

func TestPooledSlotHasNoStaleData(t *testing.T) {
	w := NewWorld()
	bodies := Register[physics](w)
	old := w.CreateEntity("old")
	bodies.Add(old, physics{Mass: 80, Friction: 0.9})
	w.DestroyEntity(old)

	fresh := w.CreateEntity("fresh")
	bodies.Add(fresh, physics{Mass: 2})
	if bodies.PoolSize() != 0 {
		t.Fatalf("expected pooled slot to be reassigned, pool=%d", bodies.PoolSize())
	}
	got, _ := bodies.Get(fresh)
	if got.Friction != 0 {
		t.Fatalf("stale friction leaked into reused slot: %v", got.Friction)
	}
	if got.Mass != 2 {
		t.Fatalf("expected mass 2, got %v", got.Mass)
	}
}

func TestMutate(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("e")
	transforms.Add(id, transform{})
	if !transforms.Mutate(id, func(c *transform) { c.X = 7 }) {
		t.Fatal("Mutate should find the component")
	}
	got, _ := transforms.Get(id)
	if got.X != 7 {
		t.Fatalf("expected X=7, got %v", got.X)
	}
	if transforms.Mutate(EntityID(404), func(*transform) {}) {
		t.Fatal("Mutate on absent entity should report false")
	}
}

func TestDeferredDestruction(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("e")
	transforms.Add(id, transform{})

	var destroyed []EntityID
	w.OnDestroy(func(id EntityID) { destroyed = append(destroyed, id) })

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	if !w.Alive(id) {
		t.Fatal("entity should stay alive until the queue is flushed")
	}
	if n := w.FlushDestroyQueue(); n != 1 {
		t.Fatalf("expected 1 destroyed entity, got %d", n)
	}
	if w.Alive(id) || w.Pending() != 0 {
		t.Fatal("queue not flushed")
	}
	if len(destroyed) != 1 || destroyed[0] != id {
		t.Fatalf("OnDestroy callbacks = %v", destroyed)
	}
}
