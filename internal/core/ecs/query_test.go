package ecs

import "testing"

func TestEntitiesWith(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	renders := Register[render](w)
	bodies := Register[physics](w)

	player := w.CreateEntity("Player")
	transforms.Add(player, transform{})
	renders.Add(player, render{Mesh: "player.mesh"})
	bodies.Add(player, physics{Mass: 1, Friction: 0.5})

	enemy := w.CreateEntity("Enemy")
	transforms.Add(enemy, transform{X: 10})
	renders.Add(enemy, render{Mesh: "enemy.mesh"})

	invisible := w.CreateEntity("Invisible")
	transforms.Add(invisible, transform{X: 5, Y: 5, Z: 5})

	got := w.EntitiesWith(transforms.Kind(), renders.Kind())
	if got.Len() != 2 {
		t.Fatalf("expected 2 results, got %d", got.Len())
	}
	if !got.Contains(player) || !got.Contains(enemy) {
		t.Fatalf("expected player and enemy, got %v", got.Sorted())
	}
	if got.Contains(invisible) {
		t.Fatal("entity with only a transform should not match")
	}

	// Argument order does not matter.
	rev := w.EntitiesWith(renders.Kind(), transforms.Kind())
	if rev.Len() != 2 {
		t.Fatalf("expected 2 results for reversed kinds, got %d", rev.Len())
	}
}

func TestEntitiesWithEdgeCases(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	id := w.CreateEntity("e")
	transforms.Add(id, transform{})

	cases := []struct {
		name  string
		kinds []Kind
		want  int
	}{
		{"no_kinds", nil, 0},
		{"unknown_kind", []Kind{transforms.Kind(), 42}, 0},
		{"single_kind", []Kind{transforms.Kind()}, 1},
		{"duplicate_kind", []Kind{transforms.Kind(), transforms.Kind()}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.EntitiesWith(c.kinds...).Len(); got != c.want {
				t.Fatalf("expected %d, got %d", c.want, got)
			}
		})
	}
}

func TestEntitiesWithIsSnapshot(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	a := w.CreateEntity("a")
	transforms.Add(a, transform{})

	snap := w.EntitiesWith(transforms.Kind())
	b := w.CreateEntity("b")
	transforms.Add(b, transform{})
	w.DestroyEntity(a)

	if snap.Len() != 1 || !snap.Contains(a) {
		t.Fatalf("snapshot changed after the store did: %v", snap.Sorted())
	}
}

func TestEach2AndEach3(t *testing.T) {
	w := NewWorld()
	transforms := Register[transform](w)
	renders := Register[render](w)
	bodies := Register[physics](w)

	for i := 0; i < 5; i++ {
		id := w.CreateEntity("e")
		transforms.Add(id, transform{X: float32(i)})
		if i%2 == 0 {
			renders.Add(id, render{})
		}
		if i == 4 {
			bodies.Add(id, physics{})
		}
	}

	n := 0
	Each2(transforms, renders, func(_ EntityID, tr *transform, _ *render) {
		tr.Y = 1
		n++
	})
	if n != 3 {
		t.Fatalf("Each2 visited %d entities, want 3", n)
	}

	n = 0
	Each3(transforms, renders, bodies, func(_ EntityID, tr *transform, _ *render, _ *physics) {
		if tr.Y != 1 {
			t.Errorf("expected Each2 mutation to be visible, got Y=%v", tr.Y)
		}
		n++
	})
	if n != 1 {
		t.Fatalf("Each3 visited %d entities, want 1", n)
	}
}

func TestSortedIsAscending(t *testing.T) {
	s := EntitySet{5: {}, 1: {}, 3: {}}
	got := s.Sorted()
	want := []EntityID{1, 3, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() = %v, want %v", got, want)
		}
	}
}
