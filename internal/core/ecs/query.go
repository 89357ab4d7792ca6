package ecs

import "slices"

// EntitySet is an unordered query result. It is a snapshot: later changes to
// the world do not alter a set that was already returned.
type EntitySet map[EntityID]struct{}

func (s EntitySet) Contains(id EntityID) bool {
	_, ok := s[id]
	return ok
}

func (s EntitySet) Len() int { return len(s) }

// Sorted returns the members in ascending id order.
func (s EntitySet) Sorted() []EntityID {
	out := make([]EntityID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// EntitiesWith returns every entity holding all of the given kinds. Entities
// with extra kinds qualify too. No kinds, or an unregistered kind, yields an
// empty set.
func (w *World) EntitiesWith(kinds ...Kind) EntitySet {
	result := make(EntitySet)
	if len(kinds) == 0 {
		return result
	}
	stores := make([]Store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.registry.Store(k)
		if !ok {
			return result
		}
		stores = append(stores, s)
	}

	// Iterate the smallest store and probe the others.
	smallest := 0
	for i, s := range stores {
		if s.Len() < stores[smallest].Len() {
			smallest = i
		}
	}
	candidates := stores[smallest].appendEntities(make([]EntityID, 0, stores[smallest].Len()))
	for _, id := range candidates {
		match := true
		for i, s := range stores {
			if i != smallest && !s.Has(id) {
				match = false
				break
			}
		}
		if match {
			result[id] = struct{}{}
		}
	}
	return result
}

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller store and checks the larger one.
func Each2[A, B any](sa *ComponentStore[A], sb *ComponentStore[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		sa.Each(func(id EntityID, a *A) {
			if i, ok := sb.index[id]; ok {
				fn(id, a, &sb.slots[i])
			}
		})
		return
	}
	sb.Each(func(id EntityID, b *B) {
		if i, ok := sa.index[id]; ok {
			fn(id, &sa.slots[i], b)
		}
	})
}

// Each3 iterates over entities that have components A, B, and C, driven by A.
func Each3[A, B, C any](sa *ComponentStore[A], sb *ComponentStore[B], sc *ComponentStore[C], fn func(EntityID, *A, *B, *C)) {
	sa.Each(func(id EntityID, a *A) {
		ib, ok := sb.index[id]
		if !ok {
			return
		}
		ic, ok := sc.index[id]
		if !ok {
			return
		}
		fn(id, a, &sb.slots[ib], &sc.slots[ic])
	})
}
