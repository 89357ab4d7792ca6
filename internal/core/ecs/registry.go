package ecs

import "reflect"

// Registry tracks all component stores of a world, assigns kinds, and
// recycles an entity's components on destroy.
type Registry struct {
	stores []Store // indexed by Kind
	byType map[reflect.Type]Store
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Store, 0, 16),
		byType: make(map[reflect.Type]Store, 16),
	}
}

// Register returns the store for T, creating it on first use.
func Register[T any](w *World) *ComponentStore[T] {
	r := w.registry
	t := reflect.TypeOf((*T)(nil)).Elem()
	if s, ok := r.byType[t]; ok {
		return s.(*ComponentStore[T])
	}
	s := newComponentStore[T](Kind(len(r.stores)), t.Name(), w.pool.Alive)
	r.stores = append(r.stores, s)
	r.byType[t] = s
	return s
}

// KindOf returns the kind assigned to T, or false if T was never registered.
func KindOf[T any](w *World) (Kind, bool) {
	s, ok := w.registry.byType[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return 0, false
	}
	return s.Kind(), true
}

// Store returns the store registered under kind.
func (r *Registry) Store(kind Kind) (Store, bool) {
	if int(kind) >= len(r.stores) {
		return nil, false
	}
	return r.stores[kind], true
}

// Stores returns all stores in kind order.
func (r *Registry) Stores() []Store {
	return append([]Store(nil), r.stores...)
}

// RecycleAll detaches every component of id and returns the slots to their pools.
func (r *Registry) RecycleAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
