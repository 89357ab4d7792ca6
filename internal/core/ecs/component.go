package ecs

// Kind identifies a registered component type within one World.
type Kind uint16

// Cloner is implemented by components holding reference types (slices, maps)
// that must be deep-copied on the way into and out of a store.
type Cloner[T any] interface {
	Clone() T
}

func clone[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// Store is the kind-erased view of a component store. The Registry uses it to
// recycle an entity's data on destroy and to answer queries by kind.
type Store interface {
	Kind() Kind
	Name() string
	Has(id EntityID) bool
	Remove(id EntityID)
	Len() int
	PoolSize() int
	appendEntities(dst []EntityID) []EntityID
}

// ComponentStore is a pooled arena for components of type T. Slots are
// addressed by index; removing a component zeroes its slot and pushes the
// index onto the free list for reuse by the next Add.
type ComponentStore[T any] struct {
	kind  Kind
	name  string
	alive func(EntityID) bool

	slots []T
	owner []EntityID // NilEntity marks a pooled slot
	index map[EntityID]int32
	free  []int32
}

func newComponentStore[T any](kind Kind, name string, alive func(EntityID) bool) *ComponentStore[T] {
	return &ComponentStore[T]{
		kind:  kind,
		name:  name,
		alive: alive,
		slots: make([]T, 0, 256),
		owner: make([]EntityID, 0, 256),
		index: make(map[EntityID]int32, 256),
	}
}

func (s *ComponentStore[T]) Kind() Kind   { return s.kind }
func (s *ComponentStore[T]) Name() string { return s.name }

// Add stores a deep copy of c for id, replacing any existing component of
// this kind. It is a no-op returning false when id is not alive.
func (s *ComponentStore[T]) Add(id EntityID, c T) bool {
	if s.alive != nil && !s.alive(id) {
		return false
	}
	v := clone(c)
	if i, ok := s.index[id]; ok {
		s.slots[i] = v
		return true
	}
	if n := len(s.free); n > 0 {
		i := s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[i] = v
		s.owner[i] = id
		s.index[id] = i
		return true
	}
	s.slots = append(s.slots, v)
	s.owner = append(s.owner, id)
	s.index[id] = int32(len(s.slots) - 1)
	return true
}

// Get returns a copy of the component stored for id.
func (s *ComponentStore[T]) Get(id EntityID) (T, bool) {
	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return clone(s.slots[i]), true
}

func (s *ComponentStore[T]) Has(id EntityID) bool {
	_, ok := s.index[id]
	return ok
}

// Mutate applies fn to the stored component in place. The pointer must not be
// retained past fn: a later Add may grow the arena and move it.
func (s *ComponentStore[T]) Mutate(id EntityID, fn func(*T)) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	fn(&s.slots[i])
	return true
}

// Remove detaches the component and returns its slot to the pool.
func (s *ComponentStore[T]) Remove(id EntityID) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	var zero T
	s.slots[i] = zero
	s.owner[i] = NilEntity
	delete(s.index, id)
	s.free = append(s.free, i)
}

// Len returns the number of live (assigned) components.
func (s *ComponentStore[T]) Len() int { return len(s.index) }

// PoolSize returns the number of pooled, unassigned slots.
func (s *ComponentStore[T]) PoolSize() int { return len(s.free) }

// Each visits every live component in slot order.
func (s *ComponentStore[T]) Each(fn func(EntityID, *T)) {
	for i := range s.slots {
		if id := s.owner[i]; id != NilEntity {
			fn(id, &s.slots[i])
		}
	}
}

func (s *ComponentStore[T]) appendEntities(dst []EntityID) []EntityID {
	for _, id := range s.owner {
		if id != NilEntity {
			dst = append(dst, id)
		}
	}
	return dst
}
