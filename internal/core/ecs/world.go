package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and a deferred destruction queue flushed by CleanupSystem each tick.
// Worlds share nothing; every simulation constructs its own.
type World struct {
	pool         *EntityPool
	registry     *Registry
	destroyQueue []EntityID
	onDestroy    []func(EntityID)
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity(name string) EntityID {
	return w.pool.Create(name)
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

func (w *World) Name(id EntityID) (string, bool) {
	return w.pool.Name(id)
}

// Count returns the number of live entities.
func (w *World) Count() int { return w.pool.Count() }

// OnDestroy registers fn to run after an entity has been destroyed.
func (w *World) OnDestroy(fn func(EntityID)) {
	w.onDestroy = append(w.onDestroy, fn)
}

// DestroyEntity removes id from the live set and recycles its components.
// Unknown and already destroyed ids are ignored.
func (w *World) DestroyEntity(id EntityID) {
	if !w.pool.Destroy(id) {
		return
	}
	w.registry.RecycleAll(id)
	for _, fn := range w.onDestroy {
		fn(id)
	}
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending returns the number of queued destructions.
func (w *World) Pending() int { return len(w.destroyQueue) }

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.pool.Alive(id) {
			w.DestroyEntity(id)
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}

// Has reports whether id carries a component of the given kind.
func (w *World) Has(id EntityID, kind Kind) bool {
	s, ok := w.registry.Store(kind)
	return ok && s.Has(id)
}

// Remove detaches the component of the given kind from id, pooling its slot.
func (w *World) Remove(id EntityID, kind Kind) {
	if s, ok := w.registry.Store(kind); ok {
		s.Remove(id)
	}
}

// PoolSize returns the number of pooled slots for kind.
func (w *World) PoolSize(kind Kind) int {
	s, ok := w.registry.Store(kind)
	if !ok {
		return 0
	}
	return s.PoolSize()
}
