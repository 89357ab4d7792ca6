package ecs

import "strconv"

// EntityID is an opaque, strictly positive identifier. Ids are issued in
// increasing order and never handed out twice; only component slots are pooled.
type EntityID uint64

// NilEntity is the zero value. No live entity has this id.
const NilEntity EntityID = 0

func (id EntityID) IsZero() bool   { return id == NilEntity }
func (id EntityID) String() string { return strconv.FormatUint(uint64(id), 10) }

// EntityPool issues entity ids and tracks the live set.
type EntityPool struct {
	next  EntityID
	names map[EntityID]string
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		next:  1,
		names: make(map[EntityID]string, 1024),
	}
}

// Create issues the next id and records it as alive.
func (p *EntityPool) Create(name string) EntityID {
	id := p.next
	p.next++
	p.names[id] = name
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.names[id]
	return ok
}

func (p *EntityPool) Name(id EntityID) (string, bool) {
	name, ok := p.names[id]
	return name, ok
}

// Destroy removes id from the live set. It reports whether the entity was alive.
func (p *EntityPool) Destroy(id EntityID) bool {
	if _, ok := p.names[id]; !ok {
		return false // unknown or already destroyed
	}
	delete(p.names, id)
	return true
}

// Count returns the number of live entities.
func (p *EntityPool) Count() int { return len(p.names) }

// Issued returns how many ids have been handed out in total.
func (p *EntityPool) Issued() uint64 { return uint64(p.next - 1) }
