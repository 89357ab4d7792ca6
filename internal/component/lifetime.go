package component

import "time"

// Lifetime marks an entity for destruction once Remaining reaches zero.
type Lifetime struct {
	Remaining time.Duration
}

// Tags is a free-form label set.
type Tags struct {
	Names map[string]struct{}
}

func NewTags(names ...string) Tags {
	t := Tags{Names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		t.Names[n] = struct{}{}
	}
	return t
}

func (t Tags) Has(name string) bool {
	_, ok := t.Names[name]
	return ok
}

func (t Tags) Clone() Tags {
	if t.Names == nil {
		return t
	}
	out := make(map[string]struct{}, len(t.Names))
	for k := range t.Names {
		out[k] = struct{}{}
	}
	return Tags{Names: out}
}
