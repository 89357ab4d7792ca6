package component

// Transform is the world position of an entity.
// Pure data, zero methods. Systems mutate it through the store.
type Transform struct {
	X, Y, Z float64
}

// Velocity is the planar movement per second before the speed multiplier.
type Velocity struct {
	X, Y float64
}

// Body is the vertical simulation of a character. Y is the height above
// ground; Grounded is set by PhysicsSystem on landing.
type Body struct {
	Y        float64
	VY       float64
	Grounded bool
}
