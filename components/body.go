package components

// Body holds the collision radius of a rigid proxy.
type Body struct {
	Radius float32
}

// Droplet tags a user-spawned water droplet. Seq increases with spawn order
// and drives oldest-first eviction.
type Droplet struct {
	Seq uint64
}
