// Package particle implements the fixed-capacity particle pool every entity
// visual owns.
package particle

// DefaultCapacity is the number of slots a pool created with NewPool(0) has.
const DefaultCapacity = 1024

// Particle is one short-lived effect sprite. Position and velocity are
// offsets relative to the owning entity.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Lifetime   float64 // remaining seconds
	Total      float64 // lifetime at spawn
	SpriteID   int
	Color      [3]float32
	Active     bool
}

// Spawn describes a particle to allocate.
type Spawn struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	Lifetime   float64
	SpriteID   int
	Color      [3]float32
}

// Pool is a fixed-capacity particle array. searchCursor is the lowest index
// that may be free; highWater is one past the highest index that may still
// be active. Aging and traversal only touch [0, highWater).
//
// A pool is never grown: Allocate drops the particle when no free slot exists
// between the cursor and the capacity, even if lower slots are free.
type Pool struct {
	slots        []Particle
	capacity     int
	searchCursor int
	highWater    int

	// SpawnIDs and SpawnChance drive ambient emission: each tick the owner
	// rolls SpawnChance*dt and, on success, spawns one of SpawnIDs.
	SpawnIDs    []int
	SpawnChance float64
}

// NewPool returns an empty pool. capacity <= 0 selects DefaultCapacity. Slot
// memory is reserved on the first allocation.
func NewPool(capacity int) *Pool {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Pool{capacity: capacity}
}

func (p *Pool) Capacity() int     { return p.capacity }
func (p *Pool) SearchCursor() int { return p.searchCursor }
func (p *Pool) HighWater() int    { return p.highWater }

// HasParticles reports whether any slot may still be active.
func (p *Pool) HasParticles() bool { return p.highWater > 0 }

// Allocate writes s into the first inactive slot at or after the search
// cursor. It returns false, and leaves the pool untouched, when none is free.
func (p *Pool) Allocate(s Spawn) bool {
	if p.slots == nil {
		p.slots = make([]Particle, p.capacity)
	}
	for i := p.searchCursor; i < p.capacity; i++ {
		if p.slots[i].Active {
			continue
		}
		p.slots[i] = Particle{
			X: s.X, Y: s.Y, Z: s.Z,
			VX: s.VX, VY: s.VY, VZ: s.VZ,
			Lifetime: s.Lifetime,
			Total:    s.Lifetime,
			SpriteID: s.SpriteID,
			Color:    s.Color,
			Active:   true,
		}
		if i+1 > p.highWater {
			p.highWater = i + 1
		}
		p.searchCursor = i + 1
		return true
	}
	return false
}

// Age advances every active particle by dt, retires the expired ones and
// shrinks the working window to the particles still alive.
func (p *Pool) Age(dt float64) {
	lastActive := -1
	cursor := p.searchCursor
	for i := 0; i < p.highWater; i++ {
		pt := &p.slots[i]
		if pt.Active {
			pt.Lifetime -= dt
			pt.X += pt.VX * dt
			pt.Y += pt.VY * dt
			pt.Z += pt.VZ * dt
			if pt.Lifetime <= 0 {
				pt.Active = false
			}
		}
		if pt.Active {
			lastActive = i
		} else if i < cursor {
			cursor = i
		}
	}
	p.highWater = lastActive + 1
	if cursor > p.highWater {
		cursor = p.highWater
	}
	p.searchCursor = cursor
}

// Clear retires every particle.
func (p *Pool) Clear() {
	for i := 0; i < p.highWater; i++ {
		p.slots[i].Active = false
	}
	p.searchCursor = 0
	p.highWater = 0
}

// ForEachActive calls visit for every active particle in the working window,
// in slot order. visit must not retain the pointer.
func (p *Pool) ForEachActive(visit func(*Particle)) {
	for i := 0; i < p.highWater; i++ {
		if p.slots[i].Active {
			visit(&p.slots[i])
		}
	}
}

// ActiveCount returns the number of active particles.
func (p *Pool) ActiveCount() int {
	n := 0
	for i := 0; i < p.highWater; i++ {
		if p.slots[i].Active {
			n++
		}
	}
	return n
}
