package world

import (
	"fmt"

	"github.com/fractallands/simcore/internal/anim"
	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/entity"
	"github.com/fractallands/simcore/internal/vmath"
	"go.uber.org/zap"
)

// Render layers. Only ground, object and cloud are persisted; the remaining
// layers are scratch space for editor tools.
const (
	LayerGround = 0
	LayerObject = 1
	LayerCloud  = 2
	LayerCount  = 7
)

// DefaultPlayerStart is where a fresh map places the player.
var DefaultPlayerStart = vmath.V(1000, 1000)

// Header names a map and the images the renderer draws under and behind it.
type Header struct {
	Name          string
	GroundImage   string
	BackdropImage string
}

// Transition sends the player to another map when they walk within Radius
// of Origin.
type Transition struct {
	Origin      vmath.Vec2
	Radius      float64
	Destination int
}

// Map owns every live entity of the current map, the animation side table
// and the transition triggers. It is accessed only from the game loop
// goroutine, so no locks are taken.
type Map struct {
	Header

	ecs        *ecs.World
	factory    *entity.Factory
	layers     [LayerCount]*ecs.Store[entity.Object]
	animations *ecs.Store[anim.Behavior]

	transitions []Transition
	playerID    ecs.EntityID
	selection   selection

	log *zap.Logger
}

type selection struct {
	active bool
	layer  int
	id     ecs.EntityID
}

// New creates an empty map holding only the player. particleCapacity sizes
// every entity's particle pool (zero selects the default).
func New(h Header, particleCapacity int, log *zap.Logger) *Map {
	if log == nil {
		log = zap.NewNop()
	}
	w := ecs.NewWorld()
	m := &Map{
		Header:     h,
		ecs:        w,
		factory:    entity.NewFactory(w.IDs(), particleCapacity),
		animations: ecs.NewStore[anim.Behavior](),
		log:        log,
	}
	for i := range m.layers {
		m.layers[i] = ecs.NewStore[entity.Object]()
		w.Registry().Register(m.layers[i])
	}
	w.Registry().Register(m.animations)

	player := m.factory.NewPlayer(DefaultPlayerStart)
	m.playerID = player.ID
	m.layers[LayerObject].Set(player.ID, player)
	return m
}

func (m *Map) Factory() *entity.Factory { return m.factory }

// Layer returns the store backing the given layer. It panics on an invalid
// index.
func (m *Map) Layer(layer int) *ecs.Store[entity.Object] {
	if layer < 0 || layer >= LayerCount {
		panic(fmt.Sprintf("world: invalid layer %d", layer))
	}
	return m.layers[layer]
}

// Objects returns the object layer, the only layer the simulation updates.
func (m *Map) Objects() *ecs.Store[entity.Object] { return m.layers[LayerObject] }

// Insert files o into the given layer.
func (m *Map) Insert(layer int, o *entity.Object) {
	m.Layer(layer).Set(o.ID, o)
}

// Object looks up an entity of the object layer.
func (m *Map) Object(id ecs.EntityID) (*entity.Object, bool) {
	return m.layers[LayerObject].Get(id)
}

func (m *Map) PlayerID() ecs.EntityID { return m.playerID }

// Player returns the player entity. A missing player means the store is
// corrupt, so it panics.
func (m *Map) Player() *entity.Object {
	p, ok := m.layers[LayerObject].Get(m.playerID)
	if !ok {
		panic(fmt.Sprintf("world: player %d missing from object layer", m.playerID))
	}
	return p
}

func (m *Map) PlayerPosition() vmath.Vec2 { return m.Player().Position }

// SetAnimation attaches b to the entity, replacing any previous behavior.
func (m *Map) SetAnimation(id ecs.EntityID, b anim.Behavior) {
	m.animations.Set(id, &b)
}

// Animation returns the behavior attached to the entity.
func (m *Map) Animation(id ecs.EntityID) (anim.Behavior, bool) {
	b, ok := m.animations.Get(id)
	if !ok {
		return anim.Behavior{}, false
	}
	return *b, true
}

// QueueRemoval defers removing the entity until FlushRemovals. The player
// is never removed; queuing it is a no-op.
func (m *Map) QueueRemoval(id ecs.EntityID) {
	if id == m.playerID {
		return
	}
	m.ecs.MarkForDestruction(id)
}

// RemovalPending reports whether the entity is queued for removal.
func (m *Map) RemovalPending(id ecs.EntityID) bool { return m.ecs.Pending(id) }

// FlushRemovals drops every queued entity from all layers and the animation
// table and returns the ids that were queued.
func (m *Map) FlushRemovals() []ecs.EntityID {
	return m.ecs.FlushDestroyQueue()
}

// FindNearest returns the entity of layer closest to point and strictly
// within radius, skipping ignore. Distances are compared squared. Ties go
// to the lowest id, the first one visited.
func (m *Map) FindNearest(layer int, point vmath.Vec2, radius float64, ignore ecs.EntityID) (ecs.EntityID, bool) {
	best := radius * radius
	var bestID ecs.EntityID
	found := false
	m.Layer(layer).Each(func(id ecs.EntityID, o *entity.Object) {
		if id == ignore {
			return
		}
		if d2 := o.Position.DistSq(point); d2 < best {
			best = d2
			bestID = id
			found = true
		}
	})
	return bestID, found
}

// Count returns the number of entities per layer.
func (m *Map) Count() [LayerCount]int {
	var out [LayerCount]int
	for i, l := range m.layers {
		out[i] = l.Len()
	}
	return out
}
