// Package entity holds the simulated map object, its render-facing visual
// state and the factory that hands out ids.
package entity

import (
	"math"

	"github.com/fractallands/simcore/internal/core/ecs"
	"github.com/fractallands/simcore/internal/particle"
	"github.com/fractallands/simcore/internal/vmath"
)

// Kind classifies an object for collision rules.
type Kind int

const (
	KindMapObject Kind = iota
	KindPlayer
	KindCreature
	KindPlayerProjectile
	KindCreatureProjectile
)

func (k Kind) String() string {
	switch k {
	case KindMapObject:
		return "map_object"
	case KindPlayer:
		return "player"
	case KindCreature:
		return "creature"
	case KindPlayerProjectile:
		return "player_projectile"
	case KindCreatureProjectile:
		return "creature_projectile"
	}
	return "unknown"
}

// IsProjectile reports whether objects of this kind are hit-tested.
func (k Kind) IsProjectile() bool {
	return k == KindPlayerProjectile || k == KindCreatureProjectile
}

// CanHit reports whether a projectile of kind proj may damage a target of
// kind target. Friendly fire is decided by kind alone: player projectiles
// never hit the player and creature projectiles never hit creatures.
// Non-projectile kinds never hit anything.
func CanHit(proj, target Kind) bool {
	switch proj {
	case KindPlayerProjectile:
		return target != KindPlayer
	case KindCreatureProjectile:
		return target != KindCreature
	}
	return false
}

// MoveEndAction is evaluated once, when a timed move runs out.
type MoveEndAction int

const (
	MoveEndNone MoveEndAction = iota
	MoveEndRemove
)

// UpdateAction is evaluated every tick.
type UpdateAction int

const (
	UpdateNone UpdateAction = iota
	UpdateRemove
	UpdateEmitDriveParticles
)

// Attributes are the gameplay stats of an object.
type Attributes struct {
	BaseSpeed float64
	HitPoints int
	Kind      Kind
}

// Object is one simulated entity on a map layer. Positions are world
// coordinates; the renderer compresses Y 2:1 when projecting to the screen.
type Object struct {
	ID       ecs.EntityID
	Position vmath.Vec2
	Velocity vmath.Vec2
	// MoveTimeLeft is the remaining duration of the current linear move.
	// Non-positive means stopped; it is not clamped to zero.
	MoveTimeLeft float64
	Scale        float64

	MoveEndAction  MoveEndAction
	UpdateAction   UpdateAction
	AnimationTimer float64

	Visual     Visual
	Attributes Attributes

	// Item is an opaque carried item payload.
	Item any
}

// Moving reports whether the object still has move time left.
func (o *Object) Moving() bool { return o.MoveTimeLeft > 0 }

// Step integrates one tick of motion and returns the move time left before
// and after the step.
func (o *Object) Step(dt float64) (before, after float64) {
	before = o.MoveTimeLeft
	if before > 0 {
		o.Position = o.Position.Add(o.Velocity.Scale(dt))
		o.MoveTimeLeft -= dt
	}
	return before, o.MoveTimeLeft
}

// Stop cancels the current move.
func (o *Object) Stop() {
	o.MoveTimeLeft = 0
	o.Velocity = vmath.Vec2{}
}

// Visual is the render-facing state of an object.
type Visual struct {
	BaseSpriteID    int
	CurrentSpriteID int
	Frames          int
	TilesetID       int
	Height          float64
	Color           [4]float32
	Blend           Blend
	Particles       *particle.Pool
}

// Orient maps a direction to one of Frames facings. Frame 0 faces +X and the
// frame index grows with the direction angle. A zero direction yields 0.
func (v *Visual) Orient(dx, dy float64) int {
	frames := v.Frames
	if frames <= 0 || (dx == 0 && dy == 0) {
		return 0
	}
	r := math.Atan2(dy, dx) + math.Pi + math.Pi*2/float64(frames)
	f := r*float64(frames)/(math.Pi*2) - 0.5
	result := (frames/2 + int(math.Floor(f))) % frames
	if result < 0 {
		result += frames
	}
	return result
}

// Face points the current sprite along the given direction.
func (v *Visual) Face(dir vmath.Vec2) {
	v.CurrentSpriteID = v.BaseSpriteID + v.Orient(dir.X, dir.Y)
}
